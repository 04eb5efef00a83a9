// Package search provides approximate matching of courses by name,
// description and venue name.
package search
