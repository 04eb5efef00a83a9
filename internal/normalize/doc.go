// Package normalize maps raw provider records onto the course domain model.
//
// Normalization tolerates malformed input: a bad price, an unknown booking
// text, an unmatched venue or a free-text time leaves the corresponding
// optional field empty instead of rejecting the record.
package normalize
