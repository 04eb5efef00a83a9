// Package source provides the HTTP client for the unisport provider API.
//
// The API publishes two collections, course listings and venue locations, each
// wrapped in a {"data": [...]} envelope. Records are kept in their raw form so
// they can be cached verbatim and normalized later by the normalize package.
package source
