// Package cli implements the command-line interface for unisport.
//
// The cli package provides the Cobra-based CLI for browsing the course
// catalog (courses, events, locations), exporting a course calendar,
// clearing the cached snapshot and running the HTTP API. Output is text or
// JSON; lists can be filtered, sorted and paginated. It wires configuration,
// the snapshot store, the cache gateway and the catalog together.
package cli
