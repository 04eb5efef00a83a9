// Package server exposes the catalog over HTTP with gin.
//
// List endpoints answer 503 until the first load has succeeded. Filter and
// selection state live in the catalog and are shared by all clients, the
// same way a single browser tab owns its store. Reloads are rate limited.
package server
