// Package cache implements the gateway that supplies raw provider data,
// serving the persisted snapshot while it is fresh and falling back to the
// network otherwise.
package cache
