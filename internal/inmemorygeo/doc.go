// Package inmemorygeo provides a thread-safe arena implementation of the
// geostore.Store interface.
package inmemorygeo
