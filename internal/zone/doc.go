// Package zone manages the physical or logical areas devices are installed
// in. Zone names are unique, and a zone that still holds devices cannot be
// deleted.
package zone
