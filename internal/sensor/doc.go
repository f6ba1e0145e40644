// Package sensor manages measuring elements. Only active sensors accept new
// readings, and a sensor with recorded readings cannot be deleted.
package sensor
