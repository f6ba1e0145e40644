// Package reading records sensor measurements and answers time-range
// queries over them.
//
// A reading can only be created for an active sensor, and its sensor is
// fixed once recorded. Listings go through Query, which bounds the page
// size and orders by time (newest first by default):
//
//	q, err := reading.ParseQuery(r.URL.Query(), reading.DefaultLimit)
//	if err != nil {
//	    return err // *integrity.ValidationError
//	}
//	views, err := svc.List(ctx, q)
package reading
