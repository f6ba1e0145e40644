// Package integrity holds the inventory's error taxonomy and the
// referential-integrity Guard.
//
// The Guard depends only on narrow read interfaces (UserLookup, ZoneLookup,
// SensorLookup, DeviceCounter, ReadingCounter) that the entity repositories
// implement. Services call it synchronously before touching the store:
//
//	if err := guard.CheckZoneDelete(ctx, id); err != nil {
//	    return nil, err // *DependentsExistError
//	}
//
// The API layer maps each error type to an HTTP status with errors.Is and
// errors.As.
package integrity
