// Package device manages installed IoT devices and their links to owners,
// zones and sensors.
//
// # Architecture
//
//	┌──────────────────────────────────────────────────────────────┐
//	│                            Service                            │
//	│  validate ──▶ integrity.Guard ──▶ Repository ──▶ Publisher    │
//	└──────────────────────────────────────────────────────────────┘
//	                                       │
//	                                       ▼
//	          devices ──┬── users   (owner_id, ON DELETE RESTRICT)
//	                    ├── zones   (zone_id,  ON DELETE RESTRICT)
//	                    └── device_sensors ── sensors (ordered)
//
// Reads return View, a device with its owner, zone and sensors joined in
// as summaries. Writes take Device, which carries bare ids.
//
// # Integrity
//
// Owner, zone and every sensor id are resolved through the Guard before a
// create or update touches the store. A device with sensors still attached
// cannot be deleted; detach them with an update first:
//
//	empty := []string{}
//	svc.Update(ctx, id, device.Patch{Sensors: &empty})
//	svc.Delete(ctx, id)
package device
