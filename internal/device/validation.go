package device

import (
	"strings"
	"time"

	"github.com/nerrad567/iot-inventory/internal/integrity"
)

// normalize trims text fields and collapses repeated sensor ids, keeping
// first-seen order.
func (d *Device) normalize() {
	d.SerialNumber = strings.TrimSpace(d.SerialNumber)
	d.Model = strings.TrimSpace(d.Model)
	d.OwnerID = strings.TrimSpace(d.OwnerID)
	d.ZoneID = strings.TrimSpace(d.ZoneID)
	d.SensorIDs = dedupe(d.SensorIDs)
}

func (d *Device) validate() error {
	v := integrity.NewValidationError()

	if d.SerialNumber == "" {
		v.Add("serialNumber", "serialNumber is required")
	}
	if d.Model == "" {
		v.Add("model", "model is required")
	}
	switch {
	case d.Status == "":
		v.Add("status", "status is required")
	case !d.Status.IsValid():
		v.Add("status", invalidStatus(d.Status))
	}
	if d.OwnerID == "" {
		v.Add("ownerId", "ownerId is required")
	}
	if d.ZoneID == "" {
		v.Add("zoneId", "zoneId is required")
	}
	for _, id := range d.SensorIDs {
		if strings.TrimSpace(id) == "" {
			v.Add("sensors", "sensor ids must not be empty")
			break
		}
	}

	return v.Err()
}

// apply copies p onto d and reports which references changed, so the guard
// only resolves those.
func (d *Device) apply(p Patch) (ownerChanged, zoneChanged, sensorsChanged bool) {
	if p.SerialNumber != nil {
		d.SerialNumber = *p.SerialNumber
	}
	if p.Model != nil {
		d.Model = *p.Model
	}
	if p.Status != nil {
		d.Status = *p.Status
	}
	if p.InstalledAt != nil {
		d.InstalledAt = p.InstalledAt.UTC().Truncate(time.Millisecond)
	}
	if p.OwnerID != nil {
		ownerChanged = *p.OwnerID != d.OwnerID
		d.OwnerID = *p.OwnerID
	}
	if p.ZoneID != nil {
		zoneChanged = *p.ZoneID != d.ZoneID
		d.ZoneID = *p.ZoneID
	}
	if p.Sensors != nil {
		d.SensorIDs = *p.Sensors
		sensorsChanged = true
	}
	d.normalize()
	return ownerChanged, zoneChanged, sensorsChanged
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
