package device

import (
	"slices"
	"strings"
	"time"
)

// Status is a device's operational state.
type Status string

// Status constants.
const (
	StatusActive      Status = "active"
	StatusMaintenance Status = "maintenance"
	StatusOffline     Status = "offline"
)

// AllStatuses returns every valid status.
func AllStatuses() []Status {
	return []Status{StatusActive, StatusMaintenance, StatusOffline}
}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	return slices.Contains(AllStatuses(), s)
}

// statusNames lists the valid statuses for validation messages.
func statusNames() string {
	names := make([]string, 0, len(AllStatuses()))
	for _, s := range AllStatuses() {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

// invalidStatus is the validation message for an unknown status.
func invalidStatus(s Status) string {
	return string(s) + " is not a valid status (one of " + statusNames() + ")"
}

// Device is the stored form of a device.
type Device struct {
	ID           string
	SerialNumber string
	Model        string
	Status       Status
	InstalledAt  time.Time
	OwnerID      string
	ZoneID       string
	SensorIDs    []string // ordered, no duplicates
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OwnerRef is the owner summary embedded in a View.
type OwnerRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ZoneRef is the zone summary embedded in a View.
type ZoneRef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// SensorRef is a sensor summary embedded in a View.
type SensorRef struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Model string `json:"model"`
}

// View is a device with its references expanded.
type View struct {
	ID           string      `json:"id"`
	SerialNumber string      `json:"serialNumber"`
	Model        string      `json:"model"`
	Status       Status      `json:"status"`
	InstalledAt  time.Time   `json:"installedAt"`
	OwnerID      string      `json:"ownerId"`
	ZoneID       string      `json:"zoneId"`
	Owner        OwnerRef    `json:"owner"`
	Zone         ZoneRef     `json:"zone"`
	Sensors      []SensorRef `json:"sensors"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// CreateInput is the payload for creating a device.
type CreateInput struct {
	SerialNumber string     `json:"serialNumber"`
	Model        string     `json:"model"`
	Status       Status     `json:"status"`
	InstalledAt  *time.Time `json:"installedAt"`
	OwnerID      string     `json:"ownerId"`
	ZoneID       string     `json:"zoneId"`
	Sensors      []string   `json:"sensors"`
}

// Patch holds the fields of a partial update. A non-nil Sensors replaces
// the whole attachment list.
type Patch struct {
	SerialNumber *string    `json:"serialNumber"`
	Model        *string    `json:"model"`
	Status       *Status    `json:"status"`
	InstalledAt  *time.Time `json:"installedAt"`
	OwnerID      *string    `json:"ownerId"`
	ZoneID       *string    `json:"zoneId"`
	Sensors      *[]string  `json:"sensors"`
}

// Summary is returned when a device is deleted.
type Summary struct {
	ID           string `json:"id"`
	SerialNumber string `json:"serialNumber"`
	Model        string `json:"model"`
	OwnerID      string `json:"ownerId"`
	ZoneID       string `json:"zoneId"`
}

// Summary returns the delete summary of d.
func (d *Device) Summary() Summary {
	return Summary{
		ID:           d.ID,
		SerialNumber: d.SerialNumber,
		Model:        d.Model,
		OwnerID:      d.OwnerID,
		ZoneID:       d.ZoneID,
	}
}

// Filter narrows List. Empty fields match everything.
type Filter struct {
	Status Status
	ZoneID string
}
