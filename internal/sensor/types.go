package sensor

import (
	"slices"
	"strings"
	"time"
)

// Type is the quantity a sensor measures.
type Type string

// Sensor types.
const (
	TypeTemperature Type = "temperature"
	TypeHumidity    Type = "humidity"
	TypeCO2         Type = "co2"
	TypeNoise       Type = "noise"
)

// AllTypes returns every valid sensor type.
func AllTypes() []Type {
	return []Type{TypeTemperature, TypeHumidity, TypeCO2, TypeNoise}
}

// IsValid reports whether t is a known sensor type.
func (t Type) IsValid() bool {
	return slices.Contains(AllTypes(), t)
}

// invalidType is the validation message for an unknown sensor type.
func invalidType(t Type) string {
	names := make([]string, 0, len(AllTypes()))
	for _, known := range AllTypes() {
		names = append(names, string(known))
	}
	return string(t) + " is not a valid sensor type (one of " + strings.Join(names, ", ") + ")"
}

// Sensor is a measuring element that can be attached to devices.
type Sensor struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Unit      string    `json:"unit"`
	Model     string    `json:"model"`
	Location  string    `json:"location"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateInput is the payload for creating a sensor.
type CreateInput struct {
	Type     Type   `json:"type"`
	Unit     string `json:"unit"`
	Model    string `json:"model"`
	Location string `json:"location"`
	IsActive *bool  `json:"isActive"`
}

// Patch holds the fields of a partial update.
type Patch struct {
	Type     *Type   `json:"type"`
	Unit     *string `json:"unit"`
	Model    *string `json:"model"`
	Location *string `json:"location"`
	IsActive *bool   `json:"isActive"`
}

// Summary is returned when a sensor is deleted.
type Summary struct {
	ID    string `json:"id"`
	Type  Type   `json:"type"`
	Model string `json:"model"`
}

// Summary returns the delete summary of s.
func (s *Sensor) Summary() Summary {
	return Summary{ID: s.ID, Type: s.Type, Model: s.Model}
}

// Filter narrows List. Empty fields match everything.
type Filter struct {
	Type       Type
	ActiveOnly bool
}
