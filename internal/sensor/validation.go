package sensor

import (
	"strings"

	"github.com/nerrad567/iot-inventory/internal/integrity"
)

func (s *Sensor) normalize() {
	s.Type = Type(strings.TrimSpace(string(s.Type)))
	s.Unit = strings.TrimSpace(s.Unit)
	s.Model = strings.TrimSpace(s.Model)
	s.Location = strings.TrimSpace(s.Location)
}

func (s *Sensor) validate() error {
	v := integrity.NewValidationError()

	switch {
	case s.Type == "":
		v.Add("type", "type is required")
	case !s.Type.IsValid():
		v.Add("type", invalidType(s.Type))
	}
	if s.Unit == "" {
		v.Add("unit", "unit is required")
	}
	if s.Model == "" {
		v.Add("model", "model is required")
	}
	if s.Location == "" {
		v.Add("location", "location is required")
	}

	return v.Err()
}

func (s *Sensor) apply(p Patch) {
	if p.Type != nil {
		s.Type = *p.Type
	}
	if p.Unit != nil {
		s.Unit = *p.Unit
	}
	if p.Model != nil {
		s.Model = *p.Model
	}
	if p.Location != nil {
		s.Location = *p.Location
	}
	if p.IsActive != nil {
		s.IsActive = *p.IsActive
	}
	s.normalize()
}
