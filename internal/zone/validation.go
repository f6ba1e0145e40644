package zone

import (
	"strings"

	"github.com/nerrad567/iot-inventory/internal/integrity"
)

func (z *Zone) validate() error {
	v := integrity.NewValidationError()
	if z.Name == "" {
		v.Add("name", "name is required")
	}
	return v.Err()
}

func (z *Zone) apply(p Patch) {
	if p.Name != nil {
		z.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		z.Description = strings.TrimSpace(*p.Description)
	}
	if p.IsActive != nil {
		z.IsActive = *p.IsActive
	}
}
