package zone

import "time"

// Zone groups devices by location.
type Zone struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateInput is the payload for creating a zone.
type CreateInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    *bool  `json:"isActive"`
}

// Patch holds the fields of a partial update.
type Patch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

// Summary is returned when a zone is deleted.
type Summary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Summary returns the delete summary of z.
func (z *Zone) Summary() Summary {
	return Summary{ID: z.ID, Name: z.Name, Description: z.Description}
}

// Filter narrows List.
type Filter struct {
	ActiveOnly bool
}
