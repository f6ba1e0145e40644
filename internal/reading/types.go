package reading

import (
	"encoding/json"
	"time"
)

// Reading is one stored measurement.
type Reading struct {
	ID        string
	SensorID  string
	Value     float64
	Time      time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SensorRef is the sensor summary embedded in a View.
type SensorRef struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Unit  string `json:"unit"`
	Model string `json:"model"`
}

// View is a reading with its sensor expanded.
type View struct {
	ID        string    `json:"id"`
	SensorID  string    `json:"sensorId"`
	Sensor    SensorRef `json:"sensor"`
	Value     float64   `json:"value"`
	Time      time.Time `json:"time"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateInput is the payload for recording a reading. Time defaults to now.
type CreateInput struct {
	SensorID string     `json:"sensorId"`
	Value    *float64   `json:"value"`
	Time     *time.Time `json:"time"`
}

// Patch holds the fields of a partial update. SensorID exists only to
// detect the key: any value, null included, is rejected.
type Patch struct {
	SensorID json.RawMessage `json:"sensorId,omitempty"`
	Value    *float64        `json:"value"`
	Time     *time.Time      `json:"time"`
}

// Summary is returned when a reading is deleted.
type Summary struct {
	ID       string    `json:"id"`
	SensorID string    `json:"sensorId"`
	Time     time.Time `json:"time"`
}

// Summary returns the delete summary of r.
func (r *Reading) Summary() Summary {
	return Summary{ID: r.ID, SensorID: r.SensorID, Time: r.Time}
}

// Stats aggregates the readings of one sensor. Min, Max, Avg, First and
// Last are nil when Count is zero.
type Stats struct {
	SensorID string     `json:"sensorId"`
	Count    int        `json:"count"`
	Min      *float64   `json:"min"`
	Max      *float64   `json:"max"`
	Avg      *float64   `json:"avg"`
	First    *time.Time `json:"first"`
	Last     *time.Time `json:"last"`
}
