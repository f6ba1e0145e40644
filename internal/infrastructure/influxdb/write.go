package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// ReadingMeasurement is the measurement name for mirrored sensor readings.
const ReadingMeasurement = "sensor_readings"

// Reading is one sensor value to mirror.
type Reading struct {
	SensorID   string
	SensorType string
	Unit       string
	Value      float64
	Time       time.Time
}

// WriteReading queues a reading for the next batch. Non-blocking; failures
// surface through SetOnError. A no-op when not connected.
//
// Example:
//
//	client.WriteReading(influxdb.Reading{SensorID: id, SensorType: "co2", Unit: "ppm", Value: 612, Time: t})
func (c *Client) WriteReading(r Reading) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(readingPoint(r))
}

// WritePointWithTime writes a custom point at a specific timestamp.
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]any, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(write.NewPoint(measurement, tags, fields, timestamp))
}

// readingPoint tags by sensor so queries can group by id or type; the value
// is the only field.
func readingPoint(r Reading) *write.Point {
	tags := map[string]string{
		"sensor_id": r.SensorID,
	}
	if r.SensorType != "" {
		tags["sensor_type"] = r.SensorType
	}
	if r.Unit != "" {
		tags["unit"] = r.Unit
	}

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	return write.NewPoint(ReadingMeasurement, tags, map[string]any{"value": r.Value}, ts)
}
