package mqtt

import "fmt"

// DefaultTopicPrefix is used when the configured prefix is empty.
const DefaultTopicPrefix = "inventory"

// Topics builds the inventory MQTT topic hierarchy under a prefix:
//
//	{prefix}/events/{entity}/{action}   every create, update and delete
//	{prefix}/sensors/{id}/latest        retained last reading per sensor
//	{prefix}/system/status              retained online/offline status (LWT)
type Topics struct {
	Prefix string
}

func (t Topics) prefix() string {
	if t.Prefix == "" {
		return DefaultTopicPrefix
	}
	return t.Prefix
}

// Event returns the topic for an entity lifecycle event.
//
// Example: inventory/events/device/created
func (t Topics) Event(entity, action string) string {
	return fmt.Sprintf("%s/events/%s/%s", t.prefix(), entity, action)
}

// SensorLatest returns the retained topic carrying a sensor's latest reading.
//
// Example: inventory/sensors/3f2c.../latest
func (t Topics) SensorLatest(sensorID string) string {
	return fmt.Sprintf("%s/sensors/%s/latest", t.prefix(), sensorID)
}

// SystemStatus returns the system status topic.
//
// Example: inventory/system/status
func (t Topics) SystemStatus() string {
	return t.prefix() + "/system/status"
}

// AllEvents returns a pattern matching every entity event.
//
// Pattern: inventory/events/#
func (t Topics) AllEvents() string {
	return t.prefix() + "/events/#"
}
