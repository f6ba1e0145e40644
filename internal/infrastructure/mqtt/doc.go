// Package mqtt publishes inventory events to an MQTT broker.
//
// The service is a publisher only. Every entity mutation is published to
// {prefix}/events/{entity}/{action}; the latest reading of each sensor is
// retained on {prefix}/sensors/{id}/latest. A retained status with a Last
// Will marks the service online or offline on {prefix}/system/status.
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.PublishJSON(client.Topics().Event("zone", "created"), zone, false)
//
// MQTT is optional. When mqtt.enabled is false the client is never created
// and events only reach the other sinks.
package mqtt
