// Package events carries committed inventory mutations to side channels.
//
// Services publish one Event per create, update or delete after the store
// write succeeds. The Bus hands it to each registered Sink:
//
//   - MQTTSink: {prefix}/events/{entity}/{action}, plus a retained latest
//     reading per sensor
//   - InfluxSink: created readings as sensor_readings points
//   - AuditSink: a row in audit_logs
//   - the API's WebSocket hub: connected clients subscribed to the event type
//
// Sinks never fail the request that produced the event.
package events
