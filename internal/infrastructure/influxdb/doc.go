// Package influxdb mirrors sensor readings into InfluxDB.
//
// SQLite stays the system of record; InfluxDB gets a copy of every reading
// as a sensor_readings point (tags sensor_id, sensor_type, unit; field value)
// for dashboards and long-range queries.
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if errors.Is(err, influxdb.ErrDisabled) {
//	    // run without the mirror
//	}
//	defer client.Close()
//
//	client.WriteReading(influxdb.Reading{SensorID: id, SensorType: "temperature", Unit: "°C", Value: 21.5, Time: t})
//
// Writes are non-blocking and batched per batch_size and flush_interval.
// Asynchronous failures are delivered to the SetOnError callback.
package influxdb
