// Package influxdb exports characteristic value changes to InfluxDB.
//
// Every sample becomes a point in the characteristic_values measurement,
// tagged with the accessory AID and name, the service and characteristic
// type names, and the source of the change (mqtt or homekit). Numbers are
// written to the "value" field, booleans to "state" and anything else to
// "text".
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.WriteSample(influxdb.Sample{AID: 2, Characteristic: "On", Value: true})
//
// Writes are non-blocking and batched according to batch_size and
// flush_interval. Failures are delivered to the SetOnError callback.
package influxdb
