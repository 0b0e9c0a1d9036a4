package influxdb

import (
	"fmt"
	"strconv"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement is the InfluxDB measurement holding characteristic samples.
const Measurement = "characteristic_values"

// Field keys. Each value kind gets its own field so a series never mixes
// field types.
const (
	FieldValue = "value" // numbers, as float
	FieldState = "state" // booleans
	FieldText  = "text"  // everything else
)

// Sample is one characteristic value change.
type Sample struct {
	AID            uint64
	Accessory      string
	Service        string
	Characteristic string
	Source         string
	Value          any
	Time           time.Time
}

// WriteSample queues s for the next batch. It is a no-op when the client is
// not connected.
//
// Example:
//
//	client.WriteSample(influxdb.Sample{
//	    AID: 2, Accessory: "Desk Lamp", Service: "Lightbulb",
//	    Characteristic: "Brightness", Source: "mqtt", Value: int64(80),
//	})
func (c *Client) WriteSample(s Sample) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(SamplePoint(s))
}

// SamplePoint converts s into a point. A zero Time means now.
func SamplePoint(s Sample) *write.Point {
	ts := s.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	tags := map[string]string{
		"aid":            strconv.FormatUint(s.AID, 10),
		"accessory":      s.Accessory,
		"service":        s.Service,
		"characteristic": s.Characteristic,
	}
	if s.Source != "" {
		tags["source"] = s.Source
	}

	return write.NewPoint(Measurement, tags, sampleFields(s.Value), ts)
}

func sampleFields(v any) map[string]interface{} {
	switch x := v.(type) {
	case bool:
		return map[string]interface{}{FieldState: x}
	case float64:
		return map[string]interface{}{FieldValue: x}
	case float32:
		return map[string]interface{}{FieldValue: float64(x)}
	case int:
		return map[string]interface{}{FieldValue: float64(x)}
	case int64:
		return map[string]interface{}{FieldValue: float64(x)}
	case uint64:
		return map[string]interface{}{FieldValue: float64(x)}
	case string:
		return map[string]interface{}{FieldText: x}
	case nil:
		return map[string]interface{}{FieldText: ""}
	default:
		return map[string]interface{}{FieldText: fmt.Sprint(x)}
	}
}
