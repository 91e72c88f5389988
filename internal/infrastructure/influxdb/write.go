package influxdb

import (
	"fmt"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteTimelineWindow records one compiled instruction window.
//
// The write is non-blocking; data is batched and sent asynchronously.
// Protocol and component names become tags so dashboards can group and
// filter; the window boundaries and parameters become fields.
//
// Parameters:
//   - protocolName: The compiled protocol's name
//   - componentName: The component the window addresses
//   - start: Window start offset in seconds from the start of the run
//   - stop: Window stop offset in seconds
//   - params: The attribute values held during the window
func (c *Client) WriteTimelineWindow(protocolName, componentName string, start, stop float64, params map[string]any) {
	if !c.IsConnected() {
		return
	}

	fields := fieldsFromParams(params)
	fields["start_seconds"] = start
	fields["stop_seconds"] = stop

	point := write.NewPoint(
		"protocol_timeline",
		map[string]string{
			"protocol":  protocolName,
			"component": componentName,
		},
		fields,
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteAdvisoryCount records how many advisories a compilation produced.
func (c *Client) WriteAdvisoryCount(protocolName string, count int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"protocol_compile",
		map[string]string{"protocol": protocolName},
		map[string]any{"advisories": count},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// fieldsFromParams converts instruction parameters to InfluxDB field
// values. Numerics and booleans pass through; everything else (quantity
// expression strings included) is stored as its string form, prefixed so
// parameter fields never collide with the window boundary fields.
func fieldsFromParams(params map[string]any) map[string]any {
	fields := make(map[string]any, len(params)+2)
	for k, v := range params {
		key := "param_" + k
		switch val := v.(type) {
		case float64, float32, int, int64, bool:
			fields[key] = val
		case string:
			fields[key] = val
		default:
			fields[key] = fmt.Sprintf("%v", val)
		}
	}
	return fields
}
