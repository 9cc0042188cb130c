package simlog

import (
	"bytes"
	"strconv"
)

// EncodeEvents writes events back in the simulator's own layout,
// `tag|tick|value|` per record including the trailing delimiter.
// RawValue is written as is when set; otherwise Value is formatted.
func EncodeEvents(events []Event, delim byte) []byte {
	var buf bytes.Buffer
	for _, ev := range events {
		buf.WriteString(ev.Tag)
		buf.WriteByte(delim)
		buf.WriteString(strconv.FormatInt(ev.Tick, 10))
		buf.WriteByte(delim)
		if ev.RawValue != "" {
			buf.WriteString(ev.RawValue)
		} else {
			buf.WriteString(strconv.FormatFloat(ev.Value, 'f', -1, 64))
		}
		buf.WriteByte(delim)
	}
	return buf.Bytes()
}

// EncodeTraffic writes traffic events as `tick|delta|` records.
func EncodeTraffic(events []TrafficEvent, delim byte) []byte {
	var buf bytes.Buffer
	for _, ev := range events {
		buf.WriteString(strconv.FormatInt(ev.Tick, 10))
		buf.WriteByte(delim)
		buf.WriteString(strconv.FormatInt(ev.Delta, 10))
		buf.WriteByte(delim)
	}
	return buf.Bytes()
}
