package simlog

import (
	"bytes"
	"strings"
)

// BodySentinel is the line that ends the header block of a billing log.
const BodySentinel = "body"

// SeriesHeader maps billing bucket ids to display names in declaration order.
type SeriesHeader struct {
	IDs   []string
	Names map[string]string
}

// Has reports whether id was declared.
func (h *SeriesHeader) Has(id string) bool {
	_, ok := h.Names[id]
	return ok
}

// SplitBillingLog separates the header block from the body at the first
// `body` line. The sentinel line itself belongs to neither part.
func SplitBillingLog(data []byte) (header, body []byte, err error) {
	pos := 0
	for pos < len(data) {
		line := data[pos:]
		next := len(data)
		if end := bytes.IndexByte(line, '\n'); end >= 0 {
			line = line[:end]
			next = pos + end + 1
		}
		if strings.TrimSpace(string(line)) == BodySentinel {
			return data[:pos], data[next:], nil
		}
		pos = next
	}
	return nil, nil, ErrMissingBodySentinel
}

// ParseBillingHeader parses `<id>:<displayName>` lines. Blank lines are
// ignored and only the first `:` separates id from name. The Index of a
// returned *MalformedRecordError is the 0-based header line.
func ParseBillingHeader(header []byte) (*SeriesHeader, error) {
	h := &SeriesHeader{IDs: make([]string, 0), Names: make(map[string]string)}
	for i, raw := range strings.Split(string(header), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		id, name, found := strings.Cut(line, ":")
		id = strings.TrimSpace(id)
		if !found || id == "" {
			return nil, &MalformedRecordError{Index: i, Token: line, Reason: "header line is not <id>:<name>"}
		}
		if h.Has(id) {
			return nil, &MalformedRecordError{Index: i, Token: line, Reason: "duplicate series id"}
		}
		h.IDs = append(h.IDs, id)
		h.Names[id] = strings.TrimSpace(name)
	}
	return h, nil
}

// DecodeBillingBody decodes `bucketId|tick|volume|...`. Bucket ids missing from
// the header fail with *MalformedRecordError.
func DecodeBillingBody(body []byte, header *SeriesHeader) ([]Event, error) {
	tokens := Tokenize(body, Delimiter)
	n := completeRecords(tokens, billingArity, "billing")
	events := make([]Event, 0, n)
	for r := 0; r < n; r++ {
		off := r * billingArity
		if !header.Has(tokens[off]) {
			return nil, &MalformedRecordError{Index: off, Token: tokens[off], Reason: "bucket id not declared in header"}
		}
		tick, err := parseTick(tokens, off+1)
		if err != nil {
			return nil, err
		}
		volume, err := parseFinite(tokens, off+2, "volume")
		if err != nil {
			return nil, err
		}
		events = append(events, Event{Tag: tokens[off], Tick: tick, Value: volume, RawValue: tokens[off+2], Offset: off})
	}
	return events, nil
}

// DecodeBillingLog runs both phases: header until the sentinel, then the body.
func DecodeBillingLog(data []byte) (*SeriesHeader, []Event, error) {
	head, body, err := SplitBillingLog(data)
	if err != nil {
		return nil, nil, err
	}
	header, err := ParseBillingHeader(head)
	if err != nil {
		return nil, nil, err
	}
	events, err := DecodeBillingBody(body, header)
	if err != nil {
		return nil, nil, err
	}
	return header, events, nil
}
