package simlog

import (
	"math"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Delimiter separates tokens in the simulator's delimited logs.
const Delimiter byte = '|'

const (
	transferArity = 3
	billingArity  = 3
	trafficArity  = 2
)

// Event is one decoded (tag, tick, value) record.
// Value is exact only up to 2^53; RawValue keeps the value token as read, so
// EncodeEvents reproduces large transfer counts unchanged.
// Offset is the token index of the record's first token in the source stream.
type Event struct {
	Tag      string
	Tick     int64
	Value    float64
	RawValue string
	Offset   int
}

// TrafficEvent is one (tick, delta) record of the sim traffic log.
type TrafficEvent struct {
	Tick  int64
	Delta int64
}

// TransferKind selects one of the two series of a transfer-manager log.
type TransferKind int

const (
	// ActiveTransfers counts transfers in flight (event id 0).
	ActiveTransfers TransferKind = iota
	// TransfersToCreate counts transfers queued for creation (event id 1).
	TransfersToCreate

	numTransferKinds
)

var transferKindNames = [numTransferKinds]string{
	ActiveTransfers:   "NumActiveTransfers",
	TransfersToCreate: "NumTransfersToCreate",
}

// Valid reports whether k is one of the declared transfer kinds.
func (k TransferKind) Valid() bool {
	return k >= 0 && k < numTransferKinds
}

func (k TransferKind) String() string {
	if !k.Valid() {
		return "TransferKind(" + strconv.Itoa(int(k)) + ")"
	}
	return transferKindNames[k]
}

// ParseTransferKind maps an event id token to its transfer kind.
func ParseTransferKind(tag string) (TransferKind, bool) {
	id, err := strconv.Atoi(tag)
	if err != nil {
		return 0, false
	}
	k := TransferKind(id)
	return k, k.Valid()
}

// Tokenize splits data on delim into whitespace-trimmed tokens.
// The empty token left behind by a trailing delimiter is dropped.
func Tokenize(data []byte, delim byte) []string {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil
	}
	tokens := strings.Split(trimmed, string(delim))
	for i := range tokens {
		tokens[i] = strings.TrimSpace(tokens[i])
	}
	if tokens[len(tokens)-1] == "" {
		tokens = tokens[:len(tokens)-1]
	}
	return tokens
}

// completeRecords returns how many full records of the given arity the tokens hold.
// A truncated final record (the simulator was stopped mid-write) is dropped with a warning.
func completeRecords(tokens []string, arity int, format string) int {
	if rem := len(tokens) % arity; rem != 0 {
		logrus.Warnf("%s log: dropped %d trailing token(s) of a truncated record", format, rem)
	}
	return len(tokens) / arity
}

func parseTick(tokens []string, idx int) (int64, error) {
	v, err := strconv.ParseInt(tokens[idx], 10, 64)
	if err != nil {
		return 0, &MalformedRecordError{Index: idx, Token: tokens[idx], Reason: "timestamp is not an integer"}
	}
	return v, nil
}

func parseInteger(tokens []string, idx int, what string) (int64, error) {
	v, err := strconv.ParseInt(tokens[idx], 10, 64)
	if err != nil {
		return 0, &MalformedRecordError{Index: idx, Token: tokens[idx], Reason: what + " is not an integer"}
	}
	return v, nil
}

func parseFinite(tokens []string, idx int, what string) (float64, error) {
	v, err := strconv.ParseFloat(tokens[idx], 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &MalformedRecordError{Index: idx, Token: tokens[idx], Reason: what + " is not a finite number"}
	}
	return v, nil
}

// DecodeTransferLog decodes `eventId|tick|count|...` into events.
// Event ids outside {0, 1} fail with *MalformedRecordError.
func DecodeTransferLog(data []byte) ([]Event, error) {
	tokens := Tokenize(data, Delimiter)
	n := completeRecords(tokens, transferArity, "transfer")
	events := make([]Event, 0, n)
	for r := 0; r < n; r++ {
		off := r * transferArity
		if _, ok := ParseTransferKind(tokens[off]); !ok {
			return nil, &MalformedRecordError{Index: off, Token: tokens[off], Reason: "event id outside {0, 1}"}
		}
		tick, err := parseTick(tokens, off+1)
		if err != nil {
			return nil, err
		}
		count, err := parseInteger(tokens, off+2, "count")
		if err != nil {
			return nil, err
		}
		events = append(events, Event{Tag: tokens[off], Tick: tick, Value: float64(count), RawValue: tokens[off+2], Offset: off})
	}
	return events, nil
}

// DecodeTrafficLog decodes `tick|deltaBytes|...` into traffic events.
func DecodeTrafficLog(data []byte) ([]TrafficEvent, error) {
	tokens := Tokenize(data, Delimiter)
	n := completeRecords(tokens, trafficArity, "traffic")
	events := make([]TrafficEvent, 0, n)
	for r := 0; r < n; r++ {
		off := r * trafficArity
		tick, err := parseTick(tokens, off)
		if err != nil {
			return nil, err
		}
		delta, err := parseInteger(tokens, off+1, "delta")
		if err != nil {
			return nil, err
		}
		events = append(events, TrafficEvent{Tick: tick, Delta: delta})
	}
	return events, nil
}
