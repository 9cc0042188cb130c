package simlog

import "strconv"

// TransferSet holds the two fixed series of a transfer-manager log.
// Both series are always present, possibly empty.
type TransferSet struct {
	series [numTransferKinds]Series
}

func newTransferSet() *TransferSet {
	ts := &TransferSet{}
	for k := TransferKind(0); k < numTransferKinds; k++ {
		ts.series[k] = NewSeries(k.String())
	}
	return ts
}

// Series returns the series for k; ok is false for an undeclared kind.
func (ts *TransferSet) Series(k TransferKind) (Series, bool) {
	if !k.Valid() {
		return Series{}, false
	}
	return ts.series[k], true
}

// Set returns the series as an ordered set keyed by event id.
func (ts *TransferSet) Set() *SeriesSet {
	ss := NewSeriesSet()
	for k := TransferKind(0); k < numTransferKinds; k++ {
		key := strconv.Itoa(int(k))
		ss.Declare(key, k.String())
		s, _ := ss.Get(key)
		*s = ts.series[k]
	}
	return ss
}

// DemuxTransfers routes transfer events by event id. x is the raw tick.
func DemuxTransfers(events []Event) (*TransferSet, error) {
	ts := newTransferSet()
	for _, ev := range events {
		k, ok := ParseTransferKind(ev.Tag)
		if !ok {
			return nil, &MalformedRecordError{Index: ev.Offset, Token: ev.Tag, Reason: "event id outside {0, 1}"}
		}
		ts.series[k].Append(float64(ev.Tick), ev.Value)
	}
	return ts, nil
}

// DemuxBilling routes billing events into one series per header id, in
// header order. Ids that never occur in the body stay present and empty.
func DemuxBilling(header *SeriesHeader, events []Event) (*SeriesSet, error) {
	ss := NewSeriesSet()
	for _, id := range header.IDs {
		ss.Declare(id, header.Names[id])
	}
	for _, ev := range events {
		s, ok := ss.Get(ev.Tag)
		if !ok {
			return nil, &MalformedRecordError{Index: ev.Offset, Token: ev.Tag, Reason: "bucket id not declared in header"}
		}
		s.Append(float64(ev.Tick), ev.Value)
	}
	return ss, nil
}
