package simlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemuxTransfers_SplitsByKind(t *testing.T) {
	// GIVEN a decoded transfer log with both kinds
	events, err := DecodeTransferLog([]byte("0|1000|5|1|1000|2|0|2000|7|"))
	require.NoError(t, err)

	// WHEN demultiplexed
	ts, err := DemuxTransfers(events)
	require.NoError(t, err)

	// THEN each event id has its own ordered series
	active, ok := ts.Series(ActiveTransfers)
	require.True(t, ok)
	assert.Equal(t, "NumActiveTransfers", active.Name)
	assert.Equal(t, []float64{1000, 2000}, active.X)
	assert.Equal(t, []float64{5, 7}, active.Y)

	toCreate, ok := ts.Series(TransfersToCreate)
	require.True(t, ok)
	assert.Equal(t, "NumTransfersToCreate", toCreate.Name)
	assert.Equal(t, []float64{1000}, toCreate.X)
	assert.Equal(t, []float64{2}, toCreate.Y)
}

func TestDemuxTransfers_NoEvents_BothSeriesPresent(t *testing.T) {
	ts, err := DemuxTransfers(nil)
	require.NoError(t, err)

	set := ts.Set()
	assert.Equal(t, []string{"0", "1"}, set.Keys())
	for _, s := range set.Ordered() {
		assert.Equal(t, 0, s.Len(), "series %s should be empty", s.Name)
		assert.NotNil(t, s.X)
	}
}

func TestDemuxTransfers_UndeclaredKind(t *testing.T) {
	_, err := DemuxTransfers([]Event{{Tag: "7", Tick: 1, Value: 1, Offset: 9}})

	var mre *MalformedRecordError
	require.ErrorAs(t, err, &mre)
	assert.Equal(t, 9, mre.Index)

	ts, err := DemuxTransfers(nil)
	require.NoError(t, err)
	_, ok := ts.Series(TransferKind(5))
	assert.False(t, ok)
}

func TestDemuxBilling_UndeclaredTag(t *testing.T) {
	header := &SeriesHeader{IDs: []string{"1"}, Names: map[string]string{"1": "a"}}

	_, err := DemuxBilling(header, []Event{{Tag: "2", Tick: 1, Value: 1, Offset: 6}})

	var mre *MalformedRecordError
	require.ErrorAs(t, err, &mre)
	assert.Equal(t, 6, mre.Index)
}

func TestSeriesSet_DeclareTwice_KeepsFirst(t *testing.T) {
	ss := NewSeriesSet()
	assert.True(t, ss.Declare("a", "first"))
	assert.False(t, ss.Declare("a", "second"))

	s, _ := ss.Get("a")
	assert.Equal(t, "first", s.Name)
	assert.Equal(t, 1, ss.Len())
}
