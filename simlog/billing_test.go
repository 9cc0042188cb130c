package simlog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const billingLog = "1:europe-west1\n2:us-central1\n3:asia-east1\nbody\n1|100|1.5|2|100|2.25|1|200|3|"

func TestSplitBillingLog_SeparatesPhasesAtSentinel(t *testing.T) {
	head, body, err := SplitBillingLog([]byte(billingLog))
	require.NoError(t, err)
	assert.Equal(t, "1:europe-west1\n2:us-central1\n3:asia-east1\n", string(head))
	assert.Equal(t, "1|100|1.5|2|100|2.25|1|200|3|", string(body))
}

func TestSplitBillingLog_NoSentinel(t *testing.T) {
	_, _, err := SplitBillingLog([]byte("1:a\n2:b\n1|100|1|"))
	assert.True(t, errors.Is(err, ErrMissingBodySentinel))
}

func TestSplitBillingLog_SentinelWithCRLF(t *testing.T) {
	head, body, err := SplitBillingLog([]byte("1:a\r\nbody\r\n1|5|2|"))
	require.NoError(t, err)
	assert.Equal(t, "1:a\r\n", string(head))
	assert.Equal(t, "1|5|2|", string(body))
}

func TestParseBillingHeader_KeepsDeclarationOrder(t *testing.T) {
	h, err := ParseBillingHeader([]byte("b:Bucket B\na:Bucket A\n\nc:Region: C\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, h.IDs)
	assert.Equal(t, "Region: C", h.Names["c"], "only the first colon separates id from name")
}

func TestParseBillingHeader_LineWithoutColon_IsMalformed(t *testing.T) {
	_, err := ParseBillingHeader([]byte("1:a\nbroken\n"))

	var mre *MalformedRecordError
	require.ErrorAs(t, err, &mre)
	assert.Equal(t, 1, mre.Index)
}

func TestParseBillingHeader_DuplicateID_IsMalformed(t *testing.T) {
	_, err := ParseBillingHeader([]byte("1:a\n1:b\n"))

	var mre *MalformedRecordError
	require.ErrorAs(t, err, &mre)
	assert.Contains(t, mre.Reason, "duplicate")
}

func TestDecodeBillingBody_UndeclaredBucket_IsMalformed(t *testing.T) {
	header := &SeriesHeader{IDs: []string{"1"}, Names: map[string]string{"1": "a"}}

	_, err := DecodeBillingBody([]byte("1|100|1.5|9|100|2|"), header)

	var mre *MalformedRecordError
	require.ErrorAs(t, err, &mre)
	assert.Equal(t, 3, mre.Index)
	assert.Equal(t, "9", mre.Token)
}

func TestDecodeBillingBody_NaNVolume_IsMalformed(t *testing.T) {
	header := &SeriesHeader{IDs: []string{"1"}, Names: map[string]string{"1": "a"}}

	_, err := DecodeBillingBody([]byte("1|100|NaN|"), header)

	var mre *MalformedRecordError
	require.ErrorAs(t, err, &mre)
	assert.Equal(t, 2, mre.Index)
}

func TestDecodeBillingLog_HeaderIDsWithoutBodyStayPresent(t *testing.T) {
	// GIVEN a billing log whose third bucket never appears in the body
	header, events, err := DecodeBillingLog([]byte(billingLog))
	require.NoError(t, err)

	// WHEN demultiplexed
	set, err := DemuxBilling(header, events)
	require.NoError(t, err)

	// THEN every declared id is a key, in header order
	assert.Equal(t, []string{"1", "2", "3"}, set.Keys())

	eu, _ := set.Get("1")
	assert.Equal(t, "europe-west1", eu.Name)
	assert.Equal(t, []float64{100, 200}, eu.X)
	assert.Equal(t, []float64{1.5, 3}, eu.Y)

	// AND the unused bucket is an empty series, not a missing one
	asia, ok := set.Get("3")
	require.True(t, ok)
	assert.Equal(t, "asia-east1", asia.Name)
	assert.Equal(t, 0, asia.Len())
}

func TestDecodeBillingLog_LastRecordKept(t *testing.T) {
	header, events, err := DecodeBillingLog([]byte("1:a\nbody\n1|100|1|1|200|2|"))
	require.NoError(t, err)
	assert.Len(t, header.IDs, 1)
	assert.Len(t, events, 2)
}
