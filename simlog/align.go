package simlog

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReferenceHeaderLines is the number of leading lines of a reference traffic
// file that precede the data rows. Their content is not validated.
const ReferenceHeaderLines = 2

const millisPerSecond = 1000

// Series names of an aligned traffic comparison.
const (
	SimTrafficSeriesName = "SummedSimTraffic"
	RefTrafficSeriesName = "SummedRefTraffic"
)

// ReferenceRow is one `timestampMillis,cumulativeBytes` row.
type ReferenceRow struct {
	Millis     int64
	Cumulative int64
}

// ParseReference reads a reference traffic file: ReferenceHeaderLines lines
// are skipped, the rest are comma-separated rows. A source that ends inside the
// header or has no rows fails with *EmptyReferenceError; the Index of a
// *MalformedRecordError is the 0-based data row.
func ParseReference(r io.Reader, source string) ([]ReferenceRow, error) {
	br := bufio.NewReader(r)
	for i := 0; i < ReferenceHeaderLines; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, &EmptyReferenceError{Source: source}
			}
			return nil, fmt.Errorf("reading reference header: %w", err)
		}
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows := make([]ReferenceRow, 0)
	for idx := 0; ; idx++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading reference row %d: %w", idx, err)
		}
		if len(record) < 2 {
			return nil, &MalformedRecordError{Index: idx, Token: strings.Join(record, ","), Reason: "expected <millis>,<cumulativeBytes>"}
		}
		millis, err := strconv.ParseInt(strings.TrimSpace(record[0]), 10, 64)
		if err != nil {
			return nil, &MalformedRecordError{Index: idx, Token: record[0], Reason: "timestamp is not an integer"}
		}
		cumulative, err := strconv.ParseInt(strings.TrimSpace(record[1]), 10, 64)
		if err != nil {
			return nil, &MalformedRecordError{Index: idx, Token: record[1], Reason: "cumulative bytes is not an integer"}
		}
		rows = append(rows, ReferenceRow{Millis: millis, Cumulative: cumulative})
	}
	if len(rows) == 0 {
		return nil, &EmptyReferenceError{Source: source}
	}
	return rows, nil
}

// AlignTraffic places bucketed sim traffic and a reference series on a shared
// zero origin. The sim series' x is the bucket floor minus startOffset; the
// reference x is (t - t0) / 1000 with t0 its first timestamp. Reference
// y-values are passed through unchanged. No resampling takes place.
func AlignTraffic(sim []Bucket, startOffset int64, reference []ReferenceRow) (*AlignedPair, error) {
	if len(reference) == 0 {
		return nil, &EmptyReferenceError{}
	}
	pair := &AlignedPair{
		Sim:       BucketSeries(SimTrafficSeriesName, sim, startOffset),
		Reference: NewSeries(RefTrafficSeriesName),
	}
	base := reference[0].Millis
	for _, row := range reference {
		pair.Reference.Append(float64(row.Millis-base)/millisPerSecond, float64(row.Cumulative))
	}
	return pair, nil
}
