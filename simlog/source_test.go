package simlog

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenInput_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g2c_transfers.dat")

	_, err := ReadInput(path)

	var mie *MissingInputError
	require.ErrorAs(t, err, &mie)
	assert.Equal(t, path, mie.Path)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLoadTransferSeries_MissingFile_KeepsType(t *testing.T) {
	_, err := LoadTransferSeries(filepath.Join(t.TempDir(), "nope.dat"))

	var mie *MissingInputError
	assert.ErrorAs(t, err, &mie)
}

func TestReadInput_Gzip(t *testing.T) {
	// GIVEN a gzip-compressed transfer log
	path := filepath.Join(t.TempDir(), "g2c_transfers.dat.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write([]byte("0|1000|5|1|1000|2|"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	// WHEN loaded
	ts, err := LoadTransferSeries(path)

	// THEN it decodes like the plain file
	require.NoError(t, err)
	active, _ := ts.Series(ActiveTransfers)
	assert.Equal(t, []float64{5}, active.Y)
}

func TestReadInput_Zstd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim_traffic.dat.zst")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw, err := zstd.NewWriter(f)
	require.NoError(t, err)
	_, err = zw.Write([]byte("50|3|150|2|"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	events, err := LoadTrafficEvents(path)

	require.NoError(t, err)
	assert.Equal(t, []TrafficEvent{{50, 3}, {150, 2}}, events)
}

func TestLoadBillingSeries_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "GCP_storage.dat")
	require.NoError(t, os.WriteFile(path, []byte(billingLog), 0644))

	set, err := LoadBillingSeries(path)

	require.NoError(t, err)
	assert.Equal(t, 3, set.Len())
}

func TestLoadBillingSeries_MalformedBody_Wrapped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "GCP_storage.dat")
	require.NoError(t, os.WriteFile(path, []byte("1:a\nbody\n4|100|1|"), 0644))

	_, err := LoadBillingSeries(path)

	var mre *MalformedRecordError
	require.ErrorAs(t, err, &mre)
	assert.Contains(t, err.Error(), path)
}

func TestLoadReference_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reference_traffic.dat")
	require.NoError(t, os.WriteFile(path, []byte("h1\nh2\n1000,1\n3000,2\n"), 0644))

	rows, err := LoadReference(path)

	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
