package simlog

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/sirupsen/logrus"
)

// OpenInput opens a log file, decompressing `.gz` and `.zst` files on the fly.
// A file that does not exist yields *MissingInputError.
func OpenInput(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &MissingInputError{Path: path, Err: err}
		}
		return nil, fmt.Errorf("opening input %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		zr, err := gzip.NewReader(file)
		if err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("opening gzip input %s: %w", path, err)
		}
		return &stackedReadCloser{Reader: zr, closers: []io.Closer{zr, file}}, nil
	case ".zst":
		zr, err := zstd.NewReader(file)
		if err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("opening zstd input %s: %w", path, err)
		}
		rc := zr.IOReadCloser()
		return &stackedReadCloser{Reader: rc, closers: []io.Closer{rc, file}}, nil
	}
	return file, nil
}

// stackedReadCloser closes a decompressor and then the file under it.
type stackedReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedReadCloser) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ReadInput reads a whole log file and releases the handle before returning.
func ReadInput(path string) ([]byte, error) {
	rc, err := OpenInput(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading input %s: %w", path, err)
	}
	return data, nil
}

// LoadTransferSeries decodes and demultiplexes a transfer-manager log file.
func LoadTransferSeries(path string) (*TransferSet, error) {
	data, err := ReadInput(path)
	if err != nil {
		return nil, err
	}
	events, err := DecodeTransferLog(data)
	if err != nil {
		return nil, fmt.Errorf("decoding transfer log %s: %w", path, err)
	}
	logrus.Debugf("transfer log %s: %d events", path, len(events))
	return DemuxTransfers(events)
}

// LoadBillingSeries decodes and demultiplexes a billing log file.
func LoadBillingSeries(path string) (*SeriesSet, error) {
	data, err := ReadInput(path)
	if err != nil {
		return nil, err
	}
	header, events, err := DecodeBillingLog(data)
	if err != nil {
		return nil, fmt.Errorf("decoding billing log %s: %w", path, err)
	}
	logrus.Debugf("billing log %s: %d series, %d events", path, len(header.IDs), len(events))
	return DemuxBilling(header, events)
}

// LoadTrafficEvents decodes a sim traffic log file.
func LoadTrafficEvents(path string) ([]TrafficEvent, error) {
	data, err := ReadInput(path)
	if err != nil {
		return nil, err
	}
	events, err := DecodeTrafficLog(data)
	if err != nil {
		return nil, fmt.Errorf("decoding traffic log %s: %w", path, err)
	}
	logrus.Debugf("traffic log %s: %d events", path, len(events))
	return events, nil
}

// LoadReference parses a reference traffic file.
func LoadReference(path string) ([]ReferenceRow, error) {
	rc, err := OpenInput(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	rows, err := ParseReference(rc, path)
	if err != nil {
		return nil, err
	}
	logrus.Debugf("reference log %s: %d rows", path, len(rows))
	return rows, nil
}
