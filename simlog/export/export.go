// Package export writes simlog series to a YAML header plus a long-format CSV
// and reads them back. It is the sink the CLI uses in place of a plot.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/gacspp/simeval/simlog"
)

// SeriesHeader captures metadata for an exported series file pair.
type SeriesHeader struct {
	Version     int         `yaml:"export_version"`
	Title       string      `yaml:"title"`
	XLabel      string      `yaml:"x_label,omitempty"`
	YLabel      string      `yaml:"y_label,omitempty"`
	RunID       string      `yaml:"run_id,omitempty"`
	CreatedAt   string      `yaml:"created_at,omitempty"`
	SourceFiles []string    `yaml:"source_files,omitempty"`
	Series      []SeriesRef `yaml:"series"` // plotting order
}

// SeriesRef declares one exported series. Key is unique within a file;
// Name is the display name and may repeat.
type SeriesRef struct {
	Key  string `yaml:"key"`
	Name string `yaml:"name"`
}

// CSV column headers for exported series.
var seriesColumns = []string{"key", "x", "y"}

// ExportSeries writes header (YAML) and points (CSV) to separate files.
// header.Series is overwritten with the keys and names of set, in order.
func ExportSeries(header *SeriesHeader, set *simlog.SeriesSet, headerPath, dataPath string) error {
	keys := set.Keys()
	header.Series = make([]SeriesRef, 0, len(keys))
	for _, k := range keys {
		s, _ := set.Get(k)
		header.Series = append(header.Series, SeriesRef{Key: k, Name: s.Name})
	}

	headerData, err := yaml.Marshal(header)
	if err != nil {
		return fmt.Errorf("marshaling series header: %w", err)
	}
	if err := os.WriteFile(headerPath, headerData, 0644); err != nil {
		return fmt.Errorf("writing series header: %w", err)
	}

	file, err := os.Create(dataPath)
	if err != nil {
		return fmt.Errorf("creating series data file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	if err := writer.Write(seriesColumns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, k := range keys {
		s, _ := set.Get(k)
		for i := range s.X {
			row := []string{
				k,
				strconv.FormatFloat(s.X[i], 'f', -1, 64), // ticks stay integers
				strconv.FormatFloat(s.Y[i], 'f', -1, 64),
			}
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("writing CSV row for %s: %w", k, err)
			}
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing series data: %w", err)
	}
	return nil
}

// LoadSeries reads an exported header (YAML) and data (CSV). Series declared in
// the header without rows come back present and empty.
func LoadSeries(headerPath, dataPath string) (*SeriesHeader, *simlog.SeriesSet, error) {
	headerData, err := os.ReadFile(headerPath)
	if err != nil {
		return nil, nil, fmt.Errorf("reading series header: %w", err)
	}
	var header SeriesHeader
	if err := yaml.Unmarshal(headerData, &header); err != nil {
		return nil, nil, fmt.Errorf("parsing series header: %w", err)
	}

	set := simlog.NewSeriesSet()
	for _, ref := range header.Series {
		if ref.Key == "" {
			return nil, nil, fmt.Errorf("series header: series %q has no key", ref.Name)
		}
		if !set.Declare(ref.Key, ref.Name) {
			return nil, nil, fmt.Errorf("series header: duplicate series key %q", ref.Key)
		}
	}

	file, err := os.Open(dataPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening series data: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)

	// Skip header row
	if _, err := reader.Read(); err != nil {
		return nil, nil, fmt.Errorf("reading CSV header: %w", err)
	}

	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("reading CSV row: %w", err)
		}
		if len(row) < len(seriesColumns) {
			return nil, nil, fmt.Errorf("CSV line %d has %d columns, expected %d", line, len(row), len(seriesColumns))
		}
		s, ok := set.Get(row[0])
		if !ok {
			return nil, nil, fmt.Errorf("CSV line %d: series %q not declared in header", line, row[0])
		}
		x, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("CSV line %d: parsing x: %w", line, err)
		}
		y, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("CSV line %d: parsing y: %w", line, err)
		}
		s.Append(x, y)
	}
	return &header, set, nil
}
