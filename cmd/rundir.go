package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const manifestFileName = "manifest.yaml"

// RunDir is the per-evaluation result directory, <output-base-path>/<NNNN>.
// It is created on first use.
type RunDir struct {
	Path  string
	Force bool
}

// NewRunDir resolves the result directory of evaluation nr under base.
func NewRunDir(base string, nr int, force bool) (*RunDir, error) {
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("resolving output base path %s: %w", base, err)
	}
	return &RunDir{Path: filepath.Join(abs, fmt.Sprintf("%04d", nr)), Force: force}, nil
}

// File returns the path of name inside the run directory.
func (rd *RunDir) File(name string) string {
	return filepath.Join(rd.Path, name)
}

func (rd *RunDir) ensure() error {
	if err := os.MkdirAll(rd.Path, 0755); err != nil {
		return fmt.Errorf("creating result directory %s: %w", rd.Path, err)
	}
	return nil
}

// CopyInput copies a raw input next to the generated artifacts, keeping its
// mode and modification time. An existing copy is kept unless Force is set.
func (rd *RunDir) CopyInput(src string) (bool, error) {
	if err := rd.ensure(); err != nil {
		return false, err
	}
	dst := rd.File(filepath.Base(src))
	if _, err := os.Stat(dst); err == nil && !rd.Force {
		logrus.Warnf("Force disabled and file exists: %s", dst)
		return false, nil
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("checking %s: %w", dst, err)
	}
	if err := copyFile(src, dst); err != nil {
		return false, err
	}
	return true, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copying %s to %s: %w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", dst, err)
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

// Group statuses recorded in the run manifest.
const (
	statusOK       = "ok"
	statusSkipped  = "skipped"
	statusFailed   = "failed"
	statusDisabled = "disabled"
)

// RunManifest records what one evaluation run produced.
type RunManifest struct {
	RunID        string        `yaml:"run_id"`
	EvaluationNr int           `yaml:"evaluation_nr"`
	CreatedAt    string        `yaml:"created_at"`
	Groups       []GroupResult `yaml:"groups"`
}

// GroupResult is the outcome of one plot group.
type GroupResult struct {
	Name    string        `yaml:"name"`
	Status  string        `yaml:"status"`
	Message string        `yaml:"message,omitempty"`
	Series  []SeriesEntry `yaml:"series,omitempty"`
}

// SeriesEntry summarises one produced series.
type SeriesEntry struct {
	Name   string  `yaml:"name"`
	Points int     `yaml:"points"`
	FinalY float64 `yaml:"final_y"`
}

func newRunManifest(nr int) *RunManifest {
	return &RunManifest{
		RunID:        uuid.NewString(),
		EvaluationNr: nr,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
		Groups:       make([]GroupResult, 0),
	}
}

// Result returns the recorded result of the named group.
func (m *RunManifest) Result(name string) (GroupResult, bool) {
	for _, g := range m.Groups {
		if g.Name == name {
			return g, true
		}
	}
	return GroupResult{}, false
}

// WriteManifest stores m as manifest.yaml in the run directory.
func (rd *RunDir) WriteManifest(m *RunManifest) error {
	if err := rd.ensure(); err != nil {
		return err
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling run manifest: %w", err)
	}
	if err := os.WriteFile(rd.File(manifestFileName), data, 0644); err != nil {
		return fmt.Errorf("writing run manifest: %w", err)
	}
	return nil
}
