package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// secondsPerMonth is the month length used by --starting-month.
const secondsPerMonth int64 = 3600 * 24 * 30

// EvaluationOptions holds everything one evaluation run needs.
type EvaluationOptions struct {
	EvaluationNr   int // 0 = no result directory
	InputBasePath  string
	OutputBasePath string
	Force          bool
	StartingMonth  int
	BucketWidth    int64 // seconds

	G2CTransferFile string
	C2CTransferFile string
	BillingFile     string
	NetworkFile     string
	SimTrafficFile  string
	RefTrafficFile  string

	NoG2CTransferPlot bool
	NoC2CTransferPlot bool
	NoBillingPlot     bool
	NetworkPlot       bool
	NoTrafficDiffPlot bool
}

// StartOffset returns the first second considered by the traffic comparison.
func (o *EvaluationOptions) StartOffset() int64 {
	return secondsPerMonth * int64(max(0, o.StartingMonth-1))
}

// FileConfig is the YAML form of EvaluationOptions. Unset keys keep the flag value.
// All keys must be listed to satisfy KnownFields(true) strict parsing.
type FileConfig struct {
	InputBasePath  *string `yaml:"input_base_path"`
	OutputBasePath *string `yaml:"output_base_path"`
	Force          *bool   `yaml:"force"`
	StartingMonth  *int    `yaml:"starting_month"`
	BucketWidth    *int64  `yaml:"bucket_width"`

	G2CTransferFile *string `yaml:"g2c_transfermgr_file"`
	C2CTransferFile *string `yaml:"c2c_transfermgr_file"`
	BillingFile     *string `yaml:"gcp_billing_file"`
	NetworkFile     *string `yaml:"gcp_network_file"`
	SimTrafficFile  *string `yaml:"sim_traffic_file"`
	RefTrafficFile  *string `yaml:"reference_traffic_file"`

	NoG2CTransferPlot *bool `yaml:"no_g2c_transfermgr_plot"`
	NoC2CTransferPlot *bool `yaml:"no_c2c_transfermgr_plot"`
	NoBillingPlot     *bool `yaml:"no_gcp_billing_plot"`
	NetworkPlot       *bool `yaml:"gcp_network_plot"`
	NoTrafficDiffPlot *bool `yaml:"no_traffic_diff_plot"`
}

// loadFileConfig parses an evaluation config file with strict field checking.
func loadFileConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	var cfg FileConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return &cfg, nil
}

// override sets *dst from v unless the flag was given on the command line.
func override[T any](changed func(string) bool, flag string, v *T, dst *T) {
	if v != nil && !changed(flag) {
		*dst = *v
	}
}

// Apply copies configured values into opts. Flags the user set explicitly
// (changed reports true) keep their command-line value.
func (c *FileConfig) Apply(opts *EvaluationOptions, changed func(string) bool) {
	override(changed, "input-base-path", c.InputBasePath, &opts.InputBasePath)
	override(changed, "output-base-path", c.OutputBasePath, &opts.OutputBasePath)
	override(changed, "force", c.Force, &opts.Force)
	override(changed, "starting-month", c.StartingMonth, &opts.StartingMonth)
	override(changed, "bucket-width", c.BucketWidth, &opts.BucketWidth)

	override(changed, "g2c-transfermgr-file", c.G2CTransferFile, &opts.G2CTransferFile)
	override(changed, "c2c-transfermgr-file", c.C2CTransferFile, &opts.C2CTransferFile)
	override(changed, "gcp-billing-file", c.BillingFile, &opts.BillingFile)
	override(changed, "gcp-network-file", c.NetworkFile, &opts.NetworkFile)
	override(changed, "sim-traffic-file", c.SimTrafficFile, &opts.SimTrafficFile)
	override(changed, "reference-traffic-file", c.RefTrafficFile, &opts.RefTrafficFile)

	override(changed, "no-g2c-transfermgr-plot", c.NoG2CTransferPlot, &opts.NoG2CTransferPlot)
	override(changed, "no-c2c-transfermgr-plot", c.NoC2CTransferPlot, &opts.NoC2CTransferPlot)
	override(changed, "no-gcp-billing-plot", c.NoBillingPlot, &opts.NoBillingPlot)
	override(changed, "gcp-network-plot", c.NetworkPlot, &opts.NetworkPlot)
	override(changed, "no-traffic-diff-plot", c.NoTrafficDiffPlot, &opts.NoTrafficDiffPlot)
}
