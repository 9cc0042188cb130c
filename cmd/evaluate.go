package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gacspp/simeval/simlog"
	"github.com/gacspp/simeval/simlog/export"
)

// plotGroup is one independently evaluated series group, e.g. the G2C transfer log.
type plotGroup struct {
	name    string   // also the base name of exported files
	inputs  []string // file names relative to the input base path
	enabled bool
	title   string
	xLabel  string
	yLabel  string
	build   func(paths []string) (*simlog.SeriesSet, error)
}

func evaluationGroups(opts *EvaluationOptions) []plotGroup {
	transfer := func(paths []string) (*simlog.SeriesSet, error) {
		ts, err := simlog.LoadTransferSeries(paths[0])
		if err != nil {
			return nil, err
		}
		return ts.Set(), nil
	}
	billing := func(paths []string) (*simlog.SeriesSet, error) {
		return simlog.LoadBillingSeries(paths[0])
	}
	traffic := func(paths []string) (*simlog.SeriesSet, error) {
		return trafficDiff(paths[0], paths[1], opts.StartOffset(), opts.BucketWidth)
	}

	return []plotGroup{
		{name: "g2c-transfermgr-file", inputs: []string{opts.G2CTransferFile}, enabled: !opts.NoG2CTransferPlot,
			title: "G2C transfers", xLabel: "Sim Time", yLabel: "Count", build: transfer},
		{name: "c2c-transfermgr-file", inputs: []string{opts.C2CTransferFile}, enabled: !opts.NoC2CTransferPlot,
			title: "C2C transfers", xLabel: "Sim Time", yLabel: "Count", build: transfer},
		{name: "gcp-billing-file", inputs: []string{opts.BillingFile}, enabled: !opts.NoBillingPlot,
			title: "GCP storage", xLabel: "Sim Time", yLabel: "Storage Volume [GiB]", build: billing},
		{name: "gcp-network-file", inputs: []string{opts.NetworkFile}, enabled: opts.NetworkPlot,
			title: "GCP network", xLabel: "Sim Time", yLabel: "Network Volume [GiB]", build: billing},
		{name: "sim-traffic-file-reference-traffic-file", inputs: []string{opts.SimTrafficFile, opts.RefTrafficFile},
			enabled: !opts.NoTrafficDiffPlot, title: "Traffic difference", xLabel: "Sim Time [s]",
			yLabel: "Sum of transferred bytes", build: traffic},
	}
}

// Series keys of the traffic difference group.
const (
	simTrafficKey = "sim"
	refTrafficKey = "reference"
)

// trafficDiff buckets the sim traffic into a running total and aligns it with
// the reference traffic on a shared zero origin.
func trafficDiff(simPath, refPath string, startOffset, width int64) (*simlog.SeriesSet, error) {
	events, err := simlog.LoadTrafficEvents(simPath)
	if err != nil {
		return nil, err
	}
	buckets, err := simlog.Aggregate(simlog.FilterFrom(events, startOffset), simlog.BucketConfig{
		Width:       width,
		StartOffset: startOffset,
		Reduction:   simlog.ReductionCumulative,
	})
	if err != nil {
		return nil, fmt.Errorf("bucketing %s: %w", simPath, err)
	}
	reference, err := simlog.LoadReference(refPath)
	if err != nil {
		return nil, err
	}
	pair, err := simlog.AlignTraffic(buckets, startOffset, reference)
	if err != nil {
		return nil, err
	}
	set := simlog.NewSeriesSet()
	set.Declare(simTrafficKey, pair.Sim.Name)
	set.Declare(refTrafficKey, pair.Reference.Name)
	sim, _ := set.Get(simTrafficKey)
	*sim = pair.Sim
	ref, _ := set.Get(refTrafficKey)
	*ref = pair.Reference
	return set, nil
}

// RunEvaluation evaluates every enabled group. A failing group is logged and
// recorded in the manifest; the others still run. The returned error covers
// only the result directory itself.
func RunEvaluation(opts *EvaluationOptions) (*RunManifest, error) {
	inputBase, err := filepath.Abs(opts.InputBasePath)
	if err != nil {
		return nil, fmt.Errorf("resolving input base path %s: %w", opts.InputBasePath, err)
	}

	var rd *RunDir
	if opts.EvaluationNr > 0 {
		if rd, err = NewRunDir(opts.OutputBasePath, opts.EvaluationNr, opts.Force); err != nil {
			return nil, err
		}
	}

	manifest := newRunManifest(opts.EvaluationNr)
	for _, g := range evaluationGroups(opts) {
		result := evaluateGroup(g, inputBase, rd, manifest.RunID)
		manifest.Groups = append(manifest.Groups, result)
	}

	if rd != nil {
		if err := rd.WriteManifest(manifest); err != nil {
			return manifest, err
		}
		logrus.Infof("Results written to %s", rd.Path)
	}
	return manifest, nil
}

func evaluateGroup(g plotGroup, inputBase string, rd *RunDir, runID string) GroupResult {
	result := GroupResult{Name: g.name}
	if !g.enabled {
		result.Status = statusDisabled
		return result
	}

	paths := make([]string, len(g.inputs))
	for i, in := range g.inputs {
		paths[i] = filepath.Join(inputBase, in)
	}

	set, err := g.build(paths)
	if err != nil {
		var missing *simlog.MissingInputError
		if errors.As(err, &missing) {
			logrus.Warnf("Could not find input file: %s", missing.Path)
			result.Status = statusSkipped
		} else {
			logrus.Errorf("%s: %v", g.name, err)
			result.Status = statusFailed
		}
		result.Message = err.Error()
		return result
	}

	series := set.Ordered()
	for i := range series {
		summary := simlog.Summarize(&series[i])
		logrus.Infof("%s: %s has %d points, final value %g", g.name, summary.Name, summary.Points, summary.FinalY)
		result.Series = append(result.Series, SeriesEntry{Name: summary.Name, Points: summary.Points, FinalY: summary.FinalY})
	}

	if rd != nil {
		if err := persistGroup(g, paths, set, rd, runID); err != nil {
			logrus.Errorf("%s: %v", g.name, err)
			result.Status = statusFailed
			result.Message = err.Error()
			return result
		}
	}
	result.Status = statusOK
	return result
}

// persistGroup copies the raw inputs into the run directory and exports the series beside them.
func persistGroup(g plotGroup, paths []string, set *simlog.SeriesSet, rd *RunDir, runID string) error {
	sources := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, err := rd.CopyInput(p); err != nil {
			return err
		}
		sources = append(sources, filepath.Base(p))
	}
	header := &export.SeriesHeader{
		Version:     1,
		Title:       g.title,
		XLabel:      g.xLabel,
		YLabel:      g.yLabel,
		RunID:       runID,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		SourceFiles: sources,
	}
	return export.ExportSeries(header, set, rd.File(g.name+".yaml"), rd.File(g.name+".csv"))
}

var (
	evalOpts       EvaluationOptions
	evalConfigPath string
)

// evaluateCmd mirrors the evaluation script: one run over all enabled groups
var evaluateCmd = &cobra.Command{
	Use:   "evaluate [EvaluationNr]",
	Short: "Decode simulator logs into series and store them per evaluation run",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 1 {
			nr, err := strconv.Atoi(args[0])
			if err != nil || nr < 0 {
				logrus.Fatalf("Invalid evaluation number: %s", args[0])
			}
			evalOpts.EvaluationNr = nr
		}
		if evalConfigPath != "" {
			cfg, err := loadFileConfig(evalConfigPath)
			if err != nil {
				logrus.Fatalf("%v", err)
			}
			cfg.Apply(&evalOpts, cmd.Flags().Changed)
		}
		if evalOpts.BucketWidth <= 0 {
			logrus.Fatalf("--bucket-width must be positive, got %d", evalOpts.BucketWidth)
		}

		manifest, err := RunEvaluation(&evalOpts)
		if err != nil {
			logrus.Fatalf("Evaluation failed: %v", err)
		}
		logrus.Infof("Evaluation run %s finished", manifest.RunID)
	},
}

func init() {
	f := evaluateCmd.Flags()
	f.StringVar(&evalConfigPath, "config", "", "Optional YAML file with evaluation settings (flags set explicitly take precedence)")
	f.StringVar(&evalOpts.InputBasePath, "input-base-path", "", "Directory containing the simulator logs")
	f.StringVar(&evalOpts.OutputBasePath, "output-base-path", "results", "Directory receiving per-evaluation result directories")
	f.BoolVar(&evalOpts.Force, "force", false, "Overwrite raw inputs already copied into the result directory")
	f.IntVar(&evalOpts.StartingMonth, "starting-month", 1, "First simulated month (30 days) considered by the traffic comparison")
	f.Int64Var(&evalOpts.BucketWidth, "bucket-width", 3*3600, "Traffic bucket width in seconds")

	f.StringVar(&evalOpts.G2CTransferFile, "g2c-transfermgr-file", "g2c_transfers.dat", "G2C transfer manager log")
	f.StringVar(&evalOpts.C2CTransferFile, "c2c-transfermgr-file", "c2c_transfers.dat", "C2C transfer manager log")
	f.StringVar(&evalOpts.BillingFile, "gcp-billing-file", "GCP_storage.dat", "GCP storage billing log")
	f.StringVar(&evalOpts.NetworkFile, "gcp-network-file", "GCP_network.dat", "GCP network billing log")
	f.StringVar(&evalOpts.SimTrafficFile, "sim-traffic-file", "sim_traffic.dat", "Simulated traffic log")
	f.StringVar(&evalOpts.RefTrafficFile, "reference-traffic-file", "reference_traffic.dat", "Reference traffic CSV")

	f.BoolVar(&evalOpts.NoG2CTransferPlot, "no-g2c-transfermgr-plot", false, "Skip the G2C transfer series")
	f.BoolVar(&evalOpts.NoC2CTransferPlot, "no-c2c-transfermgr-plot", false, "Skip the C2C transfer series")
	f.BoolVar(&evalOpts.NoBillingPlot, "no-gcp-billing-plot", false, "Skip the GCP storage series")
	f.BoolVar(&evalOpts.NetworkPlot, "gcp-network-plot", false, "Decode the GCP network billing log")
	f.BoolVar(&evalOpts.NoTrafficDiffPlot, "no-traffic-diff-plot", false, "Skip the sim/reference traffic comparison")

	rootCmd.AddCommand(evaluateCmd)
}
