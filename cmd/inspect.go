package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gacspp/simeval/simlog"
)

// Input formats accepted by inspect.
const (
	formatTransfer  = "transfer"
	formatBilling   = "billing"
	formatTraffic   = "traffic"
	formatReference = "reference"
)

var (
	inspectFormat      string
	inspectWidth       int64
	inspectStartOffset int64
	inspectReduction   string
)

// inspectFile decodes one log and writes a per-series summary table to w.
func inspectFile(w io.Writer, format, path string, width, startOffset int64, reduction simlog.Reduction) error {
	var series []simlog.Series
	switch format {
	case formatTransfer:
		ts, err := simlog.LoadTransferSeries(path)
		if err != nil {
			return err
		}
		series = ts.Set().Ordered()
	case formatBilling:
		ss, err := simlog.LoadBillingSeries(path)
		if err != nil {
			return err
		}
		series = ss.Ordered()
	case formatTraffic:
		events, err := simlog.LoadTrafficEvents(path)
		if err != nil {
			return err
		}
		buckets, err := simlog.Aggregate(events, simlog.BucketConfig{Width: width, StartOffset: startOffset, Reduction: reduction})
		if err != nil {
			return err
		}
		series = []simlog.Series{simlog.BucketSeries(simlog.SimTrafficSeriesName, buckets, startOffset)}
	case formatReference:
		rows, err := simlog.LoadReference(path)
		if err != nil {
			return err
		}
		pair, err := simlog.AlignTraffic(nil, 0, rows)
		if err != nil {
			return err
		}
		series = []simlog.Series{pair.Reference}
	default:
		return fmt.Errorf("unknown format %q (want transfer, billing, traffic or reference)", format)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "SERIES\tPOINTS\tFIRST X\tLAST X\tFINAL Y")
	for i := range series {
		s := simlog.Summarize(&series[i])
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%g\t%g\t%g\n", s.Name, s.Points, s.FirstX, s.LastX, s.FinalY)
	}
	return tw.Flush()
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Decode a single simulator log and summarise its series",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if !simlog.IsValidReduction(inspectReduction) {
			logrus.Fatalf("Unknown reduction %q", inspectReduction)
		}
		err := inspectFile(os.Stdout, inspectFormat, args[0], inspectWidth, inspectStartOffset, simlog.Reduction(inspectReduction))
		if err != nil {
			logrus.Fatalf("Inspecting %s failed: %v", args[0], err)
		}
	},
}

func init() {
	inspectCmd.Flags().StringVar(&inspectFormat, "format", formatTransfer, "Log format: transfer, billing, traffic or reference")
	inspectCmd.Flags().Int64Var(&inspectWidth, "bucket-width", 3*3600, "Bucket width in ticks (traffic only)")
	inspectCmd.Flags().Int64Var(&inspectStartOffset, "start-offset", 0, "First tick of the first bucket (traffic only)")
	inspectCmd.Flags().StringVar(&inspectReduction, "reduction", string(simlog.ReductionCumulative), "Bucket reduction: cumulative, sum or count (traffic only)")

	rootCmd.AddCommand(inspectCmd)
}
