package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"novapro/internal/advisor"
	"novapro/internal/logging"
	"novapro/internal/perception"
	"novapro/internal/terminal"
)

const (
	defaultDevice    = "OnePlus 9 Pro - Snapdragon 888"
	defaultPlaystyle = "Rusher / Close Range"
)

var (
	adviseDevice    string
	advisePlaystyle string
	adviseJSON      bool
	adviseExplain   bool
)

// adviseCmd requests one strategy
var adviseCmd = &cobra.Command{
	Use:   "advise",
	Short: "Request an optimization strategy for a device and playstyle",
	Long: `Sends one structured-output request and prints the strategy report.

A failed request prints the fallback report and still exits 0; use
--explain to see why it fell back.

Example:
  nova advise --device "Pixel 8 - Tensor G3" --playstyle "Sniper / Long Range"`,
	Args: cobra.NoArgs,
	RunE: runAdvise,
}

func init() {
	adviseCmd.Flags().StringVarP(&adviseDevice, "device", "d", defaultDevice, "Device profile")
	adviseCmd.Flags().StringVarP(&advisePlaystyle, "playstyle", "p", defaultPlaystyle, "Playstyle")
	adviseCmd.Flags().BoolVar(&adviseJSON, "json", false, "Print the result as JSON")
	adviseCmd.Flags().BoolVar(&adviseExplain, "explain", false, "Print request diagnostics")
}

func runAdvise(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	recorder := &perception.TraceRecorder{}
	adv, err := newAdvisor(cfg, recorder)
	if err != nil {
		return err
	}

	logging.CLIDebug("advise: device=%q playstyle=%q", adviseDevice, advisePlaystyle)
	session.Add(terminal.LineQuerying)
	report := adv.Evaluate(ctx, advisor.OptimizationRequest{DeviceProfile: adviseDevice, Playstyle: advisePlaystyle})
	session.Add(terminal.LineReceived)

	out := cmd.OutOrStdout()
	if adviseJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if adviseExplain {
			return enc.Encode(report)
		}
		return enc.Encode(report.Result)
	}

	fmt.Fprintln(out, renderResult("AI Strategy Report", report.Result))
	if adviseExplain || verbose {
		var trace *perception.Trace
		if t, ok := recorder.Find(report.RequestID); ok {
			trace = &t
		}
		fmt.Fprintln(out, renderExplain(report, trace, session.Lines()))
	}
	return nil
}
