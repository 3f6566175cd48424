package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"novapro/internal/advisor"
	"novapro/internal/logging"
	"novapro/internal/perception"
	"novapro/internal/terminal"
)

var (
	batchParallel int
	batchJSON     bool
)

// BatchFile is the YAML document read by `nova batch`.
type BatchFile struct {
	Requests []advisor.OptimizationRequest `yaml:"requests"`
}

// batchCmd runs several independent requests
var batchCmd = &cobra.Command{
	Use:   "batch [file.yaml]",
	Short: "Request strategies for several device/playstyle pairs",
	Long: `Reads a YAML file of requests and runs them concurrently. Each request
is independent; one falling back does not affect the others. Output keeps
the order of the file.

File format:
  requests:
    - device: "OnePlus 9 Pro - Snapdragon 888"
      playstyle: "Rusher / Close Range"
    - device: "Redmi Note 12"
      playstyle: "Sniper / Long Range"`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().IntVarP(&batchParallel, "parallel", "n", 4, "Maximum concurrent requests")
	batchCmd.Flags().BoolVar(&batchJSON, "json", false, "Print reports as a JSON array")
}

func loadBatchFile(path string) (*BatchFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	var bf BatchFile
	if err := yaml.Unmarshal(data, &bf); err != nil {
		return nil, fmt.Errorf("failed to parse batch file: %w", err)
	}
	if len(bf.Requests) == 0 {
		return nil, fmt.Errorf("batch file %s has no requests", path)
	}
	return &bf, nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	if batchParallel < 1 {
		return fmt.Errorf("--parallel must be at least 1, got %d", batchParallel)
	}
	bf, err := loadBatchFile(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	recorder := &perception.TraceRecorder{}
	adv, err := newAdvisor(cfg, recorder)
	if err != nil {
		return err
	}

	logging.CLI("batch: %d requests, parallel=%d", len(bf.Requests), batchParallel)
	session.Add(terminal.LineQuerying)

	timer := logging.StartTimer(logging.CategoryCLI, "batch")
	reports := make([]advisor.Report, len(bf.Requests))
	g := new(errgroup.Group)
	g.SetLimit(batchParallel)
	for i, req := range bf.Requests {
		i, req := i, req
		g.Go(func() error {
			reports[i] = adv.Evaluate(ctx, req)
			return nil
		})
	}
	// Evaluate never fails; Wait only joins.
	_ = g.Wait()
	// Each wave of up to batchParallel requests is bounded by the timeout.
	waves := (len(bf.Requests) + batchParallel - 1) / batchParallel
	timer.StopWithThreshold(time.Duration(waves) * cfg.GetLLMTimeout())
	session.Add(terminal.LineReceived)

	out := cmd.OutOrStdout()
	if batchJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}

	fallbacks := 0
	for i, r := range reports {
		req := bf.Requests[i]
		fmt.Fprintln(out, renderResult(fmt.Sprintf("#%d %s / %s", i+1, req.DeviceProfile, req.Playstyle), r.Result))
		if verbose {
			fmt.Fprintln(out, renderExplain(r, nil, nil))
		}
		if r.Fallback {
			fallbacks++
		}
	}
	fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("%d requests, %d fell back, %d traced", len(reports), fallbacks, len(recorder.Traces()))))
	return nil
}
