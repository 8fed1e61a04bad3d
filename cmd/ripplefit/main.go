package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"
	"gopkg.in/yaml.v3"

	"github.com/ams-law/goldsite/config"
)

// evalRecord is one row of fit_log.csv.
type evalRecord struct {
	Eval          int     `csv:"eval"`
	Loss          float64 `csv:"loss"`
	Damping       float64 `csv:"damping"`
	ClickStrength float64 `csv:"click_strength"`
	DecayRatio    float64 `csv:"decay_ratio"`
	Peak          float64 `csv:"peak"`
}

// snippet is the config fragment printed on completion.
type snippet struct {
	Ripple struct {
		Damping       float64 `yaml:"damping"`
		ClickStrength float64 `yaml:"click_strength"`
	} `yaml:"ripple"`
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	targetFraction := flag.Float64("target-fraction", 0.01, "Energy fraction left after -target-seconds")
	targetSeconds := flag.Float64("target-seconds", 3, "Seconds until the ripple reaches -target-fraction")
	targetPeak := flag.Float64("target-peak", 0.8, "Normalized peak intensity after -settle-seconds")
	settleSeconds := flag.Float64("settle-seconds", 0.25, "Seconds after the click at which the peak is measured")
	peakWeight := flag.Float64("peak-weight", 1, "Weight of the peak term in the loss")
	viewW := flag.Int("view-width", 480, "Simulated viewport width in pixels")
	viewH := flag.Int("view-height", 270, "Simulated viewport height in pixels")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	outputDir := flag.String("output", "", "Output directory for fit_log.csv and best_config.yaml (optional)")
	flag.Parse()

	if *targetFraction <= 0 || *targetFraction >= 1 {
		log.Fatal("--target-fraction must be in (0, 1)")
	}

	// Load base config
	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	baseCfg := config.Cfg()

	params := NewParamVector()
	evaluator := NewFitnessEvaluator(params, baseCfg, Targets{
		DecayFraction: *targetFraction,
		DecaySeconds:  *targetSeconds,
		Peak:          *targetPeak,
		SettleSeconds: *settleSeconds,
		PeakWeight:    *peakWeight,
	}, *viewW, *viewH)

	var records []evalRecord
	bestLoss := 1e18
	var bestParams []float64
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Denormalize(x)
			loss := evaluator.Evaluate(raw)

			clamped := params.Clamp(raw)
			if loss < bestLoss {
				bestLoss = loss
				bestParams = clamped
			}
			res := evaluator.Simulate(clamped[0], clamped[1])
			records = append(records, evalRecord{
				Eval:          len(records) + 1,
				Loss:          loss,
				Damping:       clamped[0],
				ClickStrength: clamped[1],
				DecayRatio:    res.DecayRatio,
				Peak:          res.Peak,
			})
			return loss
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-10,
			Iterations: 40,
		},
	}

	initX := params.Normalize(params.ExtractFromConfig(baseCfg))
	fmt.Fprintf(os.Stderr, "Fitting %d parameters with Nelder-Mead, max_evals=%d\n", params.Dim(), *maxEvals)

	result, err := optimize.Minimize(problem, initX, settings, &optimize.NelderMead{})
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}
	if bestParams == nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}

	best := evaluator.Simulate(bestParams[0], bestParams[1])
	fmt.Fprintf(os.Stderr, "Done after %d evaluations in %s: loss=%.6g decay_ratio=%.4g peak=%.3f\n",
		len(records), time.Since(startTime).Round(time.Millisecond), bestLoss, best.DecayRatio, best.Peak)

	var out snippet
	out.Ripple.Damping = bestParams[0]
	out.Ripple.ClickStrength = bestParams[1]
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		log.Fatalf("failed to encode snippet: %v", err)
	}
	enc.Close()

	if *outputDir == "" {
		return
	}
	if err := writeOutputs(*outputDir, records, *configPath, params, bestParams); err != nil {
		log.Fatalf("failed to write outputs: %v", err)
	}
}

// writeOutputs saves the evaluation log and the best config.
func writeOutputs(dir string, records []evalRecord, configPath string, params *ParamVector, best []float64) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	logFile, err := os.Create(filepath.Join(dir, "fit_log.csv"))
	if err != nil {
		return fmt.Errorf("creating log file: %w", err)
	}
	defer logFile.Close()
	if err := gocsv.MarshalFile(&records, logFile); err != nil {
		return fmt.Errorf("writing log: %w", err)
	}

	bestCfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	params.ApplyToConfig(bestCfg, best)
	configOutPath := filepath.Join(dir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		return fmt.Errorf("writing best config: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Best config saved to: %s\n", configOutPath)
	return nil
}
