package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"golife/adapters/bounds"
	"golife/adapters/competing"
	"golife/adapters/excel"
	"golife/adapters/fit"
	"golife/adapters/forecast"
	"golife/adapters/montecarlo"
	"golife/adapters/rng"
	"golife/app"
	"golife/domain/life"
	"golife/internal"
	"golife/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	internal.DefaultLogger.SetLevelFromString(cfg.LogLevel)

	rootCmd := &cobra.Command{
		Use:   "golife-cli",
		Short: "Life data analysis: distribution fitting, confidence bounds, and failure forecasting",
	}

	rootCmd.AddCommand(
		newFitCmd(cfg),
		newBoundsCmd(cfg),
		newRankCmd(),
		newContourCmd(cfg),
		newMonteCarloCmd(cfg),
		newModesCmd(cfg),
		newBudgetCmd(cfg),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newFitCmd(cfg *config.Config) *cobra.Command {
	var family, method, boundMethod string
	var confidence, queryTime float64

	cmd := &cobra.Command{
		Use:   "fit [data-file]",
		Short: "Fit a life distribution with confidence bounds",
		Long: `Fit a distribution to failure/suspension data from an .xlsx or .csv file
(column A: time, column B: F/S status) and compute confidence bounds.

Example: golife-cli fit bearings.csv --family weibull --method mle --confidence 90`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := excel.NewDataReader(args[0]).ReadDataset()
			if err != nil {
				return err
			}
			req := app.AnalysisRequest{
				Dataset:         ds,
				Family:          life.Family(family),
				Method:          app.EstimationMethod(method),
				BoundMethod:     life.BoundMethod(boundMethod),
				ConfidenceLevel: confidence,
				QueryTime:       queryTime,
			}
			result, err := app.NewAnalysisService().Run(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}

	cmd.Flags().StringVar(&family, "family", string(life.FamilyWeibull), "Distribution family (weibull, lognormal, normal, exponential, loglogistic, gumbel)")
	cmd.Flags().StringVar(&method, "method", string(app.EstimateMLE), "Estimation method (rank-regression, mle)")
	cmd.Flags().StringVar(&boundMethod, "bound-method", cfg.Analysis.BoundMethod, "Bound method (fisher, likelihood_ratio)")
	cmd.Flags().Float64Var(&confidence, "confidence", cfg.Analysis.ConfidenceLevel, "Two-sided confidence level in percent; 0 skips bounds")
	cmd.Flags().Float64Var(&queryTime, "query-time", 0, "Optional single time for a pointwise bound")

	return cmd
}

func newBoundsCmd(cfg *config.Config) *cobra.Command {
	var family, boundMethod string
	var confidence, queryTime float64

	cmd := &cobra.Command{
		Use:   "bounds [data-file]",
		Short: "Compute confidence bounds around a maximum-likelihood fit",
		Long: `Fit by maximum likelihood and print only the confidence bound set.

Example: golife-cli bounds bearings.csv --bound-method likelihood_ratio --confidence 95 --query-time 800`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := excel.NewDataReader(args[0]).ReadDataset()
			if err != nil {
				return err
			}
			result, err := app.NewAnalysisService().Run(cmd.Context(), app.AnalysisRequest{
				Dataset:         ds,
				Family:          life.Family(family),
				Method:          app.EstimateMLE,
				BoundMethod:     life.BoundMethod(boundMethod),
				ConfidenceLevel: confidence,
				QueryTime:       queryTime,
			})
			if err != nil {
				return err
			}
			return printJSON(struct {
				Bounds      *life.BoundSet   `json:"bounds"`
				ParamBounds life.ParamBounds `json:"param_bounds"`
			}{result.Bounds, result.ParamBounds})
		},
	}

	cmd.Flags().StringVar(&family, "family", string(life.FamilyWeibull), "Distribution family")
	cmd.Flags().StringVar(&boundMethod, "bound-method", cfg.Analysis.BoundMethod, "Bound method (fisher, likelihood_ratio)")
	cmd.Flags().Float64Var(&confidence, "confidence", cfg.Analysis.ConfidenceLevel, "Two-sided confidence level in percent")
	cmd.Flags().Float64Var(&queryTime, "query-time", 0, "Optional single time for a pointwise bound")
	return cmd
}

func newRankCmd() *cobra.Command {
	var method string

	cmd := &cobra.Command{
		Use:   "rank [data-file]",
		Short: "Fit every family and rank by log-likelihood",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := excel.NewDataReader(args[0]).ReadDataset()
			if err != nil {
				return err
			}
			rankings, err := app.NewAnalysisService().RankFamilies(cmd.Context(), ds, app.EstimationMethod(method))
			if err != nil {
				return err
			}
			return printJSON(rankings)
		},
	}

	cmd.Flags().StringVar(&method, "method", string(app.EstimateMLE), "Estimation method (rank-regression, mle)")
	return cmd
}

func newContourCmd(cfg *config.Config) *cobra.Command {
	var family string
	var confidence float64

	cmd := &cobra.Command{
		Use:   "contour [data-file]",
		Short: "Compute the joint likelihood-ratio confidence contour",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := excel.NewDataReader(args[0]).ReadDataset()
			if err != nil {
				return err
			}
			fitResult, err := fit.NewMLE().Fit(ds, life.Family(family))
			if err != nil {
				return err
			}
			contour, err := bounds.NewLikelihoodRatio().Contour(ds, fitResult.Parameters, confidence)
			if err != nil {
				return err
			}
			return printJSON(contour)
		},
	}

	cmd.Flags().StringVar(&family, "family", string(life.FamilyWeibull), "Two-parameter distribution family")
	cmd.Flags().Float64Var(&confidence, "confidence", cfg.Analysis.ConfidenceLevel, "Contour confidence level in percent")
	return cmd
}

func newMonteCarloCmd(cfg *config.Config) *cobra.Command {
	var family string
	var shape, scale float64
	var trials, sampleSize int
	var seed int64

	cmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "Simulate rank-regression dispersion around a reference distribution",
		Long: `Draw repeated synthetic samples from a known distribution, refit each, and
report percentile bands quantifying small-sample estimator scatter.

Example: golife-cli montecarlo --family weibull --shape 2 --scale 1000 --trials 500 --sample-size 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := life.Params{Family: life.Family(family), Shape: shape, Scale: scale}
			if err := ref.Validate(); err != nil {
				return err
			}
			result, err := montecarlo.NewEngine(rng.NewSeeded()).Run(montecarlo.Request{
				Reference:  ref,
				Trials:     trials,
				SampleSize: sampleSize,
				Seed:       seed,
			})
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}

	cmd.Flags().StringVar(&family, "family", string(life.FamilyWeibull), "Reference distribution family")
	cmd.Flags().Float64Var(&shape, "shape", 2, "Reference shape parameter")
	cmd.Flags().Float64Var(&scale, "scale", 1000, "Reference scale parameter")
	cmd.Flags().IntVar(&trials, "trials", cfg.MonteCarlo.Trials, "Number of simulation trials")
	cmd.Flags().IntVar(&sampleSize, "sample-size", cfg.MonteCarlo.SampleSize, "Synthetic sample size per trial")
	cmd.Flags().Int64Var(&seed, "seed", cfg.MonteCarlo.Seed, "Random seed for deterministic runs")
	return cmd
}

func newModesCmd(cfg *config.Config) *cobra.Command {
	var family, suspensionsArg string
	var modeArgs []string
	var horizon, queryTime float64

	cmd := &cobra.Command{
		Use:   "modes",
		Short: "Analyze competing failure modes",
		Long: `Fit each declared failure mode on its own risk set and compose the system
reliability curve. Modes are name=time,time,... pairs.

Example: golife-cli modes --mode seal=100,230,450 --mode bearing=600,710 --suspensions 800,800 --horizon 1000 --query-time 500`,
		RunE: func(cmd *cobra.Command, args []string) error {
			modes, err := parseModes(modeArgs)
			if err != nil {
				return err
			}
			suspensions, err := parseFloats(suspensionsArg)
			if err != nil {
				return err
			}
			analysis, err := competing.NewAnalyzer().Analyze(modes, suspensions, life.Family(family), horizon, queryTime)
			if err != nil {
				return err
			}
			return printJSON(analysis)
		},
	}

	cmd.Flags().StringArrayVar(&modeArgs, "mode", nil, "Failure mode as name=t1,t2,... (repeatable)")
	cmd.Flags().StringVar(&suspensionsArg, "suspensions", "", "Comma-separated suspension times shared by every mode")
	cmd.Flags().StringVar(&family, "family", string(life.FamilyWeibull), "Distribution family for every mode")
	cmd.Flags().Float64Var(&horizon, "horizon", 1000, "System curve horizon")
	cmd.Flags().Float64Var(&queryTime, "query-time", 500, "Time at which modes are ranked")
	return cmd
}

func newBudgetCmd(cfg *config.Config) *cobra.Command {
	var family, populationArg string
	var horizon, unitCost, confidence float64

	cmd := &cobra.Command{
		Use:   "budget [data-file]",
		Short: "Forecast spares demand and budget for an aging population",
		Long: `Fit the data, propagate the parameter confidence triple, and forecast
expected failures for a population of age:quantity groups over a horizon.

Example: golife-cli budget pumps.csv --population 0:20,500:35 --horizon 365 --unit-cost 1200`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := excel.NewDataReader(args[0]).ReadDataset()
			if err != nil {
				return err
			}
			population, err := parsePopulation(populationArg)
			if err != nil {
				return err
			}
			fitResult, err := fit.NewMLE().Fit(ds, life.Family(family))
			if err != nil {
				return err
			}
			lower, median, upper, err := bounds.NewFisher().ParamTriples(ds, fitResult.Parameters, confidence)
			if err != nil {
				return err
			}
			budget, err := forecast.NewForecaster().Forecast(forecast.Request{
				Median:     median,
				Lower:      lower,
				Upper:      upper,
				Population: population,
				Horizon:    horizon,
				UnitCost:   unitCost,
				LevelPct:   confidence,
			})
			if err != nil {
				return err
			}
			return printJSON(budget)
		},
	}

	cmd.Flags().StringVar(&family, "family", string(life.FamilyWeibull), "Distribution family")
	cmd.Flags().StringVar(&populationArg, "population", "", "Population as age:quantity,age:quantity,...")
	cmd.Flags().Float64Var(&horizon, "horizon", 365, "Forecast horizon")
	cmd.Flags().Float64Var(&unitCost, "unit-cost", 0, "Cost per replacement unit")
	cmd.Flags().Float64Var(&confidence, "confidence", cfg.Analysis.ConfidenceLevel, "Confidence level in percent")
	return cmd
}

func parseModes(args []string) ([]competing.ModeInput, error) {
	var modes []competing.ModeInput
	for _, arg := range args {
		name, timesArg, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("invalid mode %q (expected name=t1,t2,...)", arg)
		}
		times, err := parseFloats(timesArg)
		if err != nil {
			return nil, fmt.Errorf("mode %q: %w", name, err)
		}
		modes = append(modes, competing.ModeInput{Name: name, FailureTimes: times})
	}
	return modes, nil
}

func parseFloats(arg string) ([]float64, error) {
	if strings.TrimSpace(arg) == "" {
		return nil, nil
	}
	var out []float64
	for _, part := range strings.Split(arg, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", part)
		}
		out = append(out, v)
	}
	return out, nil
}

func parsePopulation(arg string) ([]life.PopulationItem, error) {
	if strings.TrimSpace(arg) == "" {
		return nil, nil
	}
	var items []life.PopulationItem
	for _, part := range strings.Split(arg, ",") {
		ageArg, qtyArg, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			return nil, fmt.Errorf("invalid population group %q (expected age:quantity)", part)
		}
		age, err := strconv.ParseFloat(ageArg, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid age %q", ageArg)
		}
		qty, err := strconv.Atoi(qtyArg)
		if err != nil {
			return nil, fmt.Errorf("invalid quantity %q", qtyArg)
		}
		items = append(items, life.PopulationItem{CurrentAge: age, Quantity: qty})
	}
	return items, nil
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
