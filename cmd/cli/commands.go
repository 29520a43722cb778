package main

import (
	"errors"
	"fmt"
	"strings"

	"network-summary/internal/analysis"
	"network-summary/internal/config"
	"network-summary/internal/data"
	"network-summary/internal/loader"
	"network-summary/internal/logging"
	"network-summary/internal/model"
	"network-summary/internal/step"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSummarizeCmd(logger loggerFunc) *cobra.Command {
	var nf networkFlags
	var kind string
	var merge bool
	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Print per-carrier capacity, dispatch, energy capacity and curtailment",
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := analysis.AggregatorKinds()
			if kind != "" {
				if _, ok := analysis.Aggregators[kind]; !ok {
					return fmt.Errorf("unknown --kind %q (want one of %s)", kind, strings.Join(kinds, ", "))
				}
				kinds = []string{kind}
			}
			cfg, err := nf.loadConfig()
			if err != nil {
				return err
			}
			lg, err := logger(nf.logging(cmd, cfg))
			if err != nil {
				return err
			}
			n, err := nf.load(cfg, lg)
			if err != nil {
				return err
			}
			for _, k := range kinds {
				s := analysis.Aggregators[k](n)
				if merge {
					s = s.Merge()
				}
				printSeries(cmd.OutOrStdout(), k, s)
			}
			return nil
		},
	}
	nf.register(cmd)
	cmd.Flags().StringVar(&kind, "kind", "", "only one aggregate: p_nom, p, e_nom or curtailment")
	cmd.Flags().BoolVar(&merge, "merge", false, "sum carriers repeated across element groups")
	return cmd
}

func newCostsCmd(logger loggerFunc) *cobra.Command {
	var nf networkFlags
	var flatten, existingOnly bool
	cmd := &cobra.Command{
		Use:   "costs",
		Short: "Print capital and marginal costs per carrier",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := nf.loadConfig()
			if err != nil {
				return err
			}
			lg, err := logger(nf.logging(cmd, cfg))
			if err != nil {
				return err
			}
			n, err := nf.load(cfg, lg)
			if err != nil {
				return err
			}
			c, err := analysis.AggregateCosts(n, analysis.CostOptions{
				Flatten:      flatten,
				Plotting:     &cfg.Plotting,
				ExistingOnly: existingOnly,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if c.Flat != nil {
				printSeries(out, "costs", *c.Flat)
				return nil
			}
			for _, k := range c.Keys {
				printSeries(out, k.Component+" "+string(k.Kind), c.Series[k])
			}
			return nil
		},
	}
	nf.register(cmd)
	cmd.Flags().BoolVar(&flatten, "flatten", false, "one value per carrier, conventional marginal costs apart")
	cmd.Flags().BoolVar(&existingOnly, "existing-only", false, "price installed instead of optimised capacity")
	return cmd
}

func newAnnotateCmd(logger loggerFunc) *cobra.Command {
	var nf networkFlags
	var out string
	cmd := &cobra.Command{
		Use:   "annotate",
		Short: "Write the network back out with derived carriers and updated costs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := nf.loadConfig()
			if err != nil {
				return err
			}
			lg, err := logger(nf.logging(cmd, cfg))
			if err != nil {
				return err
			}
			n, err := nf.load(cfg, lg)
			if err != nil {
				return err
			}
			if err := data.WriteNetwork(out, n); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote network %s to %s\n", n.Name, out)
			return nil
		},
	}
	nf.register(cmd)
	cmd.Flags().StringVar(&out, "out", "", "output folder")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func newRunCmd() *cobra.Command {
	var workflow, rule string
	var wildcards map[string]string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the summary step of a workflow rule outside the workflow engine",
		Long: `Builds the step context of one rule from a workflow manifest and runs the
network summary with it. The rule needs a "network" input and at least one output;
a "tech_costs" input enables the transmission cost update. Params "flatten" and
"existing_only" control the cost report.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := step.LoadWorkflow(workflow)
			if err != nil {
				return err
			}
			sc, err := w.Context(rule, wildcards)
			if err != nil {
				return err
			}
			return runSummaryStep(sc)
		},
	}
	cmd.Flags().StringVar(&workflow, "workflow", "workflow.yaml", "workflow manifest")
	cmd.Flags().StringVar(&rule, "rule", "make_summary", "rule to run")
	cmd.Flags().StringToStringVar(&wildcards, "wildcard", nil, "wildcard values (name=value)")
	return cmd
}

func runSummaryStep(sc *step.Context) error {
	if sc.Config == nil {
		sc.Config = config.Default()
	}
	if err := sc.EnsureDirs(nil); err != nil {
		return err
	}
	logger, closeLog, err := logging.ForStep(logging.Options{LoggingConfig: sc.Config.Logging}, sc)
	if err != nil {
		return err
	}
	defer closeLog()
	logger = logger.With(zap.String("rule", sc.Rule))

	network, ok := sc.Input.Get("network")
	if !ok {
		network, ok = sc.Input.First()
	}
	if !ok {
		return errors.New("rule has no network input")
	}
	out, ok := sc.Output.First()
	if !ok {
		return errors.New("rule has no output")
	}

	var n *model.Network
	if techCosts, ok := sc.Input.Get("tech_costs"); ok {
		n, err = loader.Load(network, techCosts, sc.Config, loader.Options{CombineHydroPS: true, Logger: logger})
	} else {
		n, err = data.LoadNetwork(network)
		if err == nil {
			loader.Annotate(n, true)
		}
	}
	if err != nil {
		logger.Error("load network", zap.Error(err))
		return err
	}

	s, err := analysis.Summarize(n, analysis.CostOptions{
		Flatten:      sc.BoolParam("flatten"),
		Plotting:     &sc.Config.Plotting,
		ExistingOnly: sc.BoolParam("existing_only"),
	})
	if err != nil {
		return err
	}
	rows := s.Rows()
	if err := data.WriteSummaryCSV(out, rows); err != nil {
		return err
	}
	logger.Info("summary written", zap.String("output", out), zap.Int("rows", len(rows)))
	return nil
}
