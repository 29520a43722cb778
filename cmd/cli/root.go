package main

import (
	"fmt"
	"io"

	"network-summary/internal/analysis"
	"network-summary/internal/config"
	"network-summary/internal/data"
	"network-summary/internal/loader"
	"network-summary/internal/logging"
	"network-summary/internal/model"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// networkFlags are shared by every command that reads a network.
type networkFlags struct {
	network   string
	techCosts string
	config    string
	noCombine bool
}

func (f *networkFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.network, "network", "", "network folder (CSV export)")
	cmd.Flags().StringVar(&f.techCosts, "costs", "", "technology cost CSV; enables transmission cost update")
	cmd.Flags().StringVar(&f.config, "config", "", "YAML config (defaults when empty)")
	cmd.Flags().BoolVar(&f.noCombine, "no-combine-hydro", false, "keep PHS and hydro storage carriers apart")
	_ = cmd.MarkFlagRequired("network")
}

func (f *networkFlags) loadConfig() (*config.Config, error) {
	if f.config == "" {
		return config.Default(), nil
	}
	return config.Load(f.config)
}

// logging returns the --log-level flag when it was set or no config file was
// given, and the config file's logging section otherwise.
func (f *networkFlags) logging(cmd *cobra.Command, cfg *config.Config) config.LoggingConfig {
	level, _ := cmd.Flags().GetString("log-level")
	if f.config == "" || cfg == nil || cmd.Flags().Changed("log-level") {
		return config.LoggingConfig{Level: level}
	}
	return cfg.Logging
}

// load reads and annotates the network. Transmission costs are only
// recomputed when a cost table was given.
func (f *networkFlags) load(cfg *config.Config, logger *zap.Logger) (*model.Network, error) {
	if f.techCosts != "" {
		return loader.Load(f.network, f.techCosts, cfg, loader.Options{CombineHydroPS: !f.noCombine, Logger: logger})
	}
	n, err := data.LoadNetwork(f.network)
	if err != nil {
		return nil, err
	}
	loader.Annotate(n, !f.noCombine)
	return n, nil
}

// loggerFunc builds the command logger on first use.
type loggerFunc func(config.LoggingConfig) (*zap.Logger, error)

func newRootCmd() *cobra.Command {
	var logLevel string
	var lg *zap.Logger
	closeLog := func() {}

	root := &cobra.Command{
		Use:           "cli",
		Short:         "Summaries of solved power-system networks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			closeLog()
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "WARNING", "log level (DEBUG, INFO, WARNING, ERROR); overrides logging.level of --config")

	logger := func(lc config.LoggingConfig) (*zap.Logger, error) {
		if lg != nil {
			return lg, nil
		}
		l, c, err := logging.New(logging.Options{LoggingConfig: lc, SkipHandlers: true}, "")
		if err != nil {
			return nil, err
		}
		lg, closeLog = l, c
		return lg, nil
	}
	root.AddCommand(
		newSummarizeCmd(logger),
		newCostsCmd(logger),
		newAnnotateCmd(logger),
		newRunCmd(),
	)
	return root
}

func printSeries(w io.Writer, title string, s analysis.Series) {
	fmt.Fprintf(w, "%s\n", title)
	for i, l := range s.Index {
		fmt.Fprintf(w, "  %-28s %16.4f\n", l, s.Values[i])
	}
}
