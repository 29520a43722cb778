// Package loader reads a solved network and prepares it for summaries:
// carrier labels derived from topology, capacities normalised to their
// minimum, and transmission costs recomputed for the simulated horizon.
package loader

import (
	"errors"
	"fmt"

	"network-summary/internal/config"
	"network-summary/internal/costs"
	"network-summary/internal/data"
	"network-summary/internal/model"

	"go.uber.org/zap"
)

type Options struct {
	// CombineHydroPS merges PHS and hydro storage units into "hydro+PHS".
	CombineHydroPS bool
	Logger         *zap.Logger
}

// DefaultOptions merges hydro carriers, like the summary steps expect.
func DefaultOptions() Options {
	return Options{CombineHydroPS: true}
}

// Load reads the network at path, annotates it and applies transmission
// costs derived from the technology data at techCosts.
func Load(path, techCosts string, cfg *config.Config, opts Options) (*model.Network, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	n, err := data.LoadNetwork(path)
	if err != nil {
		return nil, fmt.Errorf("load network: %w", err)
	}
	Annotate(n, opts.CombineHydroPS)

	nYears := n.Years()
	table, err := costs.Load(techCosts, nYears, cfg.Costs, cfg.Electricity)
	if err != nil {
		return nil, fmt.Errorf("load costs: %w", err)
	}
	err = costs.UpdateTransmissionCosts(n, table, costs.TransmissionOptions{
		LengthFactor:    cfg.Lines.LengthFactor,
		SimpleHVDCCosts: cfg.Links.SimpleHVDCCosts,
	})
	if err != nil {
		return nil, fmt.Errorf("update transmission costs: %w", err)
	}

	log.Info("loaded network",
		zap.String("path", path),
		zap.Int("snapshots", len(n.Snapshots)),
		zap.Float64("years", nYears),
		zap.Int("buses", len(n.Buses)),
		zap.Int("generators", len(n.Generators)),
		zap.Int("links", len(n.Links)),
	)
	return n, nil
}

// Annotate derives carrier labels and resets line and link capacities to
// their minimum. Running it twice gives the same result.
func Annotate(n *model.Network, combineHydroPS bool) {
	n.AssignCarriers(model.CarrierRules{CombineHydroPS: combineHydroPS})
	for i := range n.Lines {
		n.Lines[i].SNom = n.Lines[i].SNomMin
	}
	for i := range n.Links {
		n.Links[i].PNom = n.Links[i].PNomMin
	}
}
