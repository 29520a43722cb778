package analysis

import (
	"errors"
	"math"

	"network-summary/internal/config"
	"network-summary/internal/model"
)

// ErrFlattenNeedsOptions is returned when a flattened cost report is requested
// without plotting options naming the conventional technologies.
var ErrFlattenNeedsOptions = errors.New("flatten requires plotting options")

type CostKind string

const (
	CostCapital  CostKind = "capital"
	CostMarginal CostKind = "marginal"
)

// CostKey identifies one per-carrier cost series: component list name and kind.
type CostKey struct {
	Component string
	Kind      CostKind
}

// Costs holds per-component capital and marginal costs per carrier.
type Costs struct {
	// Keys lists the series in component order, capital before marginal.
	Keys   []CostKey
	Series map[CostKey]Series
	// Flat is set when the report was requested flattened.
	Flat *Series
}

type CostOptions struct {
	Flatten bool
	// Plotting supplies conv_techs; required when Flatten is set.
	Plotting *config.PlottingConfig
	// ExistingOnly prices installed rather than optimised capacity.
	ExistingOnly bool
}

// costRow is the part of an element the cost report needs.
type costRow struct {
	carrier      string
	capacity     float64
	capitalCost  float64
	marginalCost float64
	power        float64 // time-summed power, NaN when not available
}

type costComponent struct {
	kind     model.Kind
	hasPower bool
	rows     func(n *model.Network, existingOnly bool) []costRow
}

func pick(existingOnly bool, existing, opt float64) float64 {
	if existingOnly {
		return existing
	}
	return opt
}

func seriesSum(ts model.TimeSeries, name string) float64 {
	if v, ok := ts.Sum(name); ok {
		return v
	}
	return math.NaN()
}

// costComponents mirrors the element types the report covers, in report order.
var costComponents = []costComponent{
	{model.KindLink, true, func(n *model.Network, existing bool) []costRow {
		out := make([]costRow, 0, len(n.Links))
		for _, l := range n.Links {
			out = append(out, costRow{l.Carrier, pick(existing, l.PNom, l.PNomOpt), l.CapitalCost, l.MarginalCost, seriesSum(n.LinksT.P0, l.Name)})
		}
		return out
	}},
	{model.KindGenerator, true, func(n *model.Network, existing bool) []costRow {
		out := make([]costRow, 0, len(n.Generators))
		for _, g := range n.Generators {
			out = append(out, costRow{g.Carrier, pick(existing, g.PNom, g.PNomOpt), g.CapitalCost, g.MarginalCost, seriesSum(n.GeneratorsT.P, g.Name)})
		}
		return out
	}},
	{model.KindStorageUnit, true, func(n *model.Network, existing bool) []costRow {
		out := make([]costRow, 0, len(n.StorageUnits))
		for _, su := range n.StorageUnits {
			p := seriesSum(n.StorageUnitsT.P, su.Name)
			// only units that discharge on balance incur marginal cost
			if !(p > 0) {
				p = math.NaN()
			}
			out = append(out, costRow{su.Carrier, pick(existing, su.PNom, su.PNomOpt), su.CapitalCost, su.MarginalCost, p})
		}
		return out
	}},
	{model.KindStore, true, func(n *model.Network, existing bool) []costRow {
		out := make([]costRow, 0, len(n.Stores))
		for _, s := range n.Stores {
			out = append(out, costRow{s.Carrier, pick(existing, s.ENom, s.ENomOpt), s.CapitalCost, s.MarginalCost, seriesSum(n.StoresT.P, s.Name)})
		}
		return out
	}},
	{model.KindLine, false, func(n *model.Network, existing bool) []costRow {
		out := make([]costRow, 0, len(n.Lines))
		for _, l := range n.Lines {
			out = append(out, costRow{carrier: l.Carrier, capacity: pick(existing, l.SNom, l.SNomOpt), capitalCost: l.CapitalCost})
		}
		return out
	}},
	{model.KindTransformer, false, func(n *model.Network, existing bool) []costRow {
		out := make([]costRow, 0, len(n.Transformers))
		for _, t := range n.Transformers {
			out = append(out, costRow{carrier: t.Carrier, capacity: pick(existing, t.SNom, t.SNomOpt), capitalCost: t.CapitalCost})
		}
		return out
	}},
}

// AggregateCosts computes capital costs (capacity x capital cost) and
// marginal costs (dispatched energy x marginal cost) per carrier for every
// component table, empty tables included.
func AggregateCosts(n *model.Network, opts CostOptions) (*Costs, error) {
	if opts.Flatten && opts.Plotting == nil {
		return nil, ErrFlattenNeedsOptions
	}

	c := &Costs{Series: map[CostKey]Series{}}
	for _, comp := range costComponents {
		rows := comp.rows(n, opts.ExistingOnly)
		list := comp.kind.ListName()

		keys := make([]string, len(rows))
		capital := make([]float64, len(rows))
		for i, r := range rows {
			keys[i] = r.carrier
			capital[i] = r.capacity * r.capitalCost
		}
		c.add(CostKey{list, CostCapital}, groupSum(keys, capital))

		if comp.hasPower {
			marginal := make([]float64, len(rows))
			for i, r := range rows {
				marginal[i] = r.power * r.marginalCost
			}
			c.add(CostKey{list, CostMarginal}, groupSum(keys, marginal))
		}
	}

	if opts.Flatten {
		flat := c.Flatten(opts.Plotting.ConvTechs)
		c.Flat = &flat
	}
	return c, nil
}

func (c *Costs) add(k CostKey, s Series) {
	c.Keys = append(c.Keys, k)
	c.Series[k] = s
}

// Total returns every series of one kind concatenated in component order.
func (c *Costs) Total(kind CostKind) Series {
	var parts []Series
	for _, k := range c.Keys {
		if k.Kind == kind {
			parts = append(parts, c.Series[k])
		}
	}
	return Concat(parts...)
}

// Flatten collapses the report to one value per carrier: capital plus
// marginal cost, with marginal costs of convTechs kept apart as
// "<carrier> marginal".
func (c *Costs) Flatten(convTechs []string) Series {
	rename := make(map[string]string, len(convTechs))
	for _, t := range convTechs {
		rename[t] = t + " marginal"
	}
	return c.Total(CostCapital).Add(c.Total(CostMarginal).Rename(rename))
}
