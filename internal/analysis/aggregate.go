package analysis

import (
	"math"
	"sort"

	"network-summary/internal/model"
)

// Aggregator reduces a network to one value per carrier.
type Aggregator func(*model.Network) Series

// Aggregators maps summary kind names to their aggregator.
var Aggregators = map[string]Aggregator{
	"p_nom":       AggregatePNom,
	"p":           AggregateP,
	"e_nom":       AggregateENom,
	"curtailment": AggregatePCurtailed,
}

// AggregatorKinds returns the keys of Aggregators, sorted.
func AggregatorKinds() []string {
	kinds := make([]string, 0, len(Aggregators))
	for k := range Aggregators {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// AggregatePNom returns installed capacity per carrier for generators,
// storage units and links, followed by the mean load per load carrier.
func AggregatePNom(n *model.Network) Series {
	var gk, sk, lk []string
	var gv, sv, lv []float64
	for _, g := range n.Generators {
		gk, gv = append(gk, g.Carrier), append(gv, g.PNomOpt)
	}
	for _, su := range n.StorageUnits {
		sk, sv = append(sk, su.Carrier), append(sv, su.PNomOpt)
	}
	for _, l := range n.Links {
		lk, lv = append(lk, l.Carrier), append(lv, l.PNomOpt)
	}

	// Mean over snapshots of the per-carrier total equals the sum of per-load means.
	var dk []string
	var dv []float64
	for _, l := range n.Loads {
		if m, ok := n.LoadsT.P.Mean(l.Name); ok {
			dk, dv = append(dk, l.Carrier), append(dv, m)
		}
	}

	return Concat(groupSum(gk, gv), groupSum(sk, sv), groupSum(lk, lv), groupSum(dk, dv))
}

// AggregateP returns energy produced per carrier over all snapshots for
// generators, storage units and stores, followed by load consumption as
// negative values.
func AggregateP(n *model.Network) Series {
	var gk, sk, stk, lk []string
	var gv, sv, stv, lv []float64
	for _, g := range n.Generators {
		if v, ok := n.GeneratorsT.P.Sum(g.Name); ok {
			gk, gv = append(gk, g.Carrier), append(gv, v)
		}
	}
	for _, su := range n.StorageUnits {
		if v, ok := n.StorageUnitsT.P.Sum(su.Name); ok {
			sk, sv = append(sk, su.Carrier), append(sv, v)
		}
	}
	for _, s := range n.Stores {
		if v, ok := n.StoresT.P.Sum(s.Name); ok {
			stk, stv = append(stk, s.Carrier), append(stv, v)
		}
	}
	for _, l := range n.Loads {
		if v, ok := n.LoadsT.P.Sum(l.Name); ok {
			lk, lv = append(lk, l.Carrier), append(lv, v)
		}
	}
	return Concat(groupSum(gk, gv), groupSum(sk, sv), groupSum(stk, stv), groupSum(lk, lv).Neg())
}

// AggregateENom returns installed energy capacity per carrier: storage units
// as power times max hours, then stores.
func AggregateENom(n *model.Network) Series {
	var sk, stk []string
	var sv, stv []float64
	for _, su := range n.StorageUnits {
		sk, sv = append(sk, su.Carrier), append(sv, su.PNomOpt*su.MaxHours)
	}
	for _, s := range n.Stores {
		stk, stv = append(stk, s.Carrier), append(stv, s.ENomOpt)
	}
	return Concat(groupSum(sk, sv), groupSum(stk, stv))
}

// AggregatePCurtailed returns unused potential per carrier: available minus
// dispatched energy for generators, inflow minus dispatch for storage units.
// Elements missing one of the series add nothing to their carrier.
func AggregatePCurtailed(n *model.Network) Series {
	var gk, sk []string
	var gv, sv []float64
	for _, g := range n.Generators {
		avail, okA := n.GeneratorsT.PMaxPu.Sum(g.Name)
		p, okP := n.GeneratorsT.P.Sum(g.Name)
		v := math.NaN()
		if okA && okP {
			v = avail*g.PNomOpt - p
		}
		gk, gv = append(gk, g.Carrier), append(gv, v)
	}
	for _, su := range n.StorageUnits {
		inflow, okI := n.StorageUnitsT.Inflow.Sum(su.Name)
		p, okP := n.StorageUnitsT.P.Sum(su.Name)
		if !okI && !okP {
			continue
		}
		v := math.NaN()
		if okI && okP {
			v = inflow - p
		}
		sk, sv = append(sk, su.Carrier), append(sv, v)
	}
	return Concat(groupSum(gk, gv), groupSum(sk, sv))
}
