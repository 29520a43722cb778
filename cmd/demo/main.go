package main

import (
	"flag"
	"fmt"
	"os"

	"network-summary/internal/analysis"
	"network-summary/internal/config"
	"network-summary/internal/data"
	"network-summary/internal/loader"
	"network-summary/internal/model"
)

// Demo:
// - Build a small solved network in memory
// - Annotate it the way the loader does
// - Print every aggregate and the available-power table per snapshot
func main() {
	cfgPath := flag.String("config", "", "Path to YAML config (optional)")
	outDir := flag.String("out", "", "Optional folder to write the demo network to (e.g. results/networks/demo)")
	flag.Parse()

	cfg := config.Default()
	cfg.Plotting.ConvTechs = []string{"OCGT", "CCGT"}
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			panic(err)
		}
	}

	n := demoNetwork()
	loader.Annotate(n, true)

	fmt.Printf("Network %q: %d buses, %d snapshots (%.4f years)\n", n.Name, len(n.Buses), len(n.Snapshots), n.Years())
	for _, q := range []struct {
		name string
		s    analysis.Series
	}{
		{"p_nom", analysis.AggregatePNom(n)},
		{"p", analysis.AggregateP(n)},
		{"e_nom", analysis.AggregateENom(n)},
		{"p_curtailed", analysis.AggregatePCurtailed(n)},
	} {
		printSeries(q.name, q.s)
	}

	costs, err := analysis.AggregateCosts(n, analysis.CostOptions{Flatten: true, Plotting: &cfg.Plotting})
	if err != nil {
		panic(err)
	}
	printSeries("costs (flattened)", *costs.Flat)

	avail, err := availablePower(n)
	if err != nil {
		panic(err)
	}
	fmt.Println("available power [MW]")
	fmt.Printf("  %-10s", "")
	for _, c := range avail.Columns {
		fmt.Printf(" %8s", c)
	}
	fmt.Println()
	for i, carrier := range avail.Index {
		fmt.Printf("  %-10s", carrier)
		for _, v := range avail.Row(i) {
			fmt.Printf(" %8.1f", v)
		}
		fmt.Println()
	}

	if *outDir != "" {
		if err := data.WriteNetwork(*outDir, n); err != nil {
			panic(err)
		}
		fmt.Fprintf(os.Stderr, "Wrote demo network to %s\n", *outDir)
	}
}

// availablePower scales each variable carrier's mean availability per
// snapshot by its installed capacity.
func availablePower(n *model.Network) (analysis.Table, error) {
	byCarrier := map[string][]model.Generator{}
	var order []string
	for _, g := range n.Generators {
		if _, ok := n.GeneratorsT.PMaxPu[g.Name]; !ok {
			continue
		}
		if _, seen := byCarrier[g.Carrier]; !seen {
			order = append(order, g.Carrier)
		}
		byCarrier[g.Carrier] = append(byCarrier[g.Carrier], g)
	}

	cols := make([]string, len(n.Snapshots))
	for j, s := range n.Snapshots {
		cols[j] = s.Name
	}
	var pnom analysis.Series
	values := make([]float64, 0, len(order)*len(cols))
	for _, c := range order {
		total := 0.0
		mean := make([]float64, len(cols))
		for _, g := range byCarrier[c] {
			total += g.PNomOpt
			for j, pu := range n.GeneratorsT.PMaxPu[g.Name] {
				mean[j] += pu * g.PNomOpt
			}
		}
		if total > 0 {
			for j := range mean {
				mean[j] /= total
			}
		}
		pnom.Append(c, total)
		values = append(values, mean...)
	}

	pu, err := analysis.NewTable(order, cols, values)
	if err != nil {
		return analysis.Table{}, err
	}
	return analysis.Broadcast(pnom, pu)
}

func printSeries(title string, s analysis.Series) {
	fmt.Println(title)
	for i, l := range s.Index {
		fmt.Printf("  %-24s %14.2f\n", l, s.Values[i])
	}
}

func demoNetwork() *model.Network {
	n := model.New("demo")
	n.Snapshots = []model.Snapshot{{Name: "00:00", Weighting: 3}, {Name: "03:00", Weighting: 3}, {Name: "06:00", Weighting: 3}, {Name: "09:00", Weighting: 3}}
	n.Buses = []model.Bus{
		{Name: "DE0", Carrier: "AC", VNom: 380},
		{Name: "DE1", Carrier: "AC", VNom: 380},
		{Name: "DE0 H2", Carrier: "H2", VNom: 1},
	}
	n.Generators = []model.Generator{
		{Name: "DE0 OCGT", Bus: "DE0", Carrier: "OCGT", PNomOpt: 40, CapitalCost: 47000, MarginalCost: 58},
		{Name: "DE0 solar", Bus: "DE0", Carrier: "solar", PNomOpt: 120, CapitalCost: 52000},
		{Name: "DE1 onwind", Bus: "DE1", Carrier: "onwind", PNomOpt: 80, CapitalCost: 110000},
	}
	n.GeneratorsT.P["DE0 OCGT"] = []float64{30, 10, 0, 25}
	n.GeneratorsT.P["DE0 solar"] = []float64{0, 20, 90, 60}
	n.GeneratorsT.P["DE1 onwind"] = []float64{50, 45, 30, 20}
	n.GeneratorsT.PMaxPu["DE0 solar"] = []float64{0, 0.2, 0.8, 0.6}
	n.GeneratorsT.PMaxPu["DE1 onwind"] = []float64{0.7, 0.6, 0.4, 0.3}

	n.Loads = []model.Load{{Name: "DE0", Bus: "DE0"}, {Name: "DE1", Bus: "DE1"}}
	n.LoadsT.P["DE0"] = []float64{50, 55, 70, 65}
	n.LoadsT.P["DE1"] = []float64{25, 20, 30, 30}

	n.Lines = []model.Line{{Name: "0", Bus0: "DE0", Bus1: "DE1", Length: 210, SNom: 900, SNomMin: 600, SNomOpt: 1100, CapitalCost: 38}}
	n.Links = []model.Link{{Name: "DE0 electrolysis", Bus0: "DE0", Bus1: "DE0 H2", PNomMin: 5, PNomOpt: 12, CapitalCost: 35000}}
	n.LinksT.P0["DE0 electrolysis"] = []float64{0, 5, 12, 0}
	n.StorageUnits = []model.StorageUnit{
		{Name: "DE1 PHS", Bus: "DE1", Carrier: "PHS", PNomOpt: 30, MaxHours: 6, MarginalCost: 0.5},
		{Name: "DE1 hydro", Bus: "DE1", Carrier: "hydro", PNomOpt: 10, MaxHours: 4, MarginalCost: 0.1},
	}
	n.StorageUnitsT.P["DE1 PHS"] = []float64{5, 0, -10, 10}
	n.StorageUnitsT.P["DE1 hydro"] = []float64{3, 3, 2, 2}
	n.StorageUnitsT.Inflow["DE1 hydro"] = []float64{4, 4, 4, 4}
	n.Stores = []model.Store{{Name: "DE0 H2 store", Bus: "DE0 H2", ENomOpt: 300, CapitalCost: 200}}
	n.StoresT.P["DE0 H2 store"] = []float64{0, -5, -12, 0}
	return n
}
