package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"network-summary/internal/model"
)

// WriteNetwork exports n in the CSV-folder layout read by LoadNetwork.
// Empty component tables are skipped.
func WriteNetwork(dir string, n *model.Network) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create network dir: %w", err)
	}

	tables := []struct {
		name   string
		header []string
		rows   [][]string
	}{
		{"snapshots", []string{"name", "objective"}, snapshotRows(n)},
		{"buses", []string{"name", "carrier", "v_nom"}, busRows(n)},
		{"generators", []string{"name", "bus", "carrier", "p_nom", "p_nom_min", "p_nom_opt", "capital_cost", "marginal_cost"}, generatorRows(n)},
		{"loads", []string{"name", "bus", "carrier"}, loadRows(n)},
		{"lines", []string{"name", "bus0", "bus1", "carrier", "length", "s_nom", "s_nom_min", "s_nom_opt", "capital_cost"}, lineRows(n)},
		{"transformers", []string{"name", "bus0", "bus1", "carrier", "s_nom", "s_nom_opt", "capital_cost"}, transformerRows(n)},
		{"links", []string{"name", "bus0", "bus1", "carrier", "length", "underwater_fraction", "p_nom", "p_nom_min", "p_nom_opt", "capital_cost", "marginal_cost"}, linkRows(n)},
		{"storage_units", []string{"name", "bus", "carrier", "p_nom", "p_nom_opt", "max_hours", "capital_cost", "marginal_cost"}, storageUnitRows(n)},
		{"stores", []string{"name", "bus", "carrier", "e_nom", "e_nom_opt", "capital_cost", "marginal_cost"}, storeRows(n)},
	}
	for _, t := range tables {
		if len(t.rows) == 0 && t.name != "buses" {
			continue
		}
		if err := writeCSV(filepath.Join(dir, t.name+".csv"), t.header, t.rows); err != nil {
			return err
		}
	}

	series := []struct {
		file string
		ts   model.TimeSeries
	}{
		{"generators-p", n.GeneratorsT.P},
		{"generators-p_max_pu", n.GeneratorsT.PMaxPu},
		{"loads-p", n.LoadsT.P},
		{"storage_units-p", n.StorageUnitsT.P},
		{"storage_units-inflow", n.StorageUnitsT.Inflow},
		{"stores-p", n.StoresT.P},
		{"links-p0", n.LinksT.P0},
	}
	for _, s := range series {
		if len(s.ts) == 0 {
			continue
		}
		if err := writeSeries(filepath.Join(dir, s.file+".csv"), n.Snapshots, s.ts); err != nil {
			return err
		}
	}
	return nil
}

// SummaryRow is one line of a summary report.
type SummaryRow struct {
	Quantity  string // e.g. "p_nom", "costs"
	Component string // set for cost rows, e.g. "generators"
	Kind      string // "capital" / "marginal" for cost rows
	Carrier   string
	Value     float64
}

// WriteSummaryCSV writes report rows as CSV.
func WriteSummaryCSV(path string, rows []SummaryRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{r.Quantity, r.Component, r.Kind, r.Carrier, fmtFloat(r.Value)})
	}
	return writeCSV(path, []string{"quantity", "component", "kind", "carrier", "value"}, out)
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return w.Error()
}

func writeSeries(path string, snapshots []model.Snapshot, ts model.TimeSeries) error {
	names := make([]string, 0, len(ts))
	for name := range ts {
		names = append(names, name)
	}
	sort.Strings(names)

	header := append([]string{"snapshot"}, names...)
	rows := make([][]string, len(snapshots))
	for i, s := range snapshots {
		row := make([]string, 0, len(header))
		row = append(row, s.Name)
		for _, name := range names {
			v := ts[name]
			if i < len(v) {
				row = append(row, fmtFloat(v[i]))
			} else {
				row = append(row, "")
			}
		}
		rows[i] = row
	}
	return writeCSV(path, header, rows)
}

func snapshotRows(n *model.Network) [][]string {
	out := make([][]string, 0, len(n.Snapshots))
	for _, s := range n.Snapshots {
		out = append(out, []string{s.Name, fmtFloat(s.Weighting)})
	}
	return out
}

func busRows(n *model.Network) [][]string {
	out := make([][]string, 0, len(n.Buses))
	for _, b := range n.Buses {
		out = append(out, []string{b.Name, b.Carrier, fmtFloat(b.VNom)})
	}
	return out
}

func generatorRows(n *model.Network) [][]string {
	out := make([][]string, 0, len(n.Generators))
	for _, g := range n.Generators {
		out = append(out, []string{g.Name, g.Bus, g.Carrier,
			fmtFloat(g.PNom), fmtFloat(g.PNomMin), fmtFloat(g.PNomOpt),
			fmtFloat(g.CapitalCost), fmtFloat(g.MarginalCost)})
	}
	return out
}

func loadRows(n *model.Network) [][]string {
	out := make([][]string, 0, len(n.Loads))
	for _, l := range n.Loads {
		out = append(out, []string{l.Name, l.Bus, l.Carrier})
	}
	return out
}

func lineRows(n *model.Network) [][]string {
	out := make([][]string, 0, len(n.Lines))
	for _, l := range n.Lines {
		out = append(out, []string{l.Name, l.Bus0, l.Bus1, l.Carrier,
			fmtFloat(l.Length), fmtFloat(l.SNom), fmtFloat(l.SNomMin), fmtFloat(l.SNomOpt),
			fmtFloat(l.CapitalCost)})
	}
	return out
}

func transformerRows(n *model.Network) [][]string {
	out := make([][]string, 0, len(n.Transformers))
	for _, t := range n.Transformers {
		out = append(out, []string{t.Name, t.Bus0, t.Bus1, t.Carrier,
			fmtFloat(t.SNom), fmtFloat(t.SNomOpt), fmtFloat(t.CapitalCost)})
	}
	return out
}

func linkRows(n *model.Network) [][]string {
	out := make([][]string, 0, len(n.Links))
	for _, l := range n.Links {
		out = append(out, []string{l.Name, l.Bus0, l.Bus1, l.Carrier,
			fmtFloat(l.Length), fmtFloat(l.UnderwaterFraction),
			fmtFloat(l.PNom), fmtFloat(l.PNomMin), fmtFloat(l.PNomOpt),
			fmtFloat(l.CapitalCost), fmtFloat(l.MarginalCost)})
	}
	return out
}

func storageUnitRows(n *model.Network) [][]string {
	out := make([][]string, 0, len(n.StorageUnits))
	for _, su := range n.StorageUnits {
		out = append(out, []string{su.Name, su.Bus, su.Carrier,
			fmtFloat(su.PNom), fmtFloat(su.PNomOpt), fmtFloat(su.MaxHours),
			fmtFloat(su.CapitalCost), fmtFloat(su.MarginalCost)})
	}
	return out
}

func storeRows(n *model.Network) [][]string {
	out := make([][]string, 0, len(n.Stores))
	for _, s := range n.Stores {
		out = append(out, []string{s.Name, s.Bus, s.Carrier,
			fmtFloat(s.ENom), fmtFloat(s.ENomOpt),
			fmtFloat(s.CapitalCost), fmtFloat(s.MarginalCost)})
	}
	return out
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
