package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"network-summary/internal/model"
)

// LoadNetwork reads a network exported as a CSV folder: one static table per
// component (buses.csv, generators.csv, ...), snapshots.csv and time series
// named <list_name>-<attr>.csv. Component files that don't exist are empty
// tables; buses.csv is required.
func LoadNetwork(dir string) (*model.Network, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: network path is not a directory", dir)
	}

	n := model.New(filepath.Base(dir))
	r := &folderReader{dir: dir}

	buses, err := r.table("buses", true)
	if err != nil {
		return nil, err
	}
	if err := r.readSnapshots(n); err != nil {
		return nil, err
	}

	for i := range buses.rows {
		b := model.Bus{Name: buses.name(i), Carrier: buses.str(i, "carrier")}
		if b.VNom, err = buses.num(i, "v_nom", 1); err != nil {
			return nil, err
		}
		n.Buses = append(n.Buses, b)
	}

	if err := r.readGenerators(n); err != nil {
		return nil, err
	}
	if err := r.readLoads(n); err != nil {
		return nil, err
	}
	if err := r.readLines(n); err != nil {
		return nil, err
	}
	if err := r.readTransformers(n); err != nil {
		return nil, err
	}
	if err := r.readLinks(n); err != nil {
		return nil, err
	}
	if err := r.readStorageUnits(n); err != nil {
		return nil, err
	}
	if err := r.readStores(n); err != nil {
		return nil, err
	}

	series := []struct {
		file string
		dst  model.TimeSeries
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
		if err := r.readSeries(s.file, len(n.Snapshots), s.dst); err != nil {
			return nil, err
		}
	}
	return n, nil
}

type folderReader struct {
	dir string
}

func (r *folderReader) path(name string) string {
	return filepath.Join(r.dir, name+".csv")
}

// table returns nil (no error) for an optional file that does not exist.
func (r *folderReader) table(name string, required bool) (*csvTable, error) {
	t, err := readCSVTable(r.path(name))
	if err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return &csvTable{path: r.path(name), col: map[string]int{}}, nil
		}
		return nil, err
	}
	return t, nil
}

func (r *folderReader) readSnapshots(n *model.Network) error {
	t, err := r.table("snapshots", false)
	if err != nil {
		return err
	}
	if len(t.rows) == 0 {
		// A network without explicit snapshots has a single one, weighted 1.
		n.Snapshots = []model.Snapshot{{Name: "now", Weighting: 1}}
		return nil
	}
	weightCol := ""
	for _, c := range []string{"objective", "weightings", "generators"} {
		if _, ok := t.col[c]; ok {
			weightCol = c
			break
		}
	}
	for i := range t.rows {
		s := model.Snapshot{Name: t.name(i), Weighting: 1}
		if weightCol != "" {
			if s.Weighting, err = t.num(i, weightCol, 1); err != nil {
				return err
			}
		}
		n.Snapshots = append(n.Snapshots, s)
	}
	return nil
}

func (r *folderReader) readGenerators(n *model.Network) error {
	t, err := r.table(model.KindGenerator.ListName(), false)
	if err != nil {
		return err
	}
	for i := range t.rows {
		g := model.Generator{Name: t.name(i), Bus: t.str(i, "bus"), Carrier: t.str(i, "carrier")}
		if err := t.nums(i, map[string]*float64{
			"p_nom":         &g.PNom,
			"p_nom_min":     &g.PNomMin,
			"p_nom_opt":     &g.PNomOpt,
			"capital_cost":  &g.CapitalCost,
			"marginal_cost": &g.MarginalCost,
		}); err != nil {
			return err
		}
		n.Generators = append(n.Generators, g)
	}
	return nil
}

func (r *folderReader) readLoads(n *model.Network) error {
	t, err := r.table(model.KindLoad.ListName(), false)
	if err != nil {
		return err
	}
	for i := range t.rows {
		n.Loads = append(n.Loads, model.Load{Name: t.name(i), Bus: t.str(i, "bus"), Carrier: t.str(i, "carrier")})
	}
	return nil
}

func (r *folderReader) readLines(n *model.Network) error {
	t, err := r.table(model.KindLine.ListName(), false)
	if err != nil {
		return err
	}
	for i := range t.rows {
		l := model.Line{Name: t.name(i), Bus0: t.str(i, "bus0"), Bus1: t.str(i, "bus1"), Carrier: t.str(i, "carrier")}
		if err := t.nums(i, map[string]*float64{
			"length":       &l.Length,
			"s_nom":        &l.SNom,
			"s_nom_min":    &l.SNomMin,
			"s_nom_opt":    &l.SNomOpt,
			"capital_cost": &l.CapitalCost,
		}); err != nil {
			return err
		}
		n.Lines = append(n.Lines, l)
	}
	return nil
}

func (r *folderReader) readTransformers(n *model.Network) error {
	t, err := r.table(model.KindTransformer.ListName(), false)
	if err != nil {
		return err
	}
	for i := range t.rows {
		tr := model.Transformer{Name: t.name(i), Bus0: t.str(i, "bus0"), Bus1: t.str(i, "bus1"), Carrier: t.str(i, "carrier")}
		if err := t.nums(i, map[string]*float64{
			"s_nom":        &tr.SNom,
			"s_nom_opt":    &tr.SNomOpt,
			"capital_cost": &tr.CapitalCost,
		}); err != nil {
			return err
		}
		n.Transformers = append(n.Transformers, tr)
	}
	return nil
}

func (r *folderReader) readLinks(n *model.Network) error {
	t, err := r.table(model.KindLink.ListName(), false)
	if err != nil {
		return err
	}
	for i := range t.rows {
		l := model.Link{Name: t.name(i), Bus0: t.str(i, "bus0"), Bus1: t.str(i, "bus1"), Carrier: t.str(i, "carrier")}
		if err := t.nums(i, map[string]*float64{
			"length":              &l.Length,
			"underwater_fraction": &l.UnderwaterFraction,
			"p_nom":               &l.PNom,
			"p_nom_min":           &l.PNomMin,
			"p_nom_opt":           &l.PNomOpt,
			"capital_cost":        &l.CapitalCost,
			"marginal_cost":       &l.MarginalCost,
		}); err != nil {
			return err
		}
		n.Links = append(n.Links, l)
	}
	return nil
}

func (r *folderReader) readStorageUnits(n *model.Network) error {
	t, err := r.table(model.KindStorageUnit.ListName(), false)
	if err != nil {
		return err
	}
	for i := range t.rows {
		su := model.StorageUnit{Name: t.name(i), Bus: t.str(i, "bus"), Carrier: t.str(i, "carrier")}
		if err := t.nums(i, map[string]*float64{
			"p_nom":         &su.PNom,
			"p_nom_opt":     &su.PNomOpt,
			"capital_cost":  &su.CapitalCost,
			"marginal_cost": &su.MarginalCost,
		}); err != nil {
			return err
		}
		if su.MaxHours, err = t.num(i, "max_hours", 1); err != nil {
			return err
		}
		n.StorageUnits = append(n.StorageUnits, su)
	}
	return nil
}

func (r *folderReader) readStores(n *model.Network) error {
	t, err := r.table(model.KindStore.ListName(), false)
	if err != nil {
		return err
	}
	for i := range t.rows {
		s := model.Store{Name: t.name(i), Bus: t.str(i, "bus"), Carrier: t.str(i, "carrier")}
		if err := t.nums(i, map[string]*float64{
			"e_nom":         &s.ENom,
			"e_nom_opt":     &s.ENomOpt,
			"capital_cost":  &s.CapitalCost,
			"marginal_cost": &s.MarginalCost,
		}); err != nil {
			return err
		}
		n.Stores = append(n.Stores, s)
	}
	return nil
}

// readSeries fills dst from <file>.csv: one row per snapshot, one column per element.
func (r *folderReader) readSeries(file string, snapshots int, dst model.TimeSeries) error {
	t, err := r.table(file, false)
	if err != nil {
		return err
	}
	if len(t.header) == 0 {
		return nil
	}
	if len(t.rows) != snapshots {
		return fmt.Errorf("%s: %d rows, network has %d snapshots", t.path, len(t.rows), snapshots)
	}
	for c := 1; c < len(t.header); c++ {
		name := t.header[c]
		vals := make([]float64, len(t.rows))
		for i := range t.rows {
			v, err := t.numAt(i, c, 0)
			if err != nil {
				return err
			}
			vals[i] = v
		}
		dst[name] = vals
	}
	return nil
}

// csvTable is a header-indexed CSV file held in memory.
type csvTable struct {
	path   string
	header []string
	col    map[string]int
	rows   [][]string
}

func readCSVTable(path string) (*csvTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err == io.EOF {
		return &csvTable{path: path, col: map[string]int{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	t := &csvTable{path: path, header: header, col: make(map[string]int, len(header))}
	for i, h := range header {
		t.col[strings.TrimSpace(h)] = i
	}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		t.rows = append(t.rows, rec)
	}
	return t, nil
}

// name returns the row label: the "name" column, else the first column.
func (t *csvTable) name(row int) string {
	if _, ok := t.col["name"]; ok {
		return t.str(row, "name")
	}
	return t.cell(row, 0)
}

func (t *csvTable) cell(row, c int) string {
	rec := t.rows[row]
	if c < 0 || c >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[c])
}

func (t *csvTable) str(row int, name string) string {
	c, ok := t.col[name]
	if !ok {
		return ""
	}
	return t.cell(row, c)
}

func (t *csvTable) num(row int, name string, def float64) (float64, error) {
	c, ok := t.col[name]
	if !ok {
		return def, nil
	}
	return t.numAt(row, c, def)
}

func (t *csvTable) numAt(row, c int, def float64) (float64, error) {
	s := t.cell(row, c)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: row %d column %q: %w", t.path, row+2, t.header[c], err)
	}
	return v, nil
}

// nums reads several zero-defaulted columns of one row.
func (t *csvTable) nums(row int, dst map[string]*float64) error {
	for name, p := range dst {
		v, err := t.num(row, name, 0)
		if err != nil {
			return err
		}
		*p = v
	}
	return nil
}
