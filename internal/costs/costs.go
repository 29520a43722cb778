// Package costs turns a technology-data CSV into per-technology capital and
// marginal costs for the simulated horizon, and applies them to transmission
// assets of a network.
package costs

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"network-summary/internal/config"
)

// Parameter names, as they appear in the technology-data CSV.
const (
	ParamCapitalCost  = "capital_cost"
	ParamMarginalCost = "marginal_cost"
	ParamCO2Emissions = "co2_emissions"
	ParamEfficiency   = "efficiency"
	ParamFOM          = "FOM"
	ParamVOM          = "VOM"
	ParamFuel         = "fuel"
	ParamInvestment   = "investment"
	ParamLifetime     = "lifetime"
	ParamDiscountRate = "discount rate"

	paramCO2Intensity = "CO2 intensity"
)

// ErrMissingCost is wrapped by Table.At when a technology/parameter pair is absent.
var ErrMissingCost = errors.New("cost not found")

// Table holds cost parameters per technology.
type Table struct {
	techs map[string]map[string]float64
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{techs: map[string]map[string]float64{}}
}

// Get returns a parameter value and whether it is set.
func (t *Table) Get(tech, param string) (float64, bool) {
	p, ok := t.techs[tech]
	if !ok {
		return 0, false
	}
	v, ok := p[param]
	return v, ok
}

// At is Get with an error for missing entries.
func (t *Table) At(tech, param string) (float64, error) {
	v, ok := t.Get(tech, param)
	if !ok {
		return 0, fmt.Errorf("%s/%s: %w", tech, param, ErrMissingCost)
	}
	return v, nil
}

// Set stores a parameter, creating the technology if needed.
func (t *Table) Set(tech, param string, v float64) {
	p, ok := t.techs[tech]
	if !ok {
		p = map[string]float64{}
		t.techs[tech] = p
	}
	p[param] = v
}

// Has reports whether the technology exists.
func (t *Table) Has(tech string) bool {
	_, ok := t.techs[tech]
	return ok
}

// Technologies returns technology names in sorted order.
func (t *Table) Technologies() []string {
	out := make([]string, 0, len(t.techs))
	for k := range t.techs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Annuity is the annuity factor for an asset of lifetime n years at discount rate r.
func Annuity(n, r float64) float64 {
	if r > 0 {
		return r / (1 - 1/math.Pow(1+r, n))
	}
	return 1 / n
}

var defaults = map[string]float64{
	paramCO2Intensity: 0,
	ParamFOM:          0,
	ParamVOM:          0,
	ParamEfficiency:   1,
	ParamFuel:         0,
	ParamInvestment:   0,
	ParamLifetime:     25,
}

// Load reads technology data from path and derives capital costs scaled to
// nYears plus marginal costs. Units containing "/kW" are converted to /MW and
// USD values to EUR.
func Load(path string, nYears float64, cc config.CostsConfig, ec config.ElectricityConfig) (*Table, error) {
	raw, err := readRaw(path, cc)
	if err != nil {
		return nil, err
	}

	t := NewTable()
	for tech, params := range raw {
		for k, v := range defaults {
			if _, ok := params[k]; !ok {
				params[k] = v
			}
		}
		if _, ok := params[ParamDiscountRate]; !ok {
			params[ParamDiscountRate] = cc.DiscountRate
		}
		params[ParamCapitalCost] = (Annuity(params[ParamLifetime], params[ParamDiscountRate]) + params[ParamFOM]/100) *
			params[ParamInvestment] * nYears
		params[ParamCO2Emissions] = params[paramCO2Intensity]
		delete(params, paramCO2Intensity)
		t.techs[tech] = params
	}

	// Gas turbines burn the fuel priced under "gas".
	if gas, ok := t.techs["gas"]; ok {
		for _, tech := range []string{"OCGT", "CCGT"} {
			if p, ok := t.techs[tech]; ok {
				p[ParamFuel] = gas[ParamFuel]
				p[ParamCO2Emissions] = gas[ParamCO2Emissions]
			}
		}
	}
	for _, p := range t.techs {
		p[ParamMarginalCost] = p[ParamVOM] + p[ParamFuel]/p[ParamEfficiency]
	}

	roof, okRoof := t.Get("solar-rooftop", ParamCapitalCost)
	util, okUtil := t.Get("solar-utility", ParamCapitalCost)
	if okRoof && okUtil {
		t.Set("solar", ParamCapitalCost, 0.5*(roof+util))
	}

	if t.Has("battery storage") && t.Has("battery inverter") {
		t.setStorage("battery", "battery storage", "battery inverter", "", ec.MaxHours["battery"])
	}
	if t.Has("hydrogen storage") && t.Has("fuel cell") && t.Has("electrolysis") {
		t.setStorage("H2", "hydrogen storage", "fuel cell", "electrolysis", ec.MaxHours["H2"])
	}

	for tech, v := range cc.CapitalCost {
		t.Set(tech, ParamCapitalCost, v)
	}
	for tech, v := range cc.MarginalCost {
		t.Set(tech, ParamMarginalCost, v)
	}
	return t, nil
}

// setStorage bundles an energy store and its charge/discharge links into one
// storage technology with maxHours of energy per unit of power.
func (t *Table) setStorage(name, store, link1, link2 string, maxHours float64) {
	capital := t.techs[link1][ParamCapitalCost] + maxHours*t.techs[store][ParamCapitalCost]
	if link2 != "" {
		capital += t.techs[link2][ParamCapitalCost]
	}
	t.techs[name] = map[string]float64{
		ParamCapitalCost:  capital,
		ParamMarginalCost: 0,
		ParamCO2Emissions: 0,
	}
}

// readRaw returns technology -> parameter -> value, summing duplicate rows.
func readRaw(path string, cc config.CostsConfig) (map[string]map[string]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", path, err)
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	for _, req := range []string{"technology", "parameter", "value"} {
		if _, ok := col[req]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", path, req)
		}
	}
	unitCol, hasUnit := col["unit"]
	yearCol, hasYear := col["year"]

	get := func(rec []string, i int) string {
		if i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}

	out := map[string]map[string]float64{}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if hasYear {
			y, err := strconv.Atoi(get(rec, yearCol))
			if err != nil || y != cc.Year {
				continue
			}
		}
		vs := get(rec, col["value"])
		if vs == "" {
			continue
		}
		v, err := strconv.ParseFloat(vs, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", path, line, err)
		}
		if hasUnit {
			unit := get(rec, unitCol)
			if strings.Contains(unit, "/kW") {
				v *= 1e3
			}
			if strings.Contains(unit, "USD") {
				v *= cc.USD2013ToEUR2013
			}
		}
		tech, param := get(rec, col["technology"]), get(rec, col["parameter"])
		p, ok := out[tech]
		if !ok {
			p = map[string]float64{}
			out[tech] = p
		}
		p[param] += v
	}
	return out, nil
}
