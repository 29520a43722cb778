package model

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// HoursPerYear converts total snapshot weighting into simulated years.
const HoursPerYear = 8760.0

// Kind identifies one element table of a Network.
type Kind string

const (
	KindBus         Kind = "Bus"
	KindGenerator   Kind = "Generator"
	KindLoad        Kind = "Load"
	KindLine        Kind = "Line"
	KindTransformer Kind = "Transformer"
	KindLink        Kind = "Link"
	KindStorageUnit Kind = "StorageUnit"
	KindStore       Kind = "Store"
)

// ListName is the table name used in exported files and cost reports
// (e.g. "storage_units").
func (k Kind) ListName() string {
	switch k {
	case KindBus:
		return "buses"
	case KindGenerator:
		return "generators"
	case KindLoad:
		return "loads"
	case KindLine:
		return "lines"
	case KindTransformer:
		return "transformers"
	case KindLink:
		return "links"
	case KindStorageUnit:
		return "storage_units"
	case KindStore:
		return "stores"
	default:
		return string(k)
	}
}

// Snapshot is one modelled time step.
type Snapshot struct {
	Name string
	// Weighting is the number of hours the snapshot stands for.
	Weighting float64
}

type Bus struct {
	Name    string
	Carrier string
	VNom    float64
}

type Generator struct {
	Name         string
	Bus          string
	Carrier      string
	PNom         float64
	PNomMin      float64
	PNomOpt      float64
	CapitalCost  float64
	MarginalCost float64
}

type Load struct {
	Name    string
	Bus     string
	Carrier string
}

type Line struct {
	Name        string
	Bus0        string
	Bus1        string
	Carrier     string
	Length      float64
	SNom        float64
	SNomMin     float64
	SNomOpt     float64
	CapitalCost float64
}

type Transformer struct {
	Name        string
	Bus0        string
	Bus1        string
	Carrier     string
	SNom        float64
	SNomOpt     float64
	CapitalCost float64
}

type Link struct {
	Name               string
	Bus0               string
	Bus1               string
	Carrier            string
	Length             float64
	UnderwaterFraction float64
	PNom               float64
	PNomMin            float64
	PNomOpt            float64
	CapitalCost        float64
	MarginalCost       float64
}

type StorageUnit struct {
	Name         string
	Bus          string
	Carrier      string
	PNom         float64
	PNomOpt      float64
	MaxHours     float64
	CapitalCost  float64
	MarginalCost float64
}

type Store struct {
	Name         string
	Bus          string
	Carrier      string
	ENom         float64
	ENomOpt      float64
	CapitalCost  float64
	MarginalCost float64
}

// TimeSeries maps an element name to one value per snapshot.
// Elements without a varying attribute are simply absent.
type TimeSeries map[string][]float64

// Sum returns the sum over snapshots for one element.
func (ts TimeSeries) Sum(name string) (float64, bool) {
	v, ok := ts[name]
	if !ok {
		return 0, false
	}
	return floats.Sum(v), true
}

// Mean returns the unweighted mean over snapshots for one element.
func (ts TimeSeries) Mean(name string) (float64, bool) {
	v, ok := ts[name]
	if !ok || len(v) == 0 {
		return 0, false
	}
	return stat.Mean(v, nil), true
}

type GeneratorSeries struct {
	P      TimeSeries
	PMaxPu TimeSeries
}

type LoadSeries struct {
	P TimeSeries
}

type StorageUnitSeries struct {
	P      TimeSeries
	Inflow TimeSeries
}

type StoreSeries struct {
	P TimeSeries
}

type LinkSeries struct {
	P0 TimeSeries
}

// Network is a solved power-system model: static element tables plus the
// per-snapshot results the aggregators read.
type Network struct {
	Name      string
	Snapshots []Snapshot

	Buses        []Bus
	Generators   []Generator
	Loads        []Load
	Lines        []Line
	Transformers []Transformer
	Links        []Link
	StorageUnits []StorageUnit
	Stores       []Store

	GeneratorsT   GeneratorSeries
	LoadsT        LoadSeries
	StorageUnitsT StorageUnitSeries
	StoresT       StoreSeries
	LinksT        LinkSeries
}

// New returns an empty network with initialised time-series maps.
func New(name string) *Network {
	return &Network{
		Name: name,
		GeneratorsT: GeneratorSeries{
			P:      TimeSeries{},
			PMaxPu: TimeSeries{},
		},
		LoadsT: LoadSeries{P: TimeSeries{}},
		StorageUnitsT: StorageUnitSeries{
			P:      TimeSeries{},
			Inflow: TimeSeries{},
		},
		StoresT: StoreSeries{P: TimeSeries{}},
		LinksT:  LinkSeries{P0: TimeSeries{}},
	}
}

// BusCarriers maps bus name to bus carrier.
func (n *Network) BusCarriers() map[string]string {
	out := make(map[string]string, len(n.Buses))
	for _, b := range n.Buses {
		out[b.Name] = b.Carrier
	}
	return out
}

// TotalWeighting is the sum of all snapshot weightings, in hours.
func (n *Network) TotalWeighting() float64 {
	sum := 0.0
	for _, s := range n.Snapshots {
		sum += s.Weighting
	}
	return sum
}

// Years is the simulated horizon in years.
func (n *Network) Years() float64 {
	return n.TotalWeighting() / HoursPerYear
}
