package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveCarrier(t *testing.T) {
	top := Topology{Bus0Carrier: "AC", Bus1Carrier: "H2"}
	cases := []struct {
		kind  Kind
		own   string
		rules CarrierRules
		want  string
	}{
		{KindLoad, "", CarrierRules{}, "AC load"},
		{KindStore, "battery", CarrierRules{}, "AC"},
		{KindLink, "DC", CarrierRules{}, "AC-H2"},
		{KindLine, "", CarrierRules{}, "AC line"},
		{KindTransformer, "", CarrierRules{}, "AC transformer"},
		{KindStorageUnit, "PHS", CarrierRules{CombineHydroPS: true}, "hydro+PHS"},
		{KindStorageUnit, "hydro", CarrierRules{CombineHydroPS: true}, "hydro+PHS"},
		{KindStorageUnit, "PHS", CarrierRules{}, "PHS"},
		{KindStorageUnit, "battery", CarrierRules{CombineHydroPS: true}, "battery"},
		{KindGenerator, "onwind", CarrierRules{CombineHydroPS: true}, "onwind"},
	}
	for _, tc := range cases {
		t.Run(string(tc.kind)+"/"+tc.own, func(t *testing.T) {
			assert.Equal(t, tc.want, DeriveCarrier(tc.kind, tc.own, top, tc.rules))
		})
	}
}

func TestAssignCarriersIsIdempotent(t *testing.T) {
	n := New("test")
	n.Buses = []Bus{{Name: "b0", Carrier: "AC"}, {Name: "b1", Carrier: "DC"}}
	n.Loads = []Load{{Name: "l0", Bus: "b0"}}
	n.Stores = []Store{{Name: "s0", Bus: "b1", Carrier: "battery"}}
	n.Links = []Link{{Name: "k0", Bus0: "b0", Bus1: "b1", Carrier: "DC"}}
	n.Lines = []Line{{Name: "ln0", Bus0: "b0", Bus1: "b0"}}
	n.StorageUnits = []StorageUnit{{Name: "su0", Bus: "b0", Carrier: "PHS"}}

	rules := CarrierRules{CombineHydroPS: true}
	n.AssignCarriers(rules)
	first := []string{n.Loads[0].Carrier, n.Stores[0].Carrier, n.Links[0].Carrier, n.Lines[0].Carrier, n.StorageUnits[0].Carrier}
	n.AssignCarriers(rules)
	second := []string{n.Loads[0].Carrier, n.Stores[0].Carrier, n.Links[0].Carrier, n.Lines[0].Carrier, n.StorageUnits[0].Carrier}

	require.Equal(t, []string{"AC load", "DC", "AC-DC", "AC line", "hydro+PHS"}, first)
	assert.Equal(t, first, second)
}

func TestYears(t *testing.T) {
	n := New("test")
	for i := 0; i < 4; i++ {
		n.Snapshots = append(n.Snapshots, Snapshot{Name: "s", Weighting: 2190})
	}
	assert.InDelta(t, 1.0, n.Years(), 1e-12)
	assert.Equal(t, "storage_units", KindStorageUnit.ListName())
}
