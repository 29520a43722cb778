package data

import (
	"os"
	"path/filepath"
	"testing"

	"network-summary/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
}

func TestLoadNetwork(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"buses.csv":          "name,carrier,v_nom\nDE0,AC,380\nDE0 H2,H2,\n",
		"snapshots.csv":      "name,objective,generators,stores\n2013-01-01 00:00,3,3,3\n2013-01-01 03:00,3,3,3\n",
		"generators.csv":     "name,bus,carrier,p_nom,p_nom_opt,capital_cost,marginal_cost\nDE0 gas,DE0,gas,,100,5,20\n",
		"loads.csv":          "name,bus\nDE0,DE0\n",
		"storage_units.csv":  "name,bus,carrier,p_nom_opt\nDE0 PHS,DE0,PHS,10\n",
		"generators-p.csv":   "snapshot,DE0 gas\n2013-01-01 00:00,40\n2013-01-01 03:00,60\n",
		"loads-p.csv":        "snapshot,DE0\n2013-01-01 00:00,40\n2013-01-01 03:00,60\n",

		"generators-p_max_pu.csv": "snapshot\n2013-01-01 00:00\n2013-01-01 03:00\n",
	})

	n, err := LoadNetwork(dir)
	require.NoError(t, err)

	require.Len(t, n.Snapshots, 2)
	assert.Equal(t, 6.0, n.TotalWeighting())
	require.Len(t, n.Buses, 2)
	assert.Equal(t, 1.0, n.Buses[1].VNom)

	require.Len(t, n.Generators, 1)
	g := n.Generators[0]
	assert.Equal(t, "DE0 gas", g.Name)
	assert.Equal(t, 0.0, g.PNom)
	assert.Equal(t, 100.0, g.PNomOpt)
	assert.Equal(t, []float64{40, 60}, n.GeneratorsT.P["DE0 gas"])
	assert.Empty(t, n.GeneratorsT.PMaxPu)

	require.Len(t, n.StorageUnits, 1)
	assert.Equal(t, 1.0, n.StorageUnits[0].MaxHours, "max_hours defaults to 1")
	assert.Empty(t, n.Links)
}

func TestLoadNetworkErrors(t *testing.T) {
	t.Run("missing dir", func(t *testing.T) {
		_, err := LoadNetwork(filepath.Join(t.TempDir(), "missing"))
		require.Error(t, err)
		assert.True(t, os.IsNotExist(err))
	})
	t.Run("missing buses", func(t *testing.T) {
		_, err := LoadNetwork(t.TempDir())
		require.Error(t, err)
	})
	t.Run("bad number", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, map[string]string{
			"buses.csv":      "name,carrier\nb,AC\n",
			"generators.csv": "name,bus,carrier,p_nom_opt\ng,b,gas,lots\n",
		})
		_, err := LoadNetwork(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "generators.csv")
	})
	t.Run("series length mismatch", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, map[string]string{
			"buses.csv":        "name,carrier\nb,AC\n",
			"snapshots.csv":    "name,objective\nt0,1\nt1,1\n",
			"generators-p.csv": "snapshot,g\nt0,1\n",
		})
		_, err := LoadNetwork(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "generators-p.csv")
	})
}

func TestWriteNetworkRoundTrip(t *testing.T) {
	n := model.New("rt")
	n.Snapshots = []model.Snapshot{{Name: "t0", Weighting: 1}, {Name: "t1", Weighting: 2.5}}
	n.Buses = []model.Bus{{Name: "b0", Carrier: "AC", VNom: 380}}
	n.Links = []model.Link{{Name: "k", Bus0: "b0", Bus1: "b0", Carrier: "AC-AC", Length: 12.5, PNomMin: 3, PNomOpt: 4}}
	n.Stores = []model.Store{{Name: "s", Bus: "b0", Carrier: "AC", ENomOpt: 0.125}}
	n.LinksT.P0["k"] = []float64{1.5, -2}
	n.StoresT.P["s"] = []float64{0.1, 0.2}

	dir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, WriteNetwork(dir, n))

	got, err := LoadNetwork(dir)
	require.NoError(t, err)
	assert.Equal(t, n.Snapshots, got.Snapshots)
	assert.Equal(t, n.Buses, got.Buses)
	assert.Equal(t, n.Links, got.Links)
	assert.Equal(t, n.Stores, got.Stores)
	assert.Equal(t, n.LinksT.P0, got.LinksT.P0)
	assert.Equal(t, n.StoresT.P, got.StoresT.P)
}

func TestWriteSummaryCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summaries", "elec.csv")
	err := WriteSummaryCSV(path, []SummaryRow{
		{Quantity: "p_nom", Carrier: "gas", Value: 100},
		{Quantity: "costs", Component: "generators", Kind: "capital", Carrier: "gas", Value: 10},
	})
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "quantity,component,kind,carrier,value\np_nom,,,gas,100\ncosts,generators,capital,gas,10\n", string(raw))
}
