package costs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"network-summary/internal/config"
	"network-summary/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const techData = `technology,year,parameter,value,unit,source
onwind,2030,investment,1000,EUR/kWel,DEA
onwind,2030,lifetime,20,years,DEA
onwind,2030,FOM,2,%/year,DEA
onwind,2050,investment,1,EUR/kWel,DEA
gas,2030,fuel,20,EUR/MWhth,BP
gas,2030,CO2 intensity,0.2,tCO2/MWh_th,
OCGT,2030,investment,400,EUR/kWel,DEA
OCGT,2030,efficiency,0.4,per unit,DEA
HVAC overhead,2030,investment,400,EUR/MW/km,Hagspiel
HVDC overhead,2030,investment,400,EUR/MW/km,Hagspiel
HVDC submarine,2030,investment,2000,EUR/MW/km,Hagspiel
HVDC inverter pair,2030,investment,150000,EUR/MW,Hagspiel
battery storage,2030,investment,100,USD/kWh,budischak
battery inverter,2030,investment,200,USD/kWel,budischak
`

func loadFixture(t *testing.T, nYears float64, cc config.CostsConfig) *Table {
	t.Helper()
	path := filepath.Join(t.TempDir(), "costs.csv")
	require.NoError(t, os.WriteFile(path, []byte(techData), 0o644))
	ec := config.ElectricityConfig{MaxHours: map[string]float64{"battery": 6, "H2": 168}}
	table, err := Load(path, nYears, cc, ec)
	require.NoError(t, err)
	return table
}

func TestAnnuity(t *testing.T) {
	assert.InDelta(t, 0.05, Annuity(20, 0), 1e-12)
	assert.InDelta(t, 0.0943929, Annuity(20, 0.07), 1e-6)
}

func TestLoad(t *testing.T) {
	cc := config.CostsConfig{Year: 2030, DiscountRate: 0.07, USD2013ToEUR2013: 0.5}
	table := loadFixture(t, 2, cc)

	capital, err := table.At("onwind", ParamCapitalCost)
	require.NoError(t, err)
	want := (Annuity(20, 0.07) + 0.02) * 1000e3 * 2
	assert.InDelta(t, want, capital, 1e-6)

	// OCGT takes the gas fuel price and emissions.
	mc, err := table.At("OCGT", ParamMarginalCost)
	require.NoError(t, err)
	assert.InDelta(t, 20/0.4, mc, 1e-9)
	co2, _ := table.Get("OCGT", ParamCO2Emissions)
	assert.InDelta(t, 0.2, co2, 1e-12)

	// battery bundles inverter + 6h of storage, converted from USD per kW.
	inv, _ := table.Get("battery inverter", ParamCapitalCost)
	store, _ := table.Get("battery storage", ParamCapitalCost)
	assert.InDelta(t, (Annuity(25, 0.07))*200e3*0.5*2, inv, 1e-6)
	bat, err := table.At("battery", ParamCapitalCost)
	require.NoError(t, err)
	assert.InDelta(t, inv+6*store, bat, 1e-6)

	assert.False(t, table.Has("H2"))
}

func TestLoadOverwrites(t *testing.T) {
	cc := config.CostsConfig{
		Year:             2030,
		DiscountRate:     0.07,
		USD2013ToEUR2013: 1,
		CapitalCost:      map[string]float64{"onwind": 42},
		MarginalCost:     map[string]float64{"OCGT": 7},
	}
	table := loadFixture(t, 1, cc)

	v, _ := table.Get("onwind", ParamCapitalCost)
	assert.Equal(t, 42.0, v)
	v, _ = table.Get("OCGT", ParamMarginalCost)
	assert.Equal(t, 7.0, v)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), 1, config.CostsConfig{}, config.ElectricityConfig{})
	assert.True(t, os.IsNotExist(err))
}

func TestUpdateTransmissionCosts(t *testing.T) {
	table := NewTable()
	table.Set("HVAC overhead", ParamCapitalCost, 10)
	table.Set("HVDC overhead", ParamCapitalCost, 20)
	table.Set("HVDC submarine", ParamCapitalCost, 100)
	table.Set("HVDC inverter pair", ParamCapitalCost, 1000)

	n := model.New("tx")
	n.Lines = []model.Line{{Name: "l", Length: 5}}
	n.Links = []model.Link{
		{Name: "dc", Carrier: "DC", Length: 10, UnderwaterFraction: 0.5},
		{Name: "h2", Carrier: "H2 electrolysis", Length: 10, CapitalCost: 3},
	}

	require.NoError(t, UpdateTransmissionCosts(n, table, TransmissionOptions{LengthFactor: 1.25}))
	assert.InDelta(t, 5*1.25*10, n.Lines[0].CapitalCost, 1e-9)
	assert.InDelta(t, 10*1.25*(0.5*20+0.5*100)+1000, n.Links[0].CapitalCost, 1e-9)
	assert.Equal(t, 3.0, n.Links[1].CapitalCost)

	require.NoError(t, UpdateTransmissionCosts(n, table, TransmissionOptions{SimpleHVDCCosts: true}))
	assert.InDelta(t, 10*20.0, n.Links[0].CapitalCost, 1e-9)
}

func TestUpdateTransmissionCostsMissingTechnology(t *testing.T) {
	n := model.New("tx")
	n.Lines = []model.Line{{Name: "l", Length: 5}}
	err := UpdateTransmissionCosts(n, NewTable(), TransmissionOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingCost))

	// HVAC overhead is required even without lines
	err = UpdateTransmissionCosts(model.New("empty"), NewTable(), TransmissionOptions{})
	assert.True(t, errors.Is(err, ErrMissingCost))
}
