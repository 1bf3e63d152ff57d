package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flexmarket/internal/dayahead"
	"flexmarket/internal/model"
	"flexmarket/internal/pipeline"
	"flexmarket/internal/realtime"
	"flexmarket/internal/settlement"
)

func fixtureResults() (*model.Dataset, *pipeline.Results) {
	ds := &model.Dataset{
		Periods:   1,
		Scenarios: 2,
		Tiers:     1,
		Sellers:   []model.Seller{{ID: 1, CapacityMW: 100, EnergyCost: 20}},
		Demand:    map[int]float64{1: 100},
		Renewable: model.ScenarioTable{{Scenario: 1, Period: 1}: 40, {Scenario: 2, Period: 1}: 60},
		Options: model.Options{
			TierProbUp: []float64{0.5}, TierProbDown: []float64{0.5},
		},
	}
	res := &pipeline.Results{
		DayAhead: &dayahead.Solution{
			Energy:          map[model.GenPeriod]float64{{Gen: 1, Period: 1}: 50},
			FlexUp:          map[model.TierGenPeriod]float64{{Tier: 1, Gen: 1, Period: 1}: 10},
			FlexDown:        map[model.TierGenPeriod]float64{},
			LadderUp:        map[model.TierPeriod]float64{{Tier: 1, Period: 1}: 10},
			LadderDown:      map[model.TierPeriod]float64{},
			RenewableCommit: map[int]float64{1: 50},
			DemandSlack:     map[int]float64{1: 0},
			EnergyPrice:     map[int]float64{1: 30},
			FlexUpPrice:     map[model.TierPeriod]float64{{Tier: 1, Period: 1}: 4},
			FlexDownPrice:   map[model.TierPeriod]float64{},
		},
		RealTime: &realtime.Solution{
			AdjustUp:       map[model.ScenGenPeriod]float64{{Scenario: 2, Gen: 1, Period: 1}: 6},
			AdjustDown:     map[model.ScenGenPeriod]float64{},
			RenewableUp:    map[model.ScenarioPeriod]float64{{Scenario: 2, Period: 1}: 10},
			RenewableDown:  map[model.ScenarioPeriod]float64{{Scenario: 1, Period: 1}: 10},
			Shortfall:      map[model.ScenarioPeriod]float64{},
			Surplus:        map[model.ScenarioPeriod]float64{},
			DemandResponse: map[model.ScenarioPeriod]float64{},
			Price:          map[model.ScenarioPeriod]float64{{Scenario: 1, Period: 1}: 28, {Scenario: 2, Period: 1}: 35},
		},
		Gross: map[int]settlement.GrossMargin{
			1: {Energy: 500, FlexUp: map[int]float64{1: 15}},
		},
		Premiums: map[int]settlement.Premium{1: {Up: -240, Down: 167.5}},
		Allocation: settlement.Allocation{
			Sellers:        map[settlement.ScenarioGen]float64{{Scenario: 1, Gen: 1}: 180.5, {Scenario: 2, Gen: 1}: 825},
			Renewable:      map[int]float64{1: 226.25, 2: 1311.25},
			DemandResponse: map[int]float64{1: -692, 2: -470},
		},
		Metrics: &settlement.Metrics{
			DAAveragePrice:  30,
			DATotalCost:     1234,
			RTCost:          map[int]float64{1: -6, 2: 15},
			RTAveragePrice:  map[int]float64{1: 28, 2: 35},
			UnmetDemandCost: map[int]float64{1: 250, 2: 0},
			CurtailmentCost: map[int]float64{1: 5000, 2: 0},
		},
	}
	return ds, res
}

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteAll(t *testing.T) {
	ds, res := fixtureResults()
	dir := t.TempDir()

	require.NoError(t, WriteAll(dir, ds, res))

	for _, name := range []string{
		"schedule.csv", "flex_awards.csv", "da_prices.csv", "rt_dispatch.csv",
		"rt_adjustments.csv", "margins.csv", "premiums.csv", "metrics.csv",
	} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestWriteScheduleCSV(t *testing.T) {
	ds, res := fixtureResults()
	path := filepath.Join(t.TempDir(), "schedule.csv")

	require.NoError(t, WriteScheduleCSV(path, ds, res))
	rows := readRows(t, path)

	require.Len(t, rows, 4) // header + seller + renewable + demand_response
	assert.Equal(t, []string{"party", "period", "energy_mw"}, rows[0])
	assert.Equal(t, []string{"gen_1", "1", "50.000000"}, rows[1])
	assert.Equal(t, []string{"renewable", "1", "50.000000"}, rows[2])
	assert.Equal(t, []string{"demand_response", "1", "0.000000"}, rows[3])
}

func TestWriteMarginsCSV(t *testing.T) {
	ds, res := fixtureResults()
	path := filepath.Join(t.TempDir(), "margins.csv")

	require.NoError(t, WriteMarginsCSV(path, ds, res))
	rows := readRows(t, path)

	require.Len(t, rows, 7) // header + 2 scenarios * (1 seller + RE + DR)
	assert.Equal(t, []string{"1", "gen_1", "180.500000"}, rows[1])
	assert.Equal(t, []string{"1", "renewable", "226.250000"}, rows[2])
	assert.Equal(t, []string{"2", "demand_response", "-470.000000"}, rows[6])
}

func TestWriteMetricsCSV(t *testing.T) {
	ds, res := fixtureResults()
	path := filepath.Join(t.TempDir(), "metrics.csv")

	require.NoError(t, WriteMetricsCSV(path, ds, res))
	rows := readRows(t, path)

	require.Len(t, rows, 4)
	assert.Equal(t, "0", rows[1][0])
	assert.Equal(t, "30.000000", rows[1][1])
	assert.Equal(t, "15.000000", rows[3][3])
}
