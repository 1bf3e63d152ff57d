// Package report persists clearing results as CSV tables, one file per
// table, in deterministic row order.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"flexmarket/internal/model"
	"flexmarket/internal/pipeline"
	"flexmarket/internal/settlement"
)

// WriteAll writes every result table into dir, creating it if needed.
func WriteAll(dir string, ds *model.Dataset, res *pipeline.Results) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	writers := []struct {
		name  string
		write func(string, *model.Dataset, *pipeline.Results) error
	}{
		{"schedule.csv", WriteScheduleCSV},
		{"flex_awards.csv", WriteFlexAwardsCSV},
		{"da_prices.csv", WriteDAPricesCSV},
		{"rt_dispatch.csv", WriteRTDispatchCSV},
		{"rt_adjustments.csv", WriteRTAdjustmentsCSV},
		{"margins.csv", WriteMarginsCSV},
		{"premiums.csv", WritePremiumsCSV},
		{"metrics.csv", WriteMetricsCSV},
	}
	for _, w := range writers {
		if err := w.write(filepath.Join(dir, w.name), ds, res); err != nil {
			return fmt.Errorf("write %s: %w", w.name, err)
		}
	}
	return nil
}

// WriteScheduleCSV writes the day-ahead energy schedule: one row per seller
// and period, plus the renewable commitment and demand slack per period.
func WriteScheduleCSV(path string, ds *model.Dataset, res *pipeline.Results) error {
	return writeCSV(path, []string{"party", "period", "energy_mw"}, func(w *csv.Writer) error {
		da := res.DayAhead
		for _, g := range ds.Sellers {
			for t := 1; t <= ds.Periods; t++ {
				if err := w.Write([]string{
					genParty(g.ID), strconv.Itoa(t),
					fmtFloat(da.Energy[model.GenPeriod{Gen: g.ID, Period: t}]),
				}); err != nil {
					return err
				}
			}
		}
		for t := 1; t <= ds.Periods; t++ {
			if err := w.Write([]string{"renewable", strconv.Itoa(t), fmtFloat(da.RenewableCommit[t])}); err != nil {
				return err
			}
		}
		for t := 1; t <= ds.Periods; t++ {
			if err := w.Write([]string{"demand_response", strconv.Itoa(t), fmtFloat(da.DemandSlack[t])}); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteFlexAwardsCSV writes per-tier option awards for sellers and the
// system ladder totals.
func WriteFlexAwardsCSV(path string, ds *model.Dataset, res *pipeline.Results) error {
	header := []string{"tier", "party", "period", "up_mw", "down_mw"}
	return writeCSV(path, header, func(w *csv.Writer) error {
		da := res.DayAhead
		for r := 1; r <= ds.Tiers; r++ {
			for _, g := range ds.Sellers {
				for t := 1; t <= ds.Periods; t++ {
					if err := w.Write([]string{
						strconv.Itoa(r), genParty(g.ID), strconv.Itoa(t),
						fmtFloat(da.FlexUp[model.TierGenPeriod{Tier: r, Gen: g.ID, Period: t}]),
						fmtFloat(da.FlexDown[model.TierGenPeriod{Tier: r, Gen: g.ID, Period: t}]),
					}); err != nil {
						return err
					}
				}
			}
			for t := 1; t <= ds.Periods; t++ {
				if err := w.Write([]string{
					strconv.Itoa(r), "ladder", strconv.Itoa(t),
					fmtFloat(da.LadderUp[model.TierPeriod{Tier: r, Period: t}]),
					fmtFloat(da.LadderDown[model.TierPeriod{Tier: r, Period: t}]),
				}); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// WriteDAPricesCSV writes the day-ahead shadow prices: the energy price per
// period (tier 0) and the per-tier flexibility premia.
func WriteDAPricesCSV(path string, ds *model.Dataset, res *pipeline.Results) error {
	header := []string{"tier", "period", "energy_price", "up_price", "down_price"}
	return writeCSV(path, header, func(w *csv.Writer) error {
		da := res.DayAhead
		for t := 1; t <= ds.Periods; t++ {
			if err := w.Write([]string{"0", strconv.Itoa(t), fmtFloat(da.EnergyPrice[t]), "", ""}); err != nil {
				return err
			}
		}
		for r := 1; r <= ds.Tiers; r++ {
			for t := 1; t <= ds.Periods; t++ {
				if err := w.Write([]string{
					strconv.Itoa(r), strconv.Itoa(t), "",
					fmtFloat(da.FlexUpPrice[model.TierPeriod{Tier: r, Period: t}]),
					fmtFloat(da.FlexDownPrice[model.TierPeriod{Tier: r, Period: t}]),
				}); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// WriteRTDispatchCSV writes per-scenario real-time outcomes: price, renewable
// redispatch, shortfall/surplus and demand response.
func WriteRTDispatchCSV(path string, ds *model.Dataset, res *pipeline.Results) error {
	header := []string{"scenario", "period", "price", "renewable_up", "renewable_down", "shortfall", "surplus", "demand_response"}
	return writeCSV(path, header, func(w *csv.Writer) error {
		rt := res.RealTime
		for s := 1; s <= ds.Scenarios; s++ {
			for t := 1; t <= ds.Periods; t++ {
				st := model.ScenarioPeriod{Scenario: s, Period: t}
				if err := w.Write([]string{
					strconv.Itoa(s), strconv.Itoa(t),
					fmtFloat(rt.Price[st]),
					fmtFloat(rt.RenewableUp[st]),
					fmtFloat(rt.RenewableDown[st]),
					fmtFloat(rt.Shortfall[st]),
					fmtFloat(rt.Surplus[st]),
					fmtFloat(rt.DemandResponse[st]),
				}); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// WriteRTAdjustmentsCSV writes per-scenario generator redispatch.
func WriteRTAdjustmentsCSV(path string, ds *model.Dataset, res *pipeline.Results) error {
	header := []string{"scenario", "party", "period", "adjust_up", "adjust_down"}
	return writeCSV(path, header, func(w *csv.Writer) error {
		rt := res.RealTime
		for s := 1; s <= ds.Scenarios; s++ {
			for _, g := range ds.Sellers {
				for t := 1; t <= ds.Periods; t++ {
					k := model.ScenGenPeriod{Scenario: s, Gen: g.ID, Period: t}
					if err := w.Write([]string{
						strconv.Itoa(s), genParty(g.ID), strconv.Itoa(t),
						fmtFloat(rt.AdjustUp[k]), fmtFloat(rt.AdjustDown[k]),
					}); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
}

// WriteMarginsCSV writes the total allocation: one row per scenario and
// party, sellers first, then the renewable and demand-response rows.
func WriteMarginsCSV(path string, ds *model.Dataset, res *pipeline.Results) error {
	return writeCSV(path, []string{"scenario", "party", "margin"}, func(w *csv.Writer) error {
		a := res.Allocation
		for s := 1; s <= ds.Scenarios; s++ {
			for _, g := range ds.Sellers {
				if err := w.Write([]string{
					strconv.Itoa(s), genParty(g.ID),
					fmtFloat(a.Sellers[settlement.ScenarioGen{Scenario: s, Gen: g.ID}]),
				}); err != nil {
					return err
				}
			}
			if err := w.Write([]string{strconv.Itoa(s), "renewable", fmtFloat(a.Renewable[s])}); err != nil {
				return err
			}
			if err := w.Write([]string{strconv.Itoa(s), "demand_response", fmtFloat(a.DemandResponse[s])}); err != nil {
				return err
			}
		}
		return nil
	})
}

// WritePremiumsCSV writes the per-seller premium convergence diagnostic
// alongside the day-ahead gross margin split.
func WritePremiumsCSV(path string, ds *model.Dataset, res *pipeline.Results) error {
	header := []string{"party", "gross_energy", "gross_flex_up", "premium_up", "premium_down"}
	return writeCSV(path, header, func(w *csv.Writer) error {
		for _, g := range ds.Sellers {
			gross := res.Gross[g.ID]
			flexTotal := 0.0
			for _, v := range gross.FlexUp {
				flexTotal += v
			}
			prem := res.Premiums[g.ID]
			if err := w.Write([]string{
				genParty(g.ID),
				fmtFloat(gross.Energy), fmtFloat(flexTotal),
				fmtFloat(prem.Up), fmtFloat(prem.Down),
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteMetricsCSV writes the system metrics: a scenario-0 row carries the
// day-ahead aggregates, then one row per scenario.
func WriteMetricsCSV(path string, ds *model.Dataset, res *pipeline.Results) error {
	header := []string{"scenario", "da_avg_price", "da_total_cost", "rt_cost", "rt_avg_price", "unmet_demand_cost", "curtailment_cost"}
	return writeCSV(path, header, func(w *csv.Writer) error {
		m := res.Metrics
		if err := w.Write([]string{
			"0", fmtFloat(m.DAAveragePrice), fmtFloat(m.DATotalCost), "", "", "", "",
		}); err != nil {
			return err
		}
		for s := 1; s <= ds.Scenarios; s++ {
			if err := w.Write([]string{
				strconv.Itoa(s), "", "",
				fmtFloat(m.RTCost[s]),
				fmtFloat(m.RTAveragePrice[s]),
				fmtFloat(m.UnmetDemandCost[s]),
				fmtFloat(m.CurtailmentCost[s]),
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeCSV(path string, header []string, body func(*csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(header); err != nil {
		return err
	}
	if err := body(w); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func genParty(id int) string { return "gen_" + strconv.Itoa(id) }

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
