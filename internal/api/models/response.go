package models

import (
	"strconv"

	"flexmarket/internal/model"
	"flexmarket/internal/pipeline"
	"flexmarket/internal/settlement"
)

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RunResponse is the clearing outcome: summary always, award tables on
// request.
type RunResponse struct {
	Status  string     `json:"status"`
	Summary RunSummary `json:"summary"`

	Margins  []MarginRow   `json:"margins"`
	Premiums []PremiumRow  `json:"premiums"`
	Metrics  []MetricsRow  `json:"metrics"`
	Awards   *AwardsDetail `json:"awards,omitempty"`
}

type RunSummary struct {
	DAObjective    float64 `json:"da_objective"`
	RTObjective    float64 `json:"rt_objective"`
	DAAveragePrice float64 `json:"da_average_price"`
	DATotalCost    float64 `json:"da_total_cost"`
}

type MarginRow struct {
	Scenario int     `json:"scenario"`
	Party    string  `json:"party"`
	Margin   float64 `json:"margin"`
}

type PremiumRow struct {
	Gen  int     `json:"gen"`
	Up   float64 `json:"up"`
	Down float64 `json:"down"`
}

type MetricsRow struct {
	Scenario        int     `json:"scenario"`
	RTCost          float64 `json:"rt_cost"`
	RTAveragePrice  float64 `json:"rt_average_price"`
	UnmetDemandCost float64 `json:"unmet_demand_cost"`
	CurtailmentCost float64 `json:"curtailment_cost"`
}

// AwardsDetail carries the primal award tables in long form.
type AwardsDetail struct {
	Schedule   []ScheduleRow `json:"schedule"`
	FlexAwards []FlexRow     `json:"flex_awards"`
	DAPrices   []PriceRow    `json:"da_prices"`
	RTDispatch []RTRow       `json:"rt_dispatch"`
}

type ScheduleRow struct {
	Gen      int     `json:"gen"`
	Period   int     `json:"period"`
	EnergyMW float64 `json:"energy_mw"`
}

type FlexRow struct {
	Tier   int     `json:"tier"`
	Gen    int     `json:"gen"`
	Period int     `json:"period"`
	UpMW   float64 `json:"up_mw"`
	DownMW float64 `json:"down_mw"`
}

type PriceRow struct {
	Tier      int     `json:"tier"` // 0 = energy
	Period    int     `json:"period"`
	Price     float64 `json:"price"`
	DownPrice float64 `json:"down_price,omitempty"`
}

type RTRow struct {
	Scenario       int     `json:"scenario"`
	Period         int     `json:"period"`
	Price          float64 `json:"price"`
	RenewableUp    float64 `json:"renewable_up"`
	RenewableDown  float64 `json:"renewable_down"`
	Shortfall      float64 `json:"shortfall"`
	Surplus        float64 `json:"surplus"`
	DemandResponse float64 `json:"demand_response"`
}

// DatasetResponse summarizes a dataset without solving it.
type DatasetResponse struct {
	Periods   int `json:"periods"`
	Scenarios int `json:"scenarios"`
	Tiers     int `json:"tiers"`
	Sellers   int `json:"sellers"`
	Buyers    int `json:"buyers"`
	Storage   int `json:"storage"`

	Demand    map[int]float64 `json:"demand"`
	Renewable [][]float64     `json:"renewable"` // [scenario][period]
}

// NewRunResponse flattens pipeline results into the wire shape.
func NewRunResponse(ds *model.Dataset, res *pipeline.Results, includeAwards bool) RunResponse {
	out := RunResponse{
		Status: "completed",
		Summary: RunSummary{
			DAObjective:    res.DayAhead.Objective,
			RTObjective:    res.RealTime.Objective,
			DAAveragePrice: res.Metrics.DAAveragePrice,
			DATotalCost:    res.Metrics.DATotalCost,
		},
	}

	for s := 1; s <= ds.Scenarios; s++ {
		for _, g := range ds.Sellers {
			out.Margins = append(out.Margins, MarginRow{
				Scenario: s,
				Party:    "gen_" + strconv.Itoa(g.ID),
				Margin:   res.Allocation.Sellers[settlement.ScenarioGen{Scenario: s, Gen: g.ID}],
			})
		}
		out.Margins = append(out.Margins,
			MarginRow{Scenario: s, Party: "renewable", Margin: res.Allocation.Renewable[s]},
			MarginRow{Scenario: s, Party: "demand_response", Margin: res.Allocation.DemandResponse[s]},
		)
		out.Metrics = append(out.Metrics, MetricsRow{
			Scenario:        s,
			RTCost:          res.Metrics.RTCost[s],
			RTAveragePrice:  res.Metrics.RTAveragePrice[s],
			UnmetDemandCost: res.Metrics.UnmetDemandCost[s],
			CurtailmentCost: res.Metrics.CurtailmentCost[s],
		})
	}
	for _, g := range ds.Sellers {
		p := res.Premiums[g.ID]
		out.Premiums = append(out.Premiums, PremiumRow{Gen: g.ID, Up: p.Up, Down: p.Down})
	}

	if includeAwards {
		out.Awards = newAwardsDetail(ds, res)
	}
	return out
}

func newAwardsDetail(ds *model.Dataset, res *pipeline.Results) *AwardsDetail {
	d := &AwardsDetail{}
	da, rt := res.DayAhead, res.RealTime

	for _, g := range ds.Sellers {
		for t := 1; t <= ds.Periods; t++ {
			d.Schedule = append(d.Schedule, ScheduleRow{
				Gen: g.ID, Period: t, EnergyMW: da.Energy[model.GenPeriod{Gen: g.ID, Period: t}],
			})
		}
	}
	for r := 1; r <= ds.Tiers; r++ {
		for _, g := range ds.Sellers {
			for t := 1; t <= ds.Periods; t++ {
				d.FlexAwards = append(d.FlexAwards, FlexRow{
					Tier: r, Gen: g.ID, Period: t,
					UpMW:   da.FlexUp[model.TierGenPeriod{Tier: r, Gen: g.ID, Period: t}],
					DownMW: da.FlexDown[model.TierGenPeriod{Tier: r, Gen: g.ID, Period: t}],
				})
			}
		}
	}
	for t := 1; t <= ds.Periods; t++ {
		d.DAPrices = append(d.DAPrices, PriceRow{Tier: 0, Period: t, Price: da.EnergyPrice[t]})
	}
	for r := 1; r <= ds.Tiers; r++ {
		for t := 1; t <= ds.Periods; t++ {
			d.DAPrices = append(d.DAPrices, PriceRow{
				Tier: r, Period: t,
				Price:     da.FlexUpPrice[model.TierPeriod{Tier: r, Period: t}],
				DownPrice: da.FlexDownPrice[model.TierPeriod{Tier: r, Period: t}],
			})
		}
	}
	for s := 1; s <= ds.Scenarios; s++ {
		for t := 1; t <= ds.Periods; t++ {
			st := model.ScenarioPeriod{Scenario: s, Period: t}
			d.RTDispatch = append(d.RTDispatch, RTRow{
				Scenario: s, Period: t,
				Price:          rt.Price[st],
				RenewableUp:    rt.RenewableUp[st],
				RenewableDown:  rt.RenewableDown[st],
				Shortfall:      rt.Shortfall[st],
				Surplus:        rt.Surplus[st],
				DemandResponse: rt.DemandResponse[st],
			})
		}
	}
	return d
}

// NewDatasetResponse summarizes a validated dataset.
func NewDatasetResponse(ds *model.Dataset) DatasetResponse {
	out := DatasetResponse{
		Periods:   ds.Periods,
		Scenarios: ds.Scenarios,
		Tiers:     ds.Tiers,
		Sellers:   len(ds.Sellers),
		Buyers:    len(ds.Buyers),
		Storage:   len(ds.Storage),
		Demand:    ds.Demand,
	}
	for s := 1; s <= ds.Scenarios; s++ {
		row := make([]float64, ds.Periods)
		for t := 1; t <= ds.Periods; t++ {
			row[t-1] = ds.Renewable.At(s, t)
		}
		out.Renewable = append(out.Renewable, row)
	}
	return out
}
