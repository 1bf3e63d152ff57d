// Package realtime builds the recourse stage: a single joint LP across all
// renewable scenarios that settles deviations from the day-ahead schedule.
// The per-scenario balance duals are the real-time prices.
package realtime

import (
	"flexmarket/internal/dayahead"
	"flexmarket/internal/model"
)

// Inputs carry the day-ahead awards into the recourse stage as fixed
// parameters. The recourse LP never re-optimizes the day-ahead positions.
type Inputs struct {
	Schedule        map[model.GenPeriod]float64 // xDA, sellers only
	RenewableCommit map[int]float64             // rgDA by period
	DemandResponse  map[int]float64             // day-ahead demand slack by period

	StorageCharge    map[model.StoragePeriod]float64
	StorageDischarge map[model.StoragePeriod]float64
}

// FromDayAhead freezes a day-ahead solution into recourse-stage parameters.
func FromDayAhead(ds *model.Dataset, da *dayahead.Solution) *Inputs {
	in := &Inputs{
		Schedule:         make(map[model.GenPeriod]float64, len(da.Energy)),
		RenewableCommit:  make(map[int]float64, ds.Periods),
		DemandResponse:   make(map[int]float64, ds.Periods),
		StorageCharge:    make(map[model.StoragePeriod]float64, len(da.StorageCharge)),
		StorageDischarge: make(map[model.StoragePeriod]float64, len(da.StorageDischarge)),
	}
	for k, v := range da.Energy {
		in.Schedule[k] = v
	}
	for t := 1; t <= ds.Periods; t++ {
		in.RenewableCommit[t] = da.RenewableCommit[t]
		in.DemandResponse[t] = da.DemandSlack[t]
	}
	for k, v := range da.StorageCharge {
		in.StorageCharge[k] = v
	}
	for k, v := range da.StorageDischarge {
		in.StorageDischarge[k] = v
	}
	return in
}
