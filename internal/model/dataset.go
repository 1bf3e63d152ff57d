package model

import (
	"errors"
	"fmt"
)

// Seller is a dispatchable generator that sells energy and flexibility
// options. Units:
// - CapacityMW: MW
// - RampMW: MW per period
// - EnergyCost, FlexUpCost, FlexDownCost: $/MWh
type Seller struct {
	ID           int
	CapacityMW   float64
	RampMW       float64
	EnergyCost   float64
	FlexUpCost   float64
	FlexDownCost float64
}

// Buyer is a variable renewable generator. Buyers hedge output uncertainty
// by purchasing flexibility options; they carry no day-ahead decision
// variables and participate only through the aggregate renewable scenarios.
type Buyer struct {
	ID         int
	CapacityMW float64
}

// Unit is a storage unit participating in both energy and flexibility
// markets. May be absent entirely: an empty storage set must leave every
// storage-indexed aggregate at zero.
type Unit struct {
	ID             int
	EnergyCapMWh   float64
	PowerCapMW     float64
	ChargeEff      float64 // (0, 1]
	DischargeEff   float64 // (0, 1]
	InitialMWh     float64
	FinalMWh       float64 // required terminal state of charge (real-time stage)
	ThroughputCost float64 // $/MWh of charge + discharge
	FlexUpCost     float64 // $/MWh exercised up
	FlexDownCost   float64 // $/MWh exercised down (a benefit to the buyer)
	MarginalValue  float64 // opportunity value of stored energy, $/MWh
}

// Options are the market-wide flexibility parameters.
type Options struct {
	// PenaltyUp / PenaltyDown price self-hedged flexibility (the fallback
	// when no seller or storage covers a tier).
	PenaltyUp   float64
	PenaltyDown float64
	// TieBreak is the small coefficient on the deviation envelope used to
	// select among alternative optima. It must be small enough not to
	// distort the dispatch.
	TieBreak float64
	// DemandCostLinear / DemandCostQuad are the convex demand-slack cost
	// coefficients (D1, D2).
	DemandCostLinear float64
	DemandCostQuad   float64
	// TierProbUp[r-1] / TierProbDown[r-1] are the exercise probabilities of
	// tier r. They are likelihoods per tier, not a distribution: they need
	// not sum to one.
	TierProbUp   []float64
	TierProbDown []float64
}

// Dataset is the validated, immutable parameter set consumed by both market
// stages. Build it once per run; never mutate it afterwards.
type Dataset struct {
	Periods   int
	Scenarios int
	Tiers     int

	// Sellers and Buyers partition the generator set by role flag
	// (+1 dispatchable, -1 variable renewable). The split happens at load
	// time so constraint builders never branch on a flag.
	Sellers []Seller
	Buyers  []Buyer
	Storage []Unit

	Demand    map[int]float64 // period -> MW
	Renewable ScenarioTable   // (scenario, period) -> MW

	// Probability[s-1] is the weight of scenario s. Empty means uniform 1/S.
	Probability []float64

	Options Options
}

// ScenarioTable maps (scenario, period) to forecast renewable output in MW.
type ScenarioTable map[ScenarioPeriod]float64

// At returns the output for (scenario s, period t), zero when absent.
func (rt ScenarioTable) At(s, t int) float64 {
	return rt[ScenarioPeriod{Scenario: s, Period: t}]
}

// Prob returns the probability weight of scenario s (1-based).
func (d *Dataset) Prob(s int) float64 {
	if len(d.Probability) == 0 {
		return 1.0 / float64(d.Scenarios)
	}
	return d.Probability[s-1]
}

// ProbUp returns the up-exercise probability of tier r (1-based).
func (d *Dataset) ProbUp(r int) float64 { return d.Options.TierProbUp[r-1] }

// ProbDown returns the down-exercise probability of tier r (1-based).
func (d *Dataset) ProbDown(r int) float64 { return d.Options.TierProbDown[r-1] }

func (d *Dataset) Validate() error {
	if d.Periods <= 0 {
		return errors.New("Periods must be > 0")
	}
	if d.Scenarios <= 0 {
		return errors.New("Scenarios must be > 0")
	}
	if d.Tiers <= 0 {
		return errors.New("Tiers must be > 0")
	}
	if len(d.Options.TierProbUp) != d.Tiers || len(d.Options.TierProbDown) != d.Tiers {
		return fmt.Errorf("tier probabilities must have %d entries", d.Tiers)
	}
	for r := 1; r <= d.Tiers; r++ {
		if d.ProbUp(r) < 0 || d.ProbDown(r) < 0 {
			return fmt.Errorf("tier %d exercise probability must be >= 0", r)
		}
	}
	if len(d.Probability) != 0 {
		if len(d.Probability) != d.Scenarios {
			return fmt.Errorf("Probability must have %d entries", d.Scenarios)
		}
		sum := 0.0
		for s, p := range d.Probability {
			if p < 0 {
				return fmt.Errorf("scenario %d probability must be >= 0", s+1)
			}
			sum += p
		}
		if sum <= 0 {
			return errors.New("scenario probabilities must not all be zero")
		}
	}
	seen := make(map[int]bool, len(d.Sellers)+len(d.Buyers))
	for _, g := range d.Sellers {
		if seen[g.ID] {
			return fmt.Errorf("duplicate generator id %d", g.ID)
		}
		seen[g.ID] = true
		if g.CapacityMW <= 0 {
			return fmt.Errorf("seller %d: CapacityMW must be > 0", g.ID)
		}
		if g.RampMW < 0 {
			return fmt.Errorf("seller %d: RampMW must be >= 0", g.ID)
		}
	}
	for _, g := range d.Buyers {
		if seen[g.ID] {
			return fmt.Errorf("duplicate generator id %d", g.ID)
		}
		seen[g.ID] = true
		if g.CapacityMW <= 0 {
			return fmt.Errorf("buyer %d: CapacityMW must be > 0", g.ID)
		}
	}
	for _, b := range d.Storage {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("storage %d: %w", b.ID, err)
		}
	}
	for t := 1; t <= d.Periods; t++ {
		if _, ok := d.Demand[t]; !ok {
			return fmt.Errorf("demand missing for period %d", t)
		}
	}
	for s := 1; s <= d.Scenarios; s++ {
		for t := 1; t <= d.Periods; t++ {
			if _, ok := d.Renewable[ScenarioPeriod{Scenario: s, Period: t}]; !ok {
				return fmt.Errorf("renewable output missing for scenario %d period %d", s, t)
			}
		}
	}
	if d.Options.PenaltyUp < 0 || d.Options.PenaltyDown < 0 {
		return errors.New("penalties must be >= 0")
	}
	if d.Options.TieBreak < 0 {
		return errors.New("TieBreak must be >= 0")
	}
	if d.Options.DemandCostLinear < 0 || d.Options.DemandCostQuad < 0 {
		return errors.New("demand cost coefficients must be >= 0")
	}
	return nil
}

func (u Unit) Validate() error {
	if u.EnergyCapMWh <= 0 {
		return errors.New("EnergyCapMWh must be > 0")
	}
	if u.PowerCapMW <= 0 {
		return errors.New("PowerCapMW must be > 0")
	}
	if u.ChargeEff <= 0 || u.ChargeEff > 1 {
		return errors.New("ChargeEff must be in (0, 1]")
	}
	if u.DischargeEff <= 0 || u.DischargeEff > 1 {
		return errors.New("DischargeEff must be in (0, 1]")
	}
	if u.InitialMWh < 0 || u.InitialMWh > u.EnergyCapMWh {
		return errors.New("InitialMWh must be within [0, EnergyCapMWh]")
	}
	if u.FinalMWh < 0 || u.FinalMWh > u.EnergyCapMWh {
		return errors.New("FinalMWh must be within [0, EnergyCapMWh]")
	}
	if u.ThroughputCost < 0 {
		return errors.New("ThroughputCost must be >= 0")
	}
	return nil
}
