package model

// Composite map keys for the sparse award and price tables. Lookups through
// the At helpers read absent combinations as zero; that zero-fill contract is
// what the settlement stage relies on for tiers or periods that saw no
// activity.

type ScenarioPeriod struct {
	Scenario int
	Period   int
}

type GenPeriod struct {
	Gen    int
	Period int
}

type TierPeriod struct {
	Tier   int
	Period int
}

type TierGenPeriod struct {
	Tier   int
	Gen    int
	Period int
}

type StoragePeriod struct {
	Storage int
	Period  int
}

type TierStoragePeriod struct {
	Tier    int
	Storage int
	Period  int
}

type ScenGenPeriod struct {
	Scenario int
	Gen      int
	Period   int
}

type ScenStoragePeriod struct {
	Scenario int
	Storage  int
	Period   int
}
