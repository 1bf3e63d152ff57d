package dayahead

import "flexmarket/internal/lp"

// Variable and constraint name helpers. Builder, extractor and checker all
// go through these so primal/dual lookups can never drift apart.

func xDA(g, t int) string  { return lp.Key("xDA", g, t) }
func hsu(r, g, t int) string { return lp.Key("hsu", r, g, t) }
func hsd(r, g, t int) string { return lp.Key("hsd", r, g, t) }
func hdu(r, t int) string  { return lp.Key("hdu", r, t) }
func hdd(r, t int) string  { return lp.Key("hdd", r, t) }
func sdu(r, t int) string  { return lp.Key("sdu", r, t) }
func sdd(r, t int) string  { return lp.Key("sdd", r, t) }
func rgDA(t int) string    { return lp.Key("rgDA", t) }
func dSlack(t int) string  { return lp.Key("d", t) }
func du(s, t int) string   { return lp.Key("du", s, t) }
func yDev(s, t int) string { return lp.Key("y", s, t) }
func eLvl(b, t int) string { return lp.Key("e", b, t) }
func pCh(b, t int) string  { return lp.Key("p_ch", b, t) }
func pDch(b, t int) string { return lp.Key("p_dch", b, t) }
func bsu(r, b, t int) string { return lp.Key("bsu", r, b, t) }
func bsd(r, b, t int) string { return lp.Key("bsd", r, b, t) }

func conEnergyBalance(t int) string   { return lp.Key("energy_balance", t) }
func conFlexUpBalance(r, t int) string { return lp.Key("flex_up_balance", r, t) }
func conFlexDnBalance(r, t int) string { return lp.Key("flex_dn_balance", r, t) }
func conFlexDemand(s, t int) string   { return lp.Key("flex_demand", s, t) }
func conDevEnvelope(s, t int) string  { return lp.Key("deviation_envelope", s, t) }
func conDevAbove(s, t int) string     { return lp.Key("deviation_above", s, t) }
func conDevBelow(s, t int) string     { return lp.Key("deviation_below", s, t) }
func conFlexRampUp(g, t int) string   { return lp.Key("flex_ramp_up", g, t) }
func conFlexRampDn(g, t int) string   { return lp.Key("flex_ramp_dn", g, t) }
func conRampUp(g, t int) string       { return lp.Key("ramp_up", g, t) }
func conRampDn(g, t int) string       { return lp.Key("ramp_dn", g, t) }
func conCapacity(g, t int) string     { return lp.Key("capacity", g, t) }
func conDownFlexLimit(g, t int) string { return lp.Key("down_flex_limit", g, t) }
func conStorageBalance(b, t int) string  { return lp.Key("storage_balance", b, t) }
func conStorageCapacity(b, t int) string { return lp.Key("storage_capacity", b, t) }
func conStorageFoUp(r, b, t int) string  { return lp.Key("storage_fo_up", r, b, t) }
func conStorageFoDn(r, b, t int) string  { return lp.Key("storage_fo_dn", r, b, t) }
func conStorageFoPower(r, b, t int) string { return lp.Key("storage_fo_power", r, b, t) }
func conChargePower(b, t int) string       { return lp.Key("charge_power", b, t) }
func conFoProfitUp(r, b, t int) string     { return lp.Key("fo_profit_up", r, b, t) }
func conFoProfitDn(r, b, t int) string     { return lp.Key("fo_profit_dn", r, b, t) }
