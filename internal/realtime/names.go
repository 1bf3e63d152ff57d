package realtime

import "flexmarket/internal/lp"

func xup(s, g, t int) string { return lp.Key("xup", s, g, t) }
func xdn(s, g, t int) string { return lp.Key("xdn", s, g, t) }
func rgup(s, t int) string   { return lp.Key("rgup", s, t) }
func rgdn(s, t int) string   { return lp.Key("rgdn", s, t) }
func sdup(s, t int) string   { return lp.Key("sdup", s, t) }
func sddn(s, t int) string   { return lp.Key("sddn", s, t) }
func dRT(s, t int) string    { return lp.Key("d", s, t) }
func eLvl(s, b, t int) string { return lp.Key("e", s, b, t) }
func pCh(s, b, t int) string  { return lp.Key("p_ch", s, b, t) }
func pDch(s, b, t int) string { return lp.Key("p_dch", s, b, t) }
func bUp(s, b, t int) string  { return lp.Key("b_up", s, b, t) }
func bDn(s, b, t int) string  { return lp.Key("b_dn", s, b, t) }

func conBalance(s, t int) string      { return lp.Key("rt_balance", s, t) }
func conAvailability(s, t int) string { return lp.Key("re_availability", s, t) }
func conRampUp(s, g, t int) string    { return lp.Key("rt_ramp_up", s, g, t) }
func conRampDn(s, g, t int) string    { return lp.Key("rt_ramp_dn", s, g, t) }
func conCapMax(s, g, t int) string    { return lp.Key("rt_cap_max", s, g, t) }
func conCapMin(s, g, t int) string    { return lp.Key("rt_cap_min", s, g, t) }
func conStorageBalance(s, b, t int) string  { return lp.Key("storage_balance", s, b, t) }
func conStorageCapacity(s, b, t int) string { return lp.Key("storage_capacity", s, b, t) }
func conPowerLimit(s, b, t int) string      { return lp.Key("power_limit", s, b, t) }
func conAdjustLimit(s, b, t int) string     { return lp.Key("adjust_limit", s, b, t) }
func conFinalSoc(s, b int) string           { return lp.Key("final_soc", s, b) }
func conStorageRtUpCap(s, b, t int) string  { return lp.Key("storage_rt_up_cap", s, b, t) }
func conStorageRtDnCap(s, b, t int) string  { return lp.Key("storage_rt_dn_cap", s, b, t) }
