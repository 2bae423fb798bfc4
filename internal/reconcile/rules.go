// internal/reconcile/rules.go
package reconcile

// Rule is one required configuration byte.
// With Mask set, the masked bits must be set and Value is ignored;
// otherwise the byte must equal Value.
type Rule struct {
	Offset      int
	Value       byte
	Mask        byte
	Description string
}

// Want returns the corrected byte for cur and whether cur already complies.
func (r Rule) Want(cur byte) (byte, bool) {
	if r.Mask != 0 {
		return cur | r.Mask, cur&r.Mask == r.Mask
	}
	return r.Value, cur == r.Value
}

// SettingsBank is the configuration bank holding the global master settings.
const SettingsBank = 0

// DefaultRules returns the settings every gateway-managed master must carry.
func DefaultRules() []Rule {
	return []Rule{
		{Offset: 11, Value: 0xFF, Description: "disable async RO messages"},
		{Offset: 18, Value: 0x00, Description: "enable async OL messages"},
		{Offset: 20, Value: 0x00, Description: "enable async IL messages"},
		{Offset: 28, Value: 0x00, Description: "enable async SO messages"},
		{Offset: 14, Mask: 0x40, Description: "enable multi-tenant thermostats"},
		{Offset: 59, Value: 32, Description: "enable 32 thermostats"},
		{Offset: 24, Value: 0x00, Description: "disable auto-reset thermostat setpoint"},
		{Offset: 13, Value: 0x00, Description: "configure master startup mode to API"},
	}
}
