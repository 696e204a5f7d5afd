// Package intent holds the visitor-intent scoring engine: weighted rule
// evaluation over a behavioral signal snapshot, resolution of the best
// matching intent for a merchant's rule set, and the display-rule check
// used by widget test and preview flows. Everything in this package is
// pure; loading rules and persisting outcomes belongs to the callers.
package intent

type Type string

const (
	TypeHighIntent     Type = "high-intent"
	TypePriceSensitive Type = "price-sensitive"
	TypeJustBrowsing   Type = "just-browsing"
)

func IsValidType(t string) bool {
	switch Type(t) {
	case TypeHighIntent, TypePriceSensitive, TypeJustBrowsing:
		return true
	default:
		return false
	}
}

// SignalSet is the signal bag collected on a product page for one visit:
// signal name to bool or numeric value. The engine treats it as opaque and
// looks values up by the names the rule criteria carry; JSON decoding
// yields float64 for numbers, Go callers may pass int.
type SignalSet map[string]interface{}

// Criterion is one weighted scoring input. Threshold is consulted only for
// numeric behavioral signals; historical and device-context criteria score
// on truthiness alone.
type Criterion struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Enabled     bool    `json:"enabled"`
	Weight      float64 `json:"weight"`
	Threshold   float64 `json:"threshold,omitempty"`
}

// Rule is the scoring view of a merchant intent rule. Threshold is the
// minimum normalized score for the rule to match.
type Rule struct {
	IntentType        Type        `json:"intentType"`
	Threshold         float64     `json:"threshold"`
	BehavioralSignals []Criterion `json:"behavioralSignals"`
	HistoricalFactors []Criterion `json:"historicalFactors"`
	DeviceContext     []Criterion `json:"deviceContext"`
	IsActive          bool        `json:"isActive"`
}

func truthy(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case float64:
		return val != 0
	case int:
		return val != 0
	case string:
		return val != ""
	default:
		return true
	}
}

func asNumber(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	default:
		return 0, false
	}
}
