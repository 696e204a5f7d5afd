package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singleSignalRule(intentType Type, ruleThreshold float64, signal string, weight float64) Rule {
	return Rule{
		IntentType: intentType,
		Threshold:  ruleThreshold,
		IsActive:   true,
		BehavioralSignals: []Criterion{
			{Name: signal, Enabled: true, Weight: weight},
		},
	}
}

func TestResolve_HighestScoreWins(t *testing.T) {
	rules := []Rule{
		{
			IntentType: TypeJustBrowsing,
			Threshold:  10,
			IsActive:   true,
			BehavioralSignals: []Criterion{
				{Name: "pageViews", Enabled: true, Weight: 1},
				{Name: "timeOnPage", Enabled: true, Weight: 1, Threshold: 300},
			},
		},
		singleSignalRule(TypeHighIntent, 50, "addToCartHover", 1),
	}
	signals := SignalSet{
		"pageViews":      true,
		"timeOnPage":     50.0,
		"addToCartHover": true,
	}

	res := Resolve(rules, signals)
	require.NotNil(t, res)
	assert.Equal(t, TypeHighIntent, res.IntentType)
	assert.InDelta(t, 100, res.Score, 0.0001)
}

func TestResolve_TieKeepsFirstSeenRule(t *testing.T) {
	rules := []Rule{
		singleSignalRule(TypeHighIntent, 50, "addToCartHover", 1),
		singleSignalRule(TypePriceSensitive, 50, "couponSearch", 1),
	}
	signals := SignalSet{"addToCartHover": true, "couponSearch": true}

	res := Resolve(rules, signals)
	require.NotNil(t, res)
	assert.Equal(t, TypeHighIntent, res.IntentType)
}

func TestResolve_BelowOwnThresholdDoesNotMatch(t *testing.T) {
	rules := []Rule{
		{
			IntentType: TypeHighIntent,
			Threshold:  80,
			IsActive:   true,
			BehavioralSignals: []Criterion{
				{Name: "addToCartHover", Enabled: true, Weight: 1},
				{Name: "couponSearch", Enabled: true, Weight: 1},
			},
		},
	}
	signals := SignalSet{"addToCartHover": true, "couponSearch": false}

	assert.Nil(t, Resolve(rules, signals))
}

func TestResolve_InactiveRulesAreSkipped(t *testing.T) {
	rule := singleSignalRule(TypeHighIntent, 50, "addToCartHover", 1)
	rule.IsActive = false

	assert.Nil(t, Resolve([]Rule{rule}, SignalSet{"addToCartHover": true}))
}

func TestResolve_NoRulesYieldsNil(t *testing.T) {
	assert.Nil(t, Resolve(nil, SignalSet{"addToCartHover": true}))
	assert.Nil(t, Resolve([]Rule{}, SignalSet{}))
}

func TestResolve_ZeroScoreMatchesZeroThreshold(t *testing.T) {
	rule := singleSignalRule(TypeJustBrowsing, 0, "pageViews", 1)

	res := Resolve([]Rule{rule}, SignalSet{"pageViews": false})
	require.NotNil(t, res)
	assert.Equal(t, TypeJustBrowsing, res.IntentType)
	assert.Equal(t, float64(0), res.Score)
}
