package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func behavioralRule(criteria ...Criterion) Rule {
	return Rule{
		IntentType:        TypeHighIntent,
		Threshold:         70,
		BehavioralSignals: criteria,
		IsActive:          true,
	}
}

func TestEvaluate_NumericAndBooleanSignals(t *testing.T) {
	rule := behavioralRule(
		Criterion{Name: "timeOnPage", Enabled: true, Weight: 3, Threshold: 120},
		Criterion{Name: "addToCartHover", Enabled: true, Weight: 3},
	)

	tests := []struct {
		name     string
		signals  SignalSet
		expected float64
	}{
		{
			name:     "both pass",
			signals:  SignalSet{"timeOnPage": 150.0, "addToCartHover": true},
			expected: 100,
		},
		{
			name:     "both fail",
			signals:  SignalSet{"timeOnPage": 50.0, "addToCartHover": false},
			expected: 0,
		},
		{
			name:     "numeric passes, boolean absent",
			signals:  SignalSet{"timeOnPage": 150.0},
			expected: 100,
		},
		{
			name:     "numeric exactly at threshold",
			signals:  SignalSet{"timeOnPage": 120.0},
			expected: 100,
		},
		{
			name:     "numeric just below threshold",
			signals:  SignalSet{"timeOnPage": 119.9},
			expected: 0,
		},
		{
			name:     "one passes one fails",
			signals:  SignalSet{"timeOnPage": 150.0, "addToCartHover": false},
			expected: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Evaluate(rule, tt.signals), 0.0001)
		})
	}
}

func TestEvaluate_IntSignalsScoreLikeFloats(t *testing.T) {
	rule := behavioralRule(
		Criterion{Name: "scrollDepth", Enabled: true, Weight: 2, Threshold: 80},
	)

	assert.InDelta(t, 100, Evaluate(rule, SignalSet{"scrollDepth": 85}), 0.0001)
	assert.InDelta(t, 0, Evaluate(rule, SignalSet{"scrollDepth": 40}), 0.0001)
}

func TestEvaluate_DisabledCriterionIsIgnored(t *testing.T) {
	rule := behavioralRule(
		Criterion{Name: "timeOnPage", Enabled: false, Weight: 3, Threshold: 120},
		Criterion{Name: "addToCartHover", Enabled: true, Weight: 1},
	)

	// The disabled criterion contributes to neither score nor weight.
	score := Evaluate(rule, SignalSet{"timeOnPage": 500.0, "addToCartHover": false})
	assert.InDelta(t, 0, score, 0.0001)
}

func TestEvaluate_MissingSignalSkipsCriterion(t *testing.T) {
	rule := behavioralRule(
		Criterion{Name: "timeOnPage", Enabled: true, Weight: 3, Threshold: 120},
		Criterion{Name: "addToCartHover", Enabled: true, Weight: 3},
	)

	// Only addToCartHover participates, so its weight is the whole denominator.
	score := Evaluate(rule, SignalSet{"addToCartHover": true})
	assert.InDelta(t, 100, score, 0.0001)
}

func TestEvaluate_NoParticipatingCriteriaYieldsZero(t *testing.T) {
	rule := behavioralRule(
		Criterion{Name: "timeOnPage", Enabled: true, Weight: 3, Threshold: 120},
	)

	assert.Equal(t, float64(0), Evaluate(rule, SignalSet{}))
	assert.Equal(t, float64(0), Evaluate(Rule{}, SignalSet{"timeOnPage": 200.0}))
}

func TestEvaluate_HistoricalFactorsScoreOnTruthiness(t *testing.T) {
	rule := Rule{
		HistoricalFactors: []Criterion{
			{Name: "returningVisitor", Enabled: true, Weight: 2},
			{Name: "previousPurchases", Enabled: true, Weight: 2, Threshold: 3},
		},
	}

	// Threshold is ignored for historical factors; any non-zero value counts.
	score := Evaluate(rule, SignalSet{
		"returningVisitor":  true,
		"previousPurchases": 1.0,
	})
	assert.InDelta(t, 100, score, 0.0001)

	score = Evaluate(rule, SignalSet{
		"returningVisitor":  false,
		"previousPurchases": 0.0,
	})
	assert.InDelta(t, 0, score, 0.0001)
}

func TestEvaluate_DeviceContextTruthiness(t *testing.T) {
	rule := Rule{
		DeviceContext: []Criterion{
			{Name: "deviceType", Enabled: true, Weight: 1},
			{Name: "isMobile", Enabled: true, Weight: 1},
		},
	}

	score := Evaluate(rule, SignalSet{"deviceType": "desktop", "isMobile": false})
	assert.InDelta(t, 50, score, 0.0001)

	score = Evaluate(rule, SignalSet{"deviceType": "", "isMobile": false})
	assert.InDelta(t, 0, score, 0.0001)
}

func TestEvaluate_MixedSectionsWeighTogether(t *testing.T) {
	rule := Rule{
		BehavioralSignals: []Criterion{
			{Name: "timeOnPage", Enabled: true, Weight: 3, Threshold: 120},
		},
		HistoricalFactors: []Criterion{
			{Name: "returningVisitor", Enabled: true, Weight: 1},
		},
	}

	score := Evaluate(rule, SignalSet{
		"timeOnPage":       150.0,
		"returningVisitor": false,
	})
	assert.InDelta(t, 75, score, 0.0001)
}
