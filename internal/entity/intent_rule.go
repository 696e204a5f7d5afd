package entity

import (
	"ProjectKwik/pkg/intent"
	"time"
)

// RulePerformance is the detection quality counter block kept per rule.
type RulePerformance struct {
	TotalDetections    int64     `json:"totalDetections"`
	AccurateDetections int64     `json:"accurateDetections"`
	FalsePositives     int64     `json:"falsePositives"`
	FalseNegatives     int64     `json:"falseNegatives"`
	LastUpdated        time.Time `json:"lastUpdated"`
}

// IntentRule is the persisted form of a scoring rule. Scoring itself only
// sees the embedded intent.Rule; at most one rule per (merchant, intent
// type) is expected by calling code and enforced at create time.
type IntentRule struct {
	ID          string          `json:"id"`
	MerchantID  string          `json:"merchantId"`
	intent.Rule                 // intentType, threshold, criteria lists, active flag
	Performance RulePerformance `json:"performance"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (r *IntentRule) Validate() error {
	if !intent.IsValidType(string(r.IntentType)) {
		return ErrInvalidIntentType
	}
	if r.Threshold < 0 || r.Threshold > 100 {
		return ErrInvalidRuleThreshold
	}

	for _, group := range [][]intent.Criterion{r.BehavioralSignals, r.HistoricalFactors, r.DeviceContext} {
		for _, criterion := range group {
			if criterion.Name == "" {
				return ErrInvalidCriterion
			}
			if criterion.Weight < 0 || criterion.Weight > 10 {
				return ErrInvalidWeight
			}
			if criterion.Threshold < 0 {
				return ErrInvalidCriterion
			}
		}
	}

	return nil
}
