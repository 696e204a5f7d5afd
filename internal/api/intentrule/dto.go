package intentrule

import "ProjectKwik/pkg/intent"

type CreateRuleRequest struct {
	IntentType        string             `json:"intentType" validate:"required,oneof=high-intent price-sensitive just-browsing"`
	Threshold         float64            `json:"threshold" validate:"min=0,max=100"`
	BehavioralSignals []intent.Criterion `json:"behavioralSignals" validate:"dive"`
	HistoricalFactors []intent.Criterion `json:"historicalFactors" validate:"dive"`
	DeviceContext     []intent.Criterion `json:"deviceContext" validate:"dive"`
	IsActive          *bool              `json:"isActive"`
}

type UpdateRuleRequest struct {
	Threshold         *float64           `json:"threshold" validate:"omitempty,min=0,max=100"`
	BehavioralSignals []intent.Criterion `json:"behavioralSignals" validate:"omitempty,dive"`
	HistoricalFactors []intent.Criterion `json:"historicalFactors" validate:"omitempty,dive"`
	DeviceContext     []intent.Criterion `json:"deviceContext" validate:"omitempty,dive"`
	IsActive          *bool              `json:"isActive"`
}

type SetActiveRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

type FeedbackRequest struct {
	Accurate *bool `json:"accurate" validate:"required"`
}

type RuleResponse struct {
	ID                string             `json:"id"`
	MerchantID        string             `json:"merchantId"`
	IntentType        string             `json:"intentType"`
	Threshold         float64            `json:"threshold"`
	BehavioralSignals []intent.Criterion `json:"behavioralSignals"`
	HistoricalFactors []intent.Criterion `json:"historicalFactors"`
	DeviceContext     []intent.Criterion `json:"deviceContext"`
	IsActive          bool               `json:"isActive"`
	CreatedAt         string             `json:"created_at"`
	UpdatedAt         string             `json:"updated_at"`
}

type RulePerformanceResponse struct {
	TotalDetections    int64   `json:"totalDetections"`
	AccurateDetections int64   `json:"accurateDetections"`
	FalsePositives     int64   `json:"falsePositives"`
	FalseNegatives     int64   `json:"falseNegatives"`
	Accuracy           float64 `json:"accuracy"`
	Precision          float64 `json:"precision"`
	Recall             float64 `json:"recall"`
}
