package entity

import (
	"ProjectKwik/pkg/response"
	"net/http"
)

// Write-time validation errors returned by the entity validators. The
// domain packages re-export the ones they surface so handlers keep a
// single sentinel per failure.
var (
	ErrInvalidIntentType    = response.NewError(http.StatusBadRequest, "invalid intent type")
	ErrInvalidWidgetType    = response.NewError(http.StatusBadRequest, "invalid widget type")
	ErrInvalidWidgetName    = response.NewError(http.StatusBadRequest, "invalid widget name")
	ErrInvalidContent       = response.NewError(http.StatusBadRequest, "invalid widget content")
	ErrInvalidPosition      = response.NewError(http.StatusBadRequest, "invalid widget position")
	ErrInvalidDiscountType  = response.NewError(http.StatusBadRequest, "invalid discount type")
	ErrInvalidSettings      = response.NewError(http.StatusBadRequest, "invalid widget settings")
	ErrInvalidMerchantName  = response.NewError(http.StatusBadRequest, "invalid merchant name")
	ErrInvalidDomain        = response.NewError(http.StatusBadRequest, "invalid domain")
	ErrInvalidPlatform      = response.NewError(http.StatusBadRequest, "invalid platform")
	ErrInvalidPlacement     = response.NewError(http.StatusBadRequest, "invalid widget placement")
	ErrInvalidThreshold     = response.NewError(http.StatusBadRequest, "intent threshold must be between 0 and 100")
	ErrInvalidThresholds    = response.NewError(http.StatusBadRequest, "intent thresholds must be between 0 and 100")
	ErrInvalidRuleThreshold = response.NewError(http.StatusBadRequest, "threshold must be between 0 and 100")
	ErrInvalidWeight        = response.NewError(http.StatusBadRequest, "criterion weight must be between 0 and 10")
	ErrInvalidCriterion     = response.NewError(http.StatusBadRequest, "invalid rule criterion")
)
