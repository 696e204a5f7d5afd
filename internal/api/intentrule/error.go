package intentrule

import (
	"ProjectKwik/internal/entity"
	"ProjectKwik/pkg/response"
	"net/http"
)

var (
	ErrRuleNotFound      = response.NewError(http.StatusNotFound, "intent rule not found")
	ErrNoActiveRules     = response.NewError(http.StatusNotFound, "no active intent rules found")
	ErrRuleAlreadyExists = response.NewError(http.StatusConflict, "rule for this intent type already exists")

	// Write-time validation sentinels live with the entity validators.
	ErrInvalidIntentType = entity.ErrInvalidIntentType
	ErrInvalidThreshold  = entity.ErrInvalidRuleThreshold
	ErrInvalidWeight     = entity.ErrInvalidWeight
	ErrInvalidCriterion  = entity.ErrInvalidCriterion
)
