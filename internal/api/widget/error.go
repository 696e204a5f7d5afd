package widget

import (
	"ProjectKwik/internal/entity"
	"ProjectKwik/pkg/response"
	"net/http"
)

var (
	ErrWidgetNotFound   = response.NewError(http.StatusNotFound, "widget not found")
	ErrNoActiveWidget   = response.NewError(http.StatusNotFound, "widget configuration not found")
	ErrInvalidColor     = response.NewError(http.StatusBadRequest, "styling colors must be valid hex colors")
	ErrEmptyBulkRequest = response.NewError(http.StatusBadRequest, "bulk request must not be empty")

	// Write-time validation sentinels live with the entity validators.
	ErrInvalidIntentType   = entity.ErrInvalidIntentType
	ErrInvalidWidgetType   = entity.ErrInvalidWidgetType
	ErrInvalidWidgetName   = entity.ErrInvalidWidgetName
	ErrInvalidContent      = entity.ErrInvalidContent
	ErrInvalidPosition     = entity.ErrInvalidPosition
	ErrInvalidDiscountType = entity.ErrInvalidDiscountType
	ErrInvalidSettings     = entity.ErrInvalidSettings
)
