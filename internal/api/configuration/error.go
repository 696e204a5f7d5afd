package configuration

import (
	"ProjectKwik/internal/entity"
	"ProjectKwik/pkg/response"
	"net/http"
)

var (
	ErrConfigNotFound  = response.NewError(http.StatusNotFound, "configuration not found")
	ErrNoActiveConfig  = response.NewError(http.StatusNotFound, "no active configuration found")
	ErrInvalidImport   = response.NewError(http.StatusBadRequest, "import payload is not a valid configuration")
	ErrVersionNotOwned = response.NewError(http.StatusForbidden, "configuration does not belong to merchant")
	ErrConfigActive    = response.NewError(http.StatusConflict, "active configuration cannot be modified")

	// Write-time validation sentinels live with the entity validators.
	ErrInvalidPlacement  = entity.ErrInvalidPlacement
	ErrInvalidThresholds = entity.ErrInvalidThresholds
)
