package merchant

import (
	"ProjectKwik/internal/entity"
	"ProjectKwik/pkg/response"
	"net/http"
)

var (
	ErrMerchantNotFound    = response.NewError(http.StatusNotFound, "merchant not found")
	ErrDomainAlreadyExists = response.NewError(http.StatusConflict, "domain already registered")
	ErrInvalidColor        = response.NewError(http.StatusBadRequest, "widget style colors must be valid hex colors")

	// Write-time validation sentinels live with the entity validators.
	ErrInvalidMerchantName = entity.ErrInvalidMerchantName
	ErrInvalidDomain       = entity.ErrInvalidDomain
	ErrInvalidPlatform     = entity.ErrInvalidPlatform
	ErrInvalidPlacement    = entity.ErrInvalidPlacement
	ErrInvalidThreshold    = entity.ErrInvalidThreshold
)
