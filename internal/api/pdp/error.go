package pdp

import (
	"ProjectKwik/pkg/response"
	"net/http"
)

var (
	ErrSessionNotFound        = response.NewError(http.StatusNotFound, "session not found")
	ErrInvalidInteractionType = response.NewError(http.StatusBadRequest, "invalid interaction type")
	ErrInvalidConversionType  = response.NewError(http.StatusBadRequest, "invalid conversion type")
	ErrInvalidDeviceType      = response.NewError(http.StatusBadRequest, "invalid device type")
	ErrInvalidEventType       = response.NewError(http.StatusBadRequest, "event type is required")
)
