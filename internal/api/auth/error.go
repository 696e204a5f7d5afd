package auth

import (
	"ProjectKwik/pkg/response"
	"net/http"
)

var (
	ErrEmailAlreadyExists     = response.NewError(http.StatusConflict, "email already exists")
	ErrInvalidEmailOrPassword = response.NewError(http.StatusBadRequest, "email or password is wrong")
	ErrUserNotFound           = response.NewError(http.StatusNotFound, "user not found")
	ErrorInvalidToken         = response.NewError(http.StatusUnauthorized, "invalid token")
	ErrMerchantRequired       = response.NewError(http.StatusBadRequest, "merchant id is required")
)
