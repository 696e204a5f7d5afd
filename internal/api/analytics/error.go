package analytics

import (
	"ProjectKwik/pkg/response"
	"net/http"
)

var (
	ErrExportFailed  = response.NewError(http.StatusInternalServerError, "failed to build analytics export")
	ErrArchiveFailed = response.NewError(http.StatusInternalServerError, "failed to archive export")
	ErrInvalidRange  = response.NewError(http.StatusBadRequest, "invalid trend range")
)
