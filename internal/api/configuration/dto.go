package configuration

import "ProjectKwik/internal/entity"

type CreateConfigRequest struct {
	Settings entity.MerchantSettings `json:"settings" validate:"required"`
}

type UpdateConfigRequest struct {
	Settings entity.MerchantSettings `json:"settings" validate:"required"`
}

type ImportConfigRequest struct {
	Settings entity.MerchantSettings `json:"settings" validate:"required"`
}

type ValidateConfigRequest struct {
	Settings entity.MerchantSettings `json:"settings" validate:"required"`
}

type ConfigResponse struct {
	ID         string                  `json:"id"`
	MerchantID string                  `json:"merchantId"`
	IsActive   bool                    `json:"isActive"`
	Version    int                     `json:"version"`
	Settings   entity.MerchantSettings `json:"settings"`
	CreatedAt  string                  `json:"created_at"`
	UpdatedAt  string                  `json:"updated_at"`
}

type ValidateConfigResponse struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

type ExportConfigResponse struct {
	Config          ConfigResponse `json:"config"`
	ArchiveLocation string         `json:"archiveLocation,omitempty"`
}
