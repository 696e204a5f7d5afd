package merchant

import "ProjectKwik/internal/entity"

type CreateMerchantRequest struct {
	Name     string `json:"name" validate:"required,max=50"`
	Domain   string `json:"domain" validate:"required,fqdn"`
	Platform string `json:"platform" validate:"required,oneof=shopify woocommerce magento custom"`
}

type UpdateMerchantRequest struct {
	Name     string `json:"name" validate:"omitempty,max=50"`
	Domain   string `json:"domain" validate:"omitempty,fqdn"`
	Platform string `json:"platform" validate:"omitempty,oneof=shopify woocommerce magento custom"`
}

type UpdateSettingsRequest struct {
	Settings entity.MerchantSettings `json:"settings" validate:"required"`
}

type MerchantResponse struct {
	ID        string                  `json:"id"`
	Name      string                  `json:"name"`
	Domain    string                  `json:"domain"`
	Platform  string                  `json:"platform"`
	APIKey    string                  `json:"apiKey"`
	Settings  entity.MerchantSettings `json:"settings"`
	CreatedAt string                  `json:"created_at"`
	UpdatedAt string                  `json:"updated_at"`
}

type CreateMerchantResponse struct {
	Merchant  MerchantResponse `json:"merchant"`
	APISecret string           `json:"apiSecret"`
}

type RotateCredentialsResponse struct {
	APIKey    string `json:"apiKey"`
	APISecret string `json:"apiSecret"`
}
