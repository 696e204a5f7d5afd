package entity

import (
	"time"
)

// Configuration is one immutable version of a merchant's widget
// configuration. Exactly one version per merchant is active at a time;
// activation is an explicit transactional operation on the store, never a
// side effect of saving.
type Configuration struct {
	ID         string           `json:"id"`
	MerchantID string           `json:"merchantId"`
	IsActive   bool             `json:"isActive"`
	Version    int              `json:"version"`
	Settings   MerchantSettings `json:"settings"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

func (c *Configuration) Validate() error {
	if c.Settings.WidgetPlacement != "" && !IsValidPlacement(c.Settings.WidgetPlacement) {
		return ErrInvalidPlacement
	}
	if err := c.Settings.IntentThresholds.validate(); err != nil {
		return ErrInvalidThresholds
	}
	return nil
}
