package entity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validMerchant() Merchant {
	return Merchant{
		ID:       "mer-1",
		Name:     "Trail Outfitters",
		Domain:   "trail-outfitters.example.com",
		Platform: string(PlatformShopify),
		Settings: DefaultMerchantSettings(),
	}
}

func TestMerchantValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Merchant)
		expected error
	}{
		{"valid merchant", func(m *Merchant) {}, nil},
		{"empty name", func(m *Merchant) { m.Name = "" }, ErrInvalidMerchantName},
		{"name too long", func(m *Merchant) { m.Name = strings.Repeat("x", 51) }, ErrInvalidMerchantName},
		{"empty domain", func(m *Merchant) { m.Domain = "" }, ErrInvalidDomain},
		{"unknown platform", func(m *Merchant) { m.Platform = "bigcartel" }, ErrInvalidPlatform},
		{"unknown placement", func(m *Merchant) { m.Settings.WidgetPlacement = "floating" }, ErrInvalidPlacement},
		{"empty placement allowed", func(m *Merchant) { m.Settings.WidgetPlacement = "" }, nil},
		{"threshold above 100", func(m *Merchant) { m.Settings.IntentThresholds.HighIntent = 120 }, ErrInvalidThreshold},
		{"negative threshold", func(m *Merchant) { m.Settings.IntentThresholds.JustBrowsing = -1 }, ErrInvalidThreshold},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validMerchant()
			tt.mutate(&m)
			err := m.Validate()
			if tt.expected == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.expected)
			}
		})
	}
}

func TestDefaultMerchantSettings(t *testing.T) {
	settings := DefaultMerchantSettings()

	assert.Equal(t, string(PlacementBelowPrice), settings.WidgetPlacement)
	assert.Equal(t, float64(70), settings.IntentThresholds.HighIntent)
	assert.Equal(t, float64(50), settings.IntentThresholds.PriceSensitive)
	assert.Equal(t, float64(30), settings.IntentThresholds.JustBrowsing)
	assert.True(t, settings.Features.StockCounter)
	assert.Equal(t, "#e53e3e", settings.WidgetStyles.Colors.Primary)
}
