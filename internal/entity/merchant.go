package entity

import (
	"time"
)

type Platform string

const (
	PlatformShopify     Platform = "shopify"
	PlatformWooCommerce Platform = "woocommerce"
	PlatformMagento     Platform = "magento"
	PlatformCustom      Platform = "custom"
)

func IsValidPlatform(platform string) bool {
	switch Platform(platform) {
	case PlatformShopify, PlatformWooCommerce, PlatformMagento, PlatformCustom:
		return true
	default:
		return false
	}
}

type WidgetPlacement string

const (
	PlacementAbovePrice     WidgetPlacement = "above-price"
	PlacementBelowPrice     WidgetPlacement = "below-price"
	PlacementAboveAddToCart WidgetPlacement = "above-add-to-cart"
	PlacementBelowAddToCart WidgetPlacement = "below-add-to-cart"
)

func IsValidPlacement(placement string) bool {
	switch WidgetPlacement(placement) {
	case PlacementAbovePrice, PlacementBelowPrice, PlacementAboveAddToCart, PlacementBelowAddToCart:
		return true
	default:
		return false
	}
}

type IntentThresholds struct {
	HighIntent     float64 `json:"highIntent"`
	PriceSensitive float64 `json:"priceSensitive"`
	JustBrowsing   float64 `json:"justBrowsing"`
}

type WidgetStyles struct {
	Colors struct {
		Primary   string `json:"primary"`
		Secondary string `json:"secondary"`
		Text      string `json:"text"`
	} `json:"colors"`
	Fonts struct {
		Family string `json:"family"`
		Size   string `json:"size"`
	} `json:"fonts"`
}

type FeatureToggles struct {
	StockCounter   bool `json:"stockCounter"`
	Countdown      bool `json:"countdown"`
	SocialProof    bool `json:"socialProof"`
	RecentActivity bool `json:"recentActivity"`
}

type MerchantSettings struct {
	WidgetPlacement  string           `json:"widgetPlacement"`
	IntentThresholds IntentThresholds `json:"intentThresholds"`
	WidgetStyles     WidgetStyles     `json:"widgetStyles"`
	Features         FeatureToggles   `json:"features"`
}

func DefaultMerchantSettings() MerchantSettings {
	settings := MerchantSettings{
		WidgetPlacement: string(PlacementBelowPrice),
		IntentThresholds: IntentThresholds{
			HighIntent:     70,
			PriceSensitive: 50,
			JustBrowsing:   30,
		},
		Features: FeatureToggles{
			StockCounter:   true,
			Countdown:      true,
			SocialProof:    true,
			RecentActivity: true,
		},
	}
	settings.WidgetStyles.Colors.Primary = "#e53e3e"
	settings.WidgetStyles.Colors.Secondary = "#fff5f7"
	settings.WidgetStyles.Colors.Text = "#1a202c"
	settings.WidgetStyles.Fonts.Family = "system-ui"
	settings.WidgetStyles.Fonts.Size = "14px"
	return settings
}

type Merchant struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Domain    string           `json:"domain"`
	Platform  string           `json:"platform"`
	APIKey    string           `json:"apiKey"`
	APISecret string           `json:"-"`
	Settings  MerchantSettings `json:"settings"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

func (m *Merchant) Validate() error {
	if m.Name == "" || len(m.Name) > 50 {
		return ErrInvalidMerchantName
	}
	if m.Domain == "" {
		return ErrInvalidDomain
	}
	if !IsValidPlatform(m.Platform) {
		return ErrInvalidPlatform
	}
	if m.Settings.WidgetPlacement != "" && !IsValidPlacement(m.Settings.WidgetPlacement) {
		return ErrInvalidPlacement
	}
	return m.Settings.IntentThresholds.validate()
}

func (t IntentThresholds) validate() error {
	for _, threshold := range []float64{t.HighIntent, t.PriceSensitive, t.JustBrowsing} {
		if threshold < 0 || threshold > 100 {
			return ErrInvalidThreshold
		}
	}
	return nil
}
