package entity

import (
	"ProjectKwik/pkg/intent"
	"time"
)

type InteractionType string

const (
	InteractionClick   InteractionType = "click"
	InteractionHover   InteractionType = "hover"
	InteractionDismiss InteractionType = "dismiss"
)

func IsValidInteractionType(interactionType string) bool {
	switch InteractionType(interactionType) {
	case InteractionClick, InteractionHover, InteractionDismiss:
		return true
	default:
		return false
	}
}

type ConversionType string

const (
	ConversionPurchase    ConversionType = "purchase"
	ConversionAddToCart   ConversionType = "add_to_cart"
	ConversionWishlist    ConversionType = "wishlist"
	ConversionEmailSignup ConversionType = "email_signup"
)

func IsValidConversionType(conversionType string) bool {
	switch ConversionType(conversionType) {
	case ConversionPurchase, ConversionAddToCart, ConversionWishlist, ConversionEmailSignup:
		return true
	default:
		return false
	}
}

type DeviceInfo struct {
	Type       string `json:"type"`
	UserAgent  string `json:"userAgent"`
	ScreenSize string `json:"screenSize"`
}

func IsValidDeviceType(deviceType string) bool {
	switch deviceType {
	case "mobile", "tablet", "desktop":
		return true
	default:
		return false
	}
}

// Detection is the record of one session: the signals polled, the intent
// resolved for them and the widget served, plus the interaction and
// conversion outcomes appended later. SessionID is the unique key; a
// re-poll within the same session overwrites the signal and intent fields
// rather than appending. Records expire after the 30-day retention window.
type Detection struct {
	SessionID   string           `json:"sessionId"`
	MerchantID  string           `json:"merchantId"`
	VisitorID   string           `json:"visitorId"`
	Product     intent.Product   `json:"product"`
	Signals     intent.SignalSet `json:"behavioralSignals"`
	DeviceInfo  DeviceInfo       `json:"deviceInfo"`
	IntentType  string           `json:"intentType,omitempty"`
	IntentScore float64          `json:"intentScore"`
	WidgetShown string           `json:"widgetShown,omitempty"`

	WidgetInteracted      bool       `json:"widgetInteracted"`
	WidgetInteractionType string     `json:"widgetInteractionType,omitempty"`
	WidgetInteractionTime *time.Time `json:"widgetInteractionTime,omitempty"`

	Converted       bool       `json:"converted"`
	ConversionType  string     `json:"conversionType,omitempty"`
	ConversionValue float64    `json:"conversionValue"`
	ConversionTime  *time.Time `json:"conversionTime,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DetectionRetention is the storage contract for detection rows; the
// janitor deletes rows older than this.
const DetectionRetention = 30 * 24 * time.Hour

// MaxSessionEvents caps the custom event log per session; the oldest
// events are dropped once the cap is reached.
const MaxSessionEvents = 100

// DetectionEvent is one custom tracking event, stored in its own table
// keyed by session rather than embedded in the detection row.
type DetectionEvent struct {
	ID         string                 `json:"id"`
	SessionID  string                 `json:"sessionId"`
	MerchantID string                 `json:"merchantId"`
	EventType  string                 `json:"eventType"`
	EventData  map[string]interface{} `json:"eventData,omitempty"`
	CreatedAt  time.Time              `json:"createdAt"`
}
