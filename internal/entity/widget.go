package entity

import (
	"ProjectKwik/pkg/intent"
	"strconv"
	"strings"
	"time"
)

type WidgetType string

const (
	WidgetUrgency        WidgetType = "urgency"
	WidgetPaymentOptions WidgetType = "payment-options"
	WidgetBundle         WidgetType = "bundle"
	WidgetInformation    WidgetType = "information"
	WidgetDiscount       WidgetType = "discount"
	WidgetSocialProof    WidgetType = "social-proof"
	WidgetRecommendation WidgetType = "recommendation"
)

func IsValidWidgetType(widgetType string) bool {
	switch WidgetType(widgetType) {
	case WidgetUrgency, WidgetPaymentOptions, WidgetBundle, WidgetInformation,
		WidgetDiscount, WidgetSocialProof, WidgetRecommendation:
		return true
	default:
		return false
	}
}

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
	DiscountShipping   DiscountType = "shipping"
)

type WidgetContent struct {
	Title          string `json:"title"`
	Message        string `json:"message"`
	AdditionalText string `json:"additionalText,omitempty"`
}

type WidgetStyling struct {
	Position string `json:"position"`
	Colors   struct {
		Background string `json:"background"`
		Text       string `json:"text"`
		Accent     string `json:"accent"`
	} `json:"colors"`
	ShowIcons bool `json:"showIcons"`
}

type WidgetSettings struct {
	ShowCountdown      bool    `json:"showCountdown"`
	CountdownDuration  int     `json:"countdownDuration"`
	ShowStockLevel     bool    `json:"showStockLevel"`
	ShowRecentActivity bool    `json:"showRecentActivity"`
	DiscountType       string  `json:"discountType,omitempty"`
	DiscountValue      float64 `json:"discountValue"`
	OneTimeUse         bool    `json:"oneTimeUse"`
	ShowOriginalPrice  bool    `json:"showOriginalPrice"`
}

type WidgetPerformance struct {
	Impressions  int64     `json:"impressions"`
	Interactions int64     `json:"interactions"`
	Conversions  int64     `json:"conversions"`
	LastUpdated  time.Time `json:"lastUpdated"`
}

// Widget is a merchandising snippet shown for one resolved intent.
// Version is monotonic per (merchant, intent type); the live selection
// path always serves the highest active version.
type Widget struct {
	ID           string               `json:"id"`
	MerchantID   string               `json:"merchantId"`
	IntentType   string               `json:"intentType"`
	WidgetType   string               `json:"widgetType"`
	Name         string               `json:"name"`
	Content      WidgetContent        `json:"content"`
	Styling      WidgetStyling        `json:"styling"`
	Settings     WidgetSettings       `json:"settings"`
	IsActive     bool                 `json:"isActive"`
	Version      int                  `json:"version"`
	DisplayRules *intent.DisplayRules `json:"displayRules,omitempty"`
	Performance  WidgetPerformance    `json:"performance"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
}

func (w *Widget) Validate() error {
	if !intent.IsValidType(w.IntentType) {
		return ErrInvalidIntentType
	}
	if !IsValidWidgetType(w.WidgetType) {
		return ErrInvalidWidgetType
	}
	if w.Name == "" || len(w.Name) > 100 {
		return ErrInvalidWidgetName
	}
	if w.Content.Title == "" || len(w.Content.Title) > 100 {
		return ErrInvalidContent
	}
	if w.Content.Message == "" || len(w.Content.Message) > 200 {
		return ErrInvalidContent
	}
	if !IsValidPlacement(w.Styling.Position) {
		return ErrInvalidPosition
	}
	switch DiscountType(w.Settings.DiscountType) {
	case "", DiscountPercentage, DiscountFixed, DiscountShipping:
	default:
		return ErrInvalidDiscountType
	}
	if w.Settings.DiscountValue < 0 || w.Settings.CountdownDuration < 0 {
		return ErrInvalidSettings
	}
	return nil
}

// PickLatestWidget applies the selection policy of the live path to an
// in-memory slice: highest version wins, nil when the slice is empty.
// Preview and test flows use this; the poll path pushes the same policy
// into the store query.
func PickLatestWidget(widgets []Widget) *Widget {
	var best *Widget
	for i := range widgets {
		if best == nil || widgets[i].Version > best.Version {
			best = &widgets[i]
		}
	}
	return best
}

// RenderContent substitutes the {stock} and {price} placeholders the
// widget editor allows in messages.
func (w *Widget) RenderContent(product intent.Product) WidgetContent {
	content := w.Content

	stock := "5"
	if product.Stock > 0 {
		stock = strconv.Itoa(product.Stock)
	}

	price := strconv.FormatFloat(product.Price, 'f', -1, 64)
	content.Message = strings.ReplaceAll(content.Message, "{stock}", stock)
	content.Message = strings.ReplaceAll(content.Message, "{price}", product.Currency+" "+price)

	return content
}
