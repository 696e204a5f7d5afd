package pdp

import (
	"ProjectKwik/internal/entity"
	"ProjectKwik/pkg/intent"
)

type PollRequest struct {
	VisitorID         string            `json:"visitorId" validate:"required"`
	SessionID         string            `json:"sessionId" validate:"required"`
	Product           intent.Product    `json:"product" validate:"required"`
	BehavioralSignals intent.SignalSet  `json:"behavioralSignals" validate:"required"`
	DeviceInfo        entity.DeviceInfo `json:"deviceInfo" validate:"required"`
}

type WidgetPayload struct {
	ID       string                `json:"id"`
	Type     string                `json:"type"`
	Content  entity.WidgetContent  `json:"content"`
	Styling  entity.WidgetStyling  `json:"styling"`
	Settings entity.WidgetSettings `json:"settings"`
}

type PollResponse struct {
	Intent string         `json:"intent,omitempty"`
	Score  float64        `json:"score"`
	Widget *WidgetPayload `json:"widget"`
}

type InteractionRequest struct {
	SessionID       string `json:"sessionId" validate:"required"`
	InteractionType string `json:"interactionType" validate:"required,oneof=click hover dismiss"`
}

type ConversionRequest struct {
	ConversionType  string  `json:"conversionType" validate:"required,oneof=purchase add_to_cart wishlist email_signup"`
	ConversionValue float64 `json:"conversionValue" validate:"min=0"`
}

type EventRequest struct {
	SessionID string                 `json:"sessionId" validate:"required"`
	EventType string                 `json:"eventType" validate:"required"`
	EventData map[string]interface{} `json:"eventData"`
}
