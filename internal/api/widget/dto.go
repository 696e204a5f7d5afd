package widget

import (
	"ProjectKwik/internal/entity"
	"ProjectKwik/pkg/intent"
)

type CreateWidgetRequest struct {
	IntentType   string                `json:"intentType" validate:"required,oneof=high-intent price-sensitive just-browsing"`
	WidgetType   string                `json:"widgetType" validate:"required"`
	Name         string                `json:"name" validate:"required,max=100"`
	Content      entity.WidgetContent  `json:"content" validate:"required"`
	Styling      entity.WidgetStyling  `json:"styling" validate:"required"`
	Settings     entity.WidgetSettings `json:"settings"`
	DisplayRules *intent.DisplayRules  `json:"displayRules"`
	IsActive     *bool                 `json:"isActive"`
}

type UpdateWidgetRequest struct {
	ID           string                 `json:"id" validate:"required"`
	WidgetType   string                 `json:"widgetType" validate:"omitempty"`
	Name         string                 `json:"name" validate:"omitempty,max=100"`
	Content      *entity.WidgetContent  `json:"content"`
	Styling      *entity.WidgetStyling  `json:"styling"`
	Settings     *entity.WidgetSettings `json:"settings"`
	DisplayRules *intent.DisplayRules   `json:"displayRules"`
	IsActive     *bool                  `json:"isActive"`
}

type SetActiveRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

type BulkDeleteRequest struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}

type BulkCreateRequest struct {
	Widgets []CreateWidgetRequest `json:"widgets" validate:"required,min=1,max=50,dive"`
}

type BulkUpdateRequest struct {
	Widgets []UpdateWidgetRequest `json:"widgets" validate:"required,min=1,max=50,dive"`
}

type TestWidgetRequest struct {
	Product    *intent.Product `json:"product"`
	DeviceType string          `json:"deviceType" validate:"omitempty,oneof=mobile tablet desktop"`
}

type TestWidgetResponse struct {
	Widget          entity.Widget         `json:"widget"`
	Product         intent.Product        `json:"product"`
	DeviceType      string                `json:"deviceType"`
	ShouldDisplay   bool                  `json:"shouldDisplay"`
	RenderedContent *entity.WidgetContent `json:"renderedContent,omitempty"`
}

type PerformanceResponse struct {
	Impressions     int64   `json:"impressions"`
	Interactions    int64   `json:"interactions"`
	Conversions     int64   `json:"conversions"`
	InteractionRate float64 `json:"interactionRate"`
	ConversionRate  float64 `json:"conversionRate"`
}
