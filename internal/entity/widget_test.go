package entity

import (
	"testing"

	"ProjectKwik/pkg/intent"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validWidget() Widget {
	return Widget{
		ID:         "wid-1",
		MerchantID: "mer-1",
		IntentType: string(intent.TypeHighIntent),
		WidgetType: string(WidgetUrgency),
		Name:       "Low stock urgency",
		Content: WidgetContent{
			Title:   "Almost gone!",
			Message: "Only {stock} left in stock",
		},
		Styling: WidgetStyling{
			Position: string(PlacementBelowPrice),
		},
		IsActive: true,
		Version:  1,
	}
}

func TestWidgetValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Widget)
		expected error
	}{
		{"valid widget", func(w *Widget) {}, nil},
		{"bad intent type", func(w *Widget) { w.IntentType = "impulse-buyer" }, ErrInvalidIntentType},
		{"bad widget type", func(w *Widget) { w.WidgetType = "banner" }, ErrInvalidWidgetType},
		{"empty name", func(w *Widget) { w.Name = "" }, ErrInvalidWidgetName},
		{"empty title", func(w *Widget) { w.Content.Title = "" }, ErrInvalidContent},
		{"empty message", func(w *Widget) { w.Content.Message = "" }, ErrInvalidContent},
		{"bad position", func(w *Widget) { w.Styling.Position = "sidebar" }, ErrInvalidPosition},
		{"bad discount type", func(w *Widget) { w.Settings.DiscountType = "bogo" }, ErrInvalidDiscountType},
		{"empty discount type allowed", func(w *Widget) { w.Settings.DiscountType = "" }, nil},
		{"negative discount value", func(w *Widget) { w.Settings.DiscountValue = -1 }, ErrInvalidSettings},
		{"negative countdown", func(w *Widget) { w.Settings.CountdownDuration = -5 }, ErrInvalidSettings},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := validWidget()
			tt.mutate(&w)
			err := w.Validate()
			if tt.expected == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.expected)
			}
		})
	}
}

func TestPickLatestWidget(t *testing.T) {
	assert.Nil(t, PickLatestWidget(nil))
	assert.Nil(t, PickLatestWidget([]Widget{}))

	widgets := []Widget{
		{ID: "a", Version: 2},
		{ID: "b", Version: 5},
		{ID: "c", Version: 3},
	}
	best := PickLatestWidget(widgets)
	require.NotNil(t, best)
	assert.Equal(t, "b", best.ID)

	// Equal versions keep the earlier entry.
	tied := []Widget{
		{ID: "first", Version: 4},
		{ID: "second", Version: 4},
	}
	best = PickLatestWidget(tied)
	require.NotNil(t, best)
	assert.Equal(t, "first", best.ID)
}

func TestRenderContent(t *testing.T) {
	w := validWidget()
	w.Content.Message = "Only {stock} left at {price}!"

	content := w.RenderContent(intent.Product{Price: 49.99, Currency: "USD", Stock: 12})
	assert.Equal(t, "Only 12 left at USD 49.99!", content.Message)

	// Zero stock falls back to the placeholder default.
	content = w.RenderContent(intent.Product{Price: 20, Currency: "EUR"})
	assert.Equal(t, "Only 5 left at EUR 20!", content.Message)

	// Messages without placeholders pass through untouched.
	w.Content.Message = "Free shipping today"
	content = w.RenderContent(intent.Product{Price: 10, Currency: "USD"})
	assert.Equal(t, "Free shipping today", content.Message)
}
