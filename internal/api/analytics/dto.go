package analytics

type IntentDistribution struct {
	HighIntent     int64 `json:"highIntent"`
	PriceSensitive int64 `json:"priceSensitive"`
	JustBrowsing   int64 `json:"justBrowsing"`
}

type OverviewResponse struct {
	TotalDetections    int64              `json:"totalDetections"`
	IntentDistribution IntentDistribution `json:"intentDistribution"`
	AverageIntentScore float64            `json:"averageIntentScore"`
	WidgetImpressions  int64              `json:"widgetImpressions"`
	ConversionRate     float64            `json:"conversionRate"`
}

type IntentBucket struct {
	IntentType   string  `json:"intentType"`
	Count        int64   `json:"count"`
	AverageScore float64 `json:"averageScore"`
}

type ConversionStats struct {
	Total     int64   `json:"total"`
	Converted int64   `json:"converted"`
	Rate      float64 `json:"rate"`
}

type ConversionRatesResponse struct {
	Overall  ConversionStats            `json:"overall"`
	ByIntent map[string]ConversionStats `json:"byIntent"`
}

type WidgetPerformanceEntry struct {
	WidgetID        string  `json:"widgetId"`
	Name            string  `json:"name"`
	WidgetType      string  `json:"type"`
	Impressions     int64   `json:"impressions"`
	Interactions    int64   `json:"interactions"`
	Conversions     int64   `json:"conversions"`
	InteractionRate float64 `json:"interactionRate"`
	ConversionRate  float64 `json:"conversionRate"`
}

type DashboardResponse struct {
	TotalDetections   int64   `json:"totalDetections"`
	DetectionsToday   int64   `json:"detectionsToday"`
	ActiveWidgets     int64   `json:"activeWidgets"`
	ConversionRate    float64 `json:"conversionRate"`
	AverageScore      float64 `json:"averageScore"`
	WidgetImpressions int64   `json:"widgetImpressions"`
}

type TrendPoint struct {
	Day            string `json:"day"`
	HighIntent     int64  `json:"highIntent"`
	PriceSensitive int64  `json:"priceSensitive"`
	JustBrowsing   int64  `json:"justBrowsing"`
}

type DetectionSummary struct {
	SessionID   string  `json:"sessionId"`
	VisitorID   string  `json:"visitorId"`
	IntentType  string  `json:"intentType,omitempty"`
	IntentScore float64 `json:"intentScore"`
	WidgetShown string  `json:"widgetShown,omitempty"`
	Converted   bool    `json:"converted"`
	CreatedAt   string  `json:"created_at"`
}

type ExportResponse struct {
	Detections      []DetectionSummary `json:"detections"`
	Summary         OverviewResponse   `json:"summary"`
	ArchiveLocation string             `json:"archiveLocation,omitempty"`
}
