package analyticsService

import (
	"ProjectKwik/internal/api/analytics"
	analyticsRepository "ProjectKwik/internal/api/analytics/repository"
	contextPkg "ProjectKwik/pkg/context"
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	maxTrendDays       = 90
	defaultRecentLimit = 20
	maxRecentLimit     = 100
)

func (s *analyticsService) GetOverview(ctx context.Context, merchantID string, since time.Time) (analytics.OverviewResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return analytics.OverviewResponse{}, err
	}

	row, err := repo.Aggregates.Overview(ctx, merchantID, since)
	if err != nil {
		return analytics.OverviewResponse{}, err
	}

	return makeOverviewResponse(row), nil
}

func (s *analyticsService) GetConversionRates(ctx context.Context, merchantID string, since time.Time) (analytics.ConversionRatesResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return analytics.ConversionRatesResponse{}, err
	}

	rows, err := repo.Aggregates.ConversionRows(ctx, merchantID, since)
	if err != nil {
		return analytics.ConversionRatesResponse{}, err
	}

	res := analytics.ConversionRatesResponse{
		ByIntent: make(map[string]analytics.ConversionStats, len(rows)),
	}

	for _, row := range rows {
		stats := analytics.ConversionStats{
			Total:     row.Total,
			Converted: row.Converted,
		}
		if row.Total > 0 {
			stats.Rate = float64(row.Converted) / float64(row.Total)
		}
		res.ByIntent[row.IntentType] = stats

		res.Overall.Total += row.Total
		res.Overall.Converted += row.Converted
	}

	if res.Overall.Total > 0 {
		res.Overall.Rate = float64(res.Overall.Converted) / float64(res.Overall.Total)
	}

	return res, nil
}

func (s *analyticsService) GetWidgetPerformance(ctx context.Context, merchantID string) ([]analytics.WidgetPerformanceEntry, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}

	rows, err := repo.Aggregates.WidgetPerformanceRows(ctx, merchantID)
	if err != nil {
		return nil, err
	}

	entries := make([]analytics.WidgetPerformanceEntry, 0, len(rows))
	for _, row := range rows {
		entry := analytics.WidgetPerformanceEntry{
			WidgetID:     row.ID.String,
			Name:         row.Name.String,
			WidgetType:   row.WidgetType.String,
			Impressions:  row.Impressions.Int64,
			Interactions: row.Interactions.Int64,
			Conversions:  row.Conversions.Int64,
		}
		if entry.Impressions > 0 {
			entry.InteractionRate = float64(entry.Interactions) / float64(entry.Impressions)
			entry.ConversionRate = float64(entry.Conversions) / float64(entry.Impressions)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func (s *analyticsService) GetDashboard(ctx context.Context, merchantID string) (analytics.DashboardResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return analytics.DashboardResponse{}, err
	}

	now := time.Now()

	month, err := repo.Aggregates.Overview(ctx, merchantID, now.AddDate(0, 0, -30))
	if err != nil {
		return analytics.DashboardResponse{}, err
	}

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today, err := repo.Aggregates.Overview(ctx, merchantID, startOfDay)
	if err != nil {
		return analytics.DashboardResponse{}, err
	}

	activeWidgets, err := repo.Aggregates.CountActiveWidgets(ctx, merchantID)
	if err != nil {
		return analytics.DashboardResponse{}, err
	}

	res := analytics.DashboardResponse{
		TotalDetections:   month.TotalDetections,
		DetectionsToday:   today.TotalDetections,
		ActiveWidgets:     activeWidgets,
		AverageScore:      month.AverageScore,
		WidgetImpressions: month.WidgetImpressions,
	}
	if month.TotalDetections > 0 {
		res.ConversionRate = float64(month.Converted) / float64(month.TotalDetections)
	}

	return res, nil
}

func (s *analyticsService) GetTrends(ctx context.Context, merchantID string, days int) ([]analytics.TrendPoint, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if days <= 0 {
		days = 7
	}
	if days > maxTrendDays {
		return nil, analytics.ErrInvalidRange
	}

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}

	rows, err := repo.Aggregates.TrendRows(ctx, merchantID, time.Now().AddDate(0, 0, -days))
	if err != nil {
		return nil, err
	}

	points := make([]analytics.TrendPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, analytics.TrendPoint{
			Day:            row.Day,
			HighIntent:     row.HighIntent,
			PriceSensitive: row.PriceSensitive,
			JustBrowsing:   row.JustBrowsing,
		})
	}

	return points, nil
}

// Export builds a JSON snapshot of the range and archives a copy so the
// merchant can re-download it later.
func (s *analyticsService) GetRecentDetections(ctx context.Context, merchantID string, limit int) ([]analytics.DetectionSummary, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}

	rows, err := repo.Aggregates.RecentRows(ctx, merchantID, limit)
	if err != nil {
		return nil, err
	}

	return makeDetectionSummaries(rows), nil
}

func (s *analyticsService) Export(ctx context.Context, merchantID string, from, to time.Time) (analytics.ExportResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return analytics.ExportResponse{}, err
	}

	rows, err := repo.Aggregates.ExportRows(ctx, merchantID, from, to)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to collect export rows")
		return analytics.ExportResponse{}, analytics.ErrExportFailed
	}

	overview, err := repo.Aggregates.Overview(ctx, merchantID, from)
	if err != nil {
		return analytics.ExportResponse{}, analytics.ErrExportFailed
	}

	res := analytics.ExportResponse{
		Detections: makeDetectionSummaries(rows),
		Summary:    makeOverviewResponse(overview),
	}

	payload, err := json.Marshal(res)
	if err != nil {
		return analytics.ExportResponse{}, analytics.ErrExportFailed
	}

	location, err := s.s3Client.UploadExport("analytics-"+merchantID, payload)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to archive analytics export")
	} else {
		res.ArchiveLocation = location
	}

	return res, nil
}

func makeOverviewResponse(row analyticsRepository.OverviewRow) analytics.OverviewResponse {
	res := analytics.OverviewResponse{
		TotalDetections: row.TotalDetections,
		IntentDistribution: analytics.IntentDistribution{
			HighIntent:     row.HighIntent,
			PriceSensitive: row.PriceSensitive,
			JustBrowsing:   row.JustBrowsing,
		},
		AverageIntentScore: row.AverageScore,
		WidgetImpressions:  row.WidgetImpressions,
	}
	if row.TotalDetections > 0 {
		res.ConversionRate = float64(row.Converted) / float64(row.TotalDetections)
	}
	return res
}

func makeDetectionSummaries(rows []analyticsRepository.ExportRow) []analytics.DetectionSummary {
	summaries := make([]analytics.DetectionSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, analytics.DetectionSummary{
			SessionID:   row.SessionID.String,
			VisitorID:   row.VisitorID.String,
			IntentType:  row.IntentType.String,
			IntentScore: row.IntentScore.Float64,
			WidgetShown: row.WidgetShown.String,
			Converted:   row.Converted.Bool,
			CreatedAt:   row.CreatedAt.Format(time.RFC3339),
		})
	}
	return summaries
}
