package analyticsService

import (
	"ProjectKwik/internal/api/analytics"
	analyticsRepository "ProjectKwik/internal/api/analytics/repository"
	"ProjectKwik/pkg/s3"
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type IAnalyticsService interface {
	GetOverview(ctx context.Context, merchantID string, since time.Time) (analytics.OverviewResponse, error)
	GetConversionRates(ctx context.Context, merchantID string, since time.Time) (analytics.ConversionRatesResponse, error)
	GetWidgetPerformance(ctx context.Context, merchantID string) ([]analytics.WidgetPerformanceEntry, error)
	GetDashboard(ctx context.Context, merchantID string) (analytics.DashboardResponse, error)
	GetTrends(ctx context.Context, merchantID string, days int) ([]analytics.TrendPoint, error)
	GetRecentDetections(ctx context.Context, merchantID string, limit int) ([]analytics.DetectionSummary, error)
	Export(ctx context.Context, merchantID string, from, to time.Time) (analytics.ExportResponse, error)
}

type analyticsService struct {
	log      *logrus.Logger
	repo     analyticsRepository.Repository
	s3Client s3.ItfS3
}

func New(
	log *logrus.Logger,
	repo analyticsRepository.Repository,
	s3Client s3.ItfS3,
) IAnalyticsService {
	return &analyticsService{
		log:      log,
		repo:     repo,
		s3Client: s3Client,
	}
}
