package widgetService

import (
	"ProjectKwik/internal/api/widget"
	widgetRepository "ProjectKwik/internal/api/widget/repository"
	"ProjectKwik/internal/entity"
	"ProjectKwik/pkg/redis"
	"ProjectKwik/pkg/utils"
	"context"

	"github.com/sirupsen/logrus"
)

type IWidgetService interface {
	CreateWidget(ctx context.Context, merchantID string, req widget.CreateWidgetRequest) (entity.Widget, error)
	GetWidget(ctx context.Context, id string, merchantID string) (entity.Widget, error)
	GetWidgets(ctx context.Context, merchantID string) ([]entity.Widget, error)
	GetWidgetsByIntentType(ctx context.Context, merchantID string, intentType string) ([]entity.Widget, error)
	UpdateWidget(ctx context.Context, merchantID string, req widget.UpdateWidgetRequest) (entity.Widget, error)
	DeleteWidget(ctx context.Context, id string, merchantID string) error
	BulkCreateWidgets(ctx context.Context, merchantID string, reqs []widget.CreateWidgetRequest) ([]entity.Widget, error)
	BulkUpdateWidgets(ctx context.Context, merchantID string, reqs []widget.UpdateWidgetRequest) ([]entity.Widget, error)
	BulkDeleteWidgets(ctx context.Context, merchantID string, ids []string) error
	SetWidgetActive(ctx context.Context, id string, merchantID string, active bool) error
	TestWidget(ctx context.Context, id string, merchantID string, req widget.TestWidgetRequest) (widget.TestWidgetResponse, error)
	PreviewWidget(ctx context.Context, merchantID string, intentType string, req widget.TestWidgetRequest) (widget.TestWidgetResponse, error)
	GetPerformance(ctx context.Context, id string, merchantID string) (widget.PerformanceResponse, error)
}

type widgetService struct {
	log   *logrus.Logger
	repo  widgetRepository.Repository
	cache redis.IRedis
	utils utils.IUtils
}

func New(
	log *logrus.Logger,
	repo widgetRepository.Repository,
	cache redis.IRedis,
	utils utils.IUtils,
) IWidgetService {
	return &widgetService{
		log:   log,
		repo:  repo,
		cache: cache,
		utils: utils,
	}
}
