package widgetService

import (
	"ProjectKwik/internal/api/widget"
	widgetRepository "ProjectKwik/internal/api/widget/repository"
	"ProjectKwik/internal/entity"
	contextPkg "ProjectKwik/pkg/context"
	"ProjectKwik/pkg/intent"
	"ProjectKwik/pkg/redis"
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

func (s *widgetService) CreateWidget(ctx context.Context, merchantID string, req widget.CreateWidgetRequest) (entity.Widget, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return entity.Widget{}, err
	}
	defer repo.Rollback()

	widgetID, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate ULID")
		return entity.Widget{}, err
	}

	version, err := repo.Widgets.NextVersion(ctx, merchantID, req.IntentType)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to compute next widget version")
		return entity.Widget{}, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	now := time.Now()
	w := entity.Widget{
		ID:           widgetID,
		MerchantID:   merchantID,
		IntentType:   req.IntentType,
		WidgetType:   req.WidgetType,
		Name:         req.Name,
		Content:      req.Content,
		Styling:      req.Styling,
		Settings:     req.Settings,
		IsActive:     isActive,
		Version:      version,
		DisplayRules: req.DisplayRules,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.validateWidget(&w); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Widget validation failed")
		return entity.Widget{}, err
	}

	if err := repo.Widgets.Create(ctx, w); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create widget")
		return entity.Widget{}, err
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit transaction")
		return entity.Widget{}, err
	}

	s.invalidateWidgetCache(ctx, merchantID, req.IntentType)

	return w, nil
}

func (s *widgetService) GetWidget(ctx context.Context, id string, merchantID string) (entity.Widget, error) {
	repo, err := s.newReadClient(ctx)
	if err != nil {
		return entity.Widget{}, err
	}

	return repo.Widgets.GetByID(ctx, id, merchantID)
}

func (s *widgetService) GetWidgets(ctx context.Context, merchantID string) ([]entity.Widget, error) {
	repo, err := s.newReadClient(ctx)
	if err != nil {
		return nil, err
	}

	return repo.Widgets.GetByMerchant(ctx, merchantID)
}

func (s *widgetService) GetWidgetsByIntentType(ctx context.Context, merchantID string, intentType string) ([]entity.Widget, error) {
	if !intent.IsValidType(intentType) {
		return nil, widget.ErrInvalidIntentType
	}

	repo, err := s.newReadClient(ctx)
	if err != nil {
		return nil, err
	}

	return repo.Widgets.GetByIntentType(ctx, merchantID, intentType)
}

func (s *widgetService) UpdateWidget(ctx context.Context, merchantID string, req widget.UpdateWidgetRequest) (entity.Widget, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.newReadClient(ctx)
	if err != nil {
		return entity.Widget{}, err
	}

	w, err := repo.Widgets.GetByID(ctx, req.ID, merchantID)
	if err != nil {
		return entity.Widget{}, err
	}

	if req.WidgetType != "" {
		w.WidgetType = req.WidgetType
	}
	if req.Name != "" {
		w.Name = req.Name
	}
	if req.Content != nil {
		w.Content = *req.Content
	}
	if req.Styling != nil {
		w.Styling = *req.Styling
	}
	if req.Settings != nil {
		w.Settings = *req.Settings
	}
	if req.DisplayRules != nil {
		w.DisplayRules = req.DisplayRules
	}
	if req.IsActive != nil {
		w.IsActive = *req.IsActive
	}
	w.UpdatedAt = time.Now()

	if err := s.validateWidget(&w); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Widget validation failed")
		return entity.Widget{}, err
	}

	if err := repo.Widgets.Update(ctx, w); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to update widget")
		return entity.Widget{}, err
	}

	s.invalidateWidgetCache(ctx, merchantID, w.IntentType)

	return w, nil
}

func (s *widgetService) DeleteWidget(ctx context.Context, id string, merchantID string) error {
	repo, err := s.newReadClient(ctx)
	if err != nil {
		return err
	}

	w, err := repo.Widgets.GetByID(ctx, id, merchantID)
	if err != nil {
		return err
	}

	if err := repo.Widgets.Delete(ctx, id, merchantID); err != nil {
		return err
	}

	s.invalidateWidgetCache(ctx, merchantID, w.IntentType)

	return nil
}

// BulkCreateWidgets applies items in order; the first failure stops the
// batch and already-created widgets stay.
func (s *widgetService) BulkCreateWidgets(ctx context.Context, merchantID string, reqs []widget.CreateWidgetRequest) ([]entity.Widget, error) {
	if len(reqs) == 0 {
		return nil, widget.ErrEmptyBulkRequest
	}

	widgets := make([]entity.Widget, 0, len(reqs))
	for _, req := range reqs {
		w, err := s.CreateWidget(ctx, merchantID, req)
		if err != nil {
			return nil, err
		}
		widgets = append(widgets, w)
	}

	return widgets, nil
}

func (s *widgetService) BulkUpdateWidgets(ctx context.Context, merchantID string, reqs []widget.UpdateWidgetRequest) ([]entity.Widget, error) {
	if len(reqs) == 0 {
		return nil, widget.ErrEmptyBulkRequest
	}

	widgets := make([]entity.Widget, 0, len(reqs))
	for _, req := range reqs {
		w, err := s.UpdateWidget(ctx, merchantID, req)
		if err != nil {
			return nil, err
		}
		widgets = append(widgets, w)
	}

	return widgets, nil
}

func (s *widgetService) BulkDeleteWidgets(ctx context.Context, merchantID string, ids []string) error {
	requestID := contextPkg.GetRequestID(ctx)

	if len(ids) == 0 {
		return widget.ErrEmptyBulkRequest
	}

	repo, err := s.repo.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return err
	}
	defer repo.Rollback()

	touched := map[string]struct{}{}
	for _, id := range ids {
		w, err := repo.Widgets.GetByID(ctx, id, merchantID)
		if err != nil {
			return err
		}
		if err := repo.Widgets.Delete(ctx, id, merchantID); err != nil {
			return err
		}
		touched[w.IntentType] = struct{}{}
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit transaction")
		return err
	}

	for intentType := range touched {
		s.invalidateWidgetCache(ctx, merchantID, intentType)
	}

	return nil
}

func (s *widgetService) SetWidgetActive(ctx context.Context, id string, merchantID string, active bool) error {
	repo, err := s.newReadClient(ctx)
	if err != nil {
		return err
	}

	w, err := repo.Widgets.GetByID(ctx, id, merchantID)
	if err != nil {
		return err
	}

	if err := repo.Widgets.SetActive(ctx, id, merchantID, active); err != nil {
		return err
	}

	s.invalidateWidgetCache(ctx, merchantID, w.IntentType)

	return nil
}

// TestWidget runs the display-rule check against a sample product so a
// merchant can see whether a widget would render. Only this path and
// PreviewWidget consult display rules; the live poll path does not.
func (s *widgetService) TestWidget(ctx context.Context, id string, merchantID string, req widget.TestWidgetRequest) (widget.TestWidgetResponse, error) {
	repo, err := s.newReadClient(ctx)
	if err != nil {
		return widget.TestWidgetResponse{}, err
	}

	w, err := repo.Widgets.GetByID(ctx, id, merchantID)
	if err != nil {
		return widget.TestWidgetResponse{}, err
	}

	return makeTestResponse(w, req), nil
}

func (s *widgetService) PreviewWidget(ctx context.Context, merchantID string, intentType string, req widget.TestWidgetRequest) (widget.TestWidgetResponse, error) {
	if !intent.IsValidType(intentType) {
		return widget.TestWidgetResponse{}, widget.ErrInvalidIntentType
	}

	repo, err := s.newReadClient(ctx)
	if err != nil {
		return widget.TestWidgetResponse{}, err
	}

	widgets, err := repo.Widgets.GetByIntentType(ctx, merchantID, intentType)
	if err != nil {
		return widget.TestWidgetResponse{}, err
	}

	var active []entity.Widget
	for _, w := range widgets {
		if w.IsActive {
			active = append(active, w)
		}
	}

	picked := entity.PickLatestWidget(active)
	if picked == nil {
		return widget.TestWidgetResponse{}, widget.ErrNoActiveWidget
	}

	return makeTestResponse(*picked, req), nil
}

func (s *widgetService) GetPerformance(ctx context.Context, id string, merchantID string) (widget.PerformanceResponse, error) {
	repo, err := s.newReadClient(ctx)
	if err != nil {
		return widget.PerformanceResponse{}, err
	}

	w, err := repo.Widgets.GetByID(ctx, id, merchantID)
	if err != nil {
		return widget.PerformanceResponse{}, err
	}

	res := widget.PerformanceResponse{
		Impressions:  w.Performance.Impressions,
		Interactions: w.Performance.Interactions,
		Conversions:  w.Performance.Conversions,
	}
	if w.Performance.Impressions > 0 {
		res.InteractionRate = float64(w.Performance.Interactions) / float64(w.Performance.Impressions)
		res.ConversionRate = float64(w.Performance.Conversions) / float64(w.Performance.Impressions)
	}

	return res, nil
}

func (s *widgetService) newReadClient(ctx context.Context) (widgetRepository.Client, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return widgetRepository.Client{}, err
	}

	return repo, nil
}

func (s *widgetService) validateWidget(w *entity.Widget) error {
	if err := w.Validate(); err != nil {
		return err
	}

	for _, color := range []string{
		w.Styling.Colors.Background,
		w.Styling.Colors.Text,
		w.Styling.Colors.Accent,
	} {
		if color != "" && !s.utils.IsValidHexColor(color) {
			return widget.ErrInvalidColor
		}
	}

	return nil
}

func (s *widgetService) invalidateWidgetCache(ctx context.Context, merchantID string, intentType string) {
	if err := s.cache.Delete(ctx, redis.WidgetKey(merchantID, intentType)); err != nil {
		s.log.WithFields(logrus.Fields{
			"merchant_id": merchantID,
			"error":       err.Error(),
		}).Warn("Failed to invalidate widget cache")
	}
}

func makeTestResponse(w entity.Widget, req widget.TestWidgetRequest) widget.TestWidgetResponse {
	product := intent.Product{
		ID:       "sample-product",
		Name:     "Sample Product",
		Price:    49.99,
		Currency: "USD",
		Category: "sample",
		Stock:    12,
	}
	if req.Product != nil {
		product = *req.Product
	}

	deviceType := req.DeviceType
	if deviceType == "" {
		deviceType = "desktop"
	}

	res := widget.TestWidgetResponse{
		Widget:        w,
		Product:       product,
		DeviceType:    deviceType,
		ShouldDisplay: intent.EvaluateDisplayRules(w.DisplayRules, product, deviceType),
	}

	if res.ShouldDisplay {
		rendered := w.RenderContent(product)
		res.RenderedContent = &rendered
	}

	return res
}
