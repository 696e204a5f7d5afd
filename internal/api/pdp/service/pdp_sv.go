package pdpService

import (
	"ProjectKwik/internal/api/intentrule"
	"ProjectKwik/internal/api/pdp"
	"ProjectKwik/internal/api/widget"
	"ProjectKwik/internal/entity"
	contextPkg "ProjectKwik/pkg/context"
	"ProjectKwik/pkg/intent"
	"ProjectKwik/pkg/redis"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

// Poll is the hot path behind the on-page script: score the signal
// snapshot against the merchant's active rules, pick the widget for the
// resolved intent and record the detection keyed by session.
func (s *pdpService) Poll(ctx context.Context, merchantID string, req pdp.PollRequest) (pdp.PollResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if req.DeviceInfo.Type != "" && !entity.IsValidDeviceType(req.DeviceInfo.Type) {
		return pdp.PollResponse{}, pdp.ErrInvalidDeviceType
	}

	rules, err := s.loadActiveRules(ctx, merchantID)
	if err != nil {
		return pdp.PollResponse{}, err
	}
	if len(rules) == 0 {
		return pdp.PollResponse{}, intentrule.ErrNoActiveRules
	}

	scoringRules := make([]intent.Rule, 0, len(rules))
	for _, rule := range rules {
		scoringRules = append(scoringRules, rule.Rule)
	}

	// Device type rides along in the signal bag so device-context
	// criteria can match it.
	signals := make(intent.SignalSet, len(req.BehavioralSignals)+1)
	for key, value := range req.BehavioralSignals {
		signals[key] = value
	}
	if req.DeviceInfo.Type != "" {
		signals["deviceType"] = req.DeviceInfo.Type
	}

	resolution := intent.Resolve(scoringRules, signals)

	now := time.Now()
	detection := entity.Detection{
		SessionID:  req.SessionID,
		MerchantID: merchantID,
		VisitorID:  req.VisitorID,
		Product:    req.Product,
		Signals:    req.BehavioralSignals,
		DeviceInfo: req.DeviceInfo,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	res := pdp.PollResponse{}

	var servedWidget *entity.Widget
	if resolution != nil {
		detection.IntentType = string(resolution.IntentType)
		detection.IntentScore = resolution.Score
		res.Intent = string(resolution.IntentType)
		res.Score = resolution.Score

		servedWidget, err = s.loadActiveWidget(ctx, merchantID, string(resolution.IntentType))
		if err != nil {
			return pdp.PollResponse{}, err
		}
	}

	if servedWidget != nil {
		detection.WidgetShown = servedWidget.ID
		res.Widget = &pdp.WidgetPayload{
			ID:       servedWidget.ID,
			Type:     servedWidget.WidgetType,
			Content:  servedWidget.RenderContent(req.Product),
			Styling:  servedWidget.Styling,
			Settings: servedWidget.Settings,
		}
	}

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return pdp.PollResponse{}, err
	}

	if err := repo.Detections.UpsertBySessionID(ctx, detection); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to record detection")
		return pdp.PollResponse{}, err
	}

	if servedWidget != nil {
		widgetRepo, err := s.widgetRepo.NewClient(false)
		if err != nil {
			return pdp.PollResponse{}, err
		}
		if err := widgetRepo.Widgets.IncrementImpressions(ctx, servedWidget.ID); err != nil {
			// Impression counters are best effort; the visitor already
			// has the widget.
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"widget_id":  servedWidget.ID,
				"error":      err.Error(),
			}).Warn("Failed to increment widget impressions")
		}
	}

	return res, nil
}

func (s *pdpService) RecordInteraction(ctx context.Context, merchantID string, req pdp.InteractionRequest) error {
	requestID := contextPkg.GetRequestID(ctx)

	if !entity.IsValidInteractionType(req.InteractionType) {
		return pdp.ErrInvalidInteractionType
	}

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return err
	}

	detection, err := repo.Detections.GetBySessionID(ctx, req.SessionID, merchantID)
	if err != nil {
		return err
	}

	if err := repo.Detections.UpdateInteraction(ctx, req.SessionID, merchantID, req.InteractionType, time.Now()); err != nil {
		return err
	}

	if detection.WidgetShown != "" {
		widgetRepo, err := s.widgetRepo.NewClient(false)
		if err != nil {
			return err
		}
		if err := widgetRepo.Widgets.IncrementInteractions(ctx, detection.WidgetShown); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"widget_id":  detection.WidgetShown,
				"error":      err.Error(),
			}).Warn("Failed to increment widget interactions")
		}
	}

	return nil
}

// RecordConversion overwrites any previous conversion for the session;
// the latest conversion wins.
func (s *pdpService) RecordConversion(ctx context.Context, merchantID string, sessionID string, req pdp.ConversionRequest) error {
	requestID := contextPkg.GetRequestID(ctx)

	if !entity.IsValidConversionType(req.ConversionType) {
		return pdp.ErrInvalidConversionType
	}

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return err
	}

	detection, err := repo.Detections.GetBySessionID(ctx, sessionID, merchantID)
	if err != nil {
		return err
	}

	if err := repo.Detections.UpdateConversion(ctx, sessionID, merchantID, req.ConversionType, req.ConversionValue, time.Now()); err != nil {
		return err
	}

	// Count the conversion against the widget only once per session.
	if detection.WidgetShown != "" && !detection.Converted {
		widgetRepo, err := s.widgetRepo.NewClient(false)
		if err != nil {
			return err
		}
		if err := widgetRepo.Widgets.IncrementConversions(ctx, detection.WidgetShown); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"widget_id":  detection.WidgetShown,
				"error":      err.Error(),
			}).Warn("Failed to increment widget conversions")
		}
	}

	return nil
}

func (s *pdpService) TrackEvent(ctx context.Context, merchantID string, req pdp.EventRequest) error {
	requestID := contextPkg.GetRequestID(ctx)

	if req.EventType == "" {
		return pdp.ErrInvalidEventType
	}

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return err
	}

	if _, err := repo.Detections.GetBySessionID(ctx, req.SessionID, merchantID); err != nil {
		return err
	}

	eventID, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate ULID")
		return err
	}

	event := entity.DetectionEvent{
		ID:         eventID,
		SessionID:  req.SessionID,
		MerchantID: merchantID,
		EventType:  req.EventType,
		EventData:  req.EventData,
		CreatedAt:  time.Now(),
	}

	if err := repo.Events.Insert(ctx, event); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to insert detection event")
		return err
	}

	if err := repo.Events.TrimToCap(ctx, req.SessionID, entity.MaxSessionEvents); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": req.SessionID,
			"error":      err.Error(),
		}).Warn("Failed to trim session event log")
	}

	return nil
}

func (s *pdpService) GetSession(ctx context.Context, merchantID string, sessionID string) (entity.Detection, []entity.DetectionEvent, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return entity.Detection{}, nil, err
	}

	detection, err := repo.Detections.GetBySessionID(ctx, sessionID, merchantID)
	if err != nil {
		return entity.Detection{}, nil, err
	}

	events, err := repo.Events.GetBySessionID(ctx, sessionID)
	if err != nil {
		return entity.Detection{}, nil, err
	}

	return detection, events, nil
}

func (s *pdpService) CleanupExpired(ctx context.Context) (int64, error) {
	repo, err := s.repo.NewClient(false)
	if err != nil {
		return 0, err
	}

	deleted, err := repo.Detections.DeleteExpired(ctx, time.Now().Add(-entity.DetectionRetention))
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		s.log.WithFields(logrus.Fields{
			"deleted": deleted,
		}).Info("Expired detections removed")
	}

	return deleted, nil
}

func (s *pdpService) loadActiveRules(ctx context.Context, merchantID string) ([]entity.IntentRule, error) {
	requestID := contextPkg.GetRequestID(ctx)
	cacheKey := redis.RuleSetKey(merchantID)

	if cached, err := s.cache.GetJSON(ctx, cacheKey); err == nil {
		var rules []entity.IntentRule
		if err := json.Unmarshal(cached, &rules); err == nil {
			return rules, nil
		}
	} else if !errors.Is(err, redis.ErrCacheMiss) {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Rule cache read failed")
	}

	ruleRepo, err := s.ruleRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}

	rules, err := ruleRepo.Rules.GetActiveRules(ctx, merchantID)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to load active rules")
		return nil, err
	}

	if payload, err := json.Marshal(rules); err == nil {
		if err := s.cache.SetJSON(ctx, cacheKey, payload, pollCacheTTL); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("Rule cache write failed")
		}
	}

	return rules, nil
}

// loadActiveWidget returns nil without error when the merchant has no
// active widget for the intent; the visitor simply gets no widget.
func (s *pdpService) loadActiveWidget(ctx context.Context, merchantID string, intentType string) (*entity.Widget, error) {
	requestID := contextPkg.GetRequestID(ctx)
	cacheKey := redis.WidgetKey(merchantID, intentType)

	if cached, err := s.cache.GetJSON(ctx, cacheKey); err == nil {
		var w entity.Widget
		if err := json.Unmarshal(cached, &w); err == nil {
			return &w, nil
		}
	} else if !errors.Is(err, redis.ErrCacheMiss) {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Widget cache read failed")
	}

	widgetRepo, err := s.widgetRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}

	w, err := widgetRepo.Widgets.GetActiveWidget(ctx, merchantID, intentType)
	if err != nil {
		if errors.Is(err, widget.ErrNoActiveWidget) {
			return nil, nil
		}
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to load active widget")
		return nil, err
	}

	if payload, err := json.Marshal(w); err == nil {
		if err := s.cache.SetJSON(ctx, cacheKey, payload, pollCacheTTL); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("Widget cache write failed")
		}
	}

	return &w, nil
}
