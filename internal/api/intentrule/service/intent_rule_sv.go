package intentRuleService

import (
	"ProjectKwik/internal/api/intentrule"
	"ProjectKwik/internal/entity"
	contextPkg "ProjectKwik/pkg/context"
	"ProjectKwik/pkg/intent"
	"ProjectKwik/pkg/redis"
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

func (s *intentRuleService) CreateRule(ctx context.Context, merchantID string, req intentrule.CreateRuleRequest) (entity.IntentRule, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return entity.IntentRule{}, err
	}

	// One rule per intent type per merchant.
	if _, err := repo.Rules.GetByIntentType(ctx, merchantID, req.IntentType); err == nil {
		s.log.WithFields(logrus.Fields{
			"request_id":  requestID,
			"intent_type": req.IntentType,
		}).Warn("Rule for intent type already exists")
		return entity.IntentRule{}, intentrule.ErrRuleAlreadyExists
	} else if !errors.Is(err, intentrule.ErrRuleNotFound) {
		return entity.IntentRule{}, err
	}

	ruleID, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate ULID")
		return entity.IntentRule{}, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	now := time.Now()
	rule := entity.IntentRule{
		ID:         ruleID,
		MerchantID: merchantID,
		Rule: intent.Rule{
			IntentType:        intent.Type(req.IntentType),
			Threshold:         req.Threshold,
			BehavioralSignals: req.BehavioralSignals,
			HistoricalFactors: req.HistoricalFactors,
			DeviceContext:     req.DeviceContext,
			IsActive:          isActive,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := rule.Validate(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Rule validation failed")
		return entity.IntentRule{}, err
	}

	if err := repo.Rules.Create(ctx, rule); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create intent rule")
		return entity.IntentRule{}, err
	}

	s.invalidateRuleCache(ctx, merchantID)

	return rule, nil
}

func (s *intentRuleService) GetRule(ctx context.Context, id string, merchantID string) (entity.IntentRule, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return entity.IntentRule{}, err
	}

	return repo.Rules.GetByID(ctx, id, merchantID)
}

func (s *intentRuleService) GetRules(ctx context.Context, merchantID string) ([]entity.IntentRule, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}

	return repo.Rules.GetByMerchant(ctx, merchantID)
}

func (s *intentRuleService) UpdateRule(ctx context.Context, id string, merchantID string, req intentrule.UpdateRuleRequest) (entity.IntentRule, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return entity.IntentRule{}, err
	}

	rule, err := repo.Rules.GetByID(ctx, id, merchantID)
	if err != nil {
		return entity.IntentRule{}, err
	}

	if req.Threshold != nil {
		rule.Threshold = *req.Threshold
	}
	if req.BehavioralSignals != nil {
		rule.BehavioralSignals = req.BehavioralSignals
	}
	if req.HistoricalFactors != nil {
		rule.HistoricalFactors = req.HistoricalFactors
	}
	if req.DeviceContext != nil {
		rule.DeviceContext = req.DeviceContext
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}
	rule.UpdatedAt = time.Now()

	if err := rule.Validate(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Rule validation failed")
		return entity.IntentRule{}, err
	}

	if err := repo.Rules.Update(ctx, rule); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to update intent rule")
		return entity.IntentRule{}, err
	}

	s.invalidateRuleCache(ctx, merchantID)

	return rule, nil
}

func (s *intentRuleService) DeleteRule(ctx context.Context, id string, merchantID string) error {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return err
	}

	if err := repo.Rules.Delete(ctx, id, merchantID); err != nil {
		return err
	}

	s.invalidateRuleCache(ctx, merchantID)

	return nil
}

func (s *intentRuleService) SetRuleActive(ctx context.Context, id string, merchantID string, active bool) error {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return err
	}

	if err := repo.Rules.SetActive(ctx, id, merchantID, active); err != nil {
		return err
	}

	s.invalidateRuleCache(ctx, merchantID)

	return nil
}

func (s *intentRuleService) GetRulePerformance(ctx context.Context, id string, merchantID string) (intentrule.RulePerformanceResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return intentrule.RulePerformanceResponse{}, err
	}

	rule, err := repo.Rules.GetByID(ctx, id, merchantID)
	if err != nil {
		return intentrule.RulePerformanceResponse{}, err
	}

	return makePerformanceResponse(rule.Performance), nil
}

func (s *intentRuleService) RecordFeedback(ctx context.Context, id string, merchantID string, accurate bool) error {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return err
	}

	if _, err := repo.Rules.GetByID(ctx, id, merchantID); err != nil {
		return err
	}

	return repo.Rules.IncrementPerformance(ctx, id, accurate)
}

func (s *intentRuleService) invalidateRuleCache(ctx context.Context, merchantID string) {
	if err := s.cache.Delete(ctx, redis.RuleSetKey(merchantID)); err != nil {
		s.log.WithFields(logrus.Fields{
			"merchant_id": merchantID,
			"error":       err.Error(),
		}).Warn("Failed to invalidate rule cache")
	}
}

func makePerformanceResponse(p entity.RulePerformance) intentrule.RulePerformanceResponse {
	res := intentrule.RulePerformanceResponse{
		TotalDetections:    p.TotalDetections,
		AccurateDetections: p.AccurateDetections,
		FalsePositives:     p.FalsePositives,
		FalseNegatives:     p.FalseNegatives,
	}

	if p.TotalDetections > 0 {
		res.Accuracy = float64(p.AccurateDetections) / float64(p.TotalDetections)
	}
	if predicted := p.AccurateDetections + p.FalsePositives; predicted > 0 {
		res.Precision = float64(p.AccurateDetections) / float64(predicted)
	}
	if actual := p.AccurateDetections + p.FalseNegatives; actual > 0 {
		res.Recall = float64(p.AccurateDetections) / float64(actual)
	}

	return res
}
