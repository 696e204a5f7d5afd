package intentRuleService

import (
	"ProjectKwik/internal/api/intentrule"
	intentRuleRepository "ProjectKwik/internal/api/intentrule/repository"
	"ProjectKwik/internal/entity"
	"ProjectKwik/pkg/redis"
	"ProjectKwik/pkg/utils"
	"context"

	"github.com/sirupsen/logrus"
)

type IIntentRuleService interface {
	CreateRule(ctx context.Context, merchantID string, req intentrule.CreateRuleRequest) (entity.IntentRule, error)
	GetRule(ctx context.Context, id string, merchantID string) (entity.IntentRule, error)
	GetRules(ctx context.Context, merchantID string) ([]entity.IntentRule, error)
	UpdateRule(ctx context.Context, id string, merchantID string, req intentrule.UpdateRuleRequest) (entity.IntentRule, error)
	DeleteRule(ctx context.Context, id string, merchantID string) error
	SetRuleActive(ctx context.Context, id string, merchantID string, active bool) error
	GetRulePerformance(ctx context.Context, id string, merchantID string) (intentrule.RulePerformanceResponse, error)
	RecordFeedback(ctx context.Context, id string, merchantID string, accurate bool) error
}

type intentRuleService struct {
	log   *logrus.Logger
	repo  intentRuleRepository.Repository
	cache redis.IRedis
	utils utils.IUtils
}

func New(
	log *logrus.Logger,
	repo intentRuleRepository.Repository,
	cache redis.IRedis,
	utils utils.IUtils,
) IIntentRuleService {
	return &intentRuleService{
		log:   log,
		repo:  repo,
		cache: cache,
		utils: utils,
	}
}
