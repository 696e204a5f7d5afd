package pdpService

import (
	intentRuleRepository "ProjectKwik/internal/api/intentrule/repository"
	"ProjectKwik/internal/api/pdp"
	pdpRepository "ProjectKwik/internal/api/pdp/repository"
	widgetRepository "ProjectKwik/internal/api/widget/repository"
	"ProjectKwik/internal/entity"
	"ProjectKwik/pkg/redis"
	"ProjectKwik/pkg/utils"
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type IPdpService interface {
	Poll(ctx context.Context, merchantID string, req pdp.PollRequest) (pdp.PollResponse, error)
	RecordInteraction(ctx context.Context, merchantID string, req pdp.InteractionRequest) error
	RecordConversion(ctx context.Context, merchantID string, sessionID string, req pdp.ConversionRequest) error
	TrackEvent(ctx context.Context, merchantID string, req pdp.EventRequest) error
	GetSession(ctx context.Context, merchantID string, sessionID string) (entity.Detection, []entity.DetectionEvent, error)
	CleanupExpired(ctx context.Context) (int64, error)
}

type pdpService struct {
	log        *logrus.Logger
	repo       pdpRepository.Repository
	ruleRepo   intentRuleRepository.Repository
	widgetRepo widgetRepository.Repository
	cache      redis.IRedis
	utils      utils.IUtils
}

func New(
	log *logrus.Logger,
	repo pdpRepository.Repository,
	ruleRepo intentRuleRepository.Repository,
	widgetRepo widgetRepository.Repository,
	cache redis.IRedis,
	utils utils.IUtils,
) IPdpService {
	return &pdpService{
		log:        log,
		repo:       repo,
		ruleRepo:   ruleRepo,
		widgetRepo: widgetRepo,
		cache:      cache,
		utils:      utils,
	}
}

// Cache TTL for the poll hot path. Writes invalidate eagerly, the TTL
// only bounds staleness when an invalidation is missed.
const pollCacheTTL = time.Minute
