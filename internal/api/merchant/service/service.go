package merchantService

import (
	"ProjectKwik/internal/api/merchant"
	merchantRepository "ProjectKwik/internal/api/merchant/repository"
	"ProjectKwik/internal/entity"
	"ProjectKwik/pkg/bcrypt"
	"ProjectKwik/pkg/utils"
	"context"

	"github.com/sirupsen/logrus"
)

type IMerchantService interface {
	CreateMerchant(ctx context.Context, req merchant.CreateMerchantRequest) (merchant.CreateMerchantResponse, error)
	GetMerchant(ctx context.Context, id string) (entity.Merchant, error)
	GetMerchantByAPIKey(ctx context.Context, apiKey string) (entity.Merchant, error)
	UpdateSettings(ctx context.Context, id string, settings entity.MerchantSettings) error
	RotateCredentials(ctx context.Context, id string) (merchant.RotateCredentialsResponse, error)
}

type merchantService struct {
	log         *logrus.Logger
	repo        merchantRepository.Repository
	bcryptUtils bcrypt.IBcrypt
	utils       utils.IUtils
}

func New(
	log *logrus.Logger,
	repo merchantRepository.Repository,
	bcryptUtils bcrypt.IBcrypt,
	utils utils.IUtils,
) IMerchantService {
	return &merchantService{
		log:         log,
		repo:        repo,
		bcryptUtils: bcryptUtils,
		utils:       utils,
	}
}
