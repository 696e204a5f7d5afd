package configurationService

import (
	"ProjectKwik/internal/api/configuration"
	configurationRepository "ProjectKwik/internal/api/configuration/repository"
	"ProjectKwik/internal/entity"
	"ProjectKwik/pkg/s3"
	"ProjectKwik/pkg/utils"
	"context"

	"github.com/sirupsen/logrus"
)

type IConfigurationService interface {
	CreateConfig(ctx context.Context, merchantID string, req configuration.CreateConfigRequest) (entity.Configuration, error)
	GetActiveConfig(ctx context.Context, merchantID string) (entity.Configuration, error)
	GetHistory(ctx context.Context, merchantID string, limit int) ([]entity.Configuration, error)
	UpdateConfig(ctx context.Context, id string, merchantID string, req configuration.UpdateConfigRequest) (entity.Configuration, error)
	DeleteConfig(ctx context.Context, id string, merchantID string) error
	ActivateVersion(ctx context.Context, id string, merchantID string) (entity.Configuration, error)
	ValidateConfig(ctx context.Context, req configuration.ValidateConfigRequest) configuration.ValidateConfigResponse
	ExportConfig(ctx context.Context, merchantID string) (configuration.ExportConfigResponse, error)
	ImportConfig(ctx context.Context, merchantID string, req configuration.ImportConfigRequest) (entity.Configuration, error)
}

type configurationService struct {
	log      *logrus.Logger
	repo     configurationRepository.Repository
	s3Client s3.ItfS3
	utils    utils.IUtils
}

func New(
	log *logrus.Logger,
	repo configurationRepository.Repository,
	s3Client s3.ItfS3,
	utils utils.IUtils,
) IConfigurationService {
	return &configurationService{
		log:      log,
		repo:     repo,
		s3Client: s3Client,
		utils:    utils,
	}
}
