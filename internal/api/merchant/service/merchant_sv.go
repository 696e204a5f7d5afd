package merchantService

import (
	"ProjectKwik/internal/api/merchant"
	"ProjectKwik/internal/entity"
	contextPkg "ProjectKwik/pkg/context"
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

func (s *merchantService) CreateMerchant(ctx context.Context, req merchant.CreateMerchantRequest) (merchant.CreateMerchantResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return merchant.CreateMerchantResponse{}, err
	}

	if _, err := repo.Merchants.GetByDomain(ctx, req.Domain); err == nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"domain":     req.Domain,
		}).Warn("Domain already registered")
		return merchant.CreateMerchantResponse{}, merchant.ErrDomainAlreadyExists
	} else if !errors.Is(err, merchant.ErrMerchantNotFound) {
		return merchant.CreateMerchantResponse{}, err
	}

	merchantID, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate ULID")
		return merchant.CreateMerchantResponse{}, err
	}

	apiKey, apiSecret, err := s.utils.NewAPICredential()
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate API credential")
		return merchant.CreateMerchantResponse{}, err
	}

	// Only the hash is stored; the plaintext secret is returned once.
	hashedSecret, err := s.bcryptUtils.HashPassword(apiSecret)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to hash API secret")
		return merchant.CreateMerchantResponse{}, err
	}

	now := time.Now()
	m := entity.Merchant{
		ID:        merchantID,
		Name:      req.Name,
		Domain:    req.Domain,
		Platform:  req.Platform,
		APIKey:    apiKey,
		APISecret: hashedSecret,
		Settings:  entity.DefaultMerchantSettings(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := m.Validate(); err != nil {
		return merchant.CreateMerchantResponse{}, err
	}

	if err := repo.Merchants.Create(ctx, m); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create merchant")
		return merchant.CreateMerchantResponse{}, err
	}

	return merchant.CreateMerchantResponse{
		Merchant:  makeMerchantResponse(m),
		APISecret: apiSecret,
	}, nil
}

func (s *merchantService) GetMerchant(ctx context.Context, id string) (entity.Merchant, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return entity.Merchant{}, err
	}

	return repo.Merchants.GetByID(ctx, id)
}

func (s *merchantService) GetMerchantByAPIKey(ctx context.Context, apiKey string) (entity.Merchant, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return entity.Merchant{}, err
	}

	return repo.Merchants.GetByAPIKey(ctx, apiKey)
}

func (s *merchantService) UpdateSettings(ctx context.Context, id string, settings entity.MerchantSettings) error {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return err
	}

	m, err := repo.Merchants.GetByID(ctx, id)
	if err != nil {
		return err
	}

	m.Settings = settings
	if err := m.Validate(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Settings validation failed")
		return err
	}

	for _, color := range []string{
		settings.WidgetStyles.Colors.Primary,
		settings.WidgetStyles.Colors.Secondary,
		settings.WidgetStyles.Colors.Text,
	} {
		if color != "" && !s.utils.IsValidHexColor(color) {
			return merchant.ErrInvalidColor
		}
	}

	if err := repo.Merchants.UpdateSettings(ctx, id, settings); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to update merchant settings")
		return err
	}

	return nil
}

func (s *merchantService) RotateCredentials(ctx context.Context, id string) (merchant.RotateCredentialsResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return merchant.RotateCredentialsResponse{}, err
	}

	apiKey, apiSecret, err := s.utils.NewAPICredential()
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate API credential")
		return merchant.RotateCredentialsResponse{}, err
	}

	hashedSecret, err := s.bcryptUtils.HashPassword(apiSecret)
	if err != nil {
		return merchant.RotateCredentialsResponse{}, err
	}

	if err := repo.Merchants.RotateCredentials(ctx, id, apiKey, hashedSecret); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to rotate merchant credentials")
		return merchant.RotateCredentialsResponse{}, err
	}

	return merchant.RotateCredentialsResponse{
		APIKey:    apiKey,
		APISecret: apiSecret,
	}, nil
}

func makeMerchantResponse(m entity.Merchant) merchant.MerchantResponse {
	return merchant.MerchantResponse{
		ID:        m.ID,
		Name:      m.Name,
		Domain:    m.Domain,
		Platform:  m.Platform,
		APIKey:    m.APIKey,
		Settings:  m.Settings,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
		UpdatedAt: m.UpdatedAt.Format(time.RFC3339),
	}
}
