package configurationService

import (
	"ProjectKwik/internal/api/configuration"
	"ProjectKwik/internal/entity"
	contextPkg "ProjectKwik/pkg/context"
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultHistoryLimit = 20

// CreateConfig stores a new immutable version. New versions start
// inactive; ActivateVersion is the only way to make one live.
func (s *configurationService) CreateConfig(ctx context.Context, merchantID string, req configuration.CreateConfigRequest) (entity.Configuration, error) {
	return s.createVersion(ctx, merchantID, req.Settings)
}

func (s *configurationService) createVersion(ctx context.Context, merchantID string, settings entity.MerchantSettings) (entity.Configuration, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return entity.Configuration{}, err
	}
	defer repo.Rollback()

	configID, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate ULID")
		return entity.Configuration{}, err
	}

	version, err := repo.Configurations.NextVersion(ctx, merchantID)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to compute next configuration version")
		return entity.Configuration{}, err
	}

	now := time.Now()
	config := entity.Configuration{
		ID:         configID,
		MerchantID: merchantID,
		IsActive:   false,
		Version:    version,
		Settings:   settings,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := config.Validate(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Configuration validation failed")
		return entity.Configuration{}, err
	}

	if err := repo.Configurations.Create(ctx, config); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create configuration")
		return entity.Configuration{}, err
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit transaction")
		return entity.Configuration{}, err
	}

	return config, nil
}

func (s *configurationService) GetActiveConfig(ctx context.Context, merchantID string) (entity.Configuration, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return entity.Configuration{}, err
	}

	return repo.Configurations.GetActive(ctx, merchantID)
}

func (s *configurationService) GetHistory(ctx context.Context, merchantID string, limit int) ([]entity.Configuration, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}

	return repo.Configurations.GetHistory(ctx, merchantID, limit)
}

// ActivateVersion deactivates the merchant's current configuration and
// activates the requested one inside a single transaction, so readers
// never observe zero or two active versions.
// UpdateConfig rewrites the settings of an inactive version. The active
// version is immutable; create a new version and activate it instead.
func (s *configurationService) UpdateConfig(ctx context.Context, id string, merchantID string, req configuration.UpdateConfigRequest) (entity.Configuration, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return entity.Configuration{}, err
	}

	config, err := repo.Configurations.GetByID(ctx, id, merchantID)
	if err != nil {
		return entity.Configuration{}, err
	}

	if config.IsActive {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"config_id":  id,
		}).Warn("Attempt to update active configuration")
		return entity.Configuration{}, configuration.ErrConfigActive
	}

	config.Settings = req.Settings
	config.UpdatedAt = time.Now()

	if err := config.Validate(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Configuration validation failed")
		return entity.Configuration{}, err
	}

	if err := repo.Configurations.UpdateSettings(ctx, config); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to update configuration")
		return entity.Configuration{}, err
	}

	return config, nil
}

func (s *configurationService) DeleteConfig(ctx context.Context, id string, merchantID string) error {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return err
	}

	config, err := repo.Configurations.GetByID(ctx, id, merchantID)
	if err != nil {
		return err
	}

	if config.IsActive {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"config_id":  id,
		}).Warn("Attempt to delete active configuration")
		return configuration.ErrConfigActive
	}

	return repo.Configurations.Delete(ctx, id, merchantID)
}

func (s *configurationService) ActivateVersion(ctx context.Context, id string, merchantID string) (entity.Configuration, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return entity.Configuration{}, err
	}
	defer repo.Rollback()

	config, err := repo.Configurations.GetByID(ctx, id, merchantID)
	if err != nil {
		return entity.Configuration{}, err
	}

	if err := repo.Configurations.DeactivateAll(ctx, merchantID); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to deactivate configurations")
		return entity.Configuration{}, err
	}

	if err := repo.Configurations.Activate(ctx, id, merchantID); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to activate configuration")
		return entity.Configuration{}, err
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit transaction")
		return entity.Configuration{}, err
	}

	config.IsActive = true
	return config, nil
}

func (s *configurationService) ValidateConfig(ctx context.Context, req configuration.ValidateConfigRequest) configuration.ValidateConfigResponse {
	config := entity.Configuration{Settings: req.Settings}

	var validationErrors []string
	if err := config.Validate(); err != nil {
		validationErrors = append(validationErrors, err.Error())
	}

	for _, color := range []string{
		req.Settings.WidgetStyles.Colors.Primary,
		req.Settings.WidgetStyles.Colors.Secondary,
		req.Settings.WidgetStyles.Colors.Text,
	} {
		if color != "" && !s.utils.IsValidHexColor(color) {
			validationErrors = append(validationErrors, "invalid hex color: "+color)
		}
	}

	return configuration.ValidateConfigResponse{
		Valid:  len(validationErrors) == 0,
		Errors: validationErrors,
	}
}

func (s *configurationService) ExportConfig(ctx context.Context, merchantID string) (configuration.ExportConfigResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	config, err := s.GetActiveConfig(ctx, merchantID)
	if err != nil {
		return configuration.ExportConfigResponse{}, err
	}

	res := configuration.ExportConfigResponse{
		Config: makeConfigResponse(config),
	}

	payload, err := json.Marshal(res.Config)
	if err != nil {
		return configuration.ExportConfigResponse{}, err
	}

	location, err := s.s3Client.UploadExport("config-"+merchantID, payload)
	if err != nil {
		// The export body is still useful without the archive copy.
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to archive configuration export")
	} else {
		res.ArchiveLocation = location
	}

	return res, nil
}

func (s *configurationService) ImportConfig(ctx context.Context, merchantID string, req configuration.ImportConfigRequest) (entity.Configuration, error) {
	config := entity.Configuration{Settings: req.Settings}
	if err := config.Validate(); err != nil {
		return entity.Configuration{}, configuration.ErrInvalidImport
	}

	return s.createVersion(ctx, merchantID, req.Settings)
}

func makeConfigResponse(config entity.Configuration) configuration.ConfigResponse {
	return configuration.ConfigResponse{
		ID:         config.ID,
		MerchantID: config.MerchantID,
		IsActive:   config.IsActive,
		Version:    config.Version,
		Settings:   config.Settings,
		CreatedAt:  config.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  config.UpdatedAt.Format(time.RFC3339),
	}
}
