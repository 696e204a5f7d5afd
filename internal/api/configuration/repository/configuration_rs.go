package configurationRepository

import (
	"ProjectKwik/internal/api/configuration"
	"ProjectKwik/internal/entity"
	contextPkg "ProjectKwik/pkg/context"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type ConfigurationDB struct {
	ID         sql.NullString `db:"id"`
	MerchantID sql.NullString `db:"merchant_id"`
	IsActive   sql.NullBool   `db:"is_active"`
	Version    sql.NullInt64  `db:"version"`
	Settings   []byte         `db:"settings"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

func (r *configurationRepository) Create(ctx context.Context, config entity.Configuration) error {
	requestID := contextPkg.GetRequestID(ctx)

	settings, err := json.Marshal(config.Settings)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Create configuration settings marshal err")
		return err
	}

	argsKV := map[string]interface{}{
		"id":          config.ID,
		"merchant_id": config.MerchantID,
		"is_active":   config.IsActive,
		"version":     config.Version,
		"settings":    settings,
		"created_at":  config.CreatedAt,
		"updated_at":  config.UpdatedAt,
	}

	query, args, err := sqlx.Named(queryCreateConfiguration, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Create configuration named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	_, err = r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating configuration")
		return err
	}

	return nil
}

func (r *configurationRepository) GetByID(ctx context.Context, id string, merchantID string) (entity.Configuration, error) {
	return r.getOne(ctx, queryGetConfigurationByID, map[string]interface{}{
		"id":          id,
		"merchant_id": merchantID,
	}, "GetByID", configuration.ErrConfigNotFound)
}

func (r *configurationRepository) GetActive(ctx context.Context, merchantID string) (entity.Configuration, error) {
	return r.getOne(ctx, queryGetActiveConfiguration, map[string]interface{}{
		"merchant_id": merchantID,
	}, "GetActive", configuration.ErrNoActiveConfig)
}

func (r *configurationRepository) GetHistory(ctx context.Context, merchantID string, limit int) ([]entity.Configuration, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var configsList []ConfigurationDB

	argsKV := map[string]interface{}{
		"merchant_id": merchantID,
		"limit":       limit,
	}

	query, args, err := sqlx.Named(queryGetConfigurationHistory, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetHistory named query preparation err")
		return nil, err
	}

	query = r.q.Rebind(query)

	if err := r.q.SelectContext(ctx, &configsList, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetHistory execution err")
		return nil, err
	}

	var configs []entity.Configuration
	for _, configDB := range configsList {
		config, err := r.makeConfiguration(configDB)
		if err != nil {
			return nil, err
		}
		configs = append(configs, config)
	}

	return configs, nil
}

func (r *configurationRepository) NextVersion(ctx context.Context, merchantID string) (int, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var version int

	argsKV := map[string]interface{}{
		"merchant_id": merchantID,
	}

	query, args, err := sqlx.Named(queryNextConfigurationVersion, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("NextVersion named query preparation err")
		return 0, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).Scan(&version); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("NextVersion execution err")
		return 0, err
	}

	return version, nil
}

// DeactivateAll clears the active flag for a merchant. Activation runs
// DeactivateAll then Activate inside one transaction so exactly one
// version stays active.
func (r *configurationRepository) DeactivateAll(ctx context.Context, merchantID string) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"merchant_id": merchantID,
		"updated_at":  time.Now(),
	}

	query, args, err := sqlx.Named(queryDeactivateAllConfigurations, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeactivateAll named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	_, err = r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeactivateAll execution err")
		return err
	}

	return nil
}

func (r *configurationRepository) Activate(ctx context.Context, id string, merchantID string) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"id":          id,
		"merchant_id": merchantID,
		"updated_at":  time.Now(),
	}

	query, args, err := sqlx.Named(queryActivateConfiguration, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Activate named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Activate execution err")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Activate rows affected err")
		return err
	}

	if rowsAffected == 0 {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"id":         id,
		}).Warn("Activate no rows affected")
		return configuration.ErrConfigNotFound
	}

	return nil
}

func (r *configurationRepository) UpdateSettings(ctx context.Context, config entity.Configuration) error {
	requestID := contextPkg.GetRequestID(ctx)

	settings, err := json.Marshal(config.Settings)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateSettings configuration settings marshal err")
		return err
	}

	argsKV := map[string]interface{}{
		"id":          config.ID,
		"merchant_id": config.MerchantID,
		"settings":    settings,
		"updated_at":  time.Now(),
	}

	query, args, err := sqlx.Named(queryUpdateConfigurationSettings, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateSettings named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateSettings execution err")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return configuration.ErrConfigNotFound
	}

	return nil
}

func (r *configurationRepository) Delete(ctx context.Context, id string, merchantID string) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"id":          id,
		"merchant_id": merchantID,
	}

	query, args, err := sqlx.Named(queryDeleteConfiguration, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Delete named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Delete execution err")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return configuration.ErrConfigNotFound
	}

	return nil
}

func (r *configurationRepository) getOne(ctx context.Context, namedQuery string, argsKV map[string]interface{}, op string, notFound error) (entity.Configuration, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var config ConfigurationDB

	query, args, err := sqlx.Named(namedQuery, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(op + " named query preparation err")
		return entity.Configuration{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&config); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
			}).Warn(op + " no configuration found")
			return entity.Configuration{}, notFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(op + " execution err")
		return entity.Configuration{}, err
	}

	return r.makeConfiguration(config)
}

func (r *configurationRepository) makeConfiguration(row ConfigurationDB) (entity.Configuration, error) {
	config := entity.Configuration{
		ID:         row.ID.String,
		MerchantID: row.MerchantID.String,
		IsActive:   row.IsActive.Bool,
		Version:    int(row.Version.Int64),
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}

	if len(row.Settings) > 0 {
		if err := json.Unmarshal(row.Settings, &config.Settings); err != nil {
			return entity.Configuration{}, err
		}
	}

	return config, nil
}
