package merchantRepository

import (
	"ProjectKwik/internal/api/merchant"
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

type MerchantDB struct {
	ID        sql.NullString `db:"id"`
	Name      sql.NullString `db:"name"`
	Domain    sql.NullString `db:"domain"`
	Platform  sql.NullString `db:"platform"`
	APIKey    sql.NullString `db:"api_key"`
	APISecret sql.NullString `db:"api_secret"`
	Settings  []byte         `db:"settings"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (r *merchantRepository) Create(ctx context.Context, m entity.Merchant) error {
	requestID := contextPkg.GetRequestID(ctx)

	settings, err := json.Marshal(m.Settings)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Create merchant settings marshal err")
		return err
	}

	argsKV := map[string]interface{}{
		"id":         m.ID,
		"name":       m.Name,
		"domain":     m.Domain,
		"platform":   m.Platform,
		"api_key":    m.APIKey,
		"api_secret": m.APISecret,
		"settings":   settings,
		"created_at": m.CreatedAt,
		"updated_at": m.UpdatedAt,
	}

	query, args, err := sqlx.Named(queryCreateMerchant, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Create merchant named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	_, err = r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating merchant")
		return err
	}

	return nil
}

func (r *merchantRepository) GetByID(ctx context.Context, id string) (entity.Merchant, error) {
	return r.getOne(ctx, queryGetMerchantByID, map[string]interface{}{"id": id}, "GetByID")
}

func (r *merchantRepository) GetByDomain(ctx context.Context, domain string) (entity.Merchant, error) {
	return r.getOne(ctx, queryGetMerchantByDomain, map[string]interface{}{"domain": domain}, "GetByDomain")
}

func (r *merchantRepository) GetByAPIKey(ctx context.Context, apiKey string) (entity.Merchant, error) {
	return r.getOne(ctx, queryGetMerchantByAPIKey, map[string]interface{}{"api_key": apiKey}, "GetByAPIKey")
}

func (r *merchantRepository) getOne(ctx context.Context, namedQuery string, argsKV map[string]interface{}, op string) (entity.Merchant, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var m MerchantDB

	query, args, err := sqlx.Named(namedQuery, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(op + " named query preparation err")
		return entity.Merchant{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
			}).Warn(op + " no merchant found")
			return entity.Merchant{}, merchant.ErrMerchantNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(op + " execution err")
		return entity.Merchant{}, err
	}

	return r.makeMerchant(m)
}

func (r *merchantRepository) UpdateSettings(ctx context.Context, id string, settings entity.MerchantSettings) error {
	requestID := contextPkg.GetRequestID(ctx)

	payload, err := json.Marshal(settings)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateSettings marshal err")
		return err
	}

	argsKV := map[string]interface{}{
		"id":         id,
		"settings":   payload,
		"updated_at": time.Now(),
	}

	return r.execAffectingOne(ctx, queryUpdateMerchantSettings, argsKV, "UpdateSettings")
}

func (r *merchantRepository) RotateCredentials(ctx context.Context, id string, apiKey string, apiSecret string) error {
	argsKV := map[string]interface{}{
		"id":         id,
		"api_key":    apiKey,
		"api_secret": apiSecret,
		"updated_at": time.Now(),
	}

	return r.execAffectingOne(ctx, queryRotateMerchantCredentials, argsKV, "RotateCredentials")
}

func (r *merchantRepository) execAffectingOne(ctx context.Context, namedQuery string, argsKV map[string]interface{}, op string) error {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(namedQuery, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(op + " named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(op + " execution err")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(op + " rows affected err")
		return err
	}

	if rowsAffected == 0 {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"id":         argsKV["id"],
		}).Warn(op + " no rows affected")
		return merchant.ErrMerchantNotFound
	}

	return nil
}

func (r *merchantRepository) makeMerchant(row MerchantDB) (entity.Merchant, error) {
	m := entity.Merchant{
		ID:        row.ID.String,
		Name:      row.Name.String,
		Domain:    row.Domain.String,
		Platform:  row.Platform.String,
		APIKey:    row.APIKey.String,
		APISecret: row.APISecret.String,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}

	if len(row.Settings) > 0 {
		if err := json.Unmarshal(row.Settings, &m.Settings); err != nil {
			return entity.Merchant{}, err
		}
	}

	return m, nil
}
