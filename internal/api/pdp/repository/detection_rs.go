package pdpRepository

import (
	"ProjectKwik/internal/api/pdp"
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

type DetectionDB struct {
	SessionID   sql.NullString  `db:"session_id"`
	MerchantID  sql.NullString  `db:"merchant_id"`
	VisitorID   sql.NullString  `db:"visitor_id"`
	Product     []byte          `db:"product"`
	Signals     []byte          `db:"signals"`
	DeviceInfo  []byte          `db:"device_info"`
	IntentType  sql.NullString  `db:"intent_type"`
	IntentScore sql.NullFloat64 `db:"intent_score"`
	WidgetShown sql.NullString  `db:"widget_shown"`

	WidgetInteracted      sql.NullBool   `db:"widget_interacted"`
	WidgetInteractionType sql.NullString `db:"widget_interaction_type"`
	WidgetInteractionTime sql.NullTime   `db:"widget_interaction_time"`

	Converted       sql.NullBool    `db:"converted"`
	ConversionType  sql.NullString  `db:"conversion_type"`
	ConversionValue sql.NullFloat64 `db:"conversion_value"`
	ConversionTime  sql.NullTime    `db:"conversion_time"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r *detectionRepository) UpsertBySessionID(ctx context.Context, detection entity.Detection) error {
	requestID := contextPkg.GetRequestID(ctx)

	product, err := json.Marshal(detection.Product)
	if err != nil {
		return err
	}
	signals, err := json.Marshal(detection.Signals)
	if err != nil {
		return err
	}
	deviceInfo, err := json.Marshal(detection.DeviceInfo)
	if err != nil {
		return err
	}

	argsKV := map[string]interface{}{
		"session_id":   detection.SessionID,
		"merchant_id":  detection.MerchantID,
		"visitor_id":   detection.VisitorID,
		"product":      product,
		"signals":      signals,
		"device_info":  deviceInfo,
		"intent_type":  detection.IntentType,
		"intent_score": detection.IntentScore,
		"widget_shown": detection.WidgetShown,
		"created_at":   detection.CreatedAt,
		"updated_at":   detection.UpdatedAt,
	}

	query, args, err := sqlx.Named(queryUpsertDetection, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpsertBySessionID named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	_, err = r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when upserting detection")
		return err
	}

	return nil
}

func (r *detectionRepository) GetBySessionID(ctx context.Context, sessionID string, merchantID string) (entity.Detection, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var detection DetectionDB

	argsKV := map[string]interface{}{
		"session_id":  sessionID,
		"merchant_id": merchantID,
	}

	query, args, err := sqlx.Named(queryGetDetectionBySessionID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetBySessionID named query preparation err")
		return entity.Detection{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&detection); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"session_id": sessionID,
			}).Warn("GetBySessionID no detection found")
			return entity.Detection{}, pdp.ErrSessionNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetBySessionID execution err")
		return entity.Detection{}, err
	}

	return r.makeDetection(detection)
}

func (r *detectionRepository) UpdateInteraction(ctx context.Context, sessionID string, merchantID string, interactionType string, at time.Time) error {
	argsKV := map[string]interface{}{
		"session_id":              sessionID,
		"merchant_id":             merchantID,
		"widget_interaction_type": interactionType,
		"widget_interaction_time": at,
		"updated_at":              at,
	}

	return r.execAffectingOne(ctx, queryUpdateDetectionInteraction, argsKV, "UpdateInteraction")
}

func (r *detectionRepository) UpdateConversion(ctx context.Context, sessionID string, merchantID string, conversionType string, value float64, at time.Time) error {
	argsKV := map[string]interface{}{
		"session_id":       sessionID,
		"merchant_id":      merchantID,
		"conversion_type":  conversionType,
		"conversion_value": value,
		"conversion_time":  at,
		"updated_at":       at,
	}

	return r.execAffectingOne(ctx, queryUpdateDetectionConversion, argsKV, "UpdateConversion")
}

func (r *detectionRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"before": before,
	}

	query, args, err := sqlx.Named(queryDeleteExpiredDetections, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteExpired named query preparation err")
		return 0, err
	}

	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteExpired execution err")
		return 0, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	return rowsAffected, nil
}

func (r *detectionRepository) execAffectingOne(ctx context.Context, namedQuery string, argsKV map[string]interface{}, op string) error {
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
			"session_id": argsKV["session_id"],
		}).Warn(op + " no rows affected")
		return pdp.ErrSessionNotFound
	}

	return nil
}

func (r *detectionRepository) makeDetection(row DetectionDB) (entity.Detection, error) {
	detection := entity.Detection{
		SessionID:        row.SessionID.String,
		MerchantID:       row.MerchantID.String,
		VisitorID:        row.VisitorID.String,
		IntentType:       row.IntentType.String,
		IntentScore:      row.IntentScore.Float64,
		WidgetShown:      row.WidgetShown.String,
		WidgetInteracted: row.WidgetInteracted.Bool,
		Converted:        row.Converted.Bool,
		ConversionValue:  row.ConversionValue.Float64,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}

	detection.WidgetInteractionType = row.WidgetInteractionType.String
	if row.WidgetInteractionTime.Valid {
		t := row.WidgetInteractionTime.Time
		detection.WidgetInteractionTime = &t
	}

	detection.ConversionType = row.ConversionType.String
	if row.ConversionTime.Valid {
		t := row.ConversionTime.Time
		detection.ConversionTime = &t
	}

	if len(row.Product) > 0 {
		if err := json.Unmarshal(row.Product, &detection.Product); err != nil {
			return entity.Detection{}, err
		}
	}
	if len(row.Signals) > 0 {
		if err := json.Unmarshal(row.Signals, &detection.Signals); err != nil {
			return entity.Detection{}, err
		}
	}
	if len(row.DeviceInfo) > 0 {
		if err := json.Unmarshal(row.DeviceInfo, &detection.DeviceInfo); err != nil {
			return entity.Detection{}, err
		}
	}

	return detection, nil
}
