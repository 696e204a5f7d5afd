package intentRuleRepository

import (
	"ProjectKwik/internal/api/intentrule"
	"ProjectKwik/internal/entity"
	contextPkg "ProjectKwik/pkg/context"
	"ProjectKwik/pkg/intent"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type IntentRuleDB struct {
	ID                   sql.NullString  `db:"id"`
	MerchantID           sql.NullString  `db:"merchant_id"`
	IntentType           sql.NullString  `db:"intent_type"`
	Threshold            sql.NullFloat64 `db:"threshold"`
	BehavioralSignals    []byte          `db:"behavioral_signals"`
	HistoricalFactors    []byte          `db:"historical_factors"`
	DeviceContext        []byte          `db:"device_context"`
	IsActive             sql.NullBool    `db:"is_active"`
	TotalDetections      sql.NullInt64   `db:"total_detections"`
	AccurateDetections   sql.NullInt64   `db:"accurate_detections"`
	FalsePositives       sql.NullInt64   `db:"false_positives"`
	FalseNegatives       sql.NullInt64   `db:"false_negatives"`
	PerformanceUpdatedAt sql.NullTime    `db:"performance_updated_at"`
	CreatedAt            time.Time       `db:"created_at"`
	UpdatedAt            time.Time       `db:"updated_at"`
}

func (r *intentRuleRepository) Create(ctx context.Context, rule entity.IntentRule) error {
	requestID := contextPkg.GetRequestID(ctx)

	behavioral, historical, device, err := marshalCriteria(rule.Rule)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Create rule criteria marshal err")
		return err
	}

	argsKV := map[string]interface{}{
		"id":                 rule.ID,
		"merchant_id":        rule.MerchantID,
		"intent_type":        string(rule.IntentType),
		"threshold":          rule.Threshold,
		"behavioral_signals": behavioral,
		"historical_factors": historical,
		"device_context":     device,
		"is_active":          rule.IsActive,
		"created_at":         rule.CreatedAt,
		"updated_at":         rule.UpdatedAt,
	}

	query, args, err := sqlx.Named(queryCreateRule, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Create rule named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	_, err = r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating intent rule")
		return err
	}

	return nil
}

func (r *intentRuleRepository) GetByID(ctx context.Context, id string, merchantID string) (entity.IntentRule, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var rule IntentRuleDB

	argsKV := map[string]interface{}{
		"id":          id,
		"merchant_id": merchantID,
	}

	query, args, err := sqlx.Named(queryGetRuleByID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByID named query preparation err")
		return entity.IntentRule{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&rule); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"id":         id,
			}).Warn("GetByID no intent rule found")
			return entity.IntentRule{}, intentrule.ErrRuleNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByID execution err")
		return entity.IntentRule{}, err
	}

	return r.makeIntentRule(rule)
}

func (r *intentRuleRepository) GetByMerchant(ctx context.Context, merchantID string) ([]entity.IntentRule, error) {
	return r.selectRules(ctx, queryGetRulesByMerchant, map[string]interface{}{
		"merchant_id": merchantID,
	}, "GetByMerchant")
}

func (r *intentRuleRepository) GetByIntentType(ctx context.Context, merchantID string, intentType string) (entity.IntentRule, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var rule IntentRuleDB

	argsKV := map[string]interface{}{
		"merchant_id": merchantID,
		"intent_type": intentType,
	}

	query, args, err := sqlx.Named(queryGetRuleByIntentType, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByIntentType named query preparation err")
		return entity.IntentRule{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&rule); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.IntentRule{}, intentrule.ErrRuleNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByIntentType execution err")
		return entity.IntentRule{}, err
	}

	return r.makeIntentRule(rule)
}

func (r *intentRuleRepository) GetActiveRules(ctx context.Context, merchantID string) ([]entity.IntentRule, error) {
	return r.selectRules(ctx, queryGetActiveRules, map[string]interface{}{
		"merchant_id": merchantID,
	}, "GetActiveRules")
}

func (r *intentRuleRepository) selectRules(ctx context.Context, namedQuery string, argsKV map[string]interface{}, op string) ([]entity.IntentRule, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var rulesList []IntentRuleDB

	query, args, err := sqlx.Named(namedQuery, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(op + " named query preparation err")
		return nil, err
	}

	query = r.q.Rebind(query)

	if err := r.q.SelectContext(ctx, &rulesList, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(op + " execution err")
		return nil, err
	}

	var rules []entity.IntentRule
	for _, ruleDB := range rulesList {
		rule, err := r.makeIntentRule(ruleDB)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}

	return rules, nil
}

func (r *intentRuleRepository) Update(ctx context.Context, rule entity.IntentRule) error {
	requestID := contextPkg.GetRequestID(ctx)

	behavioral, historical, device, err := marshalCriteria(rule.Rule)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Update rule criteria marshal err")
		return err
	}

	argsKV := map[string]interface{}{
		"id":                 rule.ID,
		"merchant_id":        rule.MerchantID,
		"threshold":          rule.Threshold,
		"behavioral_signals": behavioral,
		"historical_factors": historical,
		"device_context":     device,
		"is_active":          rule.IsActive,
		"updated_at":         time.Now(),
	}

	return r.execAffectingOne(ctx, queryUpdateRule, argsKV, "Update")
}

func (r *intentRuleRepository) Delete(ctx context.Context, id string, merchantID string) error {
	argsKV := map[string]interface{}{
		"id":          id,
		"merchant_id": merchantID,
	}

	return r.execAffectingOne(ctx, queryDeleteRule, argsKV, "Delete")
}

func (r *intentRuleRepository) SetActive(ctx context.Context, id string, merchantID string, active bool) error {
	argsKV := map[string]interface{}{
		"id":          id,
		"merchant_id": merchantID,
		"is_active":   active,
		"updated_at":  time.Now(),
	}

	return r.execAffectingOne(ctx, querySetRuleActive, argsKV, "SetActive")
}

func (r *intentRuleRepository) IncrementPerformance(ctx context.Context, id string, accurate bool) error {
	requestID := contextPkg.GetRequestID(ctx)

	namedQuery := queryIncrementFalsePositive
	if accurate {
		namedQuery = queryIncrementAccurate
	}

	argsKV := map[string]interface{}{
		"id":                     id,
		"performance_updated_at": time.Now(),
	}

	query, args, err := sqlx.Named(namedQuery, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("IncrementPerformance named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	_, err = r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("IncrementPerformance execution err")
		return err
	}

	return nil
}

func (r *intentRuleRepository) execAffectingOne(ctx context.Context, namedQuery string, argsKV map[string]interface{}, op string) error {
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
		}).Warn(op + " no rows affected")
		return intentrule.ErrRuleNotFound
	}

	return nil
}

func marshalCriteria(rule intent.Rule) (behavioral, historical, device []byte, err error) {
	if behavioral, err = json.Marshal(rule.BehavioralSignals); err != nil {
		return nil, nil, nil, err
	}
	if historical, err = json.Marshal(rule.HistoricalFactors); err != nil {
		return nil, nil, nil, err
	}
	if device, err = json.Marshal(rule.DeviceContext); err != nil {
		return nil, nil, nil, err
	}
	return behavioral, historical, device, nil
}

func (r *intentRuleRepository) makeIntentRule(row IntentRuleDB) (entity.IntentRule, error) {
	rule := entity.IntentRule{
		ID:         row.ID.String,
		MerchantID: row.MerchantID.String,
		Rule: intent.Rule{
			IntentType: intent.Type(row.IntentType.String),
			Threshold:  row.Threshold.Float64,
			IsActive:   row.IsActive.Bool,
		},
		Performance: entity.RulePerformance{
			TotalDetections:    row.TotalDetections.Int64,
			AccurateDetections: row.AccurateDetections.Int64,
			FalsePositives:     row.FalsePositives.Int64,
			FalseNegatives:     row.FalseNegatives.Int64,
			LastUpdated:        row.PerformanceUpdatedAt.Time,
		},
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}

	if len(row.BehavioralSignals) > 0 {
		if err := json.Unmarshal(row.BehavioralSignals, &rule.BehavioralSignals); err != nil {
			return entity.IntentRule{}, err
		}
	}
	if len(row.HistoricalFactors) > 0 {
		if err := json.Unmarshal(row.HistoricalFactors, &rule.HistoricalFactors); err != nil {
			return entity.IntentRule{}, err
		}
	}
	if len(row.DeviceContext) > 0 {
		if err := json.Unmarshal(row.DeviceContext, &rule.DeviceContext); err != nil {
			return entity.IntentRule{}, err
		}
	}

	return rule, nil
}
