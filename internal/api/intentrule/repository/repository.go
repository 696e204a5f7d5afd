package intentRuleRepository

import (
	"ProjectKwik/internal/entity"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type SQLExecutor interface {
	sqlx.ExtContext
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	Rebind(query string) string
}

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var sqlExecutor SQLExecutor
	var commitFunc, rollbackFunc func() error

	sqlExecutor = r.DB

	if tx {
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		sqlExecutor = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		Rules:    &intentRuleRepository{q: sqlExecutor, log: r.log},
		Commit:   commitFunc,
		Rollback: rollbackFunc,
	}, nil
}

type Client struct {
	Rules interface {
		Create(c context.Context, rule entity.IntentRule) error
		GetByID(c context.Context, id string, merchantID string) (entity.IntentRule, error)
		GetByMerchant(c context.Context, merchantID string) ([]entity.IntentRule, error)
		GetByIntentType(c context.Context, merchantID string, intentType string) (entity.IntentRule, error)
		GetActiveRules(c context.Context, merchantID string) ([]entity.IntentRule, error)
		Update(c context.Context, rule entity.IntentRule) error
		Delete(c context.Context, id string, merchantID string) error
		SetActive(c context.Context, id string, merchantID string, active bool) error
		IncrementPerformance(c context.Context, id string, accurate bool) error
	}

	Commit   func() error
	Rollback func() error
}

type intentRuleRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
