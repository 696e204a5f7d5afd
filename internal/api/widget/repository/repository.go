package widgetRepository

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
		Widgets:  &widgetRepository{q: sqlExecutor, log: r.log},
		Commit:   commitFunc,
		Rollback: rollbackFunc,
	}, nil
}

type Client struct {
	Widgets interface {
		Create(c context.Context, widget entity.Widget) error
		GetByID(c context.Context, id string, merchantID string) (entity.Widget, error)
		GetByMerchant(c context.Context, merchantID string) ([]entity.Widget, error)
		GetByIntentType(c context.Context, merchantID string, intentType string) ([]entity.Widget, error)
		GetActiveWidget(c context.Context, merchantID string, intentType string) (entity.Widget, error)
		NextVersion(c context.Context, merchantID string, intentType string) (int, error)
		Update(c context.Context, widget entity.Widget) error
		Delete(c context.Context, id string, merchantID string) error
		SetActive(c context.Context, id string, merchantID string, active bool) error
		IncrementImpressions(c context.Context, id string) error
		IncrementInteractions(c context.Context, id string) error
		IncrementConversions(c context.Context, id string) error
	}

	Commit   func() error
	Rollback func() error
}

type widgetRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
