package configurationRepository

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
		Configurations: &configurationRepository{q: sqlExecutor, log: r.log},
		Commit:         commitFunc,
		Rollback:       rollbackFunc,
	}, nil
}

type Client struct {
	Configurations interface {
		Create(c context.Context, config entity.Configuration) error
		GetByID(c context.Context, id string, merchantID string) (entity.Configuration, error)
		GetActive(c context.Context, merchantID string) (entity.Configuration, error)
		GetHistory(c context.Context, merchantID string, limit int) ([]entity.Configuration, error)
		NextVersion(c context.Context, merchantID string) (int, error)
		DeactivateAll(c context.Context, merchantID string) error
		Activate(c context.Context, id string, merchantID string) error
		UpdateSettings(c context.Context, config entity.Configuration) error
		Delete(c context.Context, id string, merchantID string) error
	}

	Commit   func() error
	Rollback func() error
}

type configurationRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
