package authRepository

import (
	"ProjectKwik/internal/api/auth"
	"ProjectKwik/internal/entity"
	contextPkg "ProjectKwik/pkg/context"
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type UserDB struct {
	ID         sql.NullString `db:"id"`
	Email      sql.NullString `db:"email"`
	Name       sql.NullString `db:"name"`
	Password   sql.NullString `db:"password"`
	MerchantID sql.NullString `db:"merchant_id"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

func (r *userRepository) CreateUser(ctx context.Context, user entity.User) error {
	requestID := contextPkg.GetRequestID(ctx)
	argsKV := map[string]interface{}{
		"id":          user.ID,
		"email":       user.Email,
		"name":        user.Name,
		"password":    user.Password,
		"merchant_id": user.MerchantID,
		"created_at":  user.CreatedAt,
		"updated_at":  user.UpdatedAt,
	}

	query, args, err := sqlx.Named(queryCreateUser, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CreateUser named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	_, err = r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating user")
		return err
	}

	return nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (entity.User, error) {
	return r.getOne(ctx, queryGetUserByEmail, map[string]interface{}{"email": email}, "GetUserByEmail")
}

func (r *userRepository) GetUserByID(ctx context.Context, id string) (entity.User, error) {
	return r.getOne(ctx, queryGetUserByID, map[string]interface{}{"id": id}, "GetUserByID")
}

func (r *userRepository) UpdateUser(ctx context.Context, user entity.User) error {
	requestID := contextPkg.GetRequestID(ctx)
	argsKV := map[string]interface{}{
		"id":         user.ID,
		"name":       user.Name,
		"password":   user.Password,
		"updated_at": user.UpdatedAt,
	}

	query, args, err := sqlx.Named(queryUpdateUser, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateUser named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when updating user")
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return auth.ErrUserNotFound
	}

	return nil
}

func (r *userRepository) getOne(ctx context.Context, namedQuery string, argsKV map[string]interface{}, op string) (entity.User, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var user UserDB

	query, args, err := sqlx.Named(namedQuery, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(op + " named query preparation err")
		return entity.User{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&user); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
			}).Warn(op + " no user found")
			return entity.User{}, auth.ErrUserNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(op + " execution err")
		return entity.User{}, err
	}

	return r.makeUser(user), nil
}

func (r *userRepository) makeUser(row UserDB) entity.User {
	return entity.User{
		ID:         row.ID.String,
		Email:      row.Email.String,
		Name:       row.Name.String,
		Password:   row.Password.String,
		MerchantID: row.MerchantID.String,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}
