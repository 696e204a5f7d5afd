package authService

import (
	"ProjectKwik/internal/api/auth"
	"ProjectKwik/internal/api/merchant"
	"ProjectKwik/internal/entity"
	contextPkg "ProjectKwik/pkg/context"
	jwtPkg "ProjectKwik/pkg/jwt"
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

func (s *authService) Register(ctx context.Context, req auth.RegisterUserRequest) error {
	requestID := contextPkg.GetRequestID(ctx)

	merchantRepo, err := s.merchantRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return err
	}

	if _, err := merchantRepo.Merchants.GetByID(ctx, req.MerchantID); err != nil {
		if errors.Is(err, merchant.ErrMerchantNotFound) {
			s.log.WithFields(logrus.Fields{
				"request_id":  requestID,
				"merchant_id": req.MerchantID,
			}).Warn("Register with unknown merchant")
			return auth.ErrMerchantRequired
		}
		return err
	}

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return err
	}

	if _, err := repo.Users.GetUserByEmail(ctx, req.Email); err == nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"email":      req.Email,
		}).Warn("Email already registered")
		return auth.ErrEmailAlreadyExists
	} else if !errors.Is(err, auth.ErrUserNotFound) {
		return err
	}

	hashedPassword, err := s.bcryptUtils.HashPassword(req.Password)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to hash password")
		return err
	}

	userID, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate ULID")
		return err
	}

	now := time.Now()
	user := entity.User{
		ID:         userID,
		Email:      req.Email,
		Name:       req.Name,
		Password:   hashedPassword,
		MerchantID: req.MerchantID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := repo.Users.CreateUser(ctx, user); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create user")
		return err
	}

	return nil
}

func (s *authService) Login(ctx context.Context, req auth.LoginUserRequest) (auth.LoginUserResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return auth.LoginUserResponse{}, err
	}

	user, err := repo.Users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
			}).Warn("Login with unknown email")
			return auth.LoginUserResponse{}, auth.ErrInvalidEmailOrPassword
		}
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to get user by email")
		return auth.LoginUserResponse{}, err
	}

	if err := s.bcryptUtils.ComparePassword(user.Password, req.Password); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
		}).Warn("Password comparison failed")
		return auth.LoginUserResponse{}, auth.ErrInvalidEmailOrPassword
	}

	userData := makeUserData(user)

	token, expired, err := jwtPkg.Sign(userData, time.Hour*24)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to sign token")
		return auth.LoginUserResponse{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
	}).Info("Token created")

	return auth.LoginUserResponse{
		AccessToken:      token,
		ExpiresInMinutes: time.Until(time.Unix(expired, 0)).Minutes(),
	}, nil
}

func (s *authService) GetProfile(ctx context.Context, userID string) (auth.UserResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return auth.UserResponse{}, err
	}

	user, err := repo.Users.GetUserByID(ctx, userID)
	if err != nil {
		return auth.UserResponse{}, err
	}

	return auth.UserResponse{
		ID:         user.ID,
		Email:      user.Email,
		Name:       user.Name,
		MerchantID: user.MerchantID,
		CreatedAt:  user.CreatedAt.Format(time.RFC3339),
	}, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID string, req auth.UpdateUserRequest) (auth.UserResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return auth.UserResponse{}, err
	}

	user, err := repo.Users.GetUserByID(ctx, userID)
	if err != nil {
		return auth.UserResponse{}, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Password != "" {
		hashedPassword, err := s.bcryptUtils.HashPassword(req.Password)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("Failed to hash password")
			return auth.UserResponse{}, err
		}
		user.Password = hashedPassword
	}
	user.UpdatedAt = time.Now()

	if err := repo.Users.UpdateUser(ctx, user); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to update user")
		return auth.UserResponse{}, err
	}

	return auth.UserResponse{
		ID:         user.ID,
		Email:      user.Email,
		Name:       user.Name,
		MerchantID: user.MerchantID,
		CreatedAt:  user.CreatedAt.Format(time.RFC3339),
	}, nil
}

func (s *authService) RefreshToken(ctx context.Context, userID string) (auth.LoginUserResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return auth.LoginUserResponse{}, err
	}

	// Re-read the user so a token refresh never outlives a deleted account.
	user, err := repo.Users.GetUserByID(ctx, userID)
	if err != nil {
		return auth.LoginUserResponse{}, err
	}

	token, expired, err := jwtPkg.Sign(makeUserData(user), time.Hour*24)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to sign token")
		return auth.LoginUserResponse{}, err
	}

	return auth.LoginUserResponse{
		AccessToken:      token,
		ExpiresInMinutes: time.Until(time.Unix(expired, 0)).Minutes(),
	}, nil
}

func makeUserData(user entity.User) map[string]interface{} {
	return map[string]interface{}{
		"id":          user.ID,
		"email":       user.Email,
		"merchant_id": user.MerchantID,
	}
}
