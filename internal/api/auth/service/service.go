package authService

import (
	"ProjectKwik/internal/api/auth"
	authRepository "ProjectKwik/internal/api/auth/repository"
	merchantRepository "ProjectKwik/internal/api/merchant/repository"
	"ProjectKwik/pkg/bcrypt"
	"ProjectKwik/pkg/utils"
	"context"

	"github.com/sirupsen/logrus"
)

type IAuthService interface {
	Register(ctx context.Context, req auth.RegisterUserRequest) error
	Login(ctx context.Context, req auth.LoginUserRequest) (auth.LoginUserResponse, error)
	GetProfile(ctx context.Context, userID string) (auth.UserResponse, error)
	UpdateProfile(ctx context.Context, userID string, req auth.UpdateUserRequest) (auth.UserResponse, error)
	RefreshToken(ctx context.Context, userID string) (auth.LoginUserResponse, error)
}

type authService struct {
	log          *logrus.Logger
	repo         authRepository.Repository
	merchantRepo merchantRepository.Repository
	bcryptUtils  bcrypt.IBcrypt
	utils        utils.IUtils
}

func New(
	log *logrus.Logger,
	repo authRepository.Repository,
	merchantRepo merchantRepository.Repository,
	bcryptUtils bcrypt.IBcrypt,
	utils utils.IUtils,
) IAuthService {
	return &authService{
		log:          log,
		repo:         repo,
		merchantRepo: merchantRepo,
		bcryptUtils:  bcryptUtils,
		utils:        utils,
	}
}
