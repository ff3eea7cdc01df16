package service

import (
	"Reunite/internal/api/dto"
	"Reunite/internal/model"
	"Reunite/internal/pkg/consts"
	"Reunite/internal/pkg/minio"
	"Reunite/internal/pkg/redis"
	"Reunite/internal/pkg/security"
	"Reunite/internal/repository"
	"context"
	"time"

	"github.com/jinzhu/copier"
)

type UserService interface {
	Register(ctx context.Context, d *dto.RegisterDTO) error
	Login(ctx context.Context, d *dto.CredentialDTO) (string, error)
	Logout(ctx context.Context, token string) error
	GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error)
}

type userServiceImpl struct {
	userRepo repository.UserRepo
}

func NewUserService(userRepo repository.UserRepo) UserService {
	return &userServiceImpl{userRepo: userRepo}
}

func (s *userServiceImpl) Register(ctx context.Context, d *dto.RegisterDTO) error {
	exist, err := s.userRepo.GetUserByUsername(ctx, d.Username)
	if err != nil {
		return err
	}
	if exist != nil {
		return ErrUserUsernameExist
	}

	hashed, err := security.HashPassword(d.Password)
	if err != nil {
		return err
	}

	nickname := d.Nickname
	if nickname == "" {
		nickname = d.Username
	}
	user := &model.User{
		Username:  &d.Username,
		Password:  &hashed,
		Nickname:  nickname,
		AvatarURL: consts.DefaultAvatarURL,
	}
	return s.userRepo.CreateUser(ctx, user)
}

func (s *userServiceImpl) Login(ctx context.Context, d *dto.CredentialDTO) (string, error) {
	if d.Username == "" || d.Password == "" {
		return "", ErrMissingLoginCredentials
	}

	user, err := s.userRepo.GetUserByUsername(ctx, d.Username)
	if err != nil {
		return "", err
	}
	if user == nil || user.Password == nil {
		return "", ErrUserNotFound
	}
	if user.IsBan {
		return "", ErrUserBan
	}

	if err := security.CheckPasswordHash(d.Password, *user.Password); err != nil {
		return "", ErrPasswordIncorrect
	}

	return security.GenerateToken(user.ID)
}

// Logout 把 token 签名写入黑名单，有效期覆盖 token 剩余寿命
func (s *userServiceImpl) Logout(ctx context.Context, token string) error {
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return ErrParamInvalid
	}
	return redis.SetWithExpiration(ctx, signature, true, time.Duration(consts.TokenRevokedKeyTTL)*time.Second)
}

func (s *userServiceImpl) GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	d := &dto.UserDTO{}
	_ = copier.Copy(d, user)
	if user.AvatarURL != "" {
		d.AvatarURL = minio.GetPublicURL(user.AvatarURL)
	}
	return d, nil
}
