package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	config "github.com/mdriyaz-a/captionflow/configs"
	"github.com/mdriyaz-a/captionflow/internal/models"
	"github.com/mdriyaz-a/captionflow/internal/repository"
	"github.com/mdriyaz-a/captionflow/internal/transfer"
	"github.com/mdriyaz-a/captionflow/pkg/utils"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
)

const tokenDuration = time.Hour

type AuthService interface {
	Register(ctx context.Context, username, password string) (string, *models.User, error)
	Login(ctx context.Context, username, password string) (string, *models.User, error)
	Profile(ctx context.Context, userID int64) (*models.User, error)
	SetInstagramCredentials(ctx context.Context, userID int64, creds *transfer.InstagramCredentials) error
	// StoredInstagramCredentials decrypts the user's saved platform
	// credentials for use by the publish trigger.
	StoredInstagramCredentials(ctx context.Context, userID int64) (username, password string, err error)
}

type authService struct {
	cfg config.Config
	u   repository.UserRepository
}

func NewAuthService(cfg config.Config, u repository.UserRepository) AuthService {
	return &authService{cfg: cfg, u: u}
}

func (s *authService) Register(ctx context.Context, username, password string) (string, *models.User, error) {
	_, exists, err := s.u.GetByUsername(ctx, username)
	if err != nil {
		return "", nil, err
	}
	if exists {
		return "", nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		slog.Info(err.Error())
		return "", nil, err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
	}
	id, err := s.u.Create(ctx, nil, user)
	if err != nil {
		return "", nil, err
	}
	user.ID = id

	token, err := utils.GenerateToken(s.cfg.JWTSecretKey, strconv.FormatInt(id, 10), tokenDuration)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	user, exists, err := s.u.GetByUsername(ctx, username)
	if err != nil {
		return "", nil, err
	}
	if !exists {
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(s.cfg.JWTSecretKey, strconv.FormatInt(user.ID, 10), tokenDuration)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

func (s *authService) Profile(ctx context.Context, userID int64) (*models.User, error) {
	user, exists, err := s.u.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *authService) SetInstagramCredentials(ctx context.Context, userID int64, creds *transfer.InstagramCredentials) error {
	_, exists, err := s.u.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUserNotFound
	}

	encrypted, err := utils.Encrypt([]byte(creds.Password), []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	return s.u.SetInstagramCredentials(ctx, userID, creds.Username, encrypted)
}

func (s *authService) StoredInstagramCredentials(ctx context.Context, userID int64) (string, string, error) {
	user, exists, err := s.u.GetByID(ctx, userID)
	if err != nil {
		return "", "", err
	}
	if !exists {
		return "", "", ErrUserNotFound
	}
	if !user.HasInstagramCredentials() {
		return "", "", errors.New("no stored instagram credentials")
	}

	password, err := utils.Decrypt(user.InstagramPassword, []byte(s.cfg.SecretKey))
	if err != nil {
		return "", "", err
	}

	return user.InstagramUsername, password, nil
}
