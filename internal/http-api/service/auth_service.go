package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"yamdb/internal/config"
	"yamdb/internal/http-api/dto"
	"yamdb/internal/http-api/models"
	"yamdb/internal/http-api/repository"
	"yamdb/internal/mail"
	"yamdb/internal/metrics"
	"yamdb/internal/middleware/auth"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

const (
	signupSubject = "Registration code"
	signupBody    = "Your confirmation code: %s"
)

// Claims carried by an access token.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Signup(ctx context.Context, req dto.SignupRequest) (*dto.SignupResponse, error)
	GetToken(ctx context.Context, req dto.TokenRequest) (*dto.TokenResponse, error)
	ValidateToken(tokenString string) (*Claims, error)
	// Authenticate validates the token and reloads its user, so role changes
	// and deletions apply to tokens already issued.
	Authenticate(ctx context.Context, tokenString string) (*models.User, error)
}

type authService struct {
	userRepo       repository.UserRepository
	mailer         mail.Mailer
	logger         *slog.Logger
	jwtSecret      string
	accessTokenTTL time.Duration
	now            func() time.Time
}

func NewAuthService(
	userRepo repository.UserRepository,
	mailer mail.Mailer,
	cfg *config.Config,
	logger *slog.Logger,
) AuthService {
	return &authService{
		userRepo:       userRepo,
		mailer:         mailer,
		logger:         logger,
		jwtSecret:      cfg.JWTSecret,
		accessTokenTTL: cfg.AccessTokenTTL,
		now:            time.Now,
	}
}

// Signup registers (or re-registers) the username/email pair and mails a fresh
// confirmation code. Each call invalidates the previously sent code.
func (s *authService) Signup(ctx context.Context, req dto.SignupRequest) (*dto.SignupResponse, error) {
	if err := ValidateUsername(req.Username); err != nil {
		metrics.RecordSignup("invalid")
		return nil, err
	}

	user, created, err := s.userRepo.GetOrCreate(ctx, req.Username, req.Email)
	if err != nil {
		if isDuplicate(err) {
			metrics.RecordSignup("conflict")
			return nil, ErrSignupConflict
		}
		return nil, err
	}

	code, err := auth.GenerateCode()
	if err != nil {
		return nil, fmt.Errorf("generate confirmation code: %w", err)
	}
	hashed, err := auth.HashCode(code)
	if err != nil {
		return nil, fmt.Errorf("hash confirmation code: %w", err)
	}
	if err := s.userRepo.SetConfirmationCode(ctx, user.ID, hashed); err != nil {
		return nil, err
	}

	msg := mail.Message{
		To:      user.Email,
		Subject: signupSubject,
		Body:    fmt.Sprintf(signupBody, code),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Warn("signup_mail_failed", "username", user.Username, "error", err)
	} else {
		s.logger.Info("signup_code_sent", "username", user.Username, "created", created)
	}

	metrics.RecordSignup("ok")
	return &dto.SignupResponse{Username: user.Username, Email: user.Email}, nil
}

// GetToken exchanges a confirmation code for an access token. A wrong code
// clears the pending one, so the user has to sign up again.
func (s *authService) GetToken(ctx context.Context, req dto.TokenRequest) (*dto.TokenResponse, error) {
	if err := ValidateUsername(req.Username); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.RecordToken("unknown_user")
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !auth.VerifyCode(user.ConfirmationCode, req.ConfirmationCode) {
		if err := s.userRepo.SetConfirmationCode(ctx, user.ID, ""); err != nil {
			return nil, err
		}
		s.logger.Info("confirmation_code_rejected", "username", user.Username)
		metrics.RecordToken("invalid_code")
		return nil, ErrInvalidConfirmationCode
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	metrics.RecordToken("ok")
	return &dto.TokenResponse{Token: token}, nil
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := s.now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (s *authService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

func isDuplicate(err error) bool {
	return errors.Is(err, repository.ErrDuplicateUsername) ||
		errors.Is(err, repository.ErrDuplicateEmail) ||
		errors.Is(err, repository.ErrDuplicate)
}

// notFound maps a missing row to the resource's sentinel.
func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
