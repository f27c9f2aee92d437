package account

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"

	"pettrack/internal/utils/validation"
)

// Options параметры выпуска токенов
type Options struct {
	Secret              string
	AccessTTL           time.Duration
	RefreshTTL          time.Duration
	BcryptCost          int
	RequireConfirmation bool
}

type Service struct {
	repo     Repository
	opts     Options
	validate *validator.Validate
	now      func() time.Time
	log      *slog.Logger
}

func NewService(repo Repository, opts Options, log *slog.Logger) *Service {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:     repo,
		opts:     opts,
		validate: validation.New(),
		now:      time.Now,
		log:      log.With(slog.String("component", "account")),
	}
}

// SignUp создает учетную запись. При обязательном подтверждении email токены не выдаются.
func (s *Service) SignUp(ctx context.Context, email, password string) (Account, *Tokens, error) {
	if err := s.validate.Var(email, "required,email"); err != nil {
		return Account{}, nil, ErrInvalidEmail
	}
	if len(password) < minPasswordLen {
		return Account{}, nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.opts.BcryptCost)
	if err != nil {
		return Account{}, nil, fmt.Errorf("хэш пароля: %w", err)
	}

	acc := Account{
		ID:           uuid.NewString(),
		Email:        normalizeEmail(email),
		PasswordHash: hash,
		Confirmed:    !s.opts.RequireConfirmation,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.Create(ctx, acc); err != nil {
		return Account{}, nil, err
	}

	s.log.Info("account created", slog.String("user_id", acc.ID))

	if !acc.Confirmed {
		return acc, nil, nil
	}

	tokens, err := s.issue(ctx, acc)
	if err != nil {
		return Account{}, nil, err
	}
	return acc, &tokens, nil
}

// SignIn проверяет пароль и выдает токены
func (s *Service) SignIn(ctx context.Context, email, password string) (Tokens, error) {
	acc, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Tokens{}, ErrInvalidCredentials
		}
		return Tokens{}, err
	}

	if err := bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(password)); err != nil {
		return Tokens{}, ErrInvalidCredentials
	}
	if !acc.Confirmed {
		return Tokens{}, ErrEmailNotConfirmed
	}

	return s.issue(ctx, acc)
}

// Refresh обменивает refresh токен на новую пару. Старый токен одноразовый.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (Tokens, error) {
	if refreshToken == "" {
		return Tokens{}, ErrInvalidRefreshToken
	}

	userID, err := s.repo.TakeRefresh(ctx, hashToken(refreshToken), s.now())
	if err != nil {
		return Tokens{}, err
	}

	acc, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return Tokens{}, ErrInvalidRefreshToken
	}

	return s.issue(ctx, acc)
}

// SignOut отзывает все refresh токены пользователя
func (s *Service) SignOut(ctx context.Context, userID string) error {
	return s.repo.RevokeRefresh(ctx, userID)
}

// Confirm подтверждает email
func (s *Service) Confirm(ctx context.Context, email string) error {
	return s.repo.Confirm(ctx, email)
}

type accessClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Validate проверяет подпись и срок access token
func (s *Service) Validate(_ context.Context, token string) (Claims, error) {
	claims := &accessClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.opts.Secret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return Claims{}, ErrInvalidToken
	}

	return Claims{UserID: claims.Subject, Email: claims.Email}, nil
}

func (s *Service) issue(ctx context.Context, acc Account) (Tokens, error) {
	now := s.now()
	exp := now.Add(s.opts.AccessTTL)

	claims := &accessClaims{
		Email: acc.Email,
		Role:  "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   acc.ID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.opts.Secret))
	if err != nil {
		return Tokens{}, fmt.Errorf("sign access token: %w", err)
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return Tokens{}, fmt.Errorf("generate token: %w", err)
	}
	refresh := base64.RawURLEncoding.EncodeToString(tokenBytes)

	if err := s.repo.SaveRefresh(ctx, acc.ID, hashToken(refresh), now.Add(s.opts.RefreshTTL)); err != nil {
		return Tokens{}, fmt.Errorf("save session: %w", err)
	}

	return Tokens{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int(s.opts.AccessTTL.Seconds()),
		ExpiresAt:    exp,
		Account:      acc,
	}, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
