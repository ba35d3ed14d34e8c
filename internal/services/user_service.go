package services

import (
	"context"
	"net/mail"
	"restaurant_manager/internal/models"
	"restaurant_manager/internal/repository"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// Claims is the payload of an access token.
type Claims struct {
	UserID uint            `json:"user_id"`
	Role   models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) Actor() models.Actor {
	return models.Actor{UserID: c.UserID, Role: c.Role}
}

// TokenRevoker remembers logged-out token ids until they would have expired.
type TokenRevoker interface {
	RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     models.UserRole
	Phone    string
}

type AuthResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Logout(ctx context.Context, claims *Claims) error
	Authenticate(ctx context.Context, token string) (*Claims, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	SetActive(ctx context.Context, id uint, active bool) (*models.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	revoker  TokenRevoker
	secret   []byte
	tokenTTL time.Duration
	hashCost int
	logger   *zap.Logger
	now      func() time.Time
}

func NewUserService(userRepo repository.UserRepository, revoker TokenRevoker, secret string, tokenTTL time.Duration, logger *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		revoker:  revoker,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		hashCost: bcrypt.DefaultCost,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	user, err := newAccount(ctx, s.userRepo, in, s.hashCost)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User registered", zap.Uint("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// newAccount validates in and returns an unsaved active user with a hashed
// password. The email must not belong to another account.
func newAccount(ctx context.Context, users repository.UserRepository, in RegisterInput, hashCost int) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if in.Role == "" {
		in.Role = models.RoleWaiter
	}

	switch {
	case in.Name == "":
		return nil, invalid("name", "name is required")
	case !validEmail(in.Email):
		return nil, invalid("email", "a valid email is required")
	case len(in.Password) < minPasswordLength:
		return nil, invalid("password", "password must be at least %d characters", minPasswordLength)
	case !in.Role.Valid():
		return nil, invalid("role", "unknown role %q", in.Role)
	}

	if err := ensureEmailFree(ctx, users, in.Email, 0); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), hashCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}
	return &models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
		Phone:        in.Phone,
		IsActive:     true,
	}, nil
}

func ensureEmailFree(ctx context.Context, users repository.UserRepository, email string, selfID uint) error {
	existing, err := users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "check email")
	}
	if existing.ID != selfID {
		return errors.Wrapf(ErrConflict, "email %s already registered", email)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *userService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errors.Wrap(ErrUnauthorized, "invalid email or password")
	}
	if err != nil {
		return nil, errors.Wrap(err, "get user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.Wrap(ErrUnauthorized, "invalid email or password")
	}
	if !user.IsActive {
		return nil, errors.Wrap(ErrForbidden, "account is disabled")
	}

	token, expiresAt, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *userService) issueToken(user *models.User) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.tokenTTL)
	claims := &Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "sign token")
	}
	return token, expiresAt, nil
}

func (s *userService) Authenticate(ctx context.Context, tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, errors.Wrap(ErrUnauthorized, "invalid token")
	}

	revoked, err := s.revoker.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		return nil, errors.Wrap(err, "check token revocation")
	}
	if revoked {
		return nil, errors.Wrap(ErrUnauthorized, "token revoked")
	}
	return claims, nil
}

func (s *userService) Logout(ctx context.Context, claims *Claims) error {
	if claims.ExpiresAt == nil {
		return nil
	}
	ttl := claims.ExpiresAt.Time.Sub(s.now())
	if err := s.revoker.RevokeToken(ctx, claims.ID, ttl); err != nil {
		return errors.Wrap(err, "revoke token")
	}
	s.logger.Info("User logged out", zap.Uint("user_id", claims.UserID))
	return nil
}

func (s *userService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Resource: "User", ID: id}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get user %d", id)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.GetAll(ctx)
}

func (s *userService) SetActive(ctx context.Context, id uint, active bool) (*models.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	user.IsActive = active
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
