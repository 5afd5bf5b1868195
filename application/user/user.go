package user

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/chapavet/marketplace/cmd/config"
	"github.com/chapavet/marketplace/constant"
	"github.com/chapavet/marketplace/model"
	redisrepo "github.com/chapavet/marketplace/repository/redis"
	sessionrepo "github.com/chapavet/marketplace/repository/session"
	userrepo "github.com/chapavet/marketplace/repository/user"
	"github.com/chapavet/marketplace/utils/errors"
	"github.com/chapavet/marketplace/utils/logger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserApp interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.RegisterResponse, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
	ValidateToken(ctx context.Context, tokenString string) (*model.AuthSession, error)
	Logout(ctx context.Context, sessionID string) error
	GetProfile(ctx context.Context, userID uint64) (*model.UserEntity, error)
	ListUsers(ctx context.Context, filter *model.UserListFilter) (*model.UserListResponse, error)
	UpdateRole(ctx context.Context, userID uint64, role constant.Role) error
}

// SessionTimeoutProvider yields the admin-configured session lifetime; zero means unset.
type SessionTimeoutProvider interface {
	SessionTimeout(ctx context.Context) time.Duration
}

type UserAppImpl struct {
	config      *config.Config
	userRepo    userrepo.UserRepository
	redisRepo   redisrepo.Repository
	sessionRepo sessionrepo.SessionRepository
	settings    SessionTimeoutProvider
}

type claims struct {
	Role constant.Role `json:"role"`
	jwt.RegisteredClaims
}

func NewUserApp(config *config.Config, userRepo userrepo.UserRepository, redisRepo redisrepo.Repository, sessionRepo sessionrepo.SessionRepository, settings SessionTimeoutProvider) UserApp {
	return &UserAppImpl{
		config:      config,
		userRepo:    userRepo,
		redisRepo:   redisRepo,
		sessionRepo: sessionRepo,
		settings:    settings,
	}
}

func (s *UserAppImpl) Register(ctx context.Context, req *model.RegisterRequest) (*model.RegisterResponse, error) {
	existingUser, err := s.userRepo.Get(ctx, &model.UserFilter{Email: req.Email})
	if err != nil {
		logger.Error("[Register] err userRepo.Get email", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if existingUser != nil {
		return nil, errors.SetCustomError(constant.ErrCredentialExists)
	}

	existingUser, err = s.userRepo.Get(ctx, &model.UserFilter{Phone: req.Phone})
	if err != nil {
		logger.Error("[Register] err userRepo.Get phone", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if existingUser != nil {
		return nil, errors.SetCustomError(constant.ErrCredentialExists)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("[Register] err bcrypt.GenerateFromPassword", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	// admin is never self-assigned
	role := req.Role
	if role == "" {
		role = constant.RoleBuyer
	}

	userEntity, err := s.userRepo.Create(ctx, &model.UserEntity{
		FullName:     strings.TrimSpace(req.FullName),
		Email:        req.Email,
		Phone:        req.Phone,
		Location:     req.Location,
		Role:         role,
		PasswordHash: string(hashedPassword),
	})
	if err != nil {
		logger.Error("[Register] err userRepo.Create", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	return &model.RegisterResponse{
		FullName: userEntity.FullName,
		Email:    userEntity.Email,
	}, nil
}

func (s *UserAppImpl) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	filter := &model.UserFilter{}
	if isEmail(req.Identifier) {
		filter.Email = req.Identifier
	} else {
		filter.Phone = req.Identifier
	}

	user, err := s.userRepo.Get(ctx, filter)
	if err != nil {
		logger.Error("[Login] err userRepo.Get", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if user == nil {
		return nil, errors.SetCustomError(constant.ErrNotFound)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.SetCustomError(constant.ErrInvalidPassword)
	}

	ttl := s.sessionTTL(ctx)
	token, jti, err := s.generateJWT(user.ID, user.Role, ttl)
	if err != nil {
		logger.Error("[Login] err generateJWT", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	now := time.Now().UTC()
	err = s.sessionRepo.Create(ctx, &model.UserSession{
		ID:        jti,
		UserID:    user.ID,
		UserAgent: req.UserAgent,
		IPAddress: req.IPAddress,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	})
	if err != nil {
		logger.Error("[Login] err sessionRepo.Create", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	if err = s.redisRepo.SetSession(ctx, jti, user.ID, ttl); err != nil {
		logger.Error("[Login] err SetSession", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	return &model.LoginResponse{
		FullName: user.FullName,
		Email:    user.Email,
		Role:     user.Role,
		Token:    token,
	}, nil
}

func (s *UserAppImpl) ValidateToken(ctx context.Context, tokenString string) (*model.AuthSession, error) {
	token, err := jwt.ParseWithClaims(tokenString, &claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.config.Auth.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid claims")
	}

	userID, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid user id in token")
	}
	if c.ID == "" {
		return nil, fmt.Errorf("token missing jti")
	}

	redisUserID, err := s.redisRepo.GetSession(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid or expired session")
	}
	if redisUserID != userID {
		return nil, fmt.Errorf("token does not match user session")
	}

	// the role claim is only a hint; role changes apply to live sessions
	user, err := s.userRepo.Get(ctx, &model.UserFilter{ID: userID})
	if err != nil {
		logger.Error("[ValidateToken] err userRepo.Get", zap.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user no longer exists")
	}

	return &model.AuthSession{
		UserID:    userID,
		Role:      user.Role,
		SessionID: c.ID,
	}, nil
}

func (s *UserAppImpl) Logout(ctx context.Context, sessionID string) error {
	if err := s.redisRepo.DeleteSession(ctx, sessionID); err != nil {
		logger.Error("[Logout] err redisRepo.DeleteSession", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	if err := s.sessionRepo.Revoke(ctx, sessionID, time.Now().UTC()); err != nil {
		logger.Error("[Logout] err sessionRepo.Revoke", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	return nil
}

func (s *UserAppImpl) GetProfile(ctx context.Context, userID uint64) (*model.UserEntity, error) {
	user, err := s.userRepo.Get(ctx, &model.UserFilter{ID: userID})
	if err != nil {
		logger.Error("[GetProfile] err userRepo.Get", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if user == nil {
		return nil, errors.SetCustomError(constant.ErrNotFound)
	}
	return user, nil
}

func (s *UserAppImpl) ListUsers(ctx context.Context, filter *model.UserListFilter) (*model.UserListResponse, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 || filter.PerPage > 100 {
		filter.PerPage = 20
	}

	users, total, err := s.userRepo.List(ctx, filter)
	if err != nil {
		logger.Error("[ListUsers] err userRepo.List", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	return &model.UserListResponse{
		Items:      users,
		TotalCount: total,
		Page:       filter.Page,
		PerPage:    filter.PerPage,
	}, nil
}

func (s *UserAppImpl) UpdateRole(ctx context.Context, userID uint64, role constant.Role) error {
	if _, err := s.GetProfile(ctx, userID); err != nil {
		return err
	}
	if err := s.userRepo.UpdateRole(ctx, userID, role); err != nil {
		logger.Error("[UpdateRole] err userRepo.UpdateRole", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	return nil
}

func (s *UserAppImpl) sessionTTL(ctx context.Context) time.Duration {
	if s.settings != nil {
		if ttl := s.settings.SessionTimeout(ctx); ttl > 0 {
			return ttl
		}
	}
	return s.config.Auth.SessionExpTime
}

func (s *UserAppImpl) generateJWT(userID uint64, role constant.Role, ttl time.Duration) (string, string, error) {
	newUUID, _ := uuid.NewRandom()
	now := time.Now()

	// the token never outlives its session
	exp := s.config.Auth.JWTExpiration
	if ttl > 0 && ttl < exp {
		exp = ttl
	}

	c := claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userID),
			ExpiresAt: jwt.NewNumericDate(now.Add(exp)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        newUUID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	tokenString, err := token.SignedString([]byte(s.config.Auth.JWTSecret))
	if err != nil {
		return "", "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, c.ID, nil
}

func isEmail(identifier string) bool {
	return strings.ContainsRune(identifier, '@')
}
