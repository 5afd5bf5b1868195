package user_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	appuser "github.com/chapavet/marketplace/application/user"
	"github.com/chapavet/marketplace/cmd/config"
	"github.com/chapavet/marketplace/constant"
	redismocks "github.com/chapavet/marketplace/mocks/repository/redis"
	sessionmocks "github.com/chapavet/marketplace/mocks/repository/session"
	usermocks "github.com/chapavet/marketplace/mocks/repository/user"
	"github.com/chapavet/marketplace/model"
	cerr "github.com/chapavet/marketplace/utils/errors"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-key-for-jwt-signing"

func authConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:      testSecret,
			JWTExpiration:  2 * time.Hour,
			SessionExpTime: time.Hour,
		},
	}
}

type fixedTimeout time.Duration

func (f fixedTimeout) SessionTimeout(context.Context) time.Duration { return time.Duration(f) }

type fields struct {
	config      *config.Config
	userRepo    *usermocks.UserRepository
	redisRepo   *redismocks.RedisRepository
	sessionRepo *sessionmocks.SessionRepository
	settings    appuser.SessionTimeoutProvider
}

func newFields(t *testing.T) fields {
	return fields{
		config:      authConfig(),
		userRepo:    usermocks.NewUserRepository(t),
		redisRepo:   redismocks.NewRedisRepository(t),
		sessionRepo: sessionmocks.NewSessionRepository(t),
	}
}

func (f fields) app() appuser.UserApp {
	return appuser.NewUserApp(f.config, f.userRepo, f.redisRepo, f.sessionRepo, f.settings)
}

func assertErrCode(t *testing.T, err error, want constant.ErrorType) {
	t.Helper()
	var ce cerr.CustomError
	if !errors.As(err, &ce) {
		t.Fatalf("error type = %T, want CustomError", err)
	}
	if ce.ErrorCode() != constant.ErrorTypeCode[want] {
		t.Fatalf("error code = %s, want %s", ce.ErrorCode(), constant.ErrorTypeCode[want])
	}
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(h)
}

func TestUserApp_Register(t *testing.T) {
	req := &model.RegisterRequest{
		FullName: "Joseph Mollel",
		Email:    "joseph@example.co.tz",
		Phone:    "+255712345678",
		Location: "Arusha",
		Password: "password123",
	}
	tests := []struct {
		name     string
		req      *model.RegisterRequest
		mockCall func(f fields)
		want     *model.RegisterResponse
		wantErr  bool
		errCode  constant.ErrorType
	}{
		{
			name: "success: defaults to buyer role",
			req:  req,
			mockCall: func(f fields) {
				f.userRepo.On("Get", mock.Anything, &model.UserFilter{Email: req.Email}).Return(nil, nil).Once()
				f.userRepo.On("Get", mock.Anything, &model.UserFilter{Phone: req.Phone}).Return(nil, nil).Once()
				f.userRepo.
					On("Create", mock.Anything, mock.MatchedBy(func(ent *model.UserEntity) bool {
						return ent.FullName == "Joseph Mollel" &&
							ent.Role == constant.RoleBuyer &&
							ent.Location == "Arusha" &&
							bcrypt.CompareHashAndPassword([]byte(ent.PasswordHash), []byte("password123")) == nil
					})).
					Return(&model.UserEntity{ID: 1, FullName: "Joseph Mollel", Email: req.Email}, nil).
					Once()
			},
			want: &model.RegisterResponse{FullName: "Joseph Mollel", Email: req.Email},
		},
		{
			name: "success: seller role kept",
			req: &model.RegisterRequest{
				FullName: "Amina Said", Email: "amina@example.co.tz", Phone: "+255754111222",
				Role: constant.RoleSeller, Password: "password123",
			},
			mockCall: func(f fields) {
				f.userRepo.On("Get", mock.Anything, mock.Anything).Return(nil, nil).Twice()
				f.userRepo.
					On("Create", mock.Anything, mock.MatchedBy(func(ent *model.UserEntity) bool {
						return ent.Role == constant.RoleSeller
					})).
					Return(&model.UserEntity{ID: 2, FullName: "Amina Said", Email: "amina@example.co.tz"}, nil).
					Once()
			},
			want: &model.RegisterResponse{FullName: "Amina Said", Email: "amina@example.co.tz"},
		},
		{
			name: "error: email already exists",
			req:  req,
			mockCall: func(f fields) {
				f.userRepo.On("Get", mock.Anything, &model.UserFilter{Email: req.Email}).
					Return(&model.UserEntity{ID: 1}, nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrCredentialExists,
		},
		{
			name: "error: phone already exists",
			req:  req,
			mockCall: func(f fields) {
				f.userRepo.On("Get", mock.Anything, &model.UserFilter{Email: req.Email}).Return(nil, nil).Once()
				f.userRepo.On("Get", mock.Anything, &model.UserFilter{Phone: req.Phone}).
					Return(&model.UserEntity{ID: 1}, nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrCredentialExists,
		},
		{
			name: "error: repository Get returns error",
			req:  req,
			mockCall: func(f fields) {
				f.userRepo.On("Get", mock.Anything, &model.UserFilter{Email: req.Email}).
					Return(nil, errors.New("db error")).Once()
			},
			wantErr: true,
			errCode: constant.ErrInternal,
		},
		{
			name: "error: repository Create returns error",
			req:  req,
			mockCall: func(f fields) {
				f.userRepo.On("Get", mock.Anything, mock.Anything).Return(nil, nil).Twice()
				f.userRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.UserEntity")).
					Return(nil, errors.New("create failed")).Once()
			},
			wantErr: true,
			errCode: constant.ErrInternal,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			f := newFields(t)
			tt.mockCall(f)

			got, err := f.app().Register(context.Background(), tt.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Register() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				assertErrCode(t, err, tt.errCode)
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Register() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestUserApp_Login(t *testing.T) {
	tests := []struct {
		name     string
		req      *model.LoginRequest
		settings appuser.SessionTimeoutProvider
		mockCall func(t *testing.T, f fields)
		wantTTL  time.Duration
		wantErr  bool
		errCode  constant.ErrorType
	}{
		{
			name: "success: login with email uses config ttl",
			req:  &model.LoginRequest{Identifier: "neema@example.co.tz", Password: "password123", UserAgent: "curl/8", IPAddress: "10.0.0.1"},
			mockCall: func(t *testing.T, f fields) {
				f.userRepo.On("Get", mock.Anything, &model.UserFilter{Email: "neema@example.co.tz"}).
					Return(&model.UserEntity{ID: 1, FullName: "Neema", Email: "neema@example.co.tz", Role: constant.RoleSeller, PasswordHash: hashed(t, "password123")}, nil).Once()
				f.sessionRepo.On("Create", mock.Anything, mock.MatchedBy(func(s *model.UserSession) bool {
					return s.ID != "" && s.UserID == 1 && s.UserAgent == "curl/8" && s.IPAddress == "10.0.0.1" &&
						s.ExpiresAt.Sub(s.CreatedAt) == time.Hour
				})).Return(nil).Once()
				f.redisRepo.On("SetSession", mock.Anything, mock.AnythingOfType("string"), uint64(1), time.Hour).Return(nil).Once()
			},
			wantTTL: time.Hour,
		},
		{
			name:     "success: login with phone uses admin session timeout",
			req:      &model.LoginRequest{Identifier: "+255712345678", Password: "password123"},
			settings: fixedTimeout(30 * time.Minute),
			mockCall: func(t *testing.T, f fields) {
				f.userRepo.On("Get", mock.Anything, &model.UserFilter{Phone: "+255712345678"}).
					Return(&model.UserEntity{ID: 1, FullName: "Neema", Role: constant.RoleSeller, PasswordHash: hashed(t, "password123")}, nil).Once()
				f.sessionRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.UserSession")).Return(nil).Once()
				f.redisRepo.On("SetSession", mock.Anything, mock.AnythingOfType("string"), uint64(1), 30*time.Minute).Return(nil).Once()
			},
			wantTTL: 30 * time.Minute,
		},
		{
			name: "error: user not found",
			req:  &model.LoginRequest{Identifier: "missing@example.co.tz", Password: "password123"},
			mockCall: func(t *testing.T, f fields) {
				f.userRepo.On("Get", mock.Anything, &model.UserFilter{Email: "missing@example.co.tz"}).Return(nil, nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrNotFound,
		},
		{
			name: "error: invalid password",
			req:  &model.LoginRequest{Identifier: "neema@example.co.tz", Password: "wrong"},
			mockCall: func(t *testing.T, f fields) {
				f.userRepo.On("Get", mock.Anything, mock.Anything).
					Return(&model.UserEntity{ID: 1, PasswordHash: hashed(t, "password123")}, nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrInvalidPassword,
		},
		{
			name: "error: session row insert fails",
			req:  &model.LoginRequest{Identifier: "neema@example.co.tz", Password: "password123"},
			mockCall: func(t *testing.T, f fields) {
				f.userRepo.On("Get", mock.Anything, mock.Anything).
					Return(&model.UserEntity{ID: 1, PasswordHash: hashed(t, "password123")}, nil).Once()
				f.sessionRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db error")).Once()
			},
			wantErr: true,
			errCode: constant.ErrInternal,
		},
		{
			name: "error: SetSession returns error",
			req:  &model.LoginRequest{Identifier: "neema@example.co.tz", Password: "password123"},
			mockCall: func(t *testing.T, f fields) {
				f.userRepo.On("Get", mock.Anything, mock.Anything).
					Return(&model.UserEntity{ID: 1, PasswordHash: hashed(t, "password123")}, nil).Once()
				f.sessionRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
				f.redisRepo.On("SetSession", mock.Anything, mock.Anything, uint64(1), time.Hour).Return(errors.New("redis error")).Once()
			},
			wantErr: true,
			errCode: constant.ErrInternal,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			f := newFields(t)
			f.settings = tt.settings
			tt.mockCall(t, f)

			got, err := f.app().Login(context.Background(), tt.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Login() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				assertErrCode(t, err, tt.errCode)
				return
			}
			if got.Token == "" {
				t.Fatal("Login() token should not be empty")
			}
			if got.Role != constant.RoleSeller {
				t.Fatalf("Login() role = %s, want seller", got.Role)
			}
		})
	}
}

func login(t *testing.T, f fields, role constant.Role) string {
	t.Helper()
	f.userRepo.On("Get", mock.Anything, mock.Anything).
		Return(&model.UserEntity{ID: 1, Role: role, PasswordHash: hashed(t, "password123")}, nil).Once()
	f.sessionRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	f.redisRepo.On("SetSession", mock.Anything, mock.Anything, uint64(1), time.Hour).Return(nil).Once()

	resp, err := f.app().Login(context.Background(), &model.LoginRequest{Identifier: "admin@example.co.tz", Password: "password123"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	return resp.Token
}

func TestUserApp_ValidateToken(t *testing.T) {
	tests := []struct {
		name     string
		token    func(t *testing.T, f fields) string
		mockCall func(f fields)
		wantRole constant.Role
		wantErr  bool
	}{
		{
			name:  "success: valid token carries role",
			token: func(t *testing.T, f fields) string { return login(t, f, constant.RoleAdmin) },
			mockCall: func(f fields) {
				f.redisRepo.On("GetSession", mock.Anything, mock.AnythingOfType("string")).Return(uint64(1), nil).Once()
				f.userRepo.On("Get", mock.Anything, &model.UserFilter{ID: 1}).Return(&model.UserEntity{ID: 1, Role: constant.RoleAdmin}, nil).Once()
			},
			wantRole: constant.RoleAdmin,
		},
		{
			name:  "success: demoted admin gets the current role",
			token: func(t *testing.T, f fields) string { return login(t, f, constant.RoleAdmin) },
			mockCall: func(f fields) {
				f.redisRepo.On("GetSession", mock.Anything, mock.AnythingOfType("string")).Return(uint64(1), nil).Once()
				f.userRepo.On("Get", mock.Anything, &model.UserFilter{ID: 1}).Return(&model.UserEntity{ID: 1, Role: constant.RoleBuyer}, nil).Once()
			},
			wantRole: constant.RoleBuyer,
		},
		{
			name:  "error: user deleted after login",
			token: func(t *testing.T, f fields) string { return login(t, f, constant.RoleBuyer) },
			mockCall: func(f fields) {
				f.redisRepo.On("GetSession", mock.Anything, mock.AnythingOfType("string")).Return(uint64(1), nil).Once()
				f.userRepo.On("Get", mock.Anything, &model.UserFilter{ID: 1}).Return(nil, nil).Once()
			},
			wantErr: true,
		},
		{
			name:  "error: user lookup fails",
			token: func(t *testing.T, f fields) string { return login(t, f, constant.RoleBuyer) },
			mockCall: func(f fields) {
				f.redisRepo.On("GetSession", mock.Anything, mock.AnythingOfType("string")).Return(uint64(1), nil).Once()
				f.userRepo.On("Get", mock.Anything, &model.UserFilter{ID: 1}).Return(nil, errors.New("db down")).Once()
			},
			wantErr: true,
		},
		{
			name:    "error: invalid token format",
			token:   func(*testing.T, fields) string { return "invalid.token.string" },
			wantErr: true,
		},
		{
			name: "error: signed with another secret",
			token: func(t *testing.T, f fields) string {
				other := newFields(t)
				other.config.Auth.JWTSecret = "another-secret"
				return login(t, other, constant.RoleBuyer)
			},
			wantErr: true,
		},
		{
			name:  "error: session not found in redis",
			token: func(t *testing.T, f fields) string { return login(t, f, constant.RoleBuyer) },
			mockCall: func(f fields) {
				f.redisRepo.On("GetSession", mock.Anything, mock.Anything).Return(uint64(0), errors.New("redis: nil")).Once()
			},
			wantErr: true,
		},
		{
			name:  "error: session belongs to another user",
			token: func(t *testing.T, f fields) string { return login(t, f, constant.RoleBuyer) },
			mockCall: func(f fields) {
				f.redisRepo.On("GetSession", mock.Anything, mock.Anything).Return(uint64(2), nil).Once()
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			f := newFields(t)
			token := tt.token(t, f)
			if tt.mockCall != nil {
				tt.mockCall(f)
			}

			got, err := f.app().ValidateToken(context.Background(), token)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateToken() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.UserID != 1 || got.Role != tt.wantRole || got.SessionID == "" {
				t.Fatalf("ValidateToken() = %+v", got)
			}
		})
	}
}

func TestUserApp_Logout(t *testing.T) {
	f := newFields(t)
	f.redisRepo.On("DeleteSession", mock.Anything, "sess-1").Return(nil).Once()
	f.sessionRepo.On("Revoke", mock.Anything, "sess-1", mock.AnythingOfType("time.Time")).Return(nil).Once()

	if err := f.app().Logout(context.Background(), "sess-1"); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}

	f = newFields(t)
	f.redisRepo.On("DeleteSession", mock.Anything, "sess-2").Return(errors.New("redis down")).Once()
	assertErrCode(t, f.app().Logout(context.Background(), "sess-2"), constant.ErrInternal)
}

func TestUserApp_ListUsers(t *testing.T) {
	f := newFields(t)
	users := []model.UserEntity{{ID: 1, FullName: "Joseph"}, {ID: 2, FullName: "Amina"}}
	f.userRepo.On("List", mock.Anything, &model.UserListFilter{Role: constant.RoleSeller, Page: 1, PerPage: 20}).
		Return(users, int64(2), nil).Once()

	got, err := f.app().ListUsers(context.Background(), &model.UserListFilter{Role: constant.RoleSeller, PerPage: 500})
	if err != nil {
		t.Fatalf("ListUsers() error = %v", err)
	}
	want := &model.UserListResponse{Items: users, TotalCount: 2, Page: 1, PerPage: 20}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ListUsers() = %+v, want %+v", got, want)
	}
}

func TestUserApp_UpdateRole(t *testing.T) {
	tests := []struct {
		name     string
		mockCall func(f fields)
		wantErr  bool
		errCode  constant.ErrorType
	}{
		{
			name: "success",
			mockCall: func(f fields) {
				f.userRepo.On("Get", mock.Anything, &model.UserFilter{ID: 3}).Return(&model.UserEntity{ID: 3}, nil).Once()
				f.userRepo.On("UpdateRole", mock.Anything, uint64(3), constant.RoleSeller).Return(nil).Once()
			},
		},
		{
			name: "error: unknown user",
			mockCall: func(f fields) {
				f.userRepo.On("Get", mock.Anything, &model.UserFilter{ID: 3}).Return(nil, nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrNotFound,
		},
		{
			name: "error: update fails",
			mockCall: func(f fields) {
				f.userRepo.On("Get", mock.Anything, &model.UserFilter{ID: 3}).Return(&model.UserEntity{ID: 3}, nil).Once()
				f.userRepo.On("UpdateRole", mock.Anything, uint64(3), constant.RoleSeller).Return(errors.New("db error")).Once()
			},
			wantErr: true,
			errCode: constant.ErrInternal,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			f := newFields(t)
			tt.mockCall(f)

			err := f.app().UpdateRole(context.Background(), 3, constant.RoleSeller)
			if (err != nil) != tt.wantErr {
				t.Fatalf("UpdateRole() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				assertErrCode(t, err, tt.errCode)
			}
		})
	}
}
