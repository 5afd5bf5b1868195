package settings

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"time"

	"github.com/chapavet/marketplace/cmd/config"
	"github.com/chapavet/marketplace/constant"
	"github.com/chapavet/marketplace/model"
	redisrepo "github.com/chapavet/marketplace/repository/redis"
	settingsrepo "github.com/chapavet/marketplace/repository/settings"
	"github.com/chapavet/marketplace/utils/errors"
	"github.com/chapavet/marketplace/utils/logger"
	"go.uber.org/zap"
)

type SettingsApp interface {
	GetPaymentInstructions(ctx context.Context) (*model.PaymentInstructions, error)
	UpdatePaymentInstructions(ctx context.Context, adminID uint64, req *model.PaymentInstructions) error
	GetSessionSettings(ctx context.Context) (*model.SessionSettings, error)
	UpdateSessionSettings(ctx context.Context, adminID uint64, req *model.SessionSettings) error
	SessionTimeout(ctx context.Context) time.Duration
}

type SettingsAppImpl struct {
	config       *config.Config
	settingsRepo settingsrepo.SettingsRepository
	redisRepo    redisrepo.Repository
}

func NewSettingsApp(config *config.Config, settingsRepo settingsrepo.SettingsRepository, redisRepo redisrepo.Repository) SettingsApp {
	return &SettingsAppImpl{
		config:       config,
		settingsRepo: settingsRepo,
		redisRepo:    redisRepo,
	}
}

func cacheKey(key string) string {
	return "settings:" + key
}

// load decodes the stored JSON for key into dst. A missing key leaves dst untouched.
func (s *SettingsAppImpl) load(ctx context.Context, key string, dst any) error {
	cached, err := s.redisRepo.Get(ctx, cacheKey(key))
	if err == nil {
		if jsonErr := json.Unmarshal([]byte(cached), dst); jsonErr == nil {
			return nil
		}
	} else if !goerrors.Is(err, redisrepo.ErrCacheMiss) {
		logger.Warn("[Settings] redis read failed", zap.String("key", key), zap.String("error", err.Error()))
	}

	setting, err := s.settingsRepo.Get(ctx, key)
	if err != nil {
		return err
	}
	if setting == nil {
		return nil
	}
	if err := json.Unmarshal(setting.Value, dst); err != nil {
		return err
	}

	if err := s.redisRepo.SetWithTTL(ctx, cacheKey(key), string(setting.Value), s.config.Cache.SettingsTTL); err != nil {
		logger.Warn("[Settings] redis write failed", zap.String("key", key), zap.String("error", err.Error()))
	}
	return nil
}

func (s *SettingsAppImpl) store(ctx context.Context, adminID uint64, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := s.settingsRepo.Upsert(ctx, &model.AdminSetting{Key: key, Value: raw, UpdatedBy: adminID}); err != nil {
		return err
	}
	if err := s.redisRepo.Delete(ctx, cacheKey(key)); err != nil {
		logger.Warn("[Settings] redis invalidate failed", zap.String("key", key), zap.String("error", err.Error()))
	}
	return nil
}

func (s *SettingsAppImpl) GetPaymentInstructions(ctx context.Context) (*model.PaymentInstructions, error) {
	var out model.PaymentInstructions
	if err := s.load(ctx, constant.SettingPaymentInstructions, &out); err != nil {
		logger.Error("[GetPaymentInstructions] err load", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	return &out, nil
}

func (s *SettingsAppImpl) UpdatePaymentInstructions(ctx context.Context, adminID uint64, req *model.PaymentInstructions) error {
	if err := s.store(ctx, adminID, constant.SettingPaymentInstructions, req); err != nil {
		logger.Error("[UpdatePaymentInstructions] err store", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	return nil
}

func (s *SettingsAppImpl) GetSessionSettings(ctx context.Context) (*model.SessionSettings, error) {
	var out model.SessionSettings
	if err := s.load(ctx, constant.SettingSessionTimeout, &out); err != nil {
		logger.Error("[GetSessionSettings] err load", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	return &out, nil
}

func (s *SettingsAppImpl) UpdateSessionSettings(ctx context.Context, adminID uint64, req *model.SessionSettings) error {
	if err := s.store(ctx, adminID, constant.SettingSessionTimeout, req); err != nil {
		logger.Error("[UpdateSessionSettings] err store", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	return nil
}

// SessionTimeout returns the admin session lifetime, or zero when unset or unreadable.
func (s *SettingsAppImpl) SessionTimeout(ctx context.Context) time.Duration {
	settings, err := s.GetSessionSettings(ctx)
	if err != nil {
		return 0
	}
	return time.Duration(settings.TimeoutMinutes) * time.Minute
}
