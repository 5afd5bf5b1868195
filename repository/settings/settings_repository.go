package settings

import (
	"context"
	"database/sql"
	"time"

	"github.com/chapavet/marketplace/model"
	"github.com/jmoiron/sqlx"
)

type SQL struct {
	conn *sqlx.DB
}

// SettingsRepository stores admin_settings key/value JSON blobs.
type SettingsRepository interface {
	Get(ctx context.Context, key string) (*model.AdminSetting, error)
	Upsert(ctx context.Context, setting *model.AdminSetting) error
}

func NewSettingsRepository(conn *sqlx.DB) SettingsRepository {
	return &SQL{conn: conn}
}

func (s *SQL) Get(ctx context.Context, key string) (*model.AdminSetting, error) {
	var setting model.AdminSetting
	if err := s.conn.GetContext(ctx, &setting, "SELECT setting_key, setting_value, updated_by FROM admin_settings WHERE setting_key = ?", key); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &setting, nil
}

func (s *SQL) Upsert(ctx context.Context, setting *model.AdminSetting) error {
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO admin_settings (setting_key, setting_value, updated_by, updated_at) VALUES (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE setting_value = VALUES(setting_value), updated_by = VALUES(updated_by), updated_at = VALUES(updated_at)`,
		setting.Key, setting.Value, setting.UpdatedBy, time.Now().UTC())
	return err
}
