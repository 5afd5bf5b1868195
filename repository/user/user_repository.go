package user

import (
	"context"
	"database/sql"
	"time"

	"github.com/chapavet/marketplace/constant"
	"github.com/chapavet/marketplace/model"
	"github.com/jmoiron/sqlx"
)

type SQL struct {
	conn *sqlx.DB
}

type UserRepository interface {
	Create(ctx context.Context, req *model.UserEntity) (*model.UserEntity, error)
	Get(ctx context.Context, filter *model.UserFilter) (*model.UserEntity, error)
	List(ctx context.Context, filter *model.UserListFilter) ([]model.UserEntity, int64, error)
	UpdateRole(ctx context.Context, id uint64, role constant.Role) error
}

func NewUserRepository(conn *sqlx.DB) UserRepository {
	return &SQL{conn: conn}
}

const (
	insertUserQuery = `INSERT INTO profiles (full_name, email, phone, location, role, password_hash, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`
	selectUser      = `SELECT id, full_name, email, phone, location, role, password_hash, created_at, updated_at FROM profiles`
)

func (s *SQL) Create(ctx context.Context, data *model.UserEntity) (*model.UserEntity, error) {
	if data.CreatedAt.IsZero() {
		data.CreatedAt = time.Now().UTC()
	}
	result, err := s.conn.ExecContext(ctx, insertUserQuery, data.FullName, data.Email, data.Phone, data.Location, data.Role, data.PasswordHash, data.CreatedAt)
	if err != nil {
		return nil, err
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	data.ID = uint64(lastID)
	return data, nil
}

func (s *SQL) Get(ctx context.Context, filter *model.UserFilter) (*model.UserEntity, error) {
	query := selectUser + " WHERE 1=1"
	args := make([]any, 0, 3)

	if filter.ID != 0 {
		query += " AND id = ?"
		args = append(args, filter.ID)
	}
	if filter.Email != "" {
		query += " AND email = ?"
		args = append(args, filter.Email)
	}
	if filter.Phone != "" {
		query += " AND phone = ?"
		args = append(args, filter.Phone)
	}

	var entity model.UserEntity
	if err := s.conn.QueryRowxContext(ctx, query, args...).StructScan(&entity); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &entity, nil
}

func (s *SQL) List(ctx context.Context, filter *model.UserListFilter) ([]model.UserEntity, int64, error) {
	where := " WHERE 1=1"
	args := make([]any, 0, 3)
	if filter.Role != "" {
		where += " AND role = ?"
		args = append(args, filter.Role)
	}

	var total int64
	if err := s.conn.GetContext(ctx, &total, "SELECT COUNT(*) FROM profiles"+where, args...); err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PerPage
	args = append(args, filter.PerPage, offset)

	users := make([]model.UserEntity, 0)
	if err := s.conn.SelectContext(ctx, &users, selectUser+where+" ORDER BY id DESC LIMIT ? OFFSET ?", args...); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (s *SQL) UpdateRole(ctx context.Context, id uint64, role constant.Role) error {
	_, err := s.conn.ExecContext(ctx, "UPDATE profiles SET role = ?, updated_at = ? WHERE id = ?", role, time.Now().UTC(), id)
	return err
}
