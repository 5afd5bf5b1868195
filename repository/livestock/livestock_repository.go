package livestock

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

type LivestockRepository interface {
	List(ctx context.Context, filter *model.LivestockFilter) ([]model.LivestockItem, error)
	GetByID(ctx context.Context, id uint64) (*model.LivestockItem, error)
	Create(ctx context.Context, item *model.LivestockItem) (*model.LivestockItem, error)
	UpdateVerified(ctx context.Context, id uint64, verified bool) error
	UpdateFeatured(ctx context.Context, id uint64, featured bool) error
	Count(ctx context.Context) (int64, error)
	GetByIDForUpdateTx(ctx context.Context, tx *sqlx.Tx, id uint64) (*model.LivestockItem, error)
	UpdateStatusTx(ctx context.Context, tx *sqlx.Tx, id uint64, status constant.ListingStatus) error
}

func NewLivestockRepository(conn *sqlx.DB) LivestockRepository {
	return &SQL{conn: conn}
}

const (
	selectLivestock = `SELECT id, seller_id, name, category, price, price_tzs, image_url, location, verified, featured, status,
description, breed, age, gender, animal_type, weight, seller_name, seller_phone, seller_rating, seller_description, created_at
FROM livestock`

	insertLivestockQuery = `INSERT INTO livestock (seller_id, name, category, price, price_tzs, image_url, location, verified, featured, status,
description, breed, age, gender, animal_type, weight, seller_name, seller_phone, seller_rating, seller_description, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
)

// livestockRow is the flat table shape; the API nests details and seller.
type livestockRow struct {
	ID                uint64        `db:"id"`
	SellerID          sql.NullInt64 `db:"seller_id"`
	Name              string        `db:"name"`
	Category          string        `db:"category"`
	Price             string        `db:"price"`
	PriceTZS          int64         `db:"price_tzs"`
	ImageURL          string        `db:"image_url"`
	Location          string        `db:"location"`
	Verified          bool          `db:"verified"`
	Featured          bool          `db:"featured"`
	Status            string        `db:"status"`
	Description       string        `db:"description"`
	Breed             string        `db:"breed"`
	Age               string        `db:"age"`
	Gender            string        `db:"gender"`
	AnimalType        string        `db:"animal_type"`
	Weight            string        `db:"weight"`
	SellerName        string        `db:"seller_name"`
	SellerPhone       string        `db:"seller_phone"`
	SellerRating      float64       `db:"seller_rating"`
	SellerDescription string        `db:"seller_description"`
	CreatedAt         time.Time     `db:"created_at"`
}

func (r livestockRow) toModel() model.LivestockItem {
	return model.LivestockItem{
		ID:          r.ID,
		Name:        r.Name,
		Category:    r.Category,
		Price:       r.Price,
		PriceTZS:    r.PriceTZS,
		Image:       r.ImageURL,
		Location:    r.Location,
		Verified:    r.Verified,
		Featured:    r.Featured,
		Status:      constant.ListingStatus(r.Status),
		Description: r.Description,
		SellerID:    uint64(r.SellerID.Int64),
		Details: model.LivestockDetails{
			Breed:  r.Breed,
			Age:    r.Age,
			Gender: r.Gender,
			Type:   r.AnimalType,
			Weight: r.Weight,
		},
		Seller: model.SellerInfo{
			Name:        r.SellerName,
			Phone:       r.SellerPhone,
			Rating:      r.SellerRating,
			Description: r.SellerDescription,
		},
		CreatedAt: r.CreatedAt,
	}
}

func (s *SQL) List(ctx context.Context, filter *model.LivestockFilter) ([]model.LivestockItem, error) {
	query := selectLivestock + " WHERE 1=1"
	args := make([]any, 0, 2)

	if filter != nil {
		if filter.Status != "" {
			query += " AND status = ?"
			args = append(args, filter.Status)
		}
		if filter.SellerID != 0 {
			query += " AND seller_id = ?"
			args = append(args, filter.SellerID)
		}
	}
	query += " ORDER BY id"

	rows, err := s.conn.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.LivestockItem, 0)
	for rows.Next() {
		var row livestockRow
		if err := rows.StructScan(&row); err != nil {
			return nil, err
		}
		items = append(items, row.toModel())
	}
	return items, rows.Err()
}

func (s *SQL) GetByID(ctx context.Context, id uint64) (*model.LivestockItem, error) {
	var row livestockRow
	if err := s.conn.QueryRowxContext(ctx, selectLivestock+" WHERE id = ?", id).StructScan(&row); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	item := row.toModel()
	return &item, nil
}

func (s *SQL) Create(ctx context.Context, item *model.LivestockItem) (*model.LivestockItem, error) {
	if item.Status == "" {
		item.Status = constant.ListingStatusAvailable
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	var sellerID sql.NullInt64
	if item.SellerID != 0 {
		sellerID = sql.NullInt64{Int64: int64(item.SellerID), Valid: true}
	}

	result, err := s.conn.ExecContext(ctx, insertLivestockQuery,
		sellerID, item.Name, item.Category, item.Price, item.PriceTZS, item.Image, item.Location,
		item.Verified, item.Featured, item.Status, item.Description,
		item.Details.Breed, item.Details.Age, item.Details.Gender, item.Details.Type, item.Details.Weight,
		item.Seller.Name, item.Seller.Phone, item.Seller.Rating, item.Seller.Description, item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	item.ID = uint64(lastID)
	return item, nil
}

func (s *SQL) UpdateVerified(ctx context.Context, id uint64, verified bool) error {
	_, err := s.conn.ExecContext(ctx, "UPDATE livestock SET verified = ? WHERE id = ?", verified, id)
	return err
}

func (s *SQL) UpdateFeatured(ctx context.Context, id uint64, featured bool) error {
	_, err := s.conn.ExecContext(ctx, "UPDATE livestock SET featured = ? WHERE id = ?", featured, id)
	return err
}

func (s *SQL) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := s.conn.GetContext(ctx, &total, "SELECT COUNT(*) FROM livestock"); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *SQL) GetByIDForUpdateTx(ctx context.Context, tx *sqlx.Tx, id uint64) (*model.LivestockItem, error) {
	var row livestockRow
	if err := tx.QueryRowxContext(ctx, selectLivestock+" WHERE id = ? FOR UPDATE", id).StructScan(&row); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	item := row.toModel()
	return &item, nil
}

func (s *SQL) UpdateStatusTx(ctx context.Context, tx *sqlx.Tx, id uint64, status constant.ListingStatus) error {
	_, err := tx.ExecContext(ctx, "UPDATE livestock SET status = ? WHERE id = ?", status, id)
	return err
}
