package order

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

type OrderRepository interface {
	InsertOrderTx(ctx context.Context, tx *sqlx.Tx, req *model.InsertOrderTxItem) (uint64, error)
	UpdateOrderStatusTx(ctx context.Context, tx *sqlx.Tx, orderID uint64, status constant.OrderStatus) error
	SetPaymentTx(ctx context.Context, tx *sqlx.Tx, orderID uint64, reference string) error
	GetOrderDetailTx(ctx context.Context, tx *sqlx.Tx, orderID uint64) (*model.OrderDetail, error)
	List(ctx context.Context, filter *model.OrderFilter) ([]model.OrderDetail, int64, error)
	Count(ctx context.Context) (int64, error)
	SumRevenue(ctx context.Context) (int64, error)
}

func NewOrderRepository(conn *sqlx.DB) OrderRepository {
	return &SQL{conn: conn}
}

const selectOrder = `SELECT o.id, o.buyer_id, o.seller_id, o.listing_id, COALESCE(l.name, '') AS listing_name, o.amount, o.payment_method,
o.payment_reference, o.delivery_note, o.status, o.expires_at, o.created_at
FROM orders o
LEFT JOIN livestock l ON l.id = o.listing_id`

func (r *SQL) InsertOrderTx(ctx context.Context, tx *sqlx.Tx, req *model.InsertOrderTxItem) (uint64, error) {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO orders (buyer_id, seller_id, listing_id, amount, payment_method, delivery_note, status, expires_at, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		req.BuyerID, req.SellerID, req.ListingID, req.Amount, req.PaymentMethod, req.DeliveryNote, req.Status, req.ExpiresAT, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func (r *SQL) UpdateOrderStatusTx(ctx context.Context, tx *sqlx.Tx, orderID uint64, status constant.OrderStatus) error {
	_, err := tx.ExecContext(ctx, "UPDATE orders SET status = ?, updated_at = ? WHERE id = ?", status, time.Now().UTC(), orderID)
	return err
}

func (r *SQL) SetPaymentTx(ctx context.Context, tx *sqlx.Tx, orderID uint64, reference string) error {
	now := time.Now().UTC()
	_, err := tx.ExecContext(ctx, "UPDATE orders SET status = ?, payment_reference = ?, paid_at = ?, updated_at = ? WHERE id = ?",
		constant.OrderStatusPaid, reference, now, now, orderID)
	return err
}

// GetOrderDetailTx locks the order row; nil when it does not exist.
func (r *SQL) GetOrderDetailTx(ctx context.Context, tx *sqlx.Tx, orderID uint64) (*model.OrderDetail, error) {
	var detail model.OrderDetail
	row := tx.QueryRowxContext(ctx, selectOrder+" WHERE o.id = ? FOR UPDATE", orderID)
	if err := row.StructScan(&detail); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &detail, nil
}

func (r *SQL) List(ctx context.Context, filter *model.OrderFilter) ([]model.OrderDetail, int64, error) {
	where := " WHERE 1=1"
	args := make([]any, 0, 4)
	if filter.Status != "" {
		where += " AND o.status = ?"
		args = append(args, filter.Status)
	}
	if filter.BuyerID != 0 {
		where += " AND o.buyer_id = ?"
		args = append(args, filter.BuyerID)
	}

	var total int64
	if err := r.conn.GetContext(ctx, &total, "SELECT COUNT(*) FROM orders o"+where, args...); err != nil {
		return nil, 0, err
	}

	query := selectOrder + where + " ORDER BY o.id DESC"
	if filter.PerPage > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.PerPage, (filter.Page-1)*filter.PerPage)
	}

	orders := make([]model.OrderDetail, 0)
	if err := r.conn.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *SQL) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.conn.GetContext(ctx, &total, "SELECT COUNT(*) FROM orders")
	return total, err
}

// SumRevenue totals completed orders.
func (r *SQL) SumRevenue(ctx context.Context) (int64, error) {
	var total sql.NullInt64
	if err := r.conn.GetContext(ctx, &total, "SELECT COALESCE(SUM(amount), 0) FROM orders WHERE status = ?", constant.OrderStatusCompleted); err != nil {
		return 0, err
	}
	return total.Int64, nil
}
