package order

import (
	"context"
	"fmt"
	"time"

	"github.com/chapavet/marketplace/cmd/config"
	"github.com/chapavet/marketplace/constant"
	"github.com/chapavet/marketplace/model"
	livestockrepo "github.com/chapavet/marketplace/repository/livestock"
	orderrepo "github.com/chapavet/marketplace/repository/order"
	txrepo "github.com/chapavet/marketplace/repository/tx"
	"github.com/chapavet/marketplace/thirdparty/rabbitmq"
	"github.com/chapavet/marketplace/utils/cache"
	"github.com/chapavet/marketplace/utils/errors"
	"github.com/chapavet/marketplace/utils/logger"
	"go.uber.org/zap"
)

type OrderApp interface {
	CreateOrder(ctx context.Context, buyerID uint64, req *model.OrderRequest) (*model.OrderResponse, error)
	SubmitPayment(ctx context.Context, buyerID, orderID uint64, reference string) error
	CancelOrder(ctx context.Context, buyerID, orderID uint64) error
	ExpireOrder(ctx context.Context, orderID uint64) error
	UpdateStatus(ctx context.Context, orderID uint64, status constant.OrderStatus) error
	ListOrders(ctx context.Context, filter *model.OrderFilter) (*model.OrderListResponse, error)
	ListMyOrders(ctx context.Context, buyerID uint64, page, perPage int) (*model.OrderListResponse, error)
	ExportCSV(ctx context.Context, filter *model.OrderFilter) ([]byte, error)
}

// Publisher is satisfied by *rabbitmq.Publisher.
type Publisher interface {
	PublishOrderExpiration(msg rabbitmq.OrderExpirationMessage) error
	PublishNotification(msg rabbitmq.NotificationMessage) error
}

type orderAppImpl struct {
	config        *config.Config
	txRepo        txrepo.TxRepository
	orderRepo     orderrepo.OrderRepository
	livestockRepo livestockrepo.LivestockRepository
	catalog       *cache.Cache
	publisher     Publisher
}

// NewOrderApp wires the order flows. publisher may be nil; catalog may be nil.
func NewOrderApp(config *config.Config, txRepo txrepo.TxRepository, orderRepo orderrepo.OrderRepository, livestockRepo livestockrepo.LivestockRepository, catalog *cache.Cache, publisher Publisher) OrderApp {
	return &orderAppImpl{
		config:        config,
		txRepo:        txRepo,
		orderRepo:     orderRepo,
		livestockRepo: livestockRepo,
		catalog:       catalog,
		publisher:     publisher,
	}
}

func (s *orderAppImpl) CreateOrder(ctx context.Context, buyerID uint64, req *model.OrderRequest) (*model.OrderResponse, error) {
	tx, err := s.txRepo.BeginTx(ctx)
	if err != nil {
		logger.Error("[CreateOrder] begin tx", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.txRepo.RollbackTx(tx)
		}
	}()

	listing, err := s.livestockRepo.GetByIDForUpdateTx(ctx, tx, req.ListingID)
	if err != nil {
		logger.Error("[CreateOrder] get listing", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if listing == nil {
		return nil, errors.SetCustomError(constant.ErrNotFound)
	}
	if listing.Status != constant.ListingStatusAvailable {
		logger.Info("[CreateOrder] listing unavailable", zap.Uint64("listing_id", listing.ID), zap.String("status", string(listing.Status)))
		return nil, errors.SetCustomError(constant.ErrListingUnavailable)
	}
	if listing.SellerID == buyerID {
		return nil, errors.SetCustomError(constant.ErrForbidden)
	}

	expiresAt := time.Now().Add(s.config.Order.OrderExpiration).UTC()
	orderID, err := s.orderRepo.InsertOrderTx(ctx, tx, &model.InsertOrderTxItem{
		BuyerID:       buyerID,
		SellerID:      listing.SellerID,
		ListingID:     listing.ID,
		Amount:        listing.PriceTZS,
		PaymentMethod: req.PaymentMethod,
		DeliveryNote:  req.DeliveryNote,
		Status:        constant.OrderStatusPending,
		ExpiresAT:     expiresAt,
	})
	if err != nil {
		logger.Error("[CreateOrder] insert order", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	if err := s.livestockRepo.UpdateStatusTx(ctx, tx, listing.ID, constant.ListingStatusReserved); err != nil {
		logger.Error("[CreateOrder] reserve listing", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	if err := s.txRepo.CommitTx(tx); err != nil {
		logger.Error("[CreateOrder] commit tx", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	committed = true
	s.invalidateCatalog()

	if s.publisher != nil {
		msg := rabbitmq.OrderExpirationMessage{OrderID: orderID, BuyerID: buyerID, ExpiresAt: expiresAt}
		if err := s.publisher.PublishOrderExpiration(msg); err != nil {
			logger.Error("[CreateOrder] publish order expiration", zap.String("error", err.Error()))
		}
		s.notify(rabbitmq.NotificationMessage{
			UserID: listing.SellerID,
			Kind:   constant.NotificationOrderCreated,
			Title:  "New order",
			Body:   fmt.Sprintf("Order #%d was placed for %s", orderID, listing.Name),
		})
	}

	return &model.OrderResponse{
		OrderID:   orderID,
		Amount:    listing.PriceTZS,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *orderAppImpl) SubmitPayment(ctx context.Context, buyerID, orderID uint64, reference string) error {
	return s.transition(ctx, "SubmitPayment", orderID, constant.OrderStatusPaid, reference, ownedPending(buyerID))
}

func (s *orderAppImpl) CancelOrder(ctx context.Context, buyerID, orderID uint64) error {
	return s.transition(ctx, "CancelOrder", orderID, constant.OrderStatusCanceled, "", ownedPending(buyerID))
}

// ExpireOrder cancels an order that is still pending; any other status is left alone.
func (s *orderAppImpl) ExpireOrder(ctx context.Context, orderID uint64) error {
	err := s.transition(ctx, "ExpireOrder", orderID, constant.OrderStatusCanceled, "", func(o *model.OrderDetail) error {
		if o.Status != constant.OrderStatusPending {
			return errSkip
		}
		return nil
	})
	if err == errSkip {
		return nil
	}
	return err
}

func (s *orderAppImpl) UpdateStatus(ctx context.Context, orderID uint64, status constant.OrderStatus) error {
	return s.transition(ctx, "UpdateStatus", orderID, status, "", nil)
}

var errSkip = fmt.Errorf("order: transition skipped")

func ownedPending(buyerID uint64) func(o *model.OrderDetail) error {
	return func(o *model.OrderDetail) error {
		if o.BuyerID != buyerID {
			return errors.SetCustomError(constant.ErrNotFound)
		}
		if o.Status != constant.OrderStatusPending {
			return errors.SetCustomError(constant.ErrInvalidOrderStatus)
		}
		return nil
	}
}

// transition moves an order to next inside a transaction, applying the
// listing side effect. check runs against the locked row before anything changes.
func (s *orderAppImpl) transition(ctx context.Context, method string, orderID uint64, next constant.OrderStatus, reference string, check func(o *model.OrderDetail) error) error {
	tx, err := s.txRepo.BeginTx(ctx)
	if err != nil {
		logger.Error("["+method+"] begin tx", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.txRepo.RollbackTx(tx)
		}
	}()

	order, err := s.orderRepo.GetOrderDetailTx(ctx, tx, orderID)
	if err != nil {
		logger.Error("["+method+"] get order detail", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	if order == nil {
		return errors.SetCustomError(constant.ErrNotFound)
	}
	if check != nil {
		if err := check(order); err != nil {
			return err
		}
	}
	if !order.Status.CanTransitionTo(next) {
		return errors.SetCustomError(constant.ErrInvalidOrderStatus)
	}

	if next == constant.OrderStatusPaid && reference != "" {
		err = s.orderRepo.SetPaymentTx(ctx, tx, orderID, reference)
	} else {
		err = s.orderRepo.UpdateOrderStatusTx(ctx, tx, orderID, next)
	}
	if err != nil {
		logger.Error("["+method+"] update status", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}

	if listingStatus, ok := listingStatusFor(next); ok {
		if err := s.livestockRepo.UpdateStatusTx(ctx, tx, order.ListingID, listingStatus); err != nil {
			logger.Error("["+method+"] update listing status", zap.String("error", err.Error()))
			return errors.SetCustomError(constant.ErrInternal)
		}
	}

	if err := s.txRepo.CommitTx(tx); err != nil {
		logger.Error("["+method+"] commit tx", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	committed = true

	if _, ok := listingStatusFor(next); ok {
		s.invalidateCatalog()
	}
	s.notify(rabbitmq.NotificationMessage{
		UserID: order.BuyerID,
		Kind:   constant.NotificationOrderStatus,
		Title:  "Order update",
		Body:   fmt.Sprintf("Order #%d is now %s", order.ID, next),
	})
	return nil
}

func listingStatusFor(next constant.OrderStatus) (constant.ListingStatus, bool) {
	switch next {
	case constant.OrderStatusCanceled:
		return constant.ListingStatusAvailable, true
	case constant.OrderStatusCompleted:
		return constant.ListingStatusSold, true
	}
	return "", false
}

func (s *orderAppImpl) ListOrders(ctx context.Context, filter *model.OrderFilter) (*model.OrderListResponse, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 || filter.PerPage > 100 {
		filter.PerPage = 20
	}

	orders, total, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		logger.Error("[ListOrders] err orderRepo.List", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	return &model.OrderListResponse{
		Items:      orders,
		TotalCount: total,
		Page:       filter.Page,
		PerPage:    filter.PerPage,
	}, nil
}

func (s *orderAppImpl) ListMyOrders(ctx context.Context, buyerID uint64, page, perPage int) (*model.OrderListResponse, error) {
	return s.ListOrders(ctx, &model.OrderFilter{BuyerID: buyerID, Page: page, PerPage: perPage})
}

func (s *orderAppImpl) invalidateCatalog() {
	if s.catalog != nil {
		s.catalog.Remove(constant.CatalogCacheKey)
	}
}

func (s *orderAppImpl) notify(msg rabbitmq.NotificationMessage) {
	if s.publisher == nil || msg.UserID == 0 {
		return
	}
	if err := s.publisher.PublishNotification(msg); err != nil {
		logger.Error("[Order] publish notification", zap.String("error", err.Error()))
	}
}
