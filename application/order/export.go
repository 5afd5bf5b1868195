package order

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/chapavet/marketplace/constant"
	"github.com/chapavet/marketplace/model"
	"github.com/chapavet/marketplace/utils/errors"
	"github.com/chapavet/marketplace/utils/logger"
	"go.uber.org/zap"
)

var csvHeader = []string{
	"order_id", "created_at", "status", "listing_id", "listing_name",
	"buyer_id", "seller_id", "amount_tzs", "payment_method", "payment_reference",
}

// ExportCSV writes every order matching filter, ignoring pagination.
func (s *orderAppImpl) ExportCSV(ctx context.Context, filter *model.OrderFilter) ([]byte, error) {
	all := &model.OrderFilter{Status: filter.Status, BuyerID: filter.BuyerID}
	orders, _, err := s.orderRepo.List(ctx, all)
	if err != nil {
		logger.Error("[ExportCSV] err orderRepo.List", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(csvHeader)
	for _, o := range orders {
		_ = w.Write(csvRow(o))
	}
	w.Flush()
	if err := w.Error(); err != nil {
		logger.Error("[ExportCSV] err csv.Write", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	return buf.Bytes(), nil
}

func csvRow(o model.OrderDetail) []string {
	reference := ""
	if o.PaymentReference != nil {
		reference = *o.PaymentReference
	}
	return []string{
		strconv.FormatUint(o.ID, 10),
		o.CreatedAt.UTC().Format(time.RFC3339),
		string(o.Status),
		strconv.FormatUint(o.ListingID, 10),
		o.ListingName,
		strconv.FormatUint(o.BuyerID, 10),
		strconv.FormatUint(o.SellerID, 10),
		strconv.FormatInt(o.Amount, 10),
		string(o.PaymentMethod),
		reference,
	}
}
