package transport

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/chapavet/marketplace/constant"
	"github.com/chapavet/marketplace/model"
)

// CreateOrder handler
// @Summary Place an order
// @Description Reserves the listing and starts the payment window.
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.OrderRequest true "Order"
// @Success 200 {object} model.OrderResponse
// @Failure 409 {object} Response
// @Router /orders [post]
func (s *RestHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req model.OrderRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	res, err := s.OrderApp.CreateOrder(r.Context(), userID, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, res)
}

// ListMyOrders handler
// @Summary The caller's orders
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param per_page query int false "Per page"
// @Success 200 {object} model.OrderListResponse
// @Router /orders [get]
func (s *RestHandler) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	res, err := s.OrderApp.ListMyOrders(r.Context(), userID, queryInt(r, "page"), queryInt(r, "per_page"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, res)
}

// SubmitPayment handler
// @Summary Submit a payment reference
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Param request body model.PaymentRequest true "Payment"
// @Success 200 {object} Response
// @Failure 409 {object} Response
// @Router /orders/{id}/payment [put]
func (s *RestHandler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	orderID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req model.PaymentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := s.OrderApp.SubmitPayment(r.Context(), userID, orderID, req.Reference); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, nil)
}

// CancelOrder handler
// @Summary Cancel a pending order
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {object} Response
// @Router /orders/{id}/cancel [put]
func (s *RestHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	orderID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.OrderApp.CancelOrder(r.Context(), userID, orderID); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, nil)
}

// ListOrders handler
// @Summary All orders
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status"
// @Param buyer_id query int false "Buyer"
// @Param page query int false "Page"
// @Param per_page query int false "Per page"
// @Success 200 {object} model.OrderListResponse
// @Router /admin/orders [get]
func (s *RestHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	res, err := s.OrderApp.ListOrders(r.Context(), orderFilter(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, res)
}

// ExportOrders handler
// @Summary Export orders as CSV
// @Tags Admin
// @Produce text/csv
// @Security BearerAuth
// @Param status query string false "Status"
// @Param buyer_id query int false "Buyer"
// @Success 200 {string} string
// @Router /admin/orders/export [get]
func (s *RestHandler) ExportOrders(w http.ResponseWriter, r *http.Request) {
	data, err := s.OrderApp.ExportCSV(r.Context(), orderFilter(r))
	if err != nil {
		writeError(w, err)
		return
	}

	filename := fmt.Sprintf("orders-%s.csv", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// UpdateOrderStatus handler
// @Summary Move an order through its lifecycle
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Param request body model.UpdateOrderStatusRequest true "Status"
// @Success 200 {object} Response
// @Failure 409 {object} Response
// @Router /admin/orders/{id}/status [put]
func (s *RestHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req model.UpdateOrderStatusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := s.OrderApp.UpdateStatus(r.Context(), orderID, req.Status); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, nil)
}

// ExpireOrder handler
// @Summary Expire an unpaid order
// @Description Called by the consume worker when the payment window closes.
// @Tags Internal
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} Response
// @Router /internal/v1/order/{id}/expire [post]
func (s *RestHandler) ExpireOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.OrderApp.ExpireOrder(r.Context(), orderID); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, nil)
}

func orderFilter(r *http.Request) *model.OrderFilter {
	q := r.URL.Query()
	buyerID, _ := strconv.ParseUint(q.Get("buyer_id"), 10, 64)
	return &model.OrderFilter{
		Status:  constant.OrderStatus(q.Get("status")),
		BuyerID: buyerID,
		Page:    queryInt(r, "page"),
		PerPage: queryInt(r, "per_page"),
	}
}
