package transport_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	orderapp "github.com/chapavet/marketplace/application/order"
	userapp "github.com/chapavet/marketplace/application/user"
	"github.com/chapavet/marketplace/constant"
	"github.com/chapavet/marketplace/model"
	"github.com/chapavet/marketplace/transport"
	cerr "github.com/chapavet/marketplace/utils/errors"
)

const internalKey = "internal-secret"

// stubUserApp resolves "buyer-token" and "admin-token"; every other token is rejected.
type stubUserApp struct {
	userapp.UserApp
}

func (stubUserApp) ValidateToken(_ context.Context, token string) (*model.AuthSession, error) {
	switch token {
	case "buyer-token":
		return &model.AuthSession{UserID: 7, Role: constant.RoleBuyer, SessionID: "s-buyer"}, nil
	case "admin-token":
		return &model.AuthSession{UserID: 1, Role: constant.RoleAdmin, SessionID: "s-admin"}, nil
	}
	return nil, errors.New("invalid token")
}

func (stubUserApp) GetProfile(_ context.Context, userID uint64) (*model.UserEntity, error) {
	return &model.UserEntity{ID: userID, FullName: "Asha", Role: constant.RoleBuyer}, nil
}

func (stubUserApp) ListUsers(_ context.Context, filter *model.UserListFilter) (*model.UserListResponse, error) {
	return &model.UserListResponse{Page: 1, PerPage: 20}, nil
}

type stubOrderApp struct {
	orderapp.OrderApp
	expired []uint64
}

func (s *stubOrderApp) ExpireOrder(_ context.Context, orderID uint64) error {
	s.expired = append(s.expired, orderID)
	return nil
}

func (s *stubOrderApp) SubmitPayment(_ context.Context, buyerID, orderID uint64, reference string) error {
	if orderID == 404 {
		return cerr.SetCustomError(constant.ErrNotFound)
	}
	return nil
}

func newServer(t *testing.T, rh *transport.RestHandler) *httptest.Server {
	t.Helper()
	if rh.UserApp == nil {
		rh.UserApp = stubUserApp{}
	}
	srv := httptest.NewServer(transport.NewTransport(rh, internalKey))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, token, body string) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) transport.Response {
	t.Helper()
	var env transport.Response
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func TestAuthMiddleware(t *testing.T) {
	orders := &stubOrderApp{}
	srv := newServer(t, &transport.RestHandler{OrderApp: orders})

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		body       string
		wantStatus int
		wantCode   string
	}{
		{name: "no token", method: http.MethodGet, path: "/me", wantStatus: http.StatusUnauthorized, wantCode: constant.ErrorTypeCode[constant.ErrUnauthorize]},
		{name: "bad token", method: http.MethodGet, path: "/me", token: "nope", wantStatus: http.StatusUnauthorized, wantCode: constant.ErrorTypeCode[constant.ErrUnauthorize]},
		{name: "valid token", method: http.MethodGet, path: "/me", token: "buyer-token", wantStatus: http.StatusOK, wantCode: constant.ErrorTypeCode[constant.Successful]},
		{name: "admin route as buyer", method: http.MethodGet, path: "/admin/users", token: "buyer-token", wantStatus: http.StatusForbidden, wantCode: constant.ErrorTypeCode[constant.ErrForbidden]},
		{name: "admin route as admin", method: http.MethodGet, path: "/admin/users", token: "admin-token", wantStatus: http.StatusOK, wantCode: constant.ErrorTypeCode[constant.Successful]},
		{name: "app error maps to envelope", method: http.MethodPut, path: "/orders/404/payment", token: "buyer-token", body: `{"reference":"QWE123"}`, wantStatus: http.StatusNotFound, wantCode: constant.ErrorTypeCode[constant.ErrNotFound]},
		{name: "invalid body", method: http.MethodPut, path: "/orders/5/payment", token: "buyer-token", body: `{}`, wantStatus: http.StatusBadRequest, wantCode: constant.ErrorTypeCode[constant.ErrInvalidRequest]},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, tt.method, srv.URL+tt.path, tt.token, tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if env := decodeEnvelope(t, resp); env.Code != tt.wantCode {
				t.Fatalf("code = %s, want %s", env.Code, tt.wantCode)
			}
		})
	}
}

func TestInternalMiddleware(t *testing.T) {
	orders := &stubOrderApp{}
	srv := newServer(t, &transport.RestHandler{OrderApp: orders})

	resp := do(t, http.MethodPost, srv.URL+"/internal/v1/order/12/expire", "wrong", "")
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("wrong key status = %d, want 403", resp.StatusCode)
	}
	if len(orders.expired) != 0 {
		t.Fatalf("order expired with a wrong key")
	}

	resp = do(t, http.MethodPost, srv.URL+"/internal/v1/order/12/expire", internalKey, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if len(orders.expired) != 1 || orders.expired[0] != 12 {
		t.Fatalf("expired = %v, want [12]", orders.expired)
	}
}

func TestInternalMiddleware_EmptyKeyLocksRoutes(t *testing.T) {
	orders := &stubOrderApp{}
	srv := httptest.NewServer(transport.NewTransport(&transport.RestHandler{UserApp: stubUserApp{}, OrderApp: orders}, ""))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/internal/v1/order/12/expire", nil)
	req.Header.Set("Authorization", "Bearer ")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", resp.StatusCode)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newServer(t, &transport.RestHandler{})

	for _, path := range []string{"/orders", "/chapavet-ai", "/admin/users"} {
		resp := do(t, http.MethodOptions, srv.URL+path, "", "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s preflight status = %d, want 200", path, resp.StatusCode)
		}
		if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
			t.Fatalf("%s allow-origin = %q", path, got)
		}
		if got := resp.Header.Get("Access-Control-Allow-Headers"); got != "authorization, x-client-info, apikey, content-type" {
			t.Fatalf("%s allow-headers = %q", path, got)
		}
	}
}
