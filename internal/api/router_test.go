package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/smartinvoice/smartinvoice/internal/api/handlers"
	"github.com/smartinvoice/smartinvoice/internal/domain"
	"github.com/smartinvoice/smartinvoice/internal/repository"
	"github.com/smartinvoice/smartinvoice/internal/totals"
)

// lookupFailingStore cannot read identifier sequences
type lookupFailingStore struct {
	*repository.MemoryStore
}

func (s *lookupFailingStore) LastIdentifier(ctx context.Context, ownerID string, docType domain.DocumentType) (string, error) {
	return "", errors.New("connection refused")
}

type testServer struct {
	t       *testing.T
	handler http.Handler
	token   string
}

func newTestServer(t *testing.T, store repository.Store) *testServer {
	t.Helper()
	svc := NewServices(store, totals.Default(), "test-secret", time.Hour)
	ts := &testServer{t: t, handler: NewRouter(svc, "")}

	rec := ts.do(http.MethodPost, "/api/v1/auth/register", `{"email":"owner@example.com","password":"correct horse","name":"Owner"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: status = %d, body = %s", rec.Code, rec.Body)
	}

	rec = ts.do(http.MethodPost, "/api/v1/auth/token", `{"email":"owner@example.com","password":"correct horse"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("token: status = %d, body = %s", rec.Code, rec.Body)
	}
	var token domain.TokenResponse
	decode(t, rec, &token)
	ts.token = token.AccessToken

	return ts
}

func (ts *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	return ts.request(method, path, body, "")
}

func (ts *testServer) authed(method, path, body string) *httptest.ResponseRecorder {
	return ts.request(method, path, body, ts.token)
}

func (ts *testServer) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body, err)
	}
}

func TestHealthAndReady(t *testing.T) {
	ts := newTestServer(t, repository.NewMemoryStore())

	if rec := ts.do(http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
		t.Errorf("/health status = %d", rec.Code)
	}
	if rec := ts.do(http.MethodGet, "/ready", ""); rec.Code != http.StatusOK {
		t.Errorf("/ready status = %d", rec.Code)
	}

	rec := ts.do(http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Errorf("/metrics status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "smartinvoice_http_requests_total") {
		t.Error("/metrics does not expose the request counter")
	}
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer(t, repository.NewMemoryStore())

	paths := []string{"/api/v1/invoices", "/api/v1/quotes", "/api/v1/clients", "/api/v1/expenses", "/api/v1/dashboard"}
	for _, path := range paths {
		if rec := ts.do(http.MethodGet, path, ""); rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without token: status = %d, want 401", path, rec.Code)
		}
		if rec := ts.request(http.MethodGet, path, "", "garbage"); rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s with bad token: status = %d, want 401", path, rec.Code)
		}
	}

	rec := ts.do(http.MethodPost, "/api/v1/auth/token", `{"email":"owner@example.com","password":"wrong password"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: status = %d, want 401", rec.Code)
	}

	rec = ts.do(http.MethodPost, "/api/v1/auth/register", `{"email":"owner@example.com","password":"another one"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate register: status = %d, want 409", rec.Code)
	}
}

func TestInvoiceLifecycle(t *testing.T) {
	ts := newTestServer(t, repository.NewMemoryStore())

	rec := ts.authed(http.MethodGet, "/api/v1/invoices/next-number", "")
	var next domain.NextIdentifierResponse
	decode(t, rec, &next)
	if next.Identifier != "INV00001" {
		t.Errorf("next-number = %q, want INV00001", next.Identifier)
	}

	body := `{
		"client_name": "Smith Construction",
		"client_email": "accounts@smith.co.za",
		"items": [
			{"description": "Site visit", "quantity": 1, "unit_amount": "100", "vat_included": true},
			{"description": "Materials", "quantity": "2", "price": 55}
		]
	}`
	rec = ts.authed(http.MethodPost, "/api/v1/invoices", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status = %d, body = %s", rec.Code, rec.Body)
	}
	if rec.Header().Get(handlers.IdentifierFallbackHeader) != "" {
		t.Error("fallback header set on a normal create")
	}

	var created domain.InvoiceCreateResponse
	decode(t, rec, &created)
	if created.Number != "INV00001" {
		t.Errorf("Number = %q, want INV00001", created.Number)
	}
	if totals.Format(created.Total) != "210.00" || totals.Format(created.Totals.VAT) != "15.00" {
		t.Errorf("totals = %+v, want total 210 vat 15", created.Totals)
	}

	rec = ts.authed(http.MethodGet, "/api/v1/invoices/"+created.ID.String(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get: status = %d", rec.Code)
	}

	rec = ts.authed(http.MethodPatch, "/api/v1/invoices/"+created.ID.String()+"/status", `{"status":"sent"}`)
	if rec.Code != http.StatusOK {
		t.Errorf("draft -> sent: status = %d, body = %s", rec.Code, rec.Body)
	}
	rec = ts.authed(http.MethodPatch, "/api/v1/invoices/"+created.ID.String()+"/status", `{"status":"accepted"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("accepted on invoice: status = %d, want 400", rec.Code)
	}
	ts.authed(http.MethodPatch, "/api/v1/invoices/"+created.ID.String()+"/status", `{"status":"paid"}`)
	rec = ts.authed(http.MethodPatch, "/api/v1/invoices/"+created.ID.String()+"/status", `{"status":"draft"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("paid -> draft: status = %d, want 409", rec.Code)
	}

	rec = ts.authed(http.MethodGet, "/api/v1/invoices/"+created.ID.String()+"/pdf", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("pdf: status = %d, body = %s", rec.Code, rec.Body)
	}
	if rec.Header().Get("Content-Type") != "application/pdf" {
		t.Errorf("pdf Content-Type = %q", rec.Header().Get("Content-Type"))
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Errorf("pdf body does not start with %%PDF")
	}

	rec = ts.authed(http.MethodGet, "/api/v1/invoices", "")
	var list []domain.Invoice
	decode(t, rec, &list)
	if len(list) != 1 {
		t.Errorf("len(list) = %d, want 1", len(list))
	}

	if rec := ts.authed(http.MethodDelete, "/api/v1/invoices/"+created.ID.String(), ""); rec.Code != http.StatusOK {
		t.Errorf("delete: status = %d", rec.Code)
	}
	if rec := ts.authed(http.MethodDelete, "/api/v1/invoices/"+created.ID.String(), ""); rec.Code != http.StatusNotFound {
		t.Errorf("second delete: status = %d, want 404", rec.Code)
	}
	if rec := ts.authed(http.MethodGet, "/api/v1/invoices/"+uuid.NewString(), ""); rec.Code != http.StatusNotFound {
		t.Errorf("get unknown: status = %d, want 404", rec.Code)
	}
	if rec := ts.authed(http.MethodGet, "/api/v1/invoices/not-a-uuid", ""); rec.Code != http.StatusNotFound {
		t.Errorf("get malformed id: status = %d, want 404", rec.Code)
	}

	rec = ts.authed(http.MethodGet, "/api/v1/invoices/next-number", "")
	decode(t, rec, &next)
	if next.Identifier != "INV00002" {
		t.Errorf("next-number after delete = %q, want INV00002", next.Identifier)
	}
}

func TestValidationErrors(t *testing.T) {
	ts := newTestServer(t, repository.NewMemoryStore())

	tests := []struct {
		path string
		body string
	}{
		{"/api/v1/invoices", `{"items":[{"quantity":1,"unit_amount":10}]}`},
		{"/api/v1/invoices", `{"client_name":"Acme"}`},
		{"/api/v1/invoices", `not json`},
		{"/api/v1/quotes", `{"total":"10"}`},
		{"/api/v1/clients", `{"name":"Acme"}`},
		{"/api/v1/expenses", `{"vendor":"Telkom","amount":"10","category":"Utilities"}`},
	}

	for _, tt := range tests {
		rec := ts.authed(http.MethodPost, tt.path, tt.body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("POST %s %s: status = %d, want 400", tt.path, tt.body, rec.Code)
			continue
		}
		var resp map[string]string
		decode(t, rec, &resp)
		if resp["error"] == "" {
			t.Errorf("POST %s: empty error message", tt.path)
		}
	}
}

func TestIdentifierFallbackIsFlagged(t *testing.T) {
	ts := newTestServer(t, &lookupFailingStore{MemoryStore: repository.NewMemoryStore()})

	rec := ts.authed(http.MethodPost, "/api/v1/quotes", `{"client_name":"Acme","total":"10"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status = %d, body = %s", rec.Code, rec.Body)
	}
	if rec.Header().Get(handlers.IdentifierFallbackHeader) != "true" {
		t.Error("fallback header not set")
	}

	var created domain.QuoteCreateResponse
	decode(t, rec, &created)
	if created.Number != "Q00001" || !created.IdentifierFallback {
		t.Errorf("created = %s fallback=%v, want Q00001 fallback=true", created.Number, created.IdentifierFallback)
	}

	// the fallback number is taken and the lookup keeps failing
	rec = ts.authed(http.MethodPost, "/api/v1/quotes", `{"client_name":"Acme","total":"10"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("second create: status = %d, want 500", rec.Code)
	}
}

func TestOwnersAreIsolated(t *testing.T) {
	store := repository.NewMemoryStore()
	ts := newTestServer(t, store)

	rec := ts.authed(http.MethodPost, "/api/v1/clients", `{"name":"Thandi","email":"thandi@example.com"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create client: status = %d, body = %s", rec.Code, rec.Body)
	}
	var client domain.Client
	decode(t, rec, &client)

	ts.do(http.MethodPost, "/api/v1/auth/register", `{"email":"other@example.com","password":"correct horse"}`)
	rec = ts.do(http.MethodPost, "/api/v1/auth/token", `{"email":"other@example.com","password":"correct horse"}`)
	var token domain.TokenResponse
	decode(t, rec, &token)

	if rec := ts.request(http.MethodGet, "/api/v1/clients/"+client.ID.String(), "", token.AccessToken); rec.Code != http.StatusNotFound {
		t.Errorf("other owner get: status = %d, want 404", rec.Code)
	}

	rec = ts.request(http.MethodGet, "/api/v1/clients", "", token.AccessToken)
	var clients []domain.Client
	decode(t, rec, &clients)
	if len(clients) != 0 {
		t.Errorf("other owner sees %d clients, want 0", len(clients))
	}
}

func TestTotalsAndCategories(t *testing.T) {
	ts := newTestServer(t, repository.NewMemoryStore())

	rec := ts.authed(http.MethodPost, "/api/v1/totals", `{"items":[
		{"quantity":1,"unit_amount":100,"vat_included":true},
		{"quantity":1,"unit_amount":-50,"vat_included":true},
		{"quantity":0,"unit_amount":999},
		{"quantity":1,"unit_amount":"abc"}
	]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("totals: status = %d, body = %s", rec.Code, rec.Body)
	}
	var sums domain.DocumentTotals
	decode(t, rec, &sums)
	if totals.Format(sums.ExclVAT) != "42.50" || totals.Format(sums.VAT) != "7.50" || totals.Format(sums.Total) != "50.00" {
		t.Errorf("totals = %s/%s/%s, want 42.50/7.50/50.00", sums.ExclVAT, sums.VAT, sums.Total)
	}

	rec = ts.authed(http.MethodGet, "/api/v1/expense-categories", "")
	var cats domain.ExpenseCategoryListResponse
	decode(t, rec, &cats)
	if len(cats.Categories) != len(domain.ExpenseCategories) {
		t.Errorf("len(categories) = %d, want %d", len(cats.Categories), len(domain.ExpenseCategories))
	}

	rec = ts.authed(http.MethodGet, "/api/v1/dashboard", "")
	if rec.Code != http.StatusOK {
		t.Errorf("dashboard: status = %d", rec.Code)
	}
}

func TestUsageWithoutRateLimiting(t *testing.T) {
	ts := newTestServer(t, repository.NewMemoryStore())

	rec := ts.authed(http.MethodGet, "/api/v1/usage", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("usage: status = %d, body = %s", rec.Code, rec.Body)
	}
	var usage handlers.UsageResponse
	decode(t, rec, &usage)
	if usage.Enabled {
		t.Error("usage reports rate limiting enabled without Redis")
	}
	if rec.Header().Get("X-RateLimit-Daily-Limit") != "" {
		t.Error("rate limit headers set without Redis")
	}
}

func TestSocialPostAndMilestones(t *testing.T) {
	ts := newTestServer(t, repository.NewMemoryStore())

	rec := ts.authed(http.MethodPost, "/api/v1/invoices", `{"client_name":"Acme","total":100}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create invoice: status = %d, body = %s", rec.Code, rec.Body)
	}

	rec = ts.authed(http.MethodGet, "/api/v1/milestones", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("milestones: status = %d, body = %s", rec.Code, rec.Body)
	}
	var progress domain.MilestoneProgress
	decode(t, rec, &progress)
	if progress.CurrentCount != 1 || progress.NextMilestone == nil || *progress.NextMilestone != 5 {
		t.Errorf("progress = %+v, want count 1 next 5", progress)
	}

	rec = ts.authed(http.MethodPost, "/api/v1/social-post", `{"milestone":1,"business_name":"Acme Plumbing"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("social post: status = %d, body = %s", rec.Code, rec.Body)
	}
	var post domain.SocialPost
	decode(t, rec, &post)
	if !strings.Contains(post.Post, "Acme Plumbing") || len(post.Hashtags) == 0 {
		t.Errorf("post = %+v", post)
	}

	tests := []struct {
		body string
		want int
	}{
		{`{}`, http.StatusBadRequest},
		{`{"milestone":"five"}`, http.StatusBadRequest},
		{`{"milestone":3}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		if rec := ts.authed(http.MethodPost, "/api/v1/social-post", tt.body); rec.Code != tt.want {
			t.Errorf("POST social-post %s: status = %d, want %d", tt.body, rec.Code, tt.want)
		}
	}

	if rec := ts.do(http.MethodGet, "/api/v1/milestones", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("milestones without token: status = %d, want 401", rec.Code)
	}
}
