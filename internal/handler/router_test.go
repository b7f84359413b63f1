package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stevenscomputer/site/internal/metrics"
	"github.com/stevenscomputer/site/internal/model"
	"github.com/stevenscomputer/site/internal/repository"
	"github.com/stevenscomputer/site/internal/service"
)

// memStore is an in-memory repository.ContactStore.
type memStore struct {
	mu   sync.Mutex
	rows []*model.ContactMessage
}

func (s *memStore) Insert(ctx context.Context, msg *model.ContactMessage) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := *msg
	row.ID = int64(len(s.rows) + 1)
	row.CreatedAt = time.Now()
	s.rows = append(s.rows, &row)
	return row.ID, nil
}

func (s *memStore) ListRecent(ctx context.Context, limit int) ([]*model.ContactMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.ContactMessage
	for i := len(s.rows) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.rows[i])
	}
	return out, nil
}

func (s *memStore) Ping(ctx context.Context) error { return nil }
func (s *memStore) Close()                         {}

type testServer struct {
	handler http.Handler
	gateway *repository.Gateway
	store   *memStore
}

func newTestServer(t *testing.T, debug bool) *testServer {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	gw := repository.NewGateway(repository.GatewayOptions{PoolSize: 10, QueueLimit: 100})
	store := &memStore{}
	gw.Attach(store)
	m.RegisterGatewayInFlight(gw.InFlight)

	h, err := NewRouter(RouterConfig{
		DB:             gw,
		ContactService: service.NewContactService(gw),
		Site:           testSite(),
		Metrics:        m,
		Gatherer:       reg,
		DebugEndpoints: debug,
	})
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	return &testServer{handler: h, gateway: gw, store: store}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func TestRouter_SubmitThenList(t *testing.T) {
	srv := newTestServer(t, true)

	first := srv.do("POST", "/api/contact", `{"nama":"Ana","email":"ana@example.com","pesan":"Laptop mati"}`)
	if first.Code != http.StatusOK {
		t.Fatalf("submit: expected 200, got %d: %s", first.Code, first.Body.String())
	}
	second := srv.do("POST", "/api/contact", `{"name":"Budi","email":"budi@example.com","tel":"0812"}`)
	if second.Code != http.StatusOK {
		t.Fatalf("submit: expected 200, got %d", second.Code)
	}

	var ack submitResponse
	if err := json.NewDecoder(second.Body).Decode(&ack); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !ack.Success || ack.ID != 2 {
		t.Errorf("unexpected ack %+v", ack)
	}

	rec := srv.do("GET", "/api/contacts", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rec.Code)
	}
	var listed []model.ContactMessage
	if err := json.NewDecoder(rec.Body).Decode(&listed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 contacts, got %d", len(listed))
	}
	if listed[0].Name != "Budi" || listed[0].Phone != "0812" {
		t.Errorf("expected newest first, got %+v", listed[0])
	}
	if listed[1].Name != "Ana" || listed[1].Message != "Laptop mati" {
		t.Errorf("expected synonyms normalized, got %+v", listed[1])
	}
}

func TestRouter_ListCapsAndIsStable(t *testing.T) {
	srv := newTestServer(t, true)

	const total = model.RecentContactsLimit + 5
	for i := 0; i < total; i++ {
		body := fmt.Sprintf(`{"name":"Pelanggan %d","email":"p%d@example.com"}`, i, i)
		if rec := srv.do("POST", "/api/contact", body); rec.Code != http.StatusOK {
			t.Fatalf("submit %d: expected 200, got %d", i, rec.Code)
		}
	}

	first := srv.do("GET", "/api/contacts", "")
	second := srv.do("GET", "/api/contacts", "")
	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d and %d", first.Code, second.Code)
	}
	if !bytes.Equal(first.Body.Bytes(), second.Body.Bytes()) {
		t.Error("expected identical listings without intervening writes")
	}

	var listed []model.ContactMessage
	if err := json.Unmarshal(first.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(listed) != model.RecentContactsLimit {
		t.Fatalf("expected %d contacts, got %d", model.RecentContactsLimit, len(listed))
	}
	if listed[0].ID != total {
		t.Errorf("expected newest id %d first, got %d", total, listed[0].ID)
	}
	for i := 1; i < len(listed); i++ {
		if listed[i].ID >= listed[i-1].ID {
			t.Fatalf("ids not strictly descending at %d: %d after %d", i, listed[i].ID, listed[i-1].ID)
		}
	}
}

func TestRouter_ValidationDoesNotInsert(t *testing.T) {
	srv := newTestServer(t, true)

	rec := srv.do("POST", "/api/contact", `{"name":"Ana"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if len(srv.store.rows) != 0 {
		t.Errorf("expected no rows inserted, got %d", len(srv.store.rows))
	}
}

func TestRouter_NotReadyBeforeAttach(t *testing.T) {
	srv := newTestServer(t, true)
	srv.gateway.Close()

	rec := srv.do("POST", "/api/contact", `{"name":"Ana","email":"ana@example.com"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if got := decodeError(t, rec).Error; got != msgUnavailable {
		t.Errorf("expected %q, got %q", msgUnavailable, got)
	}

	health := srv.do("GET", "/api/health", "")
	if health.Code != http.StatusServiceUnavailable {
		t.Errorf("health: expected 503, got %d", health.Code)
	}
}

func TestRouter_DebugListingGated(t *testing.T) {
	srv := newTestServer(t, false)

	rec := srv.do("GET", "/api/contacts", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 with debug endpoints off, got %d", rec.Code)
	}
}

func TestRouter_ContactWrongMethod(t *testing.T) {
	srv := newTestServer(t, true)

	rec := srv.do("GET", "/api/contact", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestRouter_StaticFallback(t *testing.T) {
	srv := newTestServer(t, false)

	rec := srv.do("GET", "/layanan", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Stevens Computer") {
		t.Errorf("expected index document, got %q", rec.Body.String())
	}
	if rec.Header().Get("Content-Security-Policy") == "" {
		t.Error("expected security headers on static responses")
	}
}

func TestRouter_RequestIDAndMetrics(t *testing.T) {
	srv := newTestServer(t, false)

	rec := srv.do("GET", "/api/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}

	metricsRec := srv.do("GET", "/metrics", "")
	if metricsRec.Code != http.StatusOK {
		t.Fatalf("metrics: expected 200, got %d", metricsRec.Code)
	}
	body := metricsRec.Body.String()
	for _, name := range []string{"http_requests_total", "contact_gateway_in_flight"} {
		if !strings.Contains(body, name) {
			t.Errorf("expected %s in metrics output", name)
		}
	}
}

func TestNewRouter_RejectsSiteWithoutIndex(t *testing.T) {
	_, err := NewRouter(RouterConfig{
		DB:             &mockDB{},
		ContactService: &mockContactService{},
		Site:           fstest.MapFS{},
	})
	if err == nil {
		t.Fatal("expected error")
	}
}
