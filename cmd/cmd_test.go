package cmd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-plans/app/controller"
	"github.com/vibast-solutions/ms-go-plans/app/entity"
	"github.com/vibast-solutions/ms-go-plans/app/repository"
	"github.com/vibast-solutions/ms-go-plans/app/request"
	"github.com/vibast-solutions/ms-go-plans/app/service"
	"github.com/vibast-solutions/ms-go-plans/config"
)

type stubBackend struct {
	calls []*request.Request
}

func (b *stubBackend) Call(_ context.Context, req *request.Request) ([]byte, error) {
	b.calls = append(b.calls, req)
	return []byte(`{"id":"gold","object":"plan","amount":100,"currency":"usd","interval":"month","name":"Gold"}`), nil
}

type stubRepo struct{}

func (stubRepo) Upsert(context.Context, *entity.Plan, time.Time) error { return nil }

func (stubRepo) FindByID(context.Context, string) (*entity.MirroredPlan, error) {
	return nil, repository.ErrPlanNotFound
}

func (stubRepo) List(context.Context) ([]*entity.MirroredPlan, error) {
	return []*entity.MirroredPlan{}, nil
}

func (stubRepo) Delete(context.Context, string) error { return nil }

func TestConfigureLogging(t *testing.T) {
	t.Cleanup(func() { logrus.SetLevel(logrus.InfoLevel) })

	if err := configureLogging(&config.Config{Log: config.LogConfig{Level: "debug"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logrus.GetLevel() != logrus.DebugLevel {
		t.Fatalf("expected debug level, got %v", logrus.GetLevel())
	}
	if err := configureLogging(&config.Config{Log: config.LogConfig{Level: "loud"}}); err == nil {
		t.Fatal("expected invalid level error")
	}
}

func TestNewRequestBackendSelectsImplementation(t *testing.T) {
	cfg := &config.Config{Stripe: config.StripeConfig{SecretKey: "sk_test", Backend: config.BackendHTTP, RequestTimeout: time.Second}}
	if _, ok := newRequestBackend(cfg, nil).(*request.HTTPBackend); !ok {
		t.Fatal("expected HTTPBackend")
	}

	cfg.Stripe.Backend = config.BackendStripeGo
	if _, ok := newRequestBackend(cfg, nil).(*request.StripeBackend); !ok {
		t.Fatal("expected StripeBackend")
	}

	metrics := request.NewMetrics(prometheus.NewRegistry())
	if _, ok := newRequestBackend(cfg, metrics).(*request.InstrumentedBackend); !ok {
		t.Fatal("expected InstrumentedBackend when metrics are configured")
	}
}

func TestRoutes(t *testing.T) {
	backend := &stubBackend{}
	registry := prometheus.NewRegistry()
	client := newPlanClientWithBackend(backend)
	svc := service.NewPlanService(client, stubRepo{}, config.CacheConfig{})
	e := newEcho(controller.NewPlanController(svc), registry)

	cases := []struct {
		method string
		target string
		code   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/plans/mirror", http.StatusOK},
		{http.MethodGet, "/plans/mirror/gold", http.StatusNotFound},
		{http.MethodGet, "/plans/gold", http.StatusOK},
		{http.MethodGet, "/plans", http.StatusOK},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.target, nil))
		if rec.Code != tc.code {
			t.Fatalf("%s %s: expected %d, got %d", tc.method, tc.target, tc.code, rec.Code)
		}
		if !strings.HasPrefix(rec.Header().Get("X-Request-Id"), "rest-") {
			t.Fatalf("%s %s: expected generated request id", tc.method, tc.target)
		}
	}

	if len(backend.calls) != 2 {
		t.Fatalf("expected 2 provider calls, got %d", len(backend.calls))
	}
	if backend.calls[0].Path != "/v1/plans/gold" {
		t.Fatalf("unexpected path: %s", backend.calls[0].Path)
	}
}
