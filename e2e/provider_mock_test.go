//go:build e2e
// +build e2e

package e2e

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// providerMockAddr must match STRIPE_BASE_URL of the service under test.
const providerMockAddr = "127.0.0.1:38084"

type mockPlan struct {
	ID                  string            `json:"id"`
	Object              string            `json:"object"`
	Amount              int64             `json:"amount"`
	Created             int64             `json:"created"`
	Currency            string            `json:"currency"`
	Interval            string            `json:"interval"`
	IntervalCount       int64             `json:"interval_count"`
	Livemode            bool              `json:"livemode"`
	Metadata            map[string]string `json:"metadata"`
	Name                string            `json:"name"`
	StatementDescriptor *string           `json:"statement_descriptor"`
	TrialPeriodDays     *int64            `json:"trial_period_days"`
}

type providerMock struct {
	mu    sync.Mutex
	plans map[string]*mockPlan
	order []string
}

func startProviderMock(addr string) (*http.Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	mock := &providerMock{plans: map[string]*mockPlan{}}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/plans", mock.handleCollection)
	mux.HandleFunc("/v1/plans/", mock.handleItem)

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		_ = srv.Serve(listener)
	}()
	return srv, nil
}

func (p *providerMock) handleCollection(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") == "" {
		writeProviderError(w, http.StatusUnauthorized, "invalid_request_error", "", "You did not provide an API key.")
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	switch r.Method {
	case http.MethodGet:
		limit := 10
		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, _ = strconv.Atoi(raw)
		}
		data := make([]*mockPlan, 0, limit)
		for i := len(p.order) - 1; i >= 0 && len(data) < limit; i-- {
			if item, ok := p.plans[p.order[i]]; ok {
				data = append(data, item)
			}
		}
		writeProviderJSON(w, http.StatusOK, map[string]interface{}{
			"object":   "list",
			"data":     data,
			"has_more": len(p.plans) > len(data),
			"url":      "/v1/plans",
		})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			writeProviderError(w, http.StatusBadRequest, "invalid_request_error", "", err.Error())
			return
		}
		id := r.PostForm.Get("id")
		if id == "" {
			id = fmt.Sprintf("plan_%d", time.Now().UnixNano())
		}
		if _, exists := p.plans[id]; exists {
			writeProviderError(w, http.StatusBadRequest, "invalid_request_error", "resource_already_exists", "Plan already exists.")
			return
		}

		amount, _ := strconv.ParseInt(r.PostForm.Get("amount"), 10, 64)
		intervalCount := int64(1)
		if raw := r.PostForm.Get("interval_count"); raw != "" {
			intervalCount, _ = strconv.ParseInt(raw, 10, 64)
		}
		item := &mockPlan{
			ID:            id,
			Object:        "plan",
			Amount:        amount,
			Created:       time.Now().Unix(),
			Currency:      r.PostForm.Get("currency"),
			Interval:      r.PostForm.Get("interval"),
			IntervalCount: intervalCount,
			Metadata:      map[string]string{},
			Name:          r.PostForm.Get("name"),
		}
		applyMutableFields(item, r)
		p.plans[id] = item
		p.order = append(p.order, id)
		writeProviderJSON(w, http.StatusOK, item)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (p *providerMock) handleItem(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/plans/")
	p.mu.Lock()
	defer p.mu.Unlock()

	item, ok := p.plans[id]
	if !ok {
		writeProviderError(w, http.StatusNotFound, "invalid_request_error", "resource_missing", fmt.Sprintf("No such plan: '%s'", id))
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeProviderJSON(w, http.StatusOK, item)
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			writeProviderError(w, http.StatusBadRequest, "invalid_request_error", "", err.Error())
			return
		}
		applyMutableFields(item, r)
		writeProviderJSON(w, http.StatusOK, item)
	case http.MethodDelete:
		delete(p.plans, id)
		writeProviderJSON(w, http.StatusOK, map[string]interface{}{"id": id, "object": "plan", "deleted": true})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func applyMutableFields(item *mockPlan, r *http.Request) {
	if values, ok := r.PostForm["name"]; ok {
		item.Name = values[0]
	}
	if values, ok := r.PostForm["statement_descriptor"]; ok {
		if values[0] == "" {
			item.StatementDescriptor = nil
		} else {
			value := values[0]
			item.StatementDescriptor = &value
		}
	}
	if values, ok := r.PostForm["trial_period_days"]; ok {
		days, _ := strconv.ParseInt(values[0], 10, 64)
		item.TrialPeriodDays = &days
	}
	if values, ok := r.PostForm["metadata"]; ok && values[0] == "" {
		item.Metadata = map[string]string{}
	}
	for key, values := range r.PostForm {
		if strings.HasPrefix(key, "metadata[") && strings.HasSuffix(key, "]") {
			item.Metadata[strings.TrimSuffix(strings.TrimPrefix(key, "metadata["), "]")] = values[0]
		}
	}
}

func writeProviderJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Request-Id", fmt.Sprintf("req_%d", time.Now().UnixNano()))
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

func writeProviderError(w http.ResponseWriter, statusCode int, errType, code, message string) {
	writeProviderJSON(w, statusCode, map[string]interface{}{
		"error": map[string]interface{}{
			"type":    errType,
			"code":    code,
			"message": message,
		},
	})
}
