package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLoggingMiddleware_PassesThroughAndCapturesStatus(t *testing.T) {
	var rec *statusRecorder
	handler := loggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec, _ = w.(*statusRecorder)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, rr.Code)
	}
	if body := rr.Body.String(); body != "ok" {
		t.Fatalf("expected body %q, got %q", "ok", body)
	}
	if rec == nil || rec.status != http.StatusCreated {
		t.Fatalf("expected recorder to capture %d, got %+v", http.StatusCreated, rec)
	}
}

func TestLoggingMiddleware_DefaultStatusIsOK(t *testing.T) {
	var rec *statusRecorder
	handler := loggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec, _ = w.(*statusRecorder)
		_, _ = w.Write([]byte("implicit"))
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/charges/cancel", nil))

	if rr.Code != http.StatusOK || rec == nil || rec.status != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestLoggingMiddleware_KeepsResponseControllerFeatures(t *testing.T) {
	var flushErr error
	handler := loggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("chunk"))
		flushErr = http.NewResponseController(w).Flush()
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/health", nil))

	if flushErr != nil {
		t.Fatalf("expected flush through middleware, got %v", flushErr)
	}
	if !rr.Flushed {
		t.Fatalf("expected underlying recorder to be flushed")
	}
}
