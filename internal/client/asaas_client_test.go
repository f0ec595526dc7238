package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestAsaasClient_BaseURL(t *testing.T) {
	t.Parallel()

	c := NewAsaasClient("https://sandbox.example/api/v3/", "https://prod.example/v3", time.Second)

	cases := map[string]string{
		"production":  "https://prod.example/v3",
		" PRODUCTION": "https://prod.example/v3",
		"sandbox":     "https://sandbox.example/api/v3",
		"":            "https://sandbox.example/api/v3",
		"staging":     "https://sandbox.example/api/v3",
	}
	for env, want := range cases {
		if got := c.BaseURL(env); got != want {
			t.Fatalf("BaseURL(%q): expected %q, got %q", env, want, got)
		}
	}
}

func TestAsaasClient_CancelCharge_Success(t *testing.T) {
	t.Parallel()

	var (
		gotMethod string
		gotPath   string
		gotKey    string
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotKey = r.Header.Get("access_token")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"deleted":true,"id":"pay_123"}`))
	}))
	defer srv.Close()

	c := NewAsaasClient(srv.URL, "http://unused.invalid", time.Second)

	raw, err := c.CancelCharge(context.Background(), "key-abc", "sandbox", "pay_123")
	if err != nil {
		t.Fatalf("CancelCharge() error: %v", err)
	}

	if gotMethod != http.MethodDelete {
		t.Fatalf("expected DELETE, got %s", gotMethod)
	}
	if gotPath != "/payments/pay_123" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotKey != "key-abc" {
		t.Fatalf("expected access_token header, got %q", gotKey)
	}

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("failed to decode relayed body: %v", err)
	}
	if body["deleted"] != true {
		t.Fatalf("expected relayed body, got %v", body)
	}
}

func TestAsaasClient_UpdateCharge_SendsChargeBody(t *testing.T) {
	t.Parallel()

	var (
		gotMethod string
		gotCT     string
		gotBody   []byte
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotCT = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{"id":"pay_9","value":150}`))
	}))
	defer srv.Close()

	c := NewAsaasClient("http://unused.invalid", srv.URL, time.Second)

	raw, err := c.UpdateCharge(context.Background(), "k", "production", "pay_9",
		json.RawMessage(`{"value":150,"dueDate":"2026-11-01"}`))
	if err != nil {
		t.Fatalf("UpdateCharge() error: %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Fatalf("expected POST, got %s", gotMethod)
	}
	if gotCT != "application/json" {
		t.Fatalf("expected json content type, got %q", gotCT)
	}

	var sent map[string]any
	if err := json.Unmarshal(gotBody, &sent); err != nil {
		t.Fatalf("failed to decode sent body: %v body=%q", err, string(gotBody))
	}
	if sent["dueDate"] != "2026-11-01" {
		t.Fatalf("expected dueDate forwarded, got %v", sent)
	}
	if !strings.Contains(string(raw), `"pay_9"`) {
		t.Fatalf("expected upstream body relayed, got %s", raw)
	}
}

func TestAsaasClient_UpstreamErrorCarriesStatusAndDescription(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errors":[{"code":"invalid_action","description":"Cobrança não encontrada."}]}`))
	}))
	defer srv.Close()

	c := NewAsaasClient(srv.URL, srv.URL, time.Second)

	_, err := c.CancelCharge(context.Background(), "k", "sandbox", "nope")

	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected *UpstreamError, got %T %v", err, err)
	}
	if ue.Status != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", ue.Status)
	}
	if ue.Message != "Cobrança não encontrada." {
		t.Fatalf("unexpected message %q", ue.Message)
	}
}

func TestAsaasClient_UpstreamErrorWithoutDescriptionUsesFallback(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	c := NewAsaasClient(srv.URL, srv.URL, time.Second)

	_, err := c.UpdateCharge(context.Background(), "k", "sandbox", "pay_1", nil)

	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected *UpstreamError, got %T %v", err, err)
	}
	if ue.Status != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", ue.Status)
	}
	if ue.Message != msgUpdateFailed {
		t.Fatalf("expected fallback message, got %q", ue.Message)
	}
}

func TestAsaasClient_EmptySuccessBodyBecomesEmptyObject(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewAsaasClient(srv.URL, srv.URL, time.Second)

	raw, err := c.CancelCharge(context.Background(), "k", "sandbox", "pay_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(raw) != "{}" {
		t.Fatalf("expected {}, got %s", raw)
	}
}

func TestAsaasClient_TransportFailureIsNotUpstreamError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewAsaasClient(url, url, time.Second)

	_, err := c.CancelCharge(context.Background(), "k", "sandbox", "pay_1")
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	var ue *UpstreamError
	if errors.As(err, &ue) {
		t.Fatalf("did not expect *UpstreamError for transport failure, got %v", ue)
	}
}
