package api

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Gokul1734/factsense/internal/model"
	"github.com/Gokul1734/factsense/internal/service"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	logger := log.New(io.Discard, "", 0)
	svc, err := service.New(model.DefaultConfig(), logger)
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	return NewServer(model.ServerConfig{Addr: ":0"}, svc, logger)
}

func TestHandleVerify_OK(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/verify",
		strings.NewReader(`{"text": "chief minister announces a new welfare scheme today"}`))
	rec := httptest.NewRecorder()
	srv.http.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp service.VerifyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Verdict.Label == "" {
		t.Error("response missing verdict label")
	}
}

func TestHandleVerify_InsufficientInputIs400(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/verify", strings.NewReader(`{"text": "short"}`))
	rec := httptest.NewRecorder()
	srv.http.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleVerify_BadJSONIs400(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/verify", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	srv.http.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandlePredict_OK(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/predict", nil)
	rec := httptest.NewRecorder()
	srv.http.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp service.PredictResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Forecast.Alert {
		t.Error("fresh service must not alert")
	}
}

func TestHandleHealth_OK(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.http.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestCORS_PreflightAndHeader(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/verify", nil)
	rec := httptest.NewRecorder()
	srv.http.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS allow-origin header")
	}
}
