package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

func TestHealthEndpoint(t *testing.T) {
	srv := New(nil, nil)

	req := httptest.NewRequest("GET", "/api/health", nil)
	resp, err := srv.App().Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var health map[string]string
	if err := json.Unmarshal(body, &health); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if health["status"] != "ok" {
		t.Errorf("status: got %q, want %q", health["status"], "ok")
	}
}

func TestExtractRequiresFile(t *testing.T) {
	srv := New(nil, nil)

	req := httptest.NewRequest("POST", "/api/extract", nil)
	resp, err := srv.App().Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}

	var er ExtractResponse
	body, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(body, &er); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if er.Success {
		t.Error("success should be false")
	}
	if er.Transactions == nil {
		t.Error("transactions must marshal as [], not null")
	}
}

func TestExtractRejectsNonPDF(t *testing.T) {
	srv := New(nil, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "statement.txt")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte("not a pdf"))
	mw.Close()

	req := httptest.NewRequest("POST", "/api/extract", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := srv.App().Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestExtractRejectsUnknownType(t *testing.T) {
	srv := New(nil, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "statement.pdf")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte("%PDF-1.4"))
	mw.WriteField("type", "cheque")
	mw.Close()

	req := httptest.NewRequest("POST", "/api/extract", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := srv.App().Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := New(nil, prometheus.NewRegistry())

	req := httptest.NewRequest("GET", "/metrics", nil)
	resp, err := srv.App().Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if !bytes.Contains(body, []byte("statement_records_parsed_total")) {
		t.Error("metrics output should expose the extraction counters")
	}
}
