package fetcher

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestBazaarFetchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"products": map[string]any{
				"ENCHANTED_COAL": map[string]any{
					"quick_status": map[string]any{"buyPrice": 10.04, "sellPrice": 9.26},
				},
				"ONE_SIDED": map[string]any{
					"quick_status": map[string]any{"buyPrice": 5.0},
				},
			},
		})
	}))
	defer srv.Close()

	c := NewBazaarClient(BazaarOptions{BaseURL: srv.URL, Timeout: time.Second}, noopLogger())
	products, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch 应成功: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("期望 2 个产品, 实际 %d", len(products))
	}

	coal := products["ENCHANTED_COAL"].QuickStatus
	if coal.BuyPrice == nil || coal.SellPrice == nil {
		t.Fatal("完整报价的买卖价都应存在")
	}

	oneSided := products["ONE_SIDED"].QuickStatus
	if oneSided.SellPrice != nil {
		t.Fatal("缺失的卖价应解码为 nil")
	}
}

func TestBazaarFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "cause": "throttled"})
	}))
	defer srv.Close()

	c := NewBazaarClient(BazaarOptions{BaseURL: srv.URL, Timeout: time.Second}, noopLogger())
	if _, err := c.Fetch(context.Background()); err == nil {
		t.Fatal("HTTP 503 应返回错误")
	}
}

func TestBazaarFetchRejectsSuccessFalse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false})
	}))
	defer srv.Close()

	c := NewBazaarClient(BazaarOptions{BaseURL: srv.URL, Timeout: time.Second}, noopLogger())
	if _, err := c.Fetch(context.Background()); err == nil {
		t.Fatal("success=false 应报错")
	}
}
