package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func noopLogger() zerolog.Logger {
	return zerolog.Nop()
}

func pagePayload(page, totalPages int, names ...string) map[string]any {
	auctions := make([]map[string]any, 0, len(names))
	for _, name := range names {
		auctions = append(auctions, map[string]any{
			"item_name":    name,
			"category":     "misc",
			"starting_bid": 100,
			"bin":          true,
		})
	}
	return map[string]any{
		"success":    true,
		"page":       page,
		"totalPages": totalPages,
		"auctions":   auctions,
	}
}

func auctionServer(t *testing.T, totalPages int, failPages map[int]bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var page int
		if _, err := fmt.Sscanf(r.URL.Query().Get("page"), "%d", &page); err != nil {
			t.Fatalf("无法解析 page 参数: %v", err)
		}
		if failPages[page] {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "cause": "internal error"})
			return
		}
		_ = json.NewEncoder(w).Encode(pagePayload(page, totalPages, fmt.Sprintf("Item %d-a", page), fmt.Sprintf("Item %d-b", page)))
	}))
}

func TestFetchAllMergesAllPages(t *testing.T) {
	srv := auctionServer(t, 3, nil)
	defer srv.Close()

	c := NewAuctionClient(AuctionOptions{BaseURL: srv.URL, PageConcurrency: 2, Timeout: time.Second}, nil, noopLogger())
	listings, err := c.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll 应成功: %v", err)
	}
	if len(listings) != 6 {
		t.Fatalf("期望 6 条列表, 实际 %d", len(listings))
	}

	names := make([]string, 0, len(listings))
	for _, l := range listings {
		names = append(names, l.Name)
	}
	sort.Strings(names)
	want := []string{"Item 0-a", "Item 0-b", "Item 1-a", "Item 1-b", "Item 2-a", "Item 2-b"}
	for i, name := range want {
		if names[i] != name {
			t.Fatalf("合并结果不完整: %v", names)
		}
	}
}

func TestFetchAllFirstPageFailureAbortsFetch(t *testing.T) {
	srv := auctionServer(t, 3, map[int]bool{0: true})
	defer srv.Close()

	c := NewAuctionClient(AuctionOptions{BaseURL: srv.URL, Timeout: time.Second}, nil, noopLogger())
	if _, err := c.FetchAll(context.Background()); err == nil {
		t.Fatal("首页失败时整个拉取应失败")
	}
}

func TestFetchAllToleratesSinglePageFailure(t *testing.T) {
	// Page 0 doubles as the page-count probe, so only fail a later page.
	srv := auctionServer(t, 3, map[int]bool{1: true})
	defer srv.Close()

	c := NewAuctionClient(AuctionOptions{BaseURL: srv.URL, PageConcurrency: 3, Timeout: time.Second}, nil, noopLogger())
	listings, err := c.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("单页失败不应中止: %v", err)
	}
	if len(listings) != 4 {
		t.Fatalf("应保留其余页的 4 条列表, 实际 %d", len(listings))
	}
}

func TestFetchAllBoundedConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cur := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			old := peak.Load()
			if cur <= old || peak.CompareAndSwap(old, cur) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		_ = json.NewEncoder(w).Encode(pagePayload(0, 8, "Item"))
	}))
	defer srv.Close()

	c := NewAuctionClient(AuctionOptions{BaseURL: srv.URL, PageConcurrency: 2, Timeout: time.Second}, nil, noopLogger())
	if _, err := c.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll 应成功: %v", err)
	}
	if peak.Load() > 3 { // probe request + 2 workers is the ceiling
		t.Fatalf("并发峰值超过上限: %d", peak.Load())
	}
}

func TestFetchAllRejectsSuccessFalse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false})
	}))
	defer srv.Close()

	c := NewAuctionClient(AuctionOptions{BaseURL: srv.URL, Timeout: time.Second}, nil, noopLogger())
	if _, err := c.FetchAll(context.Background()); err == nil {
		t.Fatal("success=false 应报错")
	}
}
