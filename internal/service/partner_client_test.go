package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shopcore_api/internal/config"
)

func newTestClient(bulkTimeout, itemTimeout time.Duration) *PartnerClient {
	return NewPartnerClient(&config.SyncConfig{
		BulkTimeout:       bulkTimeout,
		OfferTimeout:      itemTimeout,
		RequestsPerMinute: 6000,
	})
}

func TestFetchProducts_ParsesPage(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"data": [
				{"id": 101, "name": "Футболка", "quantity": 5, "max_price": 450.0, "category_id": 7},
				{"id": 102, "name": "Худі", "quantity": 0, "is_archived": true}
			],
			"total": 125
		}`)
	}))
	defer srv.Close()

	client := newTestClient(2*time.Second, 2*time.Second)
	cred := Credentials{ApiURL: srv.URL, ApiKey: "secret-key"}

	items, total, err := client.FetchProducts(context.Background(), cred, 1, 50)
	if err != nil {
		t.Fatalf("拉取商品失败: %v", err)
	}

	if gotAuth != "Bearer secret-key" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer secret-key")
	}
	if total != 125 {
		t.Errorf("total = %d, want 125", total)
	}
	if len(items) != 2 {
		t.Fatalf("商品数 = %d, want 2", len(items))
	}
	if items[0].ID != 101 || items[0].MaxPrice != 450.0 {
		t.Errorf("首条商品解析错误: %+v", items[0])
	}
	if !items[1].IsArchived {
		t.Error("第二条商品应为归档状态")
	}
}

func TestDoGet_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := newTestClient(2*time.Second, 2*time.Second)
	_, _, err := client.FetchCategories(context.Background(), Credentials{ApiURL: srv.URL}, 1, 1000)
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("err = %v, want ErrRateLimited", err)
	}
}

func TestDoGet_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, "internal failure")
	}))
	defer srv.Close()

	client := newTestClient(2*time.Second, 2*time.Second)
	_, _, err := client.FetchProducts(context.Background(), Credentials{ApiURL: srv.URL}, 1, 50)

	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("err = %v, want *UpstreamError", err)
	}
	if upErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", upErr.StatusCode)
	}
}

func TestDoGet_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		fmt.Fprint(w, `{"data": []}`)
	}))
	defer srv.Close()

	// 单商品接口超时档设小，触发传输层超时
	client := newTestClient(2*time.Second, 50*time.Millisecond)
	_, err := client.FetchOffers(context.Background(), Credentials{ApiURL: srv.URL}, 101)
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("err = %v, want ErrTimeout", err)
	}
}

func TestSizeName(t *testing.T) {
	offer := ExternalOffer{Properties: []OfferProperty{{Name: "Розмір", Value: "M"}, {Name: "Колір", Value: "Чорний"}}}
	if got := offer.SizeName(); got != "M" {
		t.Errorf("SizeName = %q, want %q", got, "M")
	}

	empty := ExternalOffer{}
	if got := empty.SizeName(); got != "" {
		t.Errorf("无属性 offer SizeName = %q, want 空串", got)
	}
}
