package tripconfig

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

func strPtr(s string) *string { return &s }

func newRedisStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client), s
}

func TestStoreDefaults(t *testing.T) {
	store, _ := newRedisStore(t)
	cfg, err := store.Get(context.Background())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if cfg.IsConfigured() || cfg.StartDate != nil || cfg.CoupleNames != [2]string{} {
		t.Fatalf("unexpected default: %+v", cfg)
	}
}

func TestStorePartialUpdates(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	if _, err := store.Set(ctx, Update{StartDate: strPtr("2026-03-03")}); err != nil {
		t.Fatalf("set start: %v", err)
	}
	names := [2]string{"Vicente", "Ana"}
	cfg, err := store.Set(ctx, Update{EndDate: strPtr("2026-04-16"), CoupleNames: &names})
	if err != nil {
		t.Fatalf("set end: %v", err)
	}
	if !cfg.IsConfigured() || *cfg.StartDate != "2026-03-03" || cfg.CoupleNames[1] != "Ana" {
		t.Fatalf("merge lost fields: %+v", cfg)
	}

	raw, err := mr.Get(Key)
	if err != nil {
		t.Fatalf("raw get: %v", err)
	}
	if !strings.Contains(raw, `"startDate":"2026-03-03"`) || !strings.Contains(raw, `"coupleNames":["Vicente","Ana"]`) {
		t.Fatalf("unexpected stored blob: %s", raw)
	}

	reloaded, err := NewStore(redis.NewClient(&redis.Options{Addr: mr.Addr()})).Get(ctx)
	if err != nil || reloaded.TotalDays() != 45 {
		t.Fatalf("reloaded config: %+v %v", reloaded, err)
	}
}

func TestStoreRejectsBadDate(t *testing.T) {
	store := NewStore(nil)
	if _, err := store.Set(context.Background(), Update{StartDate: strPtr("3 de marzo")}); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestStoreCorruptBlob(t *testing.T) {
	store, mr := newRedisStore(t)
	_ = mr.Set(Key, "{not json")
	if _, err := store.Get(context.Background()); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestStoreInMemory(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()
	if _, err := store.Set(ctx, Update{StartDate: strPtr("2026-03-03"), EndDate: strPtr("2026-03-03")}); err != nil {
		t.Fatalf("set: %v", err)
	}
	total, remaining, err := store.Counts(ctx, time.Date(2026, 2, 28, 12, 0, 0, 0, time.UTC))
	if err != nil || total != 1 || remaining != 2 {
		t.Fatalf("counts = %d %d %v", total, remaining, err)
	}
}

func TestDaysRemaining(t *testing.T) {
	cfg := Config{StartDate: strPtr("2026-03-03")}
	cases := []struct {
		now  time.Time
		want int
	}{
		{time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 61},
		{time.Date(2026, 3, 2, 23, 0, 0, 0, time.UTC), 0},
		{time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), 0},
	}
	for _, tc := range cases {
		if got := cfg.DaysRemaining(tc.now); got != tc.want {
			t.Fatalf("DaysRemaining(%v) = %d, want %d", tc.now, got, tc.want)
		}
	}
	if (Config{}).DaysRemaining(time.Now()) != 0 || (Config{}).TotalDays() != 0 {
		t.Fatalf("unconfigured trip should count zero")
	}
}

func TestHandlers(t *testing.T) {
	orig := nowFn
	nowFn = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	defer func() { nowFn = orig }()

	store, _ := newRedisStore(t)
	app := fiber.New()
	RegisterRoutes(app.Group("/api/config"), store)

	req := httptest.NewRequest(http.MethodPut, "/api/config/", strings.NewReader(`{"startDate":"2026-03-03","endDate":"2026-04-16"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("put status: %v %d", err, resp.StatusCode)
	}

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/api/config/", nil))
	var v view
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !v.IsConfigured || v.TotalDays != 45 || v.DaysRemaining != 2 {
		t.Fatalf("unexpected view: %+v", v)
	}

	req = httptest.NewRequest(http.MethodPut, "/api/config/", strings.NewReader(`{"endDate":"mañana"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad date status = %d", resp.StatusCode)
	}
}
