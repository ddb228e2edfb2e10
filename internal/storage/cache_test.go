package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"

	"github.com/freee021022/onco/internal/models"
	"github.com/freee021022/onco/internal/storage"
)

type countingStore struct {
	storage.Storage
	pharmacyCalls int
	regionCalls   int
	pharmacies    []models.Pharmacy
}

func (s *countingStore) GetPharmacies(ctx context.Context) ([]models.Pharmacy, error) {
	s.pharmacyCalls++
	return s.pharmacies, nil
}

func (s *countingStore) GetPharmaciesByRegion(ctx context.Context, region string) ([]models.Pharmacy, error) {
	s.regionCalls++
	var out []models.Pharmacy
	for _, p := range s.pharmacies {
		if p.Region == region {
			out = append(out, p)
		}
	}
	return out, nil
}

func newCache(t *testing.T, inner storage.Storage) (*storage.CachedStorage, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return storage.NewCachedStorage(inner, rdb, time.Minute), mr
}

func TestCachedStorageServesSecondReadFromRedis(t *testing.T) {
	inner := &countingStore{pharmacies: []models.Pharmacy{
		{ID: 1, Name: "Farmacia San Paolo", Region: "Lombardia"},
		{ID: 2, Name: "Farmacia Centrale", Region: "Lazio"},
	}}
	cache, mr := newCache(t, inner)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := cache.GetPharmacies(ctx)
		if err != nil {
			t.Fatalf("GetPharmacies: %v", err)
		}
		if len(got) != 2 || got[0].Name != "Farmacia San Paolo" {
			t.Fatalf("unexpected pharmacies: %+v", got)
		}
	}

	if inner.pharmacyCalls != 1 {
		t.Fatalf("expected 1 store call, got %d", inner.pharmacyCalls)
	}
	if !mr.Exists("onconet:pharmacies:all") {
		t.Fatalf("expected cache key to be written")
	}
	if ttl := mr.TTL("onconet:pharmacies:all"); ttl != time.Minute {
		t.Fatalf("expected ttl 1m, got %s", ttl)
	}
}

func TestCachedStorageKeysFiltersSeparately(t *testing.T) {
	inner := &countingStore{pharmacies: []models.Pharmacy{
		{ID: 1, Region: "Lombardia"},
		{ID: 2, Region: "Lazio"},
	}}
	cache, _ := newCache(t, inner)
	ctx := context.Background()

	lombardia, err := cache.GetPharmaciesByRegion(ctx, "Lombardia")
	if err != nil {
		t.Fatalf("GetPharmaciesByRegion: %v", err)
	}
	lazio, err := cache.GetPharmaciesByRegion(ctx, "Lazio")
	if err != nil {
		t.Fatalf("GetPharmaciesByRegion: %v", err)
	}

	if len(lombardia) != 1 || lombardia[0].ID != 1 {
		t.Fatalf("unexpected Lombardia result: %+v", lombardia)
	}
	if len(lazio) != 1 || lazio[0].ID != 2 {
		t.Fatalf("unexpected Lazio result: %+v", lazio)
	}
	if inner.regionCalls != 2 {
		t.Fatalf("expected 2 store calls, got %d", inner.regionCalls)
	}
}

func TestCachedStorageFallsBackWhenRedisIsDown(t *testing.T) {
	inner := &countingStore{pharmacies: []models.Pharmacy{{ID: 1}}}
	cache, mr := newCache(t, inner)
	mr.Close()

	got, err := cache.GetPharmacies(context.Background())
	if err != nil {
		t.Fatalf("expected fallback to store, got %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 pharmacy, got %d", len(got))
	}
}

func TestCachedStorageDiscardsCorruptEntries(t *testing.T) {
	inner := &countingStore{pharmacies: []models.Pharmacy{{ID: 7}}}
	cache, mr := newCache(t, inner)

	if err := mr.Set("onconet:pharmacies:all", "{not json"); err != nil {
		t.Fatalf("seed redis: %v", err)
	}

	got, err := cache.GetPharmacies(context.Background())
	if err != nil {
		t.Fatalf("GetPharmacies: %v", err)
	}
	if len(got) != 1 || got[0].ID != 7 {
		t.Fatalf("unexpected pharmacies: %+v", got)
	}
	if inner.pharmacyCalls != 1 {
		t.Fatalf("expected store to be read once, got %d", inner.pharmacyCalls)
	}
}
