package db_test

import (
	"context"
	"testing"

	"github.com/freee021022/onco/db"
	"github.com/freee021022/onco/internal/models"
	"github.com/freee021022/onco/internal/storage/storagetest"
)

func TestSeedDatabaseIsIdempotent(t *testing.T) {
	gdb := storagetest.NewDB(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := db.SeedDatabase(ctx, gdb); err != nil {
			t.Fatalf("seed run %d: %v", i+1, err)
		}
	}

	counts := map[string]struct {
		model interface{}
		want  int64
	}{
		"categories":   {&models.ForumCategory{}, 5},
		"pharmacies":   {&models.Pharmacy{}, 3},
		"testimonials": {&models.Testimonial{}, 3},
	}
	for name, c := range counts {
		var got int64
		if err := gdb.Model(c.model).Count(&got).Error; err != nil {
			t.Fatalf("count %s: %v", name, err)
		}
		if got != c.want {
			t.Fatalf("%s: expected %d rows, got %d", name, c.want, got)
		}
	}

	var pharmacy models.Pharmacy
	if err := gdb.Where("name = ?", "Farmacia Moderna").First(&pharmacy).Error; err != nil {
		t.Fatalf("load pharmacy: %v", err)
	}
	if pharmacy.ReviewCount != 28 || len(pharmacy.Specializations) != 3 {
		t.Fatalf("unexpected seeded pharmacy %+v", pharmacy)
	}
}

func TestConnectRejectsUnknownDriver(t *testing.T) {
	if _, err := db.Connect("oracle", ""); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
