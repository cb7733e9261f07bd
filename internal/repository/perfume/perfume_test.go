package perfume

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"essenza-backend/internal/domain"
	"essenza-backend/internal/migrate"
)

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE recovery_attempts, coupons, cart_items, carts, profiles, perfumes CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
	return pool
}

func cents(v int64) *int64 { return &v }

func seedCatalog(ctx context.Context, t *testing.T, repo Repository) {
	t.Helper()
	for _, p := range []domain.Perfume{
		{Slug: "oud-royal", Name: "Oud Royal", Brand: "Maison Noir", Notes: "oud, rose", PriceFullCents: 50000, Price5mlCents: cents(6000), Active: true},
		{Slug: "citrus-verde", Name: "Citrus Verde", Brand: "Verde & Co", Notes: "bergamot", PriceFullCents: 30000, Active: true},
		{Slug: "retired", Name: "Retired Scent", Brand: "Maison Noir", PriceFullCents: 20000, Active: false},
	} {
		if _, err := repo.Upsert(ctx, p); err != nil {
			t.Fatalf("Upsert %s: %v", p.Slug, err)
		}
	}
}

func TestPostgres_Search(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	repo := NewPostgres(pool, nil)
	seedCatalog(ctx, t, repo)

	// Query matches notes case-insensitively; inactive rows never surface.
	got, total, err := repo.Search(ctx, SearchInput{Query: "OUD"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if total != 1 || len(got) != 1 || got[0].Slug != "oud-royal" {
		t.Fatalf("expected oud-royal only, got total=%d %+v", total, got)
	}

	got, total, err = repo.Search(ctx, SearchInput{Brand: "maison"})
	if err != nil {
		t.Fatalf("Search by brand: %v", err)
	}
	if total != 1 || got[0].Slug != "oud-royal" {
		t.Fatalf("expected active Maison Noir perfume only, got total=%d", total)
	}

	got, total, err = repo.Search(ctx, SearchInput{MaxPriceCents: cents(40000)})
	if err != nil {
		t.Fatalf("Search by price: %v", err)
	}
	if total != 1 || got[0].Slug != "citrus-verde" {
		t.Fatalf("expected citrus-verde under 40000 cents, got total=%d", total)
	}
}

func TestPostgres_UpsertUpdatesBySlug(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	repo := NewPostgres(pool, nil)

	first, err := repo.Upsert(ctx, domain.Perfume{Slug: "oud-royal", Name: "Oud Royal", Brand: "Maison Noir", PriceFullCents: 50000, Active: true})
	if err != nil {
		t.Fatalf("Upsert insert: %v", err)
	}

	updated, err := repo.Upsert(ctx, domain.Perfume{Slug: "oud-royal", Name: "Oud Royal Extrait", Brand: "Maison Noir", PriceFullCents: 60000, Price10mlCents: cents(13000), Active: true})
	if err != nil {
		t.Fatalf("Upsert update: %v", err)
	}
	if updated.ID != first.ID {
		t.Fatalf("expected same ID after update")
	}

	got, err := repo.GetByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Oud Royal Extrait" || got.PriceFullCents != 60000 {
		t.Fatalf("unexpected perfume after update %+v", got)
	}
	if got.Price10mlCents == nil || *got.Price10mlCents != 13000 {
		t.Fatalf("expected 10ml tier 13000, got %+v", got.Price10mlCents)
	}

	if _, err := repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
