package seed

import (
	"context"
	"fmt"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jackc/pgx/v5/pgxpool"

	"essenza-backend/internal/domain"
)

type perfumeSeed struct {
	Slug      string
	Name      string
	Brand     string
	Notes     string
	FullCents int64
	Cents5ml  *int64
	Cents10ml *int64
}

func cents(v int64) *int64 { return &v }

// Apply inserts demo data for manual testing: a small curated catalog plus
// faked customers with stale carts so a recovery run has something to find.
// It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	perfumes := []perfumeSeed{
		{
			Slug:      "oud-royal",
			Name:      "Oud Royal",
			Brand:     "Maison Noir",
			Notes:     "oud, rose, saffron",
			FullCents: 50000,
			Cents5ml:  cents(6000),
			Cents10ml: cents(11000),
		},
		{
			Slug:      "citrus-verde",
			Name:      "Citrus Verde",
			Brand:     "Verde & Co",
			Notes:     "bergamot, vetiver",
			FullCents: 30000,
			// no decant tiers, resolver falls back to heuristics
		},
		{
			Slug:      "ambre-nuit",
			Name:      "Ambre Nuit",
			Brand:     "Maison Noir",
			Notes:     "amber, vanilla, cedar",
			FullCents: 42000,
			Cents10ml: cents(9000),
		},
	}

	perfumeIDs := make([]string, 0, len(perfumes))
	for _, p := range perfumes {
		id, err := upsertPerfume(ctx, pool, p)
		if err != nil {
			return fmt.Errorf("upsert perfume %s: %w", p.Slug, err)
		}
		perfumeIDs = append(perfumeIDs, id)
	}

	gofakeit.Seed(42)
	for i := 0; i < 5; i++ {
		email := gofakeit.Email()
		if i == 4 {
			email = "" // one account without a contact channel
		}
		// deterministic because gofakeit is seeded, so re-runs stay idempotent
		userID := gofakeit.UUID()
		if err := seedCustomerWithCart(ctx, pool, i, userID, email, perfumeIDs); err != nil {
			return fmt.Errorf("seed customer %d: %w", i, err)
		}
	}

	return nil
}

func upsertPerfume(ctx context.Context, pool *pgxpool.Pool, p perfumeSeed) (string, error) {
	const q = `
INSERT INTO perfumes (slug, name, brand, notes, price_full_cents, price_5ml_cents, price_10ml_cents)
VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7)
ON CONFLICT (slug) DO UPDATE SET
    name = EXCLUDED.name,
    brand = EXCLUDED.brand,
    notes = EXCLUDED.notes,
    price_full_cents = EXCLUDED.price_full_cents,
    price_5ml_cents = EXCLUDED.price_5ml_cents,
    price_10ml_cents = EXCLUDED.price_10ml_cents
RETURNING id::text
`
	var id string
	err := pool.QueryRow(ctx, q, p.Slug, p.Name, p.Brand, p.Notes, p.FullCents, p.Cents5ml, p.Cents10ml).Scan(&id)
	return id, err
}

func seedCustomerWithCart(ctx context.Context, pool *pgxpool.Pool, n int, userID, email string, perfumeIDs []string) error {
	sessionID := fmt.Sprintf("seed-session-%d", n)

	_, err := pool.Exec(ctx, `
INSERT INTO profiles (user_id, email, full_name)
VALUES ($1, NULLIF($2, ''), $3)
ON CONFLICT (user_id) DO UPDATE SET
    email = EXCLUDED.email,
    full_name = EXCLUDED.full_name
`, userID, email, gofakeit.Name())
	if err != nil {
		return err
	}

	var cartID string
	err = pool.QueryRow(ctx, `
INSERT INTO carts (session_id, user_id, state, updated_at)
VALUES ($1, $2, 'active', now() - interval '2 hours')
ON CONFLICT (session_id) DO UPDATE SET updated_at = EXCLUDED.updated_at
RETURNING id::text
`, sessionID, userID).Scan(&cartID)
	if err != nil {
		return err
	}

	perfumeID := perfumeIDs[n%len(perfumeIDs)]
	size := []domain.BottleSize{domain.Size5ml, domain.Size10ml, domain.SizeFull}[n%3]
	_, err = pool.Exec(ctx, `
INSERT INTO cart_items (cart_id, perfume_id, size_ml, quantity)
VALUES ($1, $2, $3, $4)
ON CONFLICT (cart_id, perfume_id, size_ml) DO NOTHING
`, cartID, perfumeID, string(size), 1+n%2)
	return err
}
