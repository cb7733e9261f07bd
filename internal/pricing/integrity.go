package pricing

import "essenza-backend/internal/domain"

// Issue flags one pricing inconsistency on a catalog entry.
type Issue struct {
	PerfumeID string `json:"perfumeId"`
	Slug      string `json:"slug"`
	Kind      string `json:"kind"`
	Detail    string `json:"detail"`
}

const (
	IssueNonPositiveFull = "non_positive_full_price"
	IssueTierAboveFull   = "tier_above_full_price"
	IssueTierInverted    = "tier_order_inverted"
	IssueTiersMissing    = "decant_tiers_missing"
)

// Check returns the pricing issues found on a single perfume.
func Check(p domain.Perfume) []Issue {
	var issues []Issue
	add := func(kind, detail string) {
		issues = append(issues, Issue{PerfumeID: p.ID, Slug: p.Slug, Kind: kind, Detail: detail})
	}

	if p.PriceFullCents <= 0 {
		add(IssueNonPositiveFull, "full-bottle price must be positive")
	}
	if p.Price5mlCents != nil && *p.Price5mlCents >= p.PriceFullCents {
		add(IssueTierAboveFull, "5ml decant priced at or above the full bottle")
	}
	if p.Price10mlCents != nil && *p.Price10mlCents >= p.PriceFullCents {
		add(IssueTierAboveFull, "10ml decant priced at or above the full bottle")
	}
	if p.Price5mlCents != nil && p.Price10mlCents != nil && *p.Price5mlCents >= *p.Price10mlCents {
		add(IssueTierInverted, "5ml decant costs as much as the 10ml decant")
	}
	if p.Price5mlCents == nil && p.Price10mlCents == nil {
		add(IssueTiersMissing, "no decant tier priced, both sizes fall back to heuristics")
	}
	return issues
}

// Report summarizes a catalog scan.
type Report struct {
	Scanned int     `json:"scanned"`
	Issues  []Issue `json:"issues"`
}

// CheckCatalog runs Check over every perfume and collects the findings.
func CheckCatalog(perfumes []domain.Perfume) Report {
	report := Report{Scanned: len(perfumes), Issues: []Issue{}}
	for _, p := range perfumes {
		report.Issues = append(report.Issues, Check(p)...)
	}
	return report
}
