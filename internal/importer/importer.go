package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"essenza-backend/internal/domain"
)

type PerfumeWriter interface {
	Upsert(ctx context.Context, p domain.Perfume) (*domain.Perfume, error)
}

// CSVImporter reads catalog exports and inserts/updates perfumes with their
// tiered decant prices.
type CSVImporter struct {
	reader      *csv.Reader
	perfumeRepo PerfumeWriter
}

func NewCSVImporter(r io.Reader, repo PerfumeWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		perfumeRepo: repo,
	}
}

type csvRow struct {
	Slug      string
	Name      string
	Brand     string
	Notes     string
	FullCents int64
	Cents5ml  *int64
	Cents10ml *int64
	Active    bool
}

// Run parses CSV rows and upserts one perfume per row.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		row := parseRow(record, index)
		if row == nil {
			continue
		}
		if err := i.save(ctx, row); err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, row *csvRow) error {
	if row.Slug == "" || row.Name == "" || row.Brand == "" || row.FullCents <= 0 {
		return fmt.Errorf("invalid perfume row (missing required fields) for slug %q", row.Slug)
	}

	p := domain.Perfume{
		Slug:           row.Slug,
		Name:           row.Name,
		Brand:          row.Brand,
		Notes:          row.Notes,
		PriceFullCents: row.FullCents,
		Price5mlCents:  row.Cents5ml,
		Price10mlCents: row.Cents10ml,
		Active:         row.Active,
	}

	if _, err := i.perfumeRepo.Upsert(ctx, p); err != nil {
		return fmt.Errorf("upsert perfume %q: %w", row.Slug, err)
	}
	return nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) *csvRow {
	slug := pick(record, index, "slug")
	if slug == "" {
		return nil
	}

	row := &csvRow{
		Slug:   slug,
		Name:   pick(record, index, "name"),
		Brand:  pick(record, index, "brand"),
		Notes:  pick(record, index, "notes"),
		Active: true,
	}
	if v := pick(record, index, "active"); v != "" {
		row.Active = strings.EqualFold(v, "true")
	}
	if v := pick(record, index, "price_full_cents"); v != "" {
		row.FullCents, _ = strconv.ParseInt(v, 10, 64)
	}
	row.Cents5ml = optionalCents(record, index, "price_5ml_cents")
	row.Cents10ml = optionalCents(record, index, "price_10ml_cents")
	return row
}

func optionalCents(record []string, index map[string]int, key string) *int64 {
	v := pick(record, index, key)
	if v == "" {
		return nil
	}
	cents, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil
	}
	return &cents
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
