package pipeline

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Source column names. The sheets are hand-maintained, so every column is
// optional; absence is data inconsistency, not an error.
const (
	colDisplayID = "ID"
	colActor     = "PLAYER"
	colAmount    = "AMOUNT"
	colPostedAt  = "TIMESTAMP"
	colStatus    = "STATUS"
)

// isoLayout renders epoch timestamps as "2006-01-02 15:04:05+00:00" in UTC.
const isoLayout = "2006-01-02 15:04:05-07:00"

// RawRow is one spreadsheet row keyed by header name.
type RawRow map[string]string

// Record is the canonical unit of work: one normalized deposit event.
// ID is the deterministic identity key assigned by ResolveIdentity and
// doubles as the store's primary key.
type Record struct {
	ID          string         `json:"id"`
	Brand       string         `json:"brand"`
	DisplayID   string         `json:"display_id"`
	Actor       string         `json:"actor"`
	Amount      float64        `json:"amount"`
	PostedAtRaw *int64         `json:"posted_at_raw"`
	PostedAtISO *string        `json:"posted_at_iso"`
	Status      string         `json:"status"`
	RawPayload  map[string]any `json:"raw_payload"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// rowFields holds every expected column as an explicit optional field,
// populated in a single parsing pass.
type rowFields struct {
	displayID string
	actor     string
	amount    *float64
	postedAt  *int64
	status    string
}

// RowsFromGrid converts a raw cell grid (first row = headers) into rows
// keyed by header name. Blank or duplicate headers get synthetic
// "EXTRA COLUMN N" names so no cell data is dropped. Cells missing from
// short rows read as empty strings.
func RowsFromGrid(grid [][]string) []RawRow {
	if len(grid) < 2 {
		return nil
	}
	headers := make([]string, len(grid[0]))
	seen := make(map[string]bool, len(grid[0]))
	extra := 0
	for i, h := range grid[0] {
		name := strings.TrimSpace(h)
		if name == "" || seen[name] {
			extra++
			name = fmt.Sprintf("EXTRA COLUMN %d", extra)
		}
		seen[name] = true
		headers[i] = name
	}

	rows := make([]RawRow, 0, len(grid)-1)
	for _, cells := range grid[1:] {
		row := make(RawRow, len(headers))
		for i, name := range headers {
			if i < len(cells) {
				row[name] = cells[i]
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// NormalizeRow converts one raw row into a Record. It returns nil when the
// row carries no business data (absent actor and null/zero amount) — blank
// spreadsheet rows must never reach the store.
func NormalizeRow(brand string, row RawRow, now time.Time) *Record {
	f := parseFields(row)

	if f.actor == "" && (f.amount == nil || *f.amount == 0) {
		return nil
	}

	rec := &Record{
		Brand:     brand,
		DisplayID: f.displayID,
		Actor:     f.actor,
		Status:    f.status,
		UpdatedAt: now,
	}
	// Null amounts are stored as 0 but must never become a nonzero value.
	if f.amount != nil {
		rec.Amount = *f.amount
	}
	if f.postedAt != nil {
		rec.PostedAtRaw = f.postedAt
		iso := time.Unix(*f.postedAt, 0).UTC().Format(isoLayout)
		rec.PostedAtISO = &iso
	}

	payload := make(map[string]any, len(row))
	for k, v := range row {
		payload[k] = Sanitize(v)
	}
	rec.RawPayload = payload

	return rec
}

func parseFields(row RawRow) rowFields {
	return rowFields{
		displayID: strings.TrimSpace(row[colDisplayID]),
		actor:     parseActor(row[colActor]),
		amount:    parseAmount(row[colAmount]),
		postedAt:  parseEpoch(row[colPostedAt]),
		status:    strings.TrimSpace(row[colStatus]),
	}
}

// parseActor trims the raw value and treats the textual forms of missing
// data ("none", "nan") as absent.
func parseActor(raw string) string {
	actor := strings.TrimSpace(raw)
	if strings.EqualFold(actor, "none") || strings.EqualFold(actor, "nan") {
		return ""
	}
	return actor
}

// parseAmount strips thousands separators and parses a decimal amount.
// Unparseable or empty values are null, not zero.
func parseAmount(raw string) *float64 {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// parseEpoch parses the posted-at column as epoch seconds. The column may be
// absent from a sheet's schema entirely; that yields null, never an error.
func parseEpoch(raw string) *int64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	ts := int64(f)
	return &ts
}
