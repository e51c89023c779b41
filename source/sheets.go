package source

import (
	"context"
	"fmt"
	"strconv"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsSource reads deposit rows from a Google Spreadsheet, one sheet per
// brand. All sheets are read in a single batchGet per cycle to respect the
// API quota.
type SheetsSource struct {
	svc           *sheets.Service
	spreadsheetID string
}

// NewSheetsSource creates a read-only Sheets client from a service account
// credentials file.
func NewSheetsSource(ctx context.Context, spreadsheetID, credentialsFile string) (*SheetsSource, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	return &SheetsSource{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// FetchAll reads every brand's sheet in one batched request. The result maps
// brand name to its cell grid (first row = headers). A brand whose sheet is
// missing from the response is absent from the map.
func (s *SheetsSource) FetchAll(ctx context.Context, brands []string) (map[string][][]string, error) {
	resp, err := s.svc.Spreadsheets.Values.BatchGet(s.spreadsheetID).
		Ranges(brands...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to batch-read spreadsheet: %w", err)
	}

	grids := make(map[string][][]string, len(brands))
	for i, vr := range resp.ValueRanges {
		if i >= len(brands) {
			break
		}
		grids[brands[i]] = stringGrid(vr.Values)
	}
	return grids, nil
}

// stringGrid flattens the API's interface cells into strings. Absent and
// blank cells read as empty strings.
func stringGrid(values [][]interface{}) [][]string {
	grid := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = cellString(v)
		}
		grid[i] = cells
	}
	return grid
}

func cellString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
