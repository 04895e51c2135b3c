package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vsinha/surgealloc/pkg/domain/entities"
)

const dateLayout = "2006-01-02"

// Loader reads hospital snapshots and forecasts from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadInventory loads the supply inventory snapshot. When the file carries a
// snapshot_date column only the rows of the latest date are used.
func (l *Loader) LoadInventory(filename string) (*entities.InventorySnapshot, error) {
	records, err := readAll(filename, "inventory")
	if err != nil {
		return nil, err
	}

	columns, err := indexHeader(records[0], []string{"item_code", "qty_on_hand"}, "inventory")
	if err != nil {
		return nil, err
	}

	rows, asOf, err := latestRows(records, columns, "inventory")
	if err != nil {
		return nil, err
	}

	inventory := make([]entities.InventoryRecord, 0, len(rows))
	for _, row := range rows {
		record, err := parseInventoryRecord(row.fields, columns)
		if err != nil {
			return nil, fmt.Errorf("inventory CSV row %d: %w", row.line, err)
		}
		inventory = append(inventory, record)
	}

	snapshot, err := entities.NewInventorySnapshot(asOf, inventory)
	if err != nil {
		return nil, fmt.Errorf("inventory CSV %s: %w", filename, err)
	}
	return snapshot, nil
}

// LoadStaffing loads the staff availability snapshot. Repeated role and
// department rows are summed.
func (l *Loader) LoadStaffing(filename string) (*entities.StaffingSnapshot, error) {
	records, err := readAll(filename, "staffing")
	if err != nil {
		return nil, err
	}

	columns, err := indexHeader(records[0], []string{"role", "department_id", "available_count"}, "staffing")
	if err != nil {
		return nil, err
	}

	rows, asOf, err := latestRows(records, columns, "staffing")
	if err != nil {
		return nil, err
	}

	entries := make([]entities.RosterEntry, 0, len(rows))
	for _, row := range rows {
		count, err := parseQuantity(row.fields[columns["available_count"]], "available_count")
		if err != nil {
			return nil, fmt.Errorf("staffing CSV row %d: %w", row.line, err)
		}
		entries = append(entries, entities.RosterEntry{
			Role:       strings.TrimSpace(row.fields[columns["role"]]),
			Department: strings.TrimSpace(row.fields[columns["department_id"]]),
			Count:      count,
		})
	}

	snapshot, err := entities.NewStaffingSnapshot(asOf, entries)
	if err != nil {
		return nil, fmt.Errorf("staffing CSV %s: %w", filename, err)
	}
	return snapshot, nil
}

// LoadForecast loads one model's forecast file
func (l *Loader) LoadForecast(filename, model string) (entities.ForecastSeries, error) {
	series := entities.ForecastSeries{Model: model}

	records, err := readAll(filename, "forecast")
	if err != nil {
		return series, err
	}

	expectedHeader := []string{"date", "forecast", "lower_ci", "upper_ci"}
	if !validateHeader(records[0], expectedHeader) {
		return series, fmt.Errorf("forecast CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return series, fmt.Errorf("forecast CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}

		point, err := parseForecastPoint(record)
		if err != nil {
			return series, fmt.Errorf("forecast CSV row %d: %w", i+2, err)
		}
		series.Points = append(series.Points, point)
	}

	return series, nil
}

// LoadForecastDir loads <model>_forecast_7day.csv for each model found in dir.
// Missing model files are skipped; finding none is an error.
func (l *Loader) LoadForecastDir(dir string, models []string) ([]entities.ForecastSeries, error) {
	var all []entities.ForecastSeries
	for _, model := range models {
		path := filepath.Join(dir, model+"_forecast_7day.csv")
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}

		series, err := l.LoadForecast(path, model)
		if err != nil {
			return nil, err
		}
		all = append(all, series)
	}

	if len(all) == 0 {
		return nil, fmt.Errorf("no forecast files found in %s for models %v", dir, models)
	}
	return all, nil
}

type dataRow struct {
	line   int
	fields []string
}

func readAll(filename, kind string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", kind, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("%s CSV must have header and at least one data row", kind)
	}
	return records, nil
}

// validateHeader checks an exact, case-insensitive column match
func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

// indexHeader maps column names to positions and checks required columns are present
func indexHeader(header, required []string, kind string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, col := range header {
		columns[strings.ToLower(strings.TrimSpace(col))] = i
	}

	var missing []string
	for _, col := range required {
		if _, ok := columns[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s CSV header missing columns %v. Got: %v", kind, missing, header)
	}
	return columns, nil
}

// latestRows keeps the rows of the most recent snapshot_date, or every row
// when the column is absent
func latestRows(records [][]string, columns map[string]int, kind string) ([]dataRow, time.Time, error) {
	dateCol, hasDate := columns["snapshot_date"]

	var rows []dataRow
	var latest time.Time
	for i, record := range records[1:] {
		line := i + 2
		if len(record) != len(records[0]) {
			return nil, time.Time{}, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", kind, line, len(records[0]), len(record))
		}

		if !hasDate {
			rows = append(rows, dataRow{line: line, fields: record})
			continue
		}

		date, err := time.Parse(dateLayout, strings.TrimSpace(record[dateCol]))
		if err != nil {
			return nil, time.Time{}, fmt.Errorf("%s CSV row %d: invalid snapshot_date: %w", kind, line, err)
		}
		switch {
		case date.After(latest):
			latest = date
			rows = []dataRow{{line: line, fields: record}}
		case date.Equal(latest):
			rows = append(rows, dataRow{line: line, fields: record})
		}
	}

	return rows, latest, nil
}

func parseInventoryRecord(fields []string, columns map[string]int) (entities.InventoryRecord, error) {
	optional := func(name string) string {
		if i, ok := columns[name]; ok {
			return strings.TrimSpace(fields[i])
		}
		return ""
	}

	onHand, err := parseQuantity(fields[columns["qty_on_hand"]], "qty_on_hand")
	if err != nil {
		return entities.InventoryRecord{}, err
	}

	var incoming entities.Quantity
	if raw := optional("committed_incoming"); raw != "" {
		incoming, err = parseQuantity(raw, "committed_incoming")
		if err != nil {
			return entities.InventoryRecord{}, err
		}
	}

	return entities.InventoryRecord{
		SKU:               entities.SKU(strings.TrimSpace(fields[columns["item_code"]])),
		ItemName:          optional("item_name"),
		OnHand:            onHand,
		CommittedIncoming: incoming,
		VendorID:          optional("vendor_id"),
	}, nil
}

func parseForecastPoint(record []string) (entities.ForecastPoint, error) {
	date, err := time.Parse(dateLayout, strings.TrimSpace(record[0]))
	if err != nil {
		return entities.ForecastPoint{}, fmt.Errorf("invalid date: %w", err)
	}

	values := make([]float64, 3)
	for i, name := range []string{"forecast", "lower_ci", "upper_ci"} {
		values[i], err = strconv.ParseFloat(strings.TrimSpace(record[i+1]), 64)
		if err != nil {
			return entities.ForecastPoint{}, fmt.Errorf("invalid %s: %w", name, err)
		}
	}

	return entities.ForecastPoint{
		Date:     date,
		Forecast: values[0],
		LowerCI:  values[1],
		UpperCI:  values[2],
	}, nil
}

// parseQuantity accepts whole numbers, including a trailing ".0" from spreadsheet exports
func parseQuantity(raw, column string) (entities.Quantity, error) {
	raw = strings.TrimSuffix(strings.TrimSpace(raw), ".0")
	qty, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", column, err)
	}
	if qty < 0 {
		return 0, fmt.Errorf("invalid %s: cannot be negative, got %d", column, qty)
	}
	return entities.Quantity(qty), nil
}
