package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"resto-dashboard/internal/models"
)

// Column headers the two source files must carry. Extra columns are ignored.
const (
	colRestKey        = "Rest_Key"
	colDate           = "Date"
	colSales          = "Sales(€)"
	colCustomers      = "Customers"
	colCountry        = "Country"
	colCity           = "City"
	colRestaurantName = "Restaurant_Name"
)

// Dates in the sales file are day-first. ISO is accepted as a fallback since
// exports occasionally switch format.
var dateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"2006-01-02",
}

// LoadTransactions reads the delimited sales file. Cells that fail coercion
// become null fields on the record; only a missing file or a missing required
// header is an error.
func LoadTransactions(ctx context.Context, path string) ([]models.TransactionRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sales file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read sales header: %w", err)
	}

	cols, err := indexColumns(header, colRestKey, colDate, colSales, colCustomers)
	if err != nil {
		return nil, fmt.Errorf("sales file %s: %w", path, err)
	}

	var records []models.TransactionRecord
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read sales row: %w", err)
		}

		rec := models.TransactionRecord{
			RestaurantKey: cell(row, cols[colRestKey]),
			SalesAmount:   parseAmount(cell(row, cols[colSales])),
			CustomerCount: parseCount(cell(row, cols[colCustomers])),
		}
		if date := parseDayFirst(cell(row, cols[colDate])); date != nil {
			year, month := date.Year(), int(date.Month())
			rec.Date = date
			rec.Year = &year
			rec.Month = &month
		}
		records = append(records, rec)
	}

	return records, nil
}

// LoadLocations reads the spreadsheet location directory from the first
// sheet of an xlsx workbook.
func LoadLocations(ctx context.Context, path string) ([]models.LocationRecord, error) {
	book, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open location file: %w", err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("location file %s: no sheets", path)
	}

	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read location sheet: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("location file %s: empty sheet", path)
	}

	cols, err := indexColumns(rows[0], colRestKey, colCountry, colCity, colRestaurantName)
	if err != nil {
		return nil, fmt.Errorf("location file %s: %w", path, err)
	}

	records := make([]models.LocationRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		records = append(records, models.LocationRecord{
			RestaurantKey:  cell(row, cols[colRestKey]),
			Country:        cell(row, cols[colCountry]),
			City:           cell(row, cols[colCity]),
			RestaurantName: cell(row, cols[colRestaurantName]),
		})
	}

	return records, nil
}

// indexColumns maps each required header name to its position.
func indexColumns(header []string, required ...string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		positions[strings.TrimSpace(name)] = i
	}

	cols := make(map[string]int, len(required))
	for _, name := range required {
		idx, ok := positions[name]
		if !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
		cols[name] = idx
	}
	return cols, nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseDayFirst(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func parseAmount(s string) decimal.NullDecimal {
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

func parseCount(s string) *int64 {
	if s == "" {
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return &n
	}
	// Exports sometimes carry counts as floats ("10.0"). Fractional values
	// are rounded to the nearest whole customer.
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		n := int64(math.Round(f))
		return &n
	}
	return nil
}
