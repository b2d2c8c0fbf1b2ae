package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "actuals.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeTempXLSX(t *testing.T, rows [][]any) string {
	t.Helper()
	book := excelize.NewFile()
	defer book.Close()

	sheet := book.GetSheetName(0)
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := book.SetSheetRow(sheet, cellRef, &row); err != nil {
			t.Fatal(err)
		}
	}

	path := filepath.Join(t.TempDir(), "locations.xlsx")
	if err := book.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadTransactions(t *testing.T) {
	csv := `Rest_Key,Date,Sales(€),Customers
R1,15/01/2023,100.50,10
R2,20/02/2023,N/A,5
R3,bad-date,200,
,02/03/2023,50,2`

	path := writeTempCSV(t, csv)
	records, err := LoadTransactions(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadTransactions() error: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected 4 records, got %d", len(records))
	}

	r1 := records[0]
	if r1.RestaurantKey != "R1" {
		t.Errorf("RestaurantKey = %q, want R1", r1.RestaurantKey)
	}
	if !r1.SalesAmount.Valid || !r1.SalesAmount.Decimal.Equal(decimalFromString(t, "100.50")) {
		t.Errorf("SalesAmount = %+v, want 100.50", r1.SalesAmount)
	}
	if r1.CustomerCount == nil || *r1.CustomerCount != 10 {
		t.Errorf("CustomerCount = %v, want 10", r1.CustomerCount)
	}
	if r1.Year == nil || *r1.Year != 2023 || r1.Month == nil || *r1.Month != 1 {
		t.Errorf("Year/Month = %v/%v, want 2023/1", r1.Year, r1.Month)
	}

	// Unparseable sales cell becomes null, row kept.
	r2 := records[1]
	if r2.SalesAmount.Valid {
		t.Errorf("SalesAmount for N/A should be null, got %v", r2.SalesAmount.Decimal)
	}
	if r2.CustomerCount == nil || *r2.CustomerCount != 5 {
		t.Errorf("CustomerCount = %v, want 5", r2.CustomerCount)
	}

	// Unparseable date propagates null Year/Month.
	r3 := records[2]
	if r3.Date != nil || r3.Year != nil || r3.Month != nil {
		t.Errorf("bad date should yield null Date/Year/Month, got %v/%v/%v", r3.Date, r3.Year, r3.Month)
	}
	if r3.CustomerCount != nil {
		t.Errorf("empty customers cell should be null, got %v", *r3.CustomerCount)
	}

	// Dates are day-first: 02/03/2023 is March 2nd.
	r4 := records[3]
	if r4.Month == nil || *r4.Month != 3 {
		t.Errorf("day-first date parsed month = %v, want 3", r4.Month)
	}
}

func TestParseCount_FloatExports(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"10.0", 10},
		{"10.5", 11},
		{"10.4", 10},
	}
	for _, tt := range tests {
		got := parseCount(tt.in)
		if got == nil {
			t.Errorf("parseCount(%q) = nil, want %d", tt.in, tt.want)
			continue
		}
		if *got != tt.want {
			t.Errorf("parseCount(%q) = %d, want %d", tt.in, *got, tt.want)
		}
	}
	if got := parseCount("not-a-number"); got != nil {
		t.Errorf("parseCount(non-numeric) = %v, want nil", *got)
	}
}

func TestLoadTransactions_MissingColumn(t *testing.T) {
	path := writeTempCSV(t, "Rest_Key,Date,Sales(€)\nR1,15/01/2023,100")
	if _, err := LoadTransactions(context.Background(), path); err == nil {
		t.Error("expected error for missing Customers column")
	}
}

func TestLoadTransactions_MissingFile(t *testing.T) {
	if _, err := LoadTransactions(context.Background(), filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadLocations(t *testing.T) {
	path := writeTempXLSX(t, [][]any{
		{"Rest_Key", "Country", "City", "Restaurant_Name"},
		{"R1", "France", "Paris", "Bistro A"},
		{"R2", "Spain", "Madrid", "Tapas B"},
	})

	records, err := LoadLocations(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadLocations() error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].RestaurantKey != "R1" || records[0].Country != "France" ||
		records[0].City != "Paris" || records[0].RestaurantName != "Bistro A" {
		t.Errorf("unexpected first record: %+v", records[0])
	}
}

func TestLoadLocations_MissingColumn(t *testing.T) {
	path := writeTempXLSX(t, [][]any{
		{"Rest_Key", "Country", "City"},
		{"R1", "France", "Paris"},
	})
	if _, err := LoadLocations(context.Background(), path); err == nil {
		t.Error("expected error for missing Restaurant_Name column")
	}
}

func TestLoadLocations_MissingFile(t *testing.T) {
	if _, err := LoadLocations(context.Background(), filepath.Join(t.TempDir(), "nope.xlsx")); err == nil {
		t.Error("expected error for missing file")
	}
}
