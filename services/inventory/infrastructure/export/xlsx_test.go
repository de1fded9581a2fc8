package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/treasuretrove/ledger/services/inventory/domain/models"
)

func mustItem(t *testing.T, name string, qty int, location *string, at time.Time) *models.Item {
	t.Helper()
	n, err := models.NewItemName(name)
	if err != nil {
		t.Fatal(err)
	}
	q, err := models.NewQuantity(qty)
	if err != nil {
		t.Fatal(err)
	}
	id := uuid.New()
	return models.NewItem(n, q, &id, location, at)
}

func TestWriteItemsXLSX(t *testing.T) {
	garage := "garage"
	bin := "Spring 1"
	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	entries := []models.InventoryEntry{
		{Item: mustItem(t, "boxes of nails", 3, &garage, at), ContainerName: &bin},
		{Item: mustItem(t, "hammer", 1, nil, at)},
	}

	var buf bytes.Buffer
	if err := WriteItemsXLSX(&buf, entries); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{
		{"quantity", "name", "container", "location", "created_at"},
		{"3", "boxes of nails", "Spring 1", "garage", "2024-03-01T09:30:00Z"},
		{"1", "hammer"},
	}
	if len(rows) != len(want) {
		t.Fatalf("rows=%d want %d: %v", len(rows), len(want), rows)
	}
	for i := range want[:2] {
		for j := range want[i] {
			if rows[i][j] != want[i][j] {
				t.Errorf("row %d col %d = %q, want %q", i, j, rows[i][j], want[i][j])
			}
		}
	}
	if rows[2][0] != "1" || rows[2][1] != "hammer" || rows[2][4] != "2024-03-01T09:30:00Z" {
		t.Errorf("loose item row = %v", rows[2])
	}
}

func TestWriteItemsXLSX_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteItemsXLSX(&buf, nil); err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows=%d, want header only", len(rows))
	}
}
