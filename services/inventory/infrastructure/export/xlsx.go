// Package export writes inventory listings as spreadsheets.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/treasuretrove/ledger/services/inventory/domain/models"
)

// SheetName is the single sheet of an inventory export.
const SheetName = "Inventory"

var headers = []string{"quantity", "name", "container", "location", "created_at"}

// WriteItemsXLSX writes entries, in the order given, as an XLSX workbook.
func WriteItemsXLSX(w io.Writer, entries []models.InventoryEntry) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(SheetName, cell, h)
	}

	for i, e := range entries {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(SheetName, cell, value)
		}

		set(1, e.Item.Quantity.Int())
		set(2, e.Item.Name.String())
		set(3, deref(e.ContainerName))
		set(4, deref(e.Item.LocationHint))
		set(5, e.Item.CreatedAt.UTC().Format(time.RFC3339))
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
