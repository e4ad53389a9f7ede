package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

type catalogDef struct {
	itemCode string
	itemName string
	uom      string
	rate     float64
}

var seedCatalog = []catalogDef{
	{"A1", "Hex Bolt M8 x 40", "Nos", 4.50},
	{"B2", "Flat Washer M8", "Nos", 0.80},
	{"C3", "Nylon Lock Nut M8", "Nos", 1.25},
	{"D4", "Threaded Rod M8 x 1m", "Nos", 38.00},
	{"E5", "Cable Tie 200mm (100 pack)", "Pack", 120.00},
	{"F6", "PVC Conduit 20mm x 3m", "Length", 95.00},
	{"G7", "Junction Box 100 x 100", "Nos", 210.00},
	{"H8", "Copper Wire 2.5 sq mm", "Mtrs", 32.50},
}

// Seed fills the catalog with a small set of items so the bulk order page has
// something to order. It does nothing if the catalog already has items.
func Seed(app *pocketbase.PocketBase) error {
	col, err := app.FindCollectionByNameOrId("catalog_items")
	if err != nil {
		return fmt.Errorf("seed: could not find catalog_items collection: %w", err)
	}
	existing, err := app.FindAllRecords(col)
	if err != nil {
		return fmt.Errorf("seed: could not query catalog_items: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: catalog_items collection is empty – inserting seed data …")

	return app.RunInTransaction(func(txApp core.App) error {
		for _, def := range seedCatalog {
			record := core.NewRecord(col)
			record.Set("item_code", def.itemCode)
			record.Set("item_name", def.itemName)
			record.Set("uom", def.uom)
			record.Set("rate", def.rate)
			if err := txApp.Save(record); err != nil {
				return fmt.Errorf("seed: could not save catalog item %s: %w", def.itemCode, err)
			}
		}
		return nil
	})
}
