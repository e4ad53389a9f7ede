package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Setup programmatically creates/ensures the catalog_items, carts and
// cart_items collections exist.
func Setup(app *pocketbase.PocketBase) {
	ensureCollection(app, "catalog_items", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "item_code", Required: true})
		c.Fields.Add(&core.TextField{Name: "item_name", Required: true})
		c.Fields.Add(&core.TextField{Name: "uom", Required: false})
		c.Fields.Add(&core.NumberField{Name: "rate", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_catalog_items_item_code", true, "item_code", "")
	})

	carts := ensureCollection(app, "carts", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "session_token", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    []string{"open", "ordered"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_carts_session_token", false, "session_token", "")
	})

	ensureCollection(app, "cart_items", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "cart",
			Required:      true,
			CollectionId:  carts.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: true})
		c.Fields.Add(&core.TextField{Name: "item_code", Required: true})
		c.Fields.Add(&core.TextField{Name: "item_name", Required: false})
		c.Fields.Add(&core.TextField{Name: "uom", Required: false})
		c.Fields.Add(&core.NumberField{Name: "qty", Required: true})
		c.Fields.Add(&core.NumberField{Name: "rate", Required: false})
		c.AddIndex("idx_cart_items_cart_item_code", true, "cart, item_code", "")
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
