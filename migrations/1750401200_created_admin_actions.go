package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

const adminActionsCollection = "admin_actions"

func init() {
	m.Register(func(app core.App) error {
		collection := core.NewBaseCollection(adminActionsCollection)

		collection.Fields.Add(
			&core.TextField{
				Name:     "action",
				Required: true,
				Max:      64,
			},
			&core.TextField{
				Name: "target",
				Max:  128,
			},
			&core.SelectField{
				Name:      "level",
				Required:  true,
				MaxSelect: 1,
				Values:    []string{"success", "error"},
			},
			&core.TextField{
				Name: "message",
				Max:  1000,
			},
			&core.TextField{
				Name: "reason",
				Max:  1000,
			},
			&core.AutodateField{
				Name:     "created",
				OnCreate: true,
			},
		)

		collection.AddIndex("idx_admin_actions_created", false, "created", "")
		collection.AddIndex("idx_admin_actions_action", false, "action", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId(adminActionsCollection)
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
