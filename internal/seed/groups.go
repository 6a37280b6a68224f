package seed

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"inkwell/internal/models"
)

// builtinGroups are the communities every environment starts with.
// Groups are created by operators, not through the web UI, so the
// seeder is the canonical way they come into existence.
var builtinGroups = []models.Group{
	{Title: "Travel notes", Slug: "travel", Description: "Trips, routes and places worth the detour."},
	{Title: "Kitchen table", Slug: "cooking", Description: "Recipes and the stories behind them."},
	{Title: "Paper trail", Slug: "books", Description: "What we are reading and why."},
	{Title: "Darkroom", Slug: "photo", Description: "Photography, from phone snaps to film."},
	{Title: "Workbench", Slug: "diy", Description: "Projects, tools and honest failures."},
}

// Groups upserts the built-in group list. Existing slugs are left
// untouched so reseeding never clobbers operator edits.
func Groups(db *gorm.DB) error {
	for i := range builtinGroups {
		group := builtinGroups[i]
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoNothing: true,
		}).Create(&group).Error
		if err != nil {
			return err
		}
	}
	return nil
}
