package models

import "gorm.io/gorm"

// IngredientSubstitution is community-contributed reference data mapping an
// ingredient label to its replacement between two grocery markets. Rows are
// shared across all users and never unique: several users may report rules
// for the same label, and lookups resolve the newest rule.
type IngredientSubstitution struct {
	gorm.Model
	IngredientName string `gorm:"size:255;not null;index"`
	SourceCountry  string `gorm:"size:10;not null"`
	TargetCountry  string `gorm:"size:10;not null"`
	Substitution   string `gorm:"size:255;not null"`

	CreatedByUserID *uint
}
