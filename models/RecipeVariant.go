package models

import "gorm.io/gorm"

// RecipeVariant is a diet-adapted derivative of a recipe. VariantType is
// unique within the owning recipe: canonical diet keys act as idempotent
// cache keys, while custom-instruction variants receive freshly allocated
// "_alt" slugs. The unique index backs the allocation against races.
type RecipeVariant struct {
	gorm.Model
	RecipeID    uint   `gorm:"not null;index;uniqueIndex:idx_variants_recipe_type"`
	VariantType string `gorm:"size:50;not null;uniqueIndex:idx_variants_recipe_type"`

	TitlePL       string `gorm:"size:500;not null"`
	IngredientsPL IngredientList
	StepsPL       StringList
	Notes         StringMap
}
