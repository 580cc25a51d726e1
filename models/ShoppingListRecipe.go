package models

import "time"

// ShoppingListRecipe marks a recipe as present on its owner's shopping list.
// At most one row exists per (user, recipe); adding an already-listed recipe
// is a no-op. Rows are deleted outright on remove/clear so a later re-add
// starts a fresh position in the list, which is why the type does not carry
// gorm's soft-delete column.
type ShoppingListRecipe struct {
	ID       uint      `gorm:"primarykey"`
	UserID   uint      `gorm:"not null;index;uniqueIndex:idx_shopping_user_recipe"`
	RecipeID uint      `gorm:"not null;uniqueIndex:idx_shopping_user_recipe"`
	AddedAt  time.Time `gorm:"not null;index"`
}
