// Package shopping aggregates ingredients from a user's listed recipes into a
// categorized shopping list.
package shopping

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"przepisnik/internal/ai"
	"przepisnik/internal/substitution"
	"przepisnik/models"
)

// CategorizationGateway merges and buckets ingredient labels into the given
// category names.
type CategorizationGateway interface {
	Categorize(ctx context.Context, categories, ingredients []string) (map[string][]string, error)
}

// List is the aggregated shopping list: the member recipe ids in added order
// and the categorized ingredient items. Items always contains every category
// key, empty lists included.
type List struct {
	RecipeIDs []uint              `json:"recipe_ids"`
	Items     map[string][]string `json:"items"`
}

// Aggregator owns shopping-list membership and list building.
type Aggregator struct {
	db       *gorm.DB
	gateway  CategorizationGateway
	resolver *substitution.Resolver
}

// NewAggregator builds an Aggregator. A nil gateway is allowed; building a
// list that has ingredient labels then reports ai.ErrNotConfigured.
func NewAggregator(db *gorm.DB, gateway CategorizationGateway, resolver *substitution.Resolver) *Aggregator {
	return &Aggregator{db: db, gateway: gateway, resolver: resolver}
}

// RecipeIDs returns the user's listed recipe ids ordered by when they were
// added. Memberships whose recipe no longer exists are skipped.
func (a *Aggregator) RecipeIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := a.db.Model(&models.ShoppingListRecipe{}).
		Joins("JOIN recipes ON recipes.id = shopping_list_recipes.recipe_id AND recipes.deleted_at IS NULL").
		Where("shopping_list_recipes.user_id = ?", userID).
		Order("shopping_list_recipes.added_at, shopping_list_recipes.id").
		Pluck("shopping_list_recipes.recipe_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("shopping: list recipe ids: %w", err)
	}

	seen := make(map[uint]struct{}, len(ids))
	result := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result, nil
}

// CollectLabels flattens the ingredient labels of the given recipes in list
// order, applying the user's country-pair substitutions to each label. Empty
// labels are dropped.
func (a *Aggregator) CollectLabels(user *models.User, recipeIDs []uint) ([]string, error) {
	if len(recipeIDs) == 0 {
		return nil, nil
	}

	var recipes []models.Recipe
	err := a.db.
		Where("id IN ? AND user_id = ?", recipeIDs, user.ID).
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("shopping: load recipes: %w", err)
	}

	byID := make(map[uint]*models.Recipe, len(recipes))
	for i := range recipes {
		byID[recipes[i].ID] = &recipes[i]
	}

	var labels []string
	for _, id := range recipeIDs {
		recipe, ok := byID[id]
		if !ok {
			continue
		}
		for _, ingredient := range recipe.IngredientsPL {
			label := ingredient.Display()
			if label == "" {
				continue
			}
			resolved, err := a.resolver.Resolve(label, user.SourceCountry, user.TargetCountry)
			if err != nil {
				return nil, err
			}
			labels = append(labels, resolved)
		}
	}
	return labels, nil
}

// BuildList assembles the user's full categorized shopping list. An empty
// list or a list with no ingredient labels short-circuits without calling the
// categorization gateway.
func (a *Aggregator) BuildList(ctx context.Context, user *models.User) (List, error) {
	recipeIDs, err := a.RecipeIDs(user.ID)
	if err != nil {
		return List{}, err
	}
	if len(recipeIDs) == 0 {
		return List{RecipeIDs: []uint{}, Items: emptyItems()}, nil
	}

	labels, err := a.CollectLabels(user, recipeIDs)
	if err != nil {
		return List{}, err
	}
	if len(labels) == 0 {
		return List{RecipeIDs: recipeIDs, Items: emptyItems()}, nil
	}

	if a.gateway == nil {
		return List{}, ai.ErrNotConfigured
	}

	raw, err := a.gateway.Categorize(ctx, Categories, labels)
	if err != nil {
		return List{}, err
	}

	// Unknown category keys from the gateway are dropped; missing keys come
	// back empty.
	items := emptyItems()
	for _, category := range Categories {
		if bucket, ok := raw[category]; ok && bucket != nil {
			items[category] = bucket
		}
	}
	return List{RecipeIDs: recipeIDs, Items: items}, nil
}

// Add puts a recipe on the user's list. Re-adding an already-listed recipe is
// a no-op. Recipe ownership must be checked by the caller.
func (a *Aggregator) Add(userID, recipeID uint) ([]uint, error) {
	entry := models.ShoppingListRecipe{
		UserID:   userID,
		RecipeID: recipeID,
		AddedAt:  time.Now().UTC(),
	}
	err := a.db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entry).Error
	if err != nil {
		return nil, fmt.Errorf("shopping: add recipe %d: %w", recipeID, err)
	}
	return a.RecipeIDs(userID)
}

// Remove drops one recipe from the user's list. Removing an absent recipe is
// a no-op.
func (a *Aggregator) Remove(userID, recipeID uint) ([]uint, error) {
	err := a.db.
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.ShoppingListRecipe{}).Error
	if err != nil {
		return nil, fmt.Errorf("shopping: remove recipe %d: %w", recipeID, err)
	}
	return a.RecipeIDs(userID)
}

// Clear empties the user's list.
func (a *Aggregator) Clear(userID uint) error {
	err := a.db.
		Where("user_id = ?", userID).
		Delete(&models.ShoppingListRecipe{}).Error
	if err != nil {
		return fmt.Errorf("shopping: clear list: %w", err)
	}
	return nil
}
