// Package substitution looks up community-reported ingredient replacements
// between two grocery markets.
package substitution

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"przepisnik/models"
)

// Resolver answers ingredient substitution lookups against the shared rule
// table.
type Resolver struct {
	db *gorm.DB
}

func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// Resolve maps an ingredient label to its reported replacement for the given
// country pair. Matching is case-insensitive on the whole label. Labels with
// no rule pass through unchanged. When several rules exist for the same label
// the newest one wins.
func (r *Resolver) Resolve(label, sourceCountry, targetCountry string) (string, error) {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return label, nil
	}

	var rule models.IngredientSubstitution
	err := r.db.
		Where("source_country = ? AND target_country = ?", sourceCountry, targetCountry).
		Where("lower(ingredient_name) = ?", strings.ToLower(trimmed)).
		Order("created_at DESC, id DESC").
		First(&rule).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return label, nil
	}
	if err != nil {
		return "", fmt.Errorf("substitution: resolve %q: %w", trimmed, err)
	}
	return rule.Substitution, nil
}

// Report records a user-contributed substitution rule. Later lookups for the
// same label prefer this newest rule.
func (r *Resolver) Report(userID uint, ingredientName, sourceCountry, targetCountry, replacement string) (*models.IngredientSubstitution, error) {
	ingredientName = strings.TrimSpace(ingredientName)
	replacement = strings.TrimSpace(replacement)
	sourceCountry = strings.TrimSpace(sourceCountry)
	targetCountry = strings.TrimSpace(targetCountry)

	if ingredientName == "" || replacement == "" {
		return nil, errors.New("substitution: ingredient and replacement must not be empty")
	}
	if sourceCountry == "" || targetCountry == "" {
		return nil, errors.New("substitution: source and target country must not be empty")
	}

	rule := models.IngredientSubstitution{
		IngredientName:  ingredientName,
		SourceCountry:   sourceCountry,
		TargetCountry:   targetCountry,
		Substitution:    replacement,
		CreatedByUserID: &userID,
	}
	if err := r.db.Create(&rule).Error; err != nil {
		return nil, fmt.Errorf("substitution: report: %w", err)
	}
	return &rule, nil
}
