// Package variant caches diet adaptations of recipes. Canonical diet keys are
// idempotent cache keys that call the adaptation gateway at most once per
// recipe; custom instructions always produce a fresh variant under a newly
// allocated slug.
package variant

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"gorm.io/gorm"

	"przepisnik/internal/ai"
	"przepisnik/models"
)

// maxSlugAttempts bounds the insert retry loop when concurrent custom
// requests race on the same slug.
const maxSlugAttempts = 5

// AdaptationGateway is the external AI collaborator that reworks a recipe for
// a diet.
type AdaptationGateway interface {
	Adapt(ctx context.Context, req ai.AdaptRequest) (ai.AdaptResult, error)
}

// Request describes one adaptation ask. DietType is required. A non-empty
// CustomInstruction bypasses the cache and allocates a new slug; CustomTitle
// overrides the gateway's title on the stored variant.
type Request struct {
	DietType          string
	CustomInstruction string
	CustomTitle       string
}

// Result is the outcome of GetOrCreate. Variant is nil exactly when the
// gateway declined to adapt, in which case Alternatives carries its
// suggestions.
type Result struct {
	Variant      *models.RecipeVariant
	Alternatives []ai.Alternative
}

// Service owns the variant lifecycle for all recipes.
type Service struct {
	db      *gorm.DB
	gateway AdaptationGateway

	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

// NewService builds a Service. A nil gateway is allowed; cache hits still
// work and misses report ai.ErrNotConfigured.
func NewService(db *gorm.DB, gateway AdaptationGateway) *Service {
	return &Service{
		db:      db,
		gateway: gateway,
		locks:   make(map[uint]*sync.Mutex),
	}
}

// recipeLock returns the mutex serializing variant writes for one recipe.
func (s *Service) recipeLock(recipeID uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[recipeID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[recipeID] = lock
	}
	return lock
}

// Forget releases the lock entry for a recipe whose variants are gone, so the
// map does not grow with deleted recipes.
func (s *Service) Forget(recipeID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.locks, recipeID)
}

// GetOrCreate returns the cached variant for a canonical diet key, or calls
// the gateway and persists the outcome. The recipe must already be loaded and
// ownership-checked by the caller.
func (s *Service) GetOrCreate(ctx context.Context, recipe *models.Recipe, req Request) (Result, error) {
	dietType := strings.TrimSpace(req.DietType)
	if dietType == "" {
		return Result{}, errors.New("variant: diet type must not be empty")
	}
	instruction := strings.TrimSpace(req.CustomInstruction)

	if instruction == "" {
		if cached, err := s.lookup(recipe.ID, dietType); err != nil {
			return Result{}, err
		} else if cached != nil {
			return Result{Variant: cached}, nil
		}
	}

	lock := s.recipeLock(recipe.ID)
	lock.Lock()
	defer lock.Unlock()

	// A concurrent canonical request may have won the race while this one
	// waited on the lock.
	if instruction == "" {
		if cached, err := s.lookup(recipe.ID, dietType); err != nil {
			return Result{}, err
		} else if cached != nil {
			return Result{Variant: cached}, nil
		}
	}

	if s.gateway == nil {
		return Result{}, ai.ErrNotConfigured
	}

	label := instruction
	if label == "" {
		if known, ok := ai.DietLabels[dietType]; ok {
			label = known
		} else {
			label = dietType
		}
	}

	outcome, err := s.gateway.Adapt(ctx, ai.AdaptRequest{
		DietLabel:   label,
		Title:       recipe.TitlePL,
		Ingredients: recipe.IngredientsPL,
		Steps:       recipe.StepsPL,
	})
	if err != nil {
		return Result{}, err
	}

	if !outcome.CanAdapt {
		return Result{Alternatives: outcome.Alternatives}, nil
	}

	title := strings.TrimSpace(req.CustomTitle)
	if title == "" {
		title = outcome.TitlePL
	}

	variant, err := s.persist(recipe.ID, dietType, instruction != "", models.RecipeVariant{
		RecipeID:      recipe.ID,
		TitlePL:       title,
		IngredientsPL: outcome.IngredientsPL,
		StepsPL:       outcome.StepsPL,
		Notes:         outcome.Notes,
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Variant: variant}, nil
}

func (s *Service) lookup(recipeID uint, variantType string) (*models.RecipeVariant, error) {
	var cached models.RecipeVariant
	err := s.db.
		Where("recipe_id = ? AND variant_type = ?", recipeID, variantType).
		First(&cached).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("variant: lookup %q: %w", variantType, err)
	}
	return &cached, nil
}

// persist inserts the variant under a freshly allocated slug, retrying a
// bounded number of times when the unique index reports a collision.
func (s *Service) persist(recipeID uint, dietType string, custom bool, variant models.RecipeVariant) (*models.RecipeVariant, error) {
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		slug, err := s.allocateSlug(recipeID, dietType, custom)
		if err != nil {
			return nil, err
		}

		candidate := variant
		candidate.VariantType = slug
		err = s.db.Create(&candidate).Error
		if err == nil {
			return &candidate, nil
		}
		if !isUniqueViolation(err) {
			return nil, fmt.Errorf("variant: persist %q: %w", slug, err)
		}

		if !custom {
			// Canonical slugs are idempotent: the race loser discards its
			// gateway result and returns the winner's row.
			if cached, lookupErr := s.lookup(recipeID, slug); lookupErr == nil && cached != nil {
				return cached, nil
			}
		}
	}
	return nil, fmt.Errorf("variant: slug allocation for %q did not settle after %d attempts", dietType, maxSlugAttempts)
}

// allocateSlug produces a variant_type unique within the recipe. Canonical
// requests use the diet key verbatim; custom requests probe "_alt" suffixes.
func (s *Service) allocateSlug(recipeID uint, dietType string, custom bool) (string, error) {
	if !custom {
		return dietType, nil
	}

	var taken []string
	err := s.db.Model(&models.RecipeVariant{}).
		Where("recipe_id = ?", recipeID).
		Pluck("variant_type", &taken).Error
	if err != nil {
		return "", fmt.Errorf("variant: list slugs: %w", err)
	}

	used := make(map[string]struct{}, len(taken))
	for _, slug := range taken {
		used[slug] = struct{}{}
	}

	base := dietType + "_alt"
	if _, ok := used[base]; !ok {
		return base, nil
	}
	for n := 2; ; n++ {
		candidate := base + strconv.Itoa(n)
		if _, ok := used[candidate]; !ok {
			return candidate, nil
		}
	}
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
