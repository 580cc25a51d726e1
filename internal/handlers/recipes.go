package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"przepisnik/internal/ai"
	applog "przepisnik/internal/log"
	"przepisnik/internal/variant"
	"przepisnik/models"
)

type recipeResponse struct {
	ID                  uint                  `json:"id"`
	UserID              uint                  `json:"user_id"`
	TitlePL             string                `json:"title_pl"`
	TitleOriginal       string                `json:"title_original"`
	IngredientsPL       models.IngredientList `json:"ingredients_pl"`
	IngredientsOriginal models.StringList     `json:"ingredients_original"`
	StepsPL             models.StringList     `json:"steps_pl"`
	Tags                models.StringList     `json:"tags"`
	Substitutions       models.StringMap      `json:"substitutions"`
	Notes               models.StringMap      `json:"notes"`
	UserNotes           *string               `json:"user_notes"`
	IsFavorite          bool                  `json:"is_favorite"`
	RawInput            string                `json:"raw_input"`
	SourceLanguage      string                `json:"source_language"`
	SourceCountry       string                `json:"source_country"`
	TargetLanguage      string                `json:"target_language"`
	TargetCountry       string                `json:"target_country"`
	CreatedAt           time.Time             `json:"created_at"`
}

type variantResponse struct {
	ID            uint                  `json:"id"`
	RecipeID      uint                  `json:"recipe_id"`
	VariantType   string                `json:"variant_type"`
	TitlePL       string                `json:"title_pl"`
	IngredientsPL models.IngredientList `json:"ingredients_pl"`
	StepsPL       models.StringList     `json:"steps_pl"`
	Notes         models.StringMap      `json:"notes"`
	CreatedAt     time.Time             `json:"created_at"`
}

type adaptResponse struct {
	CanAdapt     bool             `json:"can_adapt"`
	Variant      *variantResponse `json:"variant"`
	Alternatives []ai.Alternative `json:"alternatives"`
}

func projectRecipe(recipe *models.Recipe) recipeResponse {
	return recipeResponse{
		ID:                  recipe.ID,
		UserID:              recipe.UserID,
		TitlePL:             recipe.TitlePL,
		TitleOriginal:       recipe.TitleOriginal,
		IngredientsPL:       recipe.IngredientsPL,
		IngredientsOriginal: recipe.IngredientsOriginal,
		StepsPL:             recipe.StepsPL,
		Tags:                recipe.Tags,
		Substitutions:       recipe.Substitutions,
		Notes:               recipe.Notes,
		UserNotes:           recipe.UserNotes,
		IsFavorite:          recipe.IsFavorite,
		RawInput:            recipe.RawInput,
		SourceLanguage:      recipe.SourceLanguage,
		SourceCountry:       recipe.SourceCountry,
		TargetLanguage:      recipe.TargetLanguage,
		TargetCountry:       recipe.TargetCountry,
		CreatedAt:           recipe.CreatedAt,
	}
}

func projectVariant(v *models.RecipeVariant) *variantResponse {
	if v == nil {
		return nil
	}
	return &variantResponse{
		ID:            v.ID,
		RecipeID:      v.RecipeID,
		VariantType:   v.VariantType,
		TitlePL:       v.TitlePL,
		IngredientsPL: v.IngredientsPL,
		StepsPL:       v.StepsPL,
		Notes:         v.Notes,
		CreatedAt:     v.CreatedAt,
	}
}

// RecipeCollection handles /api/recipes: POST creates via translation, GET
// lists the caller's recipes.
func RecipeCollection(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	switch r.Method {
	case http.MethodPost:
		createRecipe(w, r)
	case http.MethodGet:
		listRecipes(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// RecipeResource handles /api/recipes/{id} and its sub-resources, plus the
// /api/recipes/import upload endpoint.
func RecipeResource(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	userID, ok := currentUserID(r)
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/recipes")
	path = strings.Trim(path, "/")

	if path == "" {
		RecipeCollection(w, r)
		return
	}

	segments := strings.Split(path, "/")
	if segments[0] == "import" {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		importRecipe(w, r)
		return
	}

	idValue, err := strconv.ParseUint(segments[0], 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, "recipe not found")
		return
	}
	recipeID := uint(idValue)

	if len(segments) > 1 {
		switch segments[1] {
		case "notes":
			if r.Method != http.MethodPatch {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			updateRecipeNotes(w, r, recipeID, userID)
		case "favorite":
			if r.Method != http.MethodPatch {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			updateRecipeFavorite(w, r, recipeID, userID)
		case "variants":
			if r.Method != http.MethodGet {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			listRecipeVariants(w, r, recipeID, userID)
		case "adapt":
			if r.Method != http.MethodPost {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			adaptRecipe(w, r, recipeID, userID)
		default:
			writeJSONError(w, http.StatusNotFound, "recipe not found")
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		showRecipe(w, r, recipeID, userID)
	case http.MethodDelete:
		deleteRecipe(w, r, recipeID, userID)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func createRecipe(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		RawInput string `json:"raw_input"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	createRecipeFromRawInput(w, r, payload.RawInput)
}

func createRecipeFromRawInput(w http.ResponseWriter, r *http.Request, rawInput string) {
	if strings.TrimSpace(rawInput) == "" {
		writeJSONError(w, http.StatusBadRequest, "raw_input is required")
		return
	}

	user, err := loadCurrentUser(r)
	if err != nil {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if translationGateway == nil {
		writeGatewayError(w, r, "translation", ai.ErrNotConfigured)
		return
	}

	translated, err := translationGateway.Translate(r.Context(), rawInput, user.TargetCity)
	if err != nil {
		writeGatewayError(w, r, "translation", err)
		return
	}

	titlePL := strings.TrimSpace(translated.TitlePL)
	if titlePL == "" {
		titlePL = "Brak tytułu"
	}
	titleOriginal := strings.TrimSpace(translated.TitleOriginal)
	if titleOriginal == "" {
		titleOriginal = truncateRunes(rawInput, 100)
	}

	recipe := &models.Recipe{
		UserID:              user.ID,
		TitlePL:             titlePL,
		TitleOriginal:       titleOriginal,
		IngredientsPL:       translated.IngredientsPL,
		IngredientsOriginal: translated.IngredientsOriginal,
		StepsPL:             translated.StepsPL,
		Tags:                translated.Tags,
		Substitutions:       translated.Substitutions,
		Notes:               translated.Notes,
		RawInput:            rawInput,
		SourceLanguage:      user.SourceLanguage,
		SourceCountry:       user.SourceCountry,
		TargetLanguage:      user.TargetLanguage,
		TargetCountry:       user.TargetCountry,
	}

	if err := database.WithContext(r.Context()).Create(recipe).Error; err != nil {
		applog.Error(r.Context(), "failed to create recipe", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to save recipe")
		return
	}

	writeJSON(w, http.StatusCreated, projectRecipe(recipe))
}

func listRecipes(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var recipes []models.Recipe
	err := database.WithContext(r.Context()).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&recipes).Error
	if err != nil {
		applog.Error(r.Context(), "failed to list recipes", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load recipes")
		return
	}

	responses := make([]recipeResponse, 0, len(recipes))
	for i := range recipes {
		responses = append(responses, projectRecipe(&recipes[i]))
	}
	writeJSON(w, http.StatusOK, responses)
}

func loadOwnedRecipe(r *http.Request, recipeID, userID uint) (*models.Recipe, error) {
	recipe := &models.Recipe{}
	err := database.WithContext(r.Context()).
		Where("id = ? AND user_id = ?", recipeID, userID).
		First(recipe).Error
	if err != nil {
		return nil, err
	}
	return recipe, nil
}

func showRecipe(w http.ResponseWriter, r *http.Request, recipeID, userID uint) {
	recipe, err := loadOwnedRecipe(r, recipeID, userID)
	if err != nil {
		respondRecipeLoadError(w, r, recipeID, err)
		return
	}
	writeJSON(w, http.StatusOK, projectRecipe(recipe))
}

func updateRecipeNotes(w http.ResponseWriter, r *http.Request, recipeID, userID uint) {
	recipe, err := loadOwnedRecipe(r, recipeID, userID)
	if err != nil {
		respondRecipeLoadError(w, r, recipeID, err)
		return
	}

	var payload struct {
		UserNotes *string `json:"user_notes"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	recipe.UserNotes = payload.UserNotes
	if err := database.WithContext(r.Context()).Model(recipe).Update("user_notes", payload.UserNotes).Error; err != nil {
		applog.Error(r.Context(), "failed to update recipe notes", "error", err, "id", recipeID)
		writeJSONError(w, http.StatusInternalServerError, "unable to update notes")
		return
	}

	writeJSON(w, http.StatusOK, projectRecipe(recipe))
}

func updateRecipeFavorite(w http.ResponseWriter, r *http.Request, recipeID, userID uint) {
	recipe, err := loadOwnedRecipe(r, recipeID, userID)
	if err != nil {
		respondRecipeLoadError(w, r, recipeID, err)
		return
	}

	var payload struct {
		IsFavorite bool `json:"is_favorite"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	recipe.IsFavorite = payload.IsFavorite
	if err := database.WithContext(r.Context()).Model(recipe).Update("is_favorite", payload.IsFavorite).Error; err != nil {
		applog.Error(r.Context(), "failed to update favorite flag", "error", err, "id", recipeID)
		writeJSONError(w, http.StatusInternalServerError, "unable to update recipe")
		return
	}

	writeJSON(w, http.StatusOK, projectRecipe(recipe))
}

func listRecipeVariants(w http.ResponseWriter, r *http.Request, recipeID, userID uint) {
	if _, err := loadOwnedRecipe(r, recipeID, userID); err != nil {
		respondRecipeLoadError(w, r, recipeID, err)
		return
	}

	var variants []models.RecipeVariant
	err := database.WithContext(r.Context()).
		Where("recipe_id = ?", recipeID).
		Order("created_at ASC").
		Find(&variants).Error
	if err != nil {
		applog.Error(r.Context(), "failed to list variants", "error", err, "id", recipeID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load variants")
		return
	}

	responses := make([]variantResponse, 0, len(variants))
	for i := range variants {
		responses = append(responses, *projectVariant(&variants[i]))
	}
	writeJSON(w, http.StatusOK, responses)
}

func adaptRecipe(w http.ResponseWriter, r *http.Request, recipeID, userID uint) {
	recipe, err := loadOwnedRecipe(r, recipeID, userID)
	if err != nil {
		respondRecipeLoadError(w, r, recipeID, err)
		return
	}

	var payload struct {
		VariantType       string `json:"variant_type"`
		CustomInstruction string `json:"custom_instruction"`
		CustomTitle       string `json:"custom_title"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if strings.TrimSpace(payload.VariantType) == "" {
		writeJSONError(w, http.StatusBadRequest, "variant_type is required")
		return
	}

	if variantService == nil {
		writeGatewayError(w, r, "adaptation", ai.ErrNotConfigured)
		return
	}

	result, err := variantService.GetOrCreate(r.Context(), recipe, variant.Request{
		DietType:          payload.VariantType,
		CustomInstruction: payload.CustomInstruction,
		CustomTitle:       payload.CustomTitle,
	})
	if err != nil {
		writeGatewayError(w, r, "adaptation", err)
		return
	}

	alternatives := result.Alternatives
	if alternatives == nil {
		alternatives = []ai.Alternative{}
	}
	writeJSON(w, http.StatusOK, adaptResponse{
		CanAdapt:     result.Variant != nil,
		Variant:      projectVariant(result.Variant),
		Alternatives: alternatives,
	})
}

// deleteRecipe removes the recipe together with its variants and any
// shopping-list memberships. Rows go away outright so a recreated recipe id
// can never resurrect old variants.
func deleteRecipe(w http.ResponseWriter, r *http.Request, recipeID, userID uint) {
	recipe, err := loadOwnedRecipe(r, recipeID, userID)
	if err != nil {
		respondRecipeLoadError(w, r, recipeID, err)
		return
	}

	err = database.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.ShoppingListRecipe{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeVariant{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(recipe).Error
	})
	if err != nil {
		applog.Error(r.Context(), "failed to delete recipe", "error", err, "id", recipeID)
		writeJSONError(w, http.StatusInternalServerError, "unable to delete recipe")
		return
	}

	if variantService != nil {
		variantService.Forget(recipe.ID)
	}

	w.WriteHeader(http.StatusNoContent)
}

func respondRecipeLoadError(w http.ResponseWriter, r *http.Request, recipeID uint, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeJSONError(w, http.StatusNotFound, "recipe not found")
		return
	}
	applog.Error(r.Context(), "failed to load recipe", "error", err, "id", recipeID)
	writeJSONError(w, http.StatusInternalServerError, "unable to load recipe")
}

func truncateRunes(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit])
}
