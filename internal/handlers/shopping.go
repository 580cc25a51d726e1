package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"gorm.io/gorm"

	applog "przepisnik/internal/log"
	"przepisnik/internal/mail"
	"przepisnik/internal/shopping"
)

type recipeIDsResponse struct {
	RecipeIDs []uint `json:"recipe_ids"`
}

// ShoppingListResource handles /api/shopping-list and its sub-paths.
func ShoppingListResource(w http.ResponseWriter, r *http.Request) {
	if database == nil || aggregator == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	userID, ok := currentUserID(r)
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/shopping-list")
	path = strings.Trim(path, "/")

	if path == "" {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		getShoppingList(w, r)
		return
	}

	segments := strings.Split(path, "/")
	switch segments[0] {
	case "recipes":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		getShoppingListRecipes(w, r, userID)
	case "add":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		addShoppingListRecipe(w, r, userID)
	case "remove":
		if r.Method != http.MethodDelete || len(segments) < 2 {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		removeShoppingListRecipe(w, r, userID, segments[1])
	case "clear":
		if r.Method != http.MethodDelete {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		clearShoppingList(w, r, userID)
	case "email":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		emailShoppingList(w, r)
	default:
		writeJSONError(w, http.StatusNotFound, "not found")
	}
}

func getShoppingList(w http.ResponseWriter, r *http.Request) {
	user, err := loadCurrentUser(r)
	if err != nil {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	list, err := aggregator.BuildList(r.Context(), user)
	if err != nil {
		writeGatewayError(w, r, "categorization", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func getShoppingListRecipes(w http.ResponseWriter, r *http.Request, userID uint) {
	ids, err := aggregator.RecipeIDs(userID)
	if err != nil {
		applog.Error(r.Context(), "failed to list shopping recipes", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load shopping list")
		return
	}
	writeJSON(w, http.StatusOK, recipeIDsResponse{RecipeIDs: ids})
}

func addShoppingListRecipe(w http.ResponseWriter, r *http.Request, userID uint) {
	var payload struct {
		RecipeID uint `json:"recipe_id"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if _, err := loadOwnedRecipe(r, payload.RecipeID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSONError(w, http.StatusNotFound, "recipe not found")
			return
		}
		applog.Error(r.Context(), "failed to load recipe for shopping list", "error", err, "id", payload.RecipeID)
		writeJSONError(w, http.StatusInternalServerError, "unable to update shopping list")
		return
	}

	ids, err := aggregator.Add(userID, payload.RecipeID)
	if err != nil {
		applog.Error(r.Context(), "failed to add recipe to shopping list", "error", err, "id", payload.RecipeID)
		writeJSONError(w, http.StatusInternalServerError, "unable to update shopping list")
		return
	}
	writeJSON(w, http.StatusOK, recipeIDsResponse{RecipeIDs: ids})
}

func removeShoppingListRecipe(w http.ResponseWriter, r *http.Request, userID uint, identifier string) {
	idValue, err := strconv.ParseUint(identifier, 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, "recipe not found")
		return
	}

	ids, err := aggregator.Remove(userID, uint(idValue))
	if err != nil {
		applog.Error(r.Context(), "failed to remove recipe from shopping list", "error", err, "id", idValue)
		writeJSONError(w, http.StatusInternalServerError, "unable to update shopping list")
		return
	}
	writeJSON(w, http.StatusOK, recipeIDsResponse{RecipeIDs: ids})
}

func clearShoppingList(w http.ResponseWriter, r *http.Request, userID uint) {
	if err := aggregator.Clear(userID); err != nil {
		applog.Error(r.Context(), "failed to clear shopping list", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to clear shopping list")
		return
	}
	writeJSON(w, http.StatusOK, recipeIDsResponse{RecipeIDs: []uint{}})
}

func emailShoppingList(w http.ResponseWriter, r *http.Request) {
	user, err := loadCurrentUser(r)
	if err != nil {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	list, err := aggregator.BuildList(r.Context(), user)
	if err != nil {
		writeGatewayError(w, r, "categorization", err)
		return
	}
	if len(list.RecipeIDs) == 0 {
		writeJSONError(w, http.StatusBadRequest, "shopping list is empty")
		return
	}

	if mailer == nil {
		writeGatewayError(w, r, "email delivery", mail.ErrNotConfigured)
		return
	}
	if err := mailer.SendShoppingList(r.Context(), user.Email, shopping.Categories, list.Items); err != nil {
		writeGatewayError(w, r, "email delivery", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Email wysłany na adres " + user.Email})
}
