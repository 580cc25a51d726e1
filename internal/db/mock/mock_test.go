package mock

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"przepisnik/models"
)

func TestNewSeedsDemoData(t *testing.T) {
	db, err := New(context.Background())
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	var user models.User
	if err := db.Where("email = ?", "demo@przepisnik.app").First(&user).Error; err != nil {
		t.Fatalf("demo user not seeded: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("przepisy")); err != nil {
		t.Fatalf("demo password mismatch: %v", err)
	}
	if user.TargetCity != models.DefaultTargetCity {
		t.Fatalf("TargetCity = %q, want default", user.TargetCity)
	}

	var recipes int64
	db.Model(&models.Recipe{}).Where("user_id = ?", user.ID).Count(&recipes)
	if recipes != 2 {
		t.Fatalf("seeded recipes = %d, want 2", recipes)
	}

	var rule models.IngredientSubstitution
	if err := db.Where("ingredient_name = ?", "2 ząbki czosnku").First(&rule).Error; err != nil {
		t.Fatalf("substitution rule not seeded: %v", err)
	}
	if rule.Substitution != "1 łyżeczka czosnku granulowanego" {
		t.Fatalf("Substitution = %q", rule.Substitution)
	}
}
