package db

import (
	"testing"

	"przepisnik/internal/config"
	"przepisnik/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestInitializeRequiresURL(t *testing.T) {
	t.Parallel()

	db, err := Initialize(config.DatabaseConfig{URL: ""})
	if err == nil {
		t.Fatal("expected error when database URL is empty")
	}
	if db != nil {
		t.Fatal("expected returned db handle to be nil on error")
	}
}

func TestAutoMigrateRejectsNilDatabase(t *testing.T) {
	t.Parallel()

	if err := AutoMigrate(nil); err == nil {
		t.Fatal("expected error when database handle is nil")
	}
}

func TestAutoMigrateWithSQLite(t *testing.T) {
	t.Parallel()

	sqliteDB, err := gorm.Open(sqlite.Open("file:dbmigrate?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}

	if err := AutoMigrate(sqliteDB); err != nil {
		t.Fatalf("AutoMigrate() error = %v", err)
	}

	for _, model := range []any{
		&models.User{},
		&models.Recipe{},
		&models.RecipeVariant{},
		&models.ShoppingListRecipe{},
		&models.IngredientSubstitution{},
	} {
		if !sqliteDB.Migrator().HasTable(model) {
			t.Fatalf("expected table for %T to exist", model)
		}
	}
}
