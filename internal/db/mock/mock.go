// Package mock provides an in-memory database seeded with demo data for
// local development without Postgres.
package mock

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	applog "przepisnik/internal/log"
	"przepisnik/models"
)

// New returns an in-memory sqlite database seeded with a demo account and a
// pair of translated recipes.
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	db, err := gorm.Open(sqlite.Open("file:przepisnik-mock?mode=memory&cache=shared"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		PrepareStmt:                              true,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Recipe{},
		&models.RecipeVariant{},
		&models.ShoppingListRecipe{},
		&models.IngredientSubstitution{},
	); err != nil {
		return nil, err
	}

	if err := seed(ctx, db); err != nil {
		return nil, err
	}

	applog.Debug(ctx, "mock database ready")
	return db, nil
}

func seed(ctx context.Context, db *gorm.DB) error {
	password, err := bcrypt.GenerateFromPassword([]byte("przepisy"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &models.User{
		Email:          "demo@przepisnik.app",
		PasswordHash:   string(password),
		SourceLanguage: models.DefaultSourceLanguage,
		SourceCountry:  models.DefaultSourceCountry,
		TargetLanguage: models.DefaultTargetLanguage,
		TargetCountry:  models.DefaultTargetCountry,
		TargetCity:     models.DefaultTargetCity,
	}
	if err := db.WithContext(ctx).Create(user).Error; err != nil {
		return err
	}

	shakshuka := models.Recipe{
		UserID:        user.ID,
		TitlePL:       "Szakszuka",
		TitleOriginal: "שקשוקה",
		IngredientsPL: models.IngredientList{
			{Label: "4 jajka"},
			{Label: "400 g pomidorów z puszki"},
			{Label: "1 cebula"},
			{Label: "2 ząbki czosnku"},
			{Label: "1 łyżeczka kminu rzymskiego"},
		},
		IngredientsOriginal: models.StringList{"4 ביצים", "400 גרם עגבניות", "בצל אחד", "2 שיני שום"},
		StepsPL: models.StringList{
			"Podsmaż cebulę i czosnek na oliwie.",
			"Dodaj pomidory i przyprawy, gotuj 10 minut.",
			"Wbij jajka i duś pod przykryciem do ścięcia białek.",
		},
		Tags:           models.StringList{"kuchnia bliskowschodnia", "wegetariański", "szybkie"},
		Substitutions:  models.StringMap{},
		Notes:          models.StringMap{"porcje": "2"},
		RawInput:       "שקשוקה – מתכון קלאסי",
		SourceLanguage: user.SourceLanguage,
		SourceCountry:  user.SourceCountry,
		TargetLanguage: user.TargetLanguage,
		TargetCountry:  user.TargetCountry,
	}

	hummus := models.Recipe{
		UserID:        user.ID,
		TitlePL:       "Hummus domowy",
		TitleOriginal: "חומוס ביתי",
		IngredientsPL: models.IngredientList{
			{Label: "400 g ciecierzycy"},
			{Label: "3 łyżki tahiny"},
			{Label: "2 ząbki czosnku"},
			{Label: "sok z jednej cytryny"},
		},
		IngredientsOriginal: models.StringList{"400 גרם חומוס", "3 כפות טחינה", "2 שיני שום"},
		StepsPL: models.StringList{
			"Zmiksuj ciecierzycę z tahiną i czosnkiem.",
			"Dopraw sokiem z cytryny i solą.",
		},
		Tags:           models.StringList{"kuchnia bliskowschodnia", "wegańskie"},
		Substitutions:  models.StringMap{"טחינה": "tahina, dostępna w Biedronce we Wrocławiu"},
		Notes:          models.StringMap{},
		RawInput:       "חומוס ביתי – מתכון",
		SourceLanguage: user.SourceLanguage,
		SourceCountry:  user.SourceCountry,
		TargetLanguage: user.TargetLanguage,
		TargetCountry:  user.TargetCountry,
	}

	for _, recipe := range []*models.Recipe{&shakshuka, &hummus} {
		if err := db.WithContext(ctx).Create(recipe).Error; err != nil {
			return err
		}
	}

	rule := models.IngredientSubstitution{
		IngredientName:  "2 ząbki czosnku",
		SourceCountry:   user.SourceCountry,
		TargetCountry:   user.TargetCountry,
		Substitution:    "1 łyżeczka czosnku granulowanego",
		CreatedByUserID: &user.ID,
	}
	if err := db.WithContext(ctx).Create(&rule).Error; err != nil {
		return err
	}

	applog.Debug(ctx, "mock database seeded")
	return nil
}
