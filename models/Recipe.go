package models

import "gorm.io/gorm"

// Recipe is a translated recipe owned by exactly one user. The language and
// country fields are a snapshot of the owner's settings at creation time and
// do not follow later changes to those settings.
type Recipe struct {
	gorm.Model
	UserID uint `gorm:"not null;index"`

	TitlePL       string `gorm:"size:500;not null"`
	TitleOriginal string `gorm:"size:500;not null"`

	IngredientsPL       IngredientList
	IngredientsOriginal StringList
	StepsPL             StringList
	Tags                StringList
	Substitutions       StringMap
	Notes               StringMap

	UserNotes  *string `gorm:"type:text"`
	IsFavorite bool    `gorm:"not null;default:false"`
	RawInput   string  `gorm:"type:text;not null"`

	SourceLanguage string `gorm:"size:10;not null"`
	SourceCountry  string `gorm:"size:10;not null"`
	TargetLanguage string `gorm:"size:10;not null"`
	TargetCountry  string `gorm:"size:10;not null"`

	Variants []RecipeVariant `gorm:"foreignKey:RecipeID"`
}
