package models

import "gorm.io/gorm"

// Translation settings applied to accounts that have not configured their own.
const (
	DefaultSourceLanguage = "he"
	DefaultSourceCountry  = "IL"
	DefaultTargetLanguage = "pl"
	DefaultTargetCountry  = "PL"
	DefaultTargetCity     = "Wrocław"
)

// User represents an application account that can authenticate with the API.
// The source/target pair describes the user's translation direction and the
// grocery markets used for ingredient substitution lookups.
type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`

	SourceLanguage string `gorm:"size:10;not null"`
	SourceCountry  string `gorm:"size:10;not null"`
	TargetLanguage string `gorm:"size:10;not null"`
	TargetCountry  string `gorm:"size:10;not null"`
	TargetCity     string `gorm:"size:100;not null"`

	Recipes []Recipe `gorm:"foreignKey:UserID"`
}
