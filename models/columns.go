package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// The translation gateway returns recipe content as loosely-shaped JSON
// arrays and objects. The wrapper types below store that content in single
// JSON columns while keeping call sites typed.

// StringList stores an ordered JSON array of strings.
type StringList []string

// GormDataType tells gorm to create a JSON column for the type.
func (StringList) GormDataType() string { return "json" }

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(value any) error {
	return scanJSON(value, l)
}

// StringMap stores a JSON object with string values.
type StringMap map[string]string

// GormDataType tells gorm to create a JSON column for the type.
func (StringMap) GormDataType() string { return "json" }

// Value implements driver.Valuer.
func (m StringMap) Value() (driver.Value, error) {
	if m == nil {
		m = StringMap{}
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *StringMap) Scan(value any) error {
	return scanJSON(value, m)
}

// Ingredient is one recipe ingredient entry. The gateways emit either a
// plain label ("2 łyżki tahiny") or an {amount, name} pair; both shapes are
// preserved on write so stored recipes round-trip unchanged.
type Ingredient struct {
	Label  string
	Amount string
	Name   string
}

// UnmarshalJSON accepts both the string and the object form.
func (i *Ingredient) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err == nil {
		*i = Ingredient{Label: label}
		return nil
	}

	var pair struct {
		Amount string `json:"amount"`
		Name   string `json:"name"`
	}
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("ingredient entry is neither a string nor an amount/name pair: %w", err)
	}
	*i = Ingredient{Amount: pair.Amount, Name: pair.Name}
	return nil
}

// MarshalJSON writes the entry back in the shape it arrived in.
func (i Ingredient) MarshalJSON() ([]byte, error) {
	if i.Label != "" || (i.Amount == "" && i.Name == "") {
		return json.Marshal(i.Label)
	}
	return json.Marshal(struct {
		Amount string `json:"amount"`
		Name   string `json:"name"`
	}{i.Amount, i.Name})
}

// Display renders the entry to the flat label used on shopping lists.
// Structured pairs become "{amount} {name}" trimmed of surrounding
// whitespace; an entry with no content renders to the empty string.
func (i Ingredient) Display() string {
	if i.Label != "" {
		return strings.TrimSpace(i.Label)
	}
	return strings.TrimSpace(i.Amount + " " + i.Name)
}

// IngredientList stores an ordered JSON array of ingredient entries.
type IngredientList []Ingredient

// GormDataType tells gorm to create a JSON column for the type.
func (IngredientList) GormDataType() string { return "json" }

// Value implements driver.Valuer.
func (l IngredientList) Value() (driver.Value, error) {
	if l == nil {
		l = IngredientList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *IngredientList) Scan(value any) error {
	return scanJSON(value, l)
}

func scanJSON(value, target any) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, target)
	case string:
		return json.Unmarshal([]byte(v), target)
	default:
		return fmt.Errorf("unsupported column type %T for JSON value", value)
	}
}
