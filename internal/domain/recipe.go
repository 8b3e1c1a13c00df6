package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Measurement unit constants for ingredient quantities.
const (
	UnitKilogram   = "kg"
	UnitGram       = "g"
	UnitMilligram  = "mg"
	UnitLitre      = "l"
	UnitDecilitre  = "dl"
	UnitMillilitre = "ml"
	UnitTablespoon = "tbs"
	UnitTeaspoon   = "tsp"
	UnitGallon     = "gl"
	UnitQuart      = "qt"
	UnitPint       = "pt"
	UnitCup        = "cup"
)

// ValidUnits returns the set of recognized measurement units. A quantity's
// unit is either one of these or absent.
func ValidUnits() []string {
	return []string{
		UnitKilogram, UnitGram, UnitMilligram,
		UnitLitre, UnitDecilitre, UnitMillilitre,
		UnitTablespoon, UnitTeaspoon,
		UnitGallon, UnitQuart, UnitPint, UnitCup,
	}
}

// ValidUnit reports whether unit is recognized. The empty unit is valid;
// quantities like "2 eggs" have no measurement unit.
func ValidUnit(unit string) bool {
	if unit == "" {
		return true
	}
	for _, u := range ValidUnits() {
		if u == unit {
			return true
		}
	}
	return false
}

// Recipe is a stored recipe document.
type Recipe struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title        string             `json:"title" bson:"title"`
	Description  string             `json:"description" bson:"description"`
	Servings     string             `json:"servings" bson:"servings"`
	Ingredients  []Ingredient       `json:"ingredients" bson:"ingredients"`
	Instructions []string           `json:"instructions" bson:"instructions"`
	Tags         []string           `json:"tags" bson:"tags"`
	Categories   []string           `json:"categories" bson:"categories"`
	PrepTime     string             `json:"prep_time" bson:"prep_time"`
	CookTime     string             `json:"cook_time" bson:"cook_time"`
}

// Ingredient is a single recipe ingredient.
type Ingredient struct {
	Title    string   `json:"title" bson:"title"`
	Note     string   `json:"note" bson:"note"`
	Quantity Quantity `json:"quantity" bson:"quantity"`
}

// Quantity is an amount plus an optional measurement unit.
type Quantity struct {
	Value string `json:"value" bson:"value"`
	Unit  string `json:"unit,omitempty" bson:"unit,omitempty"`
}
