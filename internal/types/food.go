package types

import (
	"fmt"
	"strings"
)

// MealEvent tags a meal with the part of the day it belongs to
type MealEvent string

const (
	Breakfast MealEvent = "breakfast"
	Lunch     MealEvent = "lunch"
	Dinner    MealEvent = "dinner"
	Snack     MealEvent = "snack"
)

// MealEvents lists every accepted meal event
var MealEvents = []MealEvent{Breakfast, Lunch, Dinner, Snack}

// ParseMealEvent normalizes client input ("Breakfast", " lunch ") into a MealEvent
func ParseMealEvent(s string) (MealEvent, error) {
	event := MealEvent(strings.ToLower(strings.TrimSpace(s)))
	for _, e := range MealEvents {
		if e == event {
			return e, nil
		}
	}
	return "", fmt.Errorf("unknown meal event %q", s)
}

// FoodEntry is one previously eaten food as handed to the generator.
// It is rebuilt from stored meals on every request.
type FoodEntry struct {
	Name      string    `json:"name"`
	Hour      int       `json:"hour"`
	Minute    int       `json:"minute"`
	MealEvent MealEvent `json:"mealEvent"`
}
