// Package recipe defines the recipe record and the repository contract
// shared by the store and the HTTP layer.
package recipe

import (
	"context"
	"encoding/json"
	"errors"
	"io"
)

// Recipe represents a named dish. Name is the key; the remaining fields are
// free-form and optional.
type Recipe struct {
	Name       string `json:"name"`
	Category   string `json:"category,omitempty"`
	Method     string `json:"method,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
}

// Repository defines behavior for storing recipes.
type Repository interface {
	// Put stores r under name, replacing any previous record for that name.
	Put(ctx context.Context, name string, r Recipe) error
	// ListNames returns the names of all stored recipes.
	ListNames(ctx context.Context) ([]string, error)
	Get(ctx context.Context, name string) (Recipe, error)
}

// ErrNotFound indicates the requested recipe does not exist.
var ErrNotFound = errors.New("recipe not found")

// ErrMissingName is returned when a payload has no usable name field.
var ErrMissingName = errors.New("missing field `name`")

// UnmarshalJSON decodes a recipe object. The name field must be present and a
// string; the other fields may be absent or null.
func (r *Recipe) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name       *string `json:"name"`
		Category   *string `json:"category"`
		Method     *string `json:"method"`
		Difficulty *string `json:"difficulty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Name == nil {
		return ErrMissingName
	}
	*r = Recipe{
		Name:       *raw.Name,
		Category:   deref(raw.Category),
		Method:     deref(raw.Method),
		Difficulty: deref(raw.Difficulty),
	}
	return nil
}

// Decode reads a single recipe object from rd. Anything after the object
// other than whitespace is an error.
func Decode(rd io.Reader) (Recipe, error) {
	body, err := io.ReadAll(rd)
	if err != nil {
		return Recipe{}, err
	}
	var r Recipe
	if err := json.Unmarshal(body, &r); err != nil {
		return Recipe{}, err
	}
	return r, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
