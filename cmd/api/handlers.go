package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/attribute"

	"recipebook/pkg/logger"
	"recipebook/pkg/metrics"
	"recipebook/pkg/otel"
	"recipebook/pkg/recipe"
)

// maxBodyBytes caps POST /recipes payloads.
const maxBodyBytes = 32 << 10

// api binds the HTTP routes to a recipe repository.
type api struct {
	repo    recipe.Repository
	log     *logger.Logger
	metrics *metrics.Metrics
}

// pingHandler reports liveness.
// @Summary Ping
// @Description Liveness probe; does not touch the store
// @Produce plain
// @Success 200 {string} string "pong"
// @Router /ping [get]
func pingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, "pong")
}

// listRecipesHandler lists recipe names.
// @Summary List recipe names
// @Produce json
// @Success 200 {array} string
// @Router /recipes [get]
func (a *api) listRecipesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "listRecipesHandler")
	defer span.End()

	names, err := a.repo.ListNames(ctx)
	if err != nil {
		a.log.Error(ctx, "list recipes", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	span.SetAttributes(attribute.Int("recipe.count", len(names)))
	writeJSON(w, http.StatusOK, names)
}

// createRecipeHandler stores a recipe, replacing any recipe with the same name.
// @Summary Create or overwrite recipe
// @Description Stores the recipe under its name, replacing any previous record
// @Accept json
// @Param recipe body recipe.Recipe true "Recipe"
// @Success 201
// @Failure 400
// @Failure 413
// @Router /recipes [post]
func (a *api) createRecipeHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "createRecipeHandler")
	defer span.End()

	rec, err := recipe.Decode(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		a.metrics.DecodeErrors.Add(1)
		a.log.Debug(ctx, "rejected recipe", "error", err)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, fmt.Sprintf("invalid recipe: %v", err), http.StatusBadRequest)
		return
	}

	span.SetAttributes(attribute.String("recipe.name", rec.Name))
	if err := a.repo.Put(ctx, rec.Name, rec); err != nil {
		a.log.Error(ctx, "put recipe", "name", rec.Name, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	a.metrics.Puts.Add(1)
	w.WriteHeader(http.StatusCreated)
}

// getRecipeHandler retrieves a recipe by name.
// @Summary Get recipe
// @Produce json
// @Param name path string true "Recipe name"
// @Success 200 {object} recipe.Recipe
// @Failure 404
// @Router /recipes/{name} [get]
func (a *api) getRecipeHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "getRecipeHandler")
	defer span.End()

	name := mux.Vars(r)["name"]
	span.SetAttributes(attribute.String("recipe.name", name))

	rec, err := a.repo.Get(ctx, name)
	if err != nil {
		if errors.Is(err, recipe.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		a.log.Error(ctx, "get recipe", "name", name, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(b)
}
