package api

import (
	"net/http"
	"strconv"

	"innkeeper/internal/models"
)

type recipeRequest struct {
	Name         string `json:"name"`
	Ingredients  string `json:"ingredients"`
	Instructions string `json:"instructions"`
	Image        string `json:"image"`
	CategoryID   *int64 `json:"category_id"`
}

func (rr recipeRequest) validate(w http.ResponseWriter) bool {
	if rr.Name == "" || rr.Ingredients == "" || rr.Instructions == "" {
		writeError(w, http.StatusBadRequest, "name, ingredients and instructions are required")
		return false
	}
	return true
}

func (s *HTTPServer) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	var categoryID int64
	if param := r.URL.Query().Get("category_id"); param != "" {
		id, err := strconv.ParseInt(param, 10, 64)
		if err != nil || id <= 0 {
			writeError(w, http.StatusBadRequest, "invalid category_id")
			return
		}
		categoryID = id
	}
	recipes, err := s.db.ListRecipes(r.Context(), categoryID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if recipes == nil {
		recipes = []models.Recipe{}
	}
	writeJSON(w, http.StatusOK, recipes)
}

func (s *HTTPServer) handleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	var req recipeRequest
	if !decodeJSON(w, r, &req) || !req.validate(w) {
		return
	}
	recipe := &models.Recipe{
		Name:         req.Name,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		Image:        req.Image,
		CategoryID:   req.CategoryID,
	}
	if err := s.db.CreateRecipe(r.Context(), recipe); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, recipe)
}

func (s *HTTPServer) handleGetRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	recipe, err := s.db.FindRecipe(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

func (s *HTTPServer) handleUpdateRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req recipeRequest
	if !decodeJSON(w, r, &req) || !req.validate(w) {
		return
	}
	recipe := &models.Recipe{
		ID:           id,
		Name:         req.Name,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		Image:        req.Image,
		CategoryID:   req.CategoryID,
	}
	if err := s.db.UpdateRecipe(r.Context(), recipe); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

func (s *HTTPServer) handleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.db.DeleteRecipe(r.Context(), id); err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.db.ListCategories(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *HTTPServer) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	category := &models.Category{Name: req.Name}
	if err := s.db.CreateCategory(r.Context(), category); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

func (s *HTTPServer) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.db.DeleteCategory(r.Context(), id); err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
