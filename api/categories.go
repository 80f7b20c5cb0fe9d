package api

import (
	"net/http"

	"github.com/charles-oliveira/web-2/db"
	"github.com/charles-oliveira/web-2/models"
	"github.com/gin-gonic/gin"
)

// CreateCategory godoc
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Param category body models.CreateCategory true "Category"
// @Success 201 {object} models.CategoryResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /categories [post]
func (h *Handler) CreateCategory(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	var req models.CreateCategory
	if !h.bindJSON(c, &req) {
		return
	}
	category, err := scope.CreateCategory(c.Request.Context(), req.Input())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.NewCategoryResponse(category))
}

// GetCategories godoc
// @Summary List categories
// @Tags categories
// @Produce json
// @Param kind query string false "income or expense"
// @Param search query string false "Case-insensitive name search"
// @Success 200 {object} models.GetCategoriesResponse
// @Failure 400 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /categories [get]
func (h *Handler) GetCategories(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	f := models.CategoryFilter{Kind: models.Kind(c.Query("kind")), Search: c.Query("search")}
	categories, err := db.Collect(scope.ListCategories(c.Request.Context(), f))
	if err != nil {
		h.fail(c, err)
		return
	}
	resp := models.GetCategoriesResponse{Categories: make([]models.CategoryResponse, 0, len(categories))}
	for _, category := range categories {
		resp.Categories = append(resp.Categories, models.NewCategoryResponse(category))
	}
	c.JSON(http.StatusOK, resp)
}

// GetCategory godoc
// @Summary Get a category
// @Tags categories
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} models.CategoryResponse
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /categories/{id} [get]
func (h *Handler) GetCategory(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	category, err := scope.GetCategory(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewCategoryResponse(category))
}

// UpdateCategory godoc
// @Summary Update a category
// @Description Fields left out are unchanged. The kind cannot change while transactions use the category.
// @Tags categories
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param category body models.UpdateCategory true "Fields to change"
// @Success 200 {object} models.CategoryResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /categories/{id} [put]
func (h *Handler) UpdateCategory(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req models.UpdateCategory
	if !h.bindJSON(c, &req) {
		return
	}
	category, err := scope.UpdateCategory(c.Request.Context(), id, req.Patch())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewCategoryResponse(category))
}

// DeleteCategory godoc
// @Summary Delete a category
// @Description Soft delete. Transactions keep referencing the category.
// @Tags categories
// @Param id path int true "Category ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /categories/{id} [delete]
func (h *Handler) DeleteCategory(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := scope.DeleteCategory(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PurgeCategory godoc
// @Summary Permanently remove a deleted category
// @Tags categories
// @Param id path int true "Category ID"
// @Success 204
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /categories/{id}/purge [delete]
func (h *Handler) PurgeCategory(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := scope.PurgeCategory(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
