package handlers

import (
	"net/http"
	"strings"

	"foodgram-backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type IngredientHandler struct {
	DB *gorm.DB
}

func NewIngredientHandler(db *gorm.DB) *IngredientHandler {
	return &IngredientHandler{DB: db}
}

// likeEscaper quotes LIKE metacharacters so user input only matches
// literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// List supports a case-insensitive name prefix filter via ?name=.
func (h *IngredientHandler) List(c *gin.Context) {
	query := h.DB.Order("name")

	if name := c.Query("name"); name != "" {
		prefix := likeEscaper.Replace(strings.ToLower(name))
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, prefix+"%")
	}

	var ingredients []models.Ingredient
	if err := query.Find(&ingredients).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to fetch ingredients"})
		return
	}

	c.JSON(http.StatusOK, ingredients)
}

func (h *IngredientHandler) Retrieve(c *gin.Context) {
	var ingredient models.Ingredient
	if err := h.DB.First(&ingredient, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Ingredient not found"})
		return
	}

	c.JSON(http.StatusOK, ingredient)
}

func (h *IngredientHandler) Create(c *gin.Context) {
	if !requireStaff(c) {
		return
	}

	var input struct {
		Name            string `json:"name" binding:"required"`
		MeasurementUnit string `json:"measurement_unit" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	var existing models.Ingredient
	err := h.DB.Where("name = ? AND measurement_unit = ?", input.Name, input.MeasurementUnit).
		First(&existing).Error
	if err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"name": "This ingredient already exists"})
		return
	}

	ingredient := models.Ingredient{Name: input.Name, MeasurementUnit: input.MeasurementUnit}
	if err := h.DB.Create(&ingredient).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create ingredient"})
		return
	}

	c.JSON(http.StatusCreated, ingredient)
}

func (h *IngredientHandler) Update(c *gin.Context) {
	if !requireStaff(c) {
		return
	}

	var ingredient models.Ingredient
	if err := h.DB.First(&ingredient, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Ingredient not found"})
		return
	}

	var input struct {
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	if input.Name != "" {
		ingredient.Name = input.Name
	}
	if input.MeasurementUnit != "" {
		ingredient.MeasurementUnit = input.MeasurementUnit
	}

	if err := h.DB.Save(&ingredient).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update ingredient"})
		return
	}

	c.JSON(http.StatusOK, ingredient)
}

func (h *IngredientHandler) Delete(c *gin.Context) {
	if !requireStaff(c) {
		return
	}

	var ingredient models.Ingredient
	if err := h.DB.First(&ingredient, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Ingredient not found"})
		return
	}

	if err := h.DB.Delete(&ingredient).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to delete ingredient"})
		return
	}

	c.Status(http.StatusNoContent)
}
