package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"foodgram-backend/config"
	"foodgram-backend/models"
	"foodgram-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RecipeHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewRecipeHandler(db *gorm.DB, cfg *config.Config) *RecipeHandler {
	return &RecipeHandler{DB: db, Cfg: cfg}
}

type recipeIngredientInput struct {
	ID     uint `json:"id"`
	Amount int  `json:"amount"`
}

type recipeInput struct {
	Tags        []uint                  `json:"tags"`
	Ingredients []recipeIngredientInput `json:"ingredients"`
	Name        string                  `json:"name"`
	Image       string                  `json:"image"`
	Text        string                  `json:"text"`
	CookingTime int                     `json:"cooking_time"`
}

// boolQuery reads a boolean filter parameter, accepting the 1/true
// spellings clients send.
func boolQuery(c *gin.Context, key string) bool {
	value := c.Query(key)
	return value == "1" || strings.EqualFold(value, "true")
}

// validateRecipeInput enforces the write-time invariants: at least one tag
// and one ingredient, no repeats, known ids, amount and cooking time bounds.
// It returns the resolved tags on success or a field-keyed error body.
func (h *RecipeHandler) validateRecipeInput(input *recipeInput) ([]models.Tag, gin.H) {
	if len(input.Ingredients) == 0 {
		return nil, gin.H{"ingredients": "At least one ingredient is required"}
	}

	ingredientIDs := make([]uint, 0, len(input.Ingredients))
	seen := make(map[uint]bool)
	for _, item := range input.Ingredients {
		if seen[item.ID] {
			return nil, gin.H{"ingredients": "Ingredients must not repeat"}
		}
		seen[item.ID] = true
		ingredientIDs = append(ingredientIDs, item.ID)

		if item.Amount < models.MinAmount {
			return nil, gin.H{"ingredients": fmt.Sprintf("Amount must be at least %d", models.MinAmount)}
		}
		if item.Amount > models.MaxAmount {
			return nil, gin.H{"ingredients": fmt.Sprintf("Amount must not exceed %d", models.MaxAmount)}
		}
	}

	if len(input.Tags) == 0 {
		return nil, gin.H{"tags": "At least one tag is required"}
	}
	seenTags := make(map[uint]bool)
	for _, id := range input.Tags {
		if seenTags[id] {
			return nil, gin.H{"tags": "Tags must not repeat"}
		}
		seenTags[id] = true
	}

	if input.CookingTime < models.MinCookingTime {
		return nil, gin.H{"cooking_time": fmt.Sprintf("Cooking time must be at least %d minute", models.MinCookingTime)}
	}

	var ingredients []models.Ingredient
	h.DB.Where("id IN ?", ingredientIDs).Find(&ingredients)
	if len(ingredients) != len(ingredientIDs) {
		return nil, gin.H{"ingredients": "Some ingredients were not found"}
	}

	var tags []models.Tag
	h.DB.Where("id IN ?", input.Tags).Find(&tags)
	if len(tags) != len(input.Tags) {
		return nil, gin.H{"tags": "Some tags were not found"}
	}

	return tags, nil
}

// resolveImage accepts either a base64 data URI or the URL of a previously
// uploaded file and returns the media-relative path to store.
func (h *RecipeHandler) resolveImage(image string) (string, error) {
	if strings.HasPrefix(image, "data:image") {
		return utils.SaveBase64Image(image, h.Cfg.MediaDir, "recipes")
	}
	if strings.HasPrefix(image, "/media/") {
		return strings.TrimPrefix(image, "/media/"), nil
	}
	return "", fmt.Errorf("unsupported image format")
}

func (h *RecipeHandler) loadRecipe(id any) (models.Recipe, error) {
	var recipe models.Recipe
	err := h.DB.Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		First(&recipe, "id = ?", id).Error
	return recipe, err
}

func (h *RecipeHandler) Create(c *gin.Context) {
	user := currentUser(c)

	var input recipeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	tags, fieldErr := h.validateRecipeInput(&input)
	if fieldErr != nil {
		c.JSON(http.StatusBadRequest, fieldErr)
		return
	}

	if input.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"name": "This field is required"})
		return
	}
	if input.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"text": "This field is required"})
		return
	}
	if input.Image == "" {
		c.JSON(http.StatusBadRequest, gin.H{"image": "This field is required"})
		return
	}
	imagePath, err := h.resolveImage(input.Image)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"image": "Invalid image"})
		return
	}

	tx := h.DB.Begin()

	recipe := models.Recipe{
		AuthorID:    user.ID,
		Name:        input.Name,
		Image:       imagePath,
		Text:        input.Text,
		CookingTime: input.CookingTime,
	}

	if err := tx.Create(&recipe).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create recipe"})
		return
	}

	recipeIngredients := make([]models.RecipeIngredient, 0, len(input.Ingredients))
	for _, item := range input.Ingredients {
		recipeIngredients = append(recipeIngredients, models.RecipeIngredient{
			RecipeID:     recipe.ID,
			IngredientID: item.ID,
			Amount:       item.Amount,
		})
	}

	if err := tx.Create(&recipeIngredients).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create recipe ingredients"})
		return
	}

	if err := tx.Model(&recipe).Association("Tags").Append(&tags); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to attach tags"})
		return
	}

	tx.Commit()

	created, err := h.loadRecipe(recipe.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to fetch created recipe"})
		return
	}

	c.JSON(http.StatusCreated, newRecipeResponse(created, false, false, false))
}

func (h *RecipeHandler) List(c *gin.Context) {
	user := currentUser(c)
	page, limit, offset := paginationParams(c, h.Cfg.PageSize)

	query := h.DB.Model(&models.Recipe{}).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient")

	if author := c.Query("author"); author != "" {
		query = query.Where("author_id = ?", author)
	}

	// Tag filtering is OR: a recipe matches when it carries at least one
	// of the requested slugs.
	if tagSlugs := c.QueryArray("tags"); len(tagSlugs) > 0 {
		tagged := h.DB.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", tagSlugs)
		query = query.Where("recipes.id IN (?)", tagged)
	}

	if user != nil && boolQuery(c, "is_favorited") {
		favorited := h.DB.Model(&models.Favorite{}).
			Select("recipe_id").
			Where("user_id = ?", user.ID)
		query = query.Where("recipes.id IN (?)", favorited)
	}

	if user != nil && boolQuery(c, "is_in_shopping_cart") {
		inCart := h.DB.Model(&models.ShoppingCart{}).
			Select("recipe_id").
			Where("user_id = ?", user.ID)
		query = query.Where("recipes.id IN (?)", inCart)
	}

	var total int64
	query.Count(&total)

	var recipes []models.Recipe
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&recipes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to fetch recipes"})
		return
	}

	recipeIDs := make([]uint, 0, len(recipes))
	authorIDs := make([]uint, 0, len(recipes))
	for _, recipe := range recipes {
		recipeIDs = append(recipeIDs, recipe.ID)
		authorIDs = append(authorIDs, recipe.AuthorID)
	}

	favorites, cart := h.membershipSets(user, recipeIDs)
	subscribed := subscribedSet(h.DB, user, authorIDs)

	results := make([]RecipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		results = append(results, newRecipeResponse(
			recipe,
			favorites[recipe.ID],
			cart[recipe.ID],
			subscribed[recipe.AuthorID],
		))
	}

	c.JSON(http.StatusOK, gin.H{
		"recipes": results,
		"total":   total,
		"page":    page,
		"limit":   limit,
		"pages":   pageCount(total, limit),
	})
}

func (h *RecipeHandler) Retrieve(c *gin.Context) {
	recipe, err := h.loadRecipe(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Recipe not found"})
		return
	}

	user := currentUser(c)
	favorites, cart := h.membershipSets(user, []uint{recipe.ID})
	subscribed := subscribedSet(h.DB, user, []uint{recipe.AuthorID})

	c.JSON(http.StatusOK, newRecipeResponse(
		recipe,
		favorites[recipe.ID],
		cart[recipe.ID],
		subscribed[recipe.AuthorID],
	))
}

func (h *RecipeHandler) Update(c *gin.Context) {
	user := currentUser(c)

	var recipe models.Recipe
	if err := h.DB.First(&recipe, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Recipe not found"})
		return
	}

	if recipe.AuthorID != user.ID && !user.IsStaff {
		c.JSON(http.StatusForbidden, gin.H{"detail": "You do not have permission to perform this action"})
		return
	}

	var input recipeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	tags, fieldErr := h.validateRecipeInput(&input)
	if fieldErr != nil {
		c.JSON(http.StatusBadRequest, fieldErr)
		return
	}

	imagePath := recipe.Image
	if input.Image != "" {
		resolved, err := h.resolveImage(input.Image)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"image": "Invalid image"})
			return
		}
		imagePath = resolved
	}

	tx := h.DB.Begin()

	// Partial update: name and text keep their stored values when omitted.
	updates := map[string]any{
		"image":        imagePath,
		"cooking_time": input.CookingTime,
	}
	if input.Name != "" {
		updates["name"] = input.Name
	}
	if input.Text != "" {
		updates["text"] = input.Text
	}
	if err := tx.Model(&recipe).Updates(updates).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update recipe"})
		return
	}

	if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update recipe ingredients"})
		return
	}

	recipeIngredients := make([]models.RecipeIngredient, 0, len(input.Ingredients))
	for _, item := range input.Ingredients {
		recipeIngredients = append(recipeIngredients, models.RecipeIngredient{
			RecipeID:     recipe.ID,
			IngredientID: item.ID,
			Amount:       item.Amount,
		})
	}
	if err := tx.Create(&recipeIngredients).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update recipe ingredients"})
		return
	}

	if err := tx.Model(&recipe).Association("Tags").Replace(&tags); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update tags"})
		return
	}

	tx.Commit()

	updated, err := h.loadRecipe(recipe.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to fetch updated recipe"})
		return
	}

	favorites, cart := h.membershipSets(user, []uint{updated.ID})
	c.JSON(http.StatusOK, newRecipeResponse(updated, favorites[updated.ID], cart[updated.ID], false))
}

func (h *RecipeHandler) Delete(c *gin.Context) {
	user := currentUser(c)

	var recipe models.Recipe
	if err := h.DB.First(&recipe, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Recipe not found"})
		return
	}

	if recipe.AuthorID != user.ID && !user.IsStaff {
		c.JSON(http.StatusForbidden, gin.H{"detail": "You do not have permission to perform this action"})
		return
	}

	tx := h.DB.Begin()

	if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to delete recipe"})
		return
	}

	for _, model := range []any{
		&models.RecipeIngredient{}, &models.Favorite{}, &models.ShoppingCart{},
	} {
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(model).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to delete recipe"})
			return
		}
	}

	if err := tx.Delete(&recipe).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to delete recipe"})
		return
	}

	tx.Commit()

	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) Favorite(c *gin.Context) {
	user := currentUser(c)

	var recipe models.Recipe
	if err := h.DB.First(&recipe, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Recipe not found"})
		return
	}

	var existing models.Favorite
	err := h.DB.Where("user_id = ? AND recipe_id = ?", user.ID, recipe.ID).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Recipe is already in favorites"})
		return
	}

	favorite := models.Favorite{UserID: user.ID, RecipeID: recipe.ID}
	if err := h.DB.Create(&favorite).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to add to favorites"})
		return
	}

	c.JSON(http.StatusCreated, newShortRecipeResponse(recipe))
}

func (h *RecipeHandler) Unfavorite(c *gin.Context) {
	user := currentUser(c)

	var recipe models.Recipe
	if err := h.DB.First(&recipe, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Recipe not found"})
		return
	}

	result := h.DB.Where("user_id = ? AND recipe_id = ?", user.ID, recipe.ID).
		Delete(&models.Favorite{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to remove from favorites"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Recipe is not in favorites"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) AddToShoppingCart(c *gin.Context) {
	user := currentUser(c)

	var recipe models.Recipe
	if err := h.DB.First(&recipe, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Recipe not found"})
		return
	}

	var existing models.ShoppingCart
	err := h.DB.Where("user_id = ? AND recipe_id = ?", user.ID, recipe.ID).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Recipe is already in the shopping cart"})
		return
	}

	item := models.ShoppingCart{UserID: user.ID, RecipeID: recipe.ID}
	if err := h.DB.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to add to shopping cart"})
		return
	}

	c.JSON(http.StatusCreated, newShortRecipeResponse(recipe))
}

func (h *RecipeHandler) RemoveFromShoppingCart(c *gin.Context) {
	user := currentUser(c)

	var recipe models.Recipe
	if err := h.DB.First(&recipe, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Recipe not found"})
		return
	}

	result := h.DB.Where("user_id = ? AND recipe_id = ?", user.ID, recipe.ID).
		Delete(&models.ShoppingCart{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to remove from shopping cart"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Recipe is not in the shopping cart"})
		return
	}

	c.Status(http.StatusNoContent)
}

type shoppingListItem struct {
	Name            string
	MeasurementUnit string
	TotalAmount     int
}

// DownloadShoppingCart sums the amounts of every ingredient across the
// recipes in the caller's cart, grouped by (name, unit), and returns the
// list as a plain-text attachment.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}

	var items []shoppingListItem
	err := h.DB.Model(&models.RecipeIngredient{}).
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS total_amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_carts.user_id = ?", user.ID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name").
		Scan(&items).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to build shopping list"})
		return
	}

	if len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Your shopping cart is empty"})
		return
	}

	var builder strings.Builder
	for i, item := range items {
		if i > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(fmt.Sprintf("%s - %d %s", item.Name, item.TotalAmount, item.MeasurementUnit))
	}

	c.Header("Content-Disposition", `attachment; filename="shopping_list.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(builder.String()))
}

func (h *RecipeHandler) GetLink(c *gin.Context) {
	id := c.Param("id")

	var count int64
	h.DB.Model(&models.Recipe{}).Where("id = ?", id).Count(&count)
	if count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"recipe": "Recipe not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"short-link": fmt.Sprintf("https://%s/s/%s", h.Cfg.DomainName, id),
	})
}

// membershipSets returns which of recipeIDs are in the user's favorites
// and shopping cart.
func (h *RecipeHandler) membershipSets(user *models.User, recipeIDs []uint) (map[uint]bool, map[uint]bool) {
	favorites := make(map[uint]bool)
	cart := make(map[uint]bool)
	if user == nil || len(recipeIDs) == 0 {
		return favorites, cart
	}

	var favoriteRows []models.Favorite
	h.DB.Where("user_id = ? AND recipe_id IN ?", user.ID, recipeIDs).Find(&favoriteRows)
	for _, row := range favoriteRows {
		favorites[row.RecipeID] = true
	}

	var cartRows []models.ShoppingCart
	h.DB.Where("user_id = ? AND recipe_id IN ?", user.ID, recipeIDs).Find(&cartRows)
	for _, row := range cartRows {
		cart[row.RecipeID] = true
	}

	return favorites, cart
}
