package handlers

import (
	"net/http"
	"strconv"

	"foodgram-backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserResponse struct {
	Email        string  `json:"email"`
	ID           uint    `json:"id"`
	Username     string  `json:"username"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	IsSubscribed bool    `json:"is_subscribed"`
	Avatar       *string `json:"avatar"`
}

type RecipeIngredientResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type RecipeResponse struct {
	ID               uint                       `json:"id"`
	Tags             []models.Tag               `json:"tags"`
	Author           UserResponse               `json:"author"`
	Ingredients      []RecipeIngredientResponse `json:"ingredients"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	Name             string                     `json:"name"`
	Image            string                     `json:"image"`
	Text             string                     `json:"text"`
	CookingTime      int                        `json:"cooking_time"`
}

type ShortRecipeResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

type SubscriptionResponse struct {
	UserResponse
	Recipes      []ShortRecipeResponse `json:"recipes"`
	RecipesCount int64                 `json:"recipes_count"`
}

func mediaURL(path string) string {
	if path == "" {
		return ""
	}
	return "/media/" + path
}

func avatarURL(avatar *string) *string {
	if avatar == nil {
		return nil
	}
	url := mediaURL(*avatar)
	return &url
}

func newUserResponse(user models.User, isSubscribed bool) UserResponse {
	return UserResponse{
		Email:        user.Email,
		ID:           user.ID,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: isSubscribed,
		Avatar:       avatarURL(user.Avatar),
	}
}

// newRecipeResponse expects Author, Tags and Ingredients.Ingredient to be
// preloaded on the recipe.
func newRecipeResponse(recipe models.Recipe, isFavorited, isInCart, authorSubscribed bool) RecipeResponse {
	ingredients := make([]RecipeIngredientResponse, 0, len(recipe.Ingredients))
	for _, ri := range recipe.Ingredients {
		ingredients = append(ingredients, RecipeIngredientResponse{
			ID:              ri.Ingredient.ID,
			Name:            ri.Ingredient.Name,
			MeasurementUnit: ri.Ingredient.MeasurementUnit,
			Amount:          ri.Amount,
		})
	}

	tags := recipe.Tags
	if tags == nil {
		tags = []models.Tag{}
	}

	return RecipeResponse{
		ID:               recipe.ID,
		Tags:             tags,
		Author:           newUserResponse(recipe.Author, authorSubscribed),
		Ingredients:      ingredients,
		IsFavorited:      isFavorited,
		IsInShoppingCart: isInCart,
		Name:             recipe.Name,
		Image:            mediaURL(recipe.Image),
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
	}
}

func newShortRecipeResponse(recipe models.Recipe) ShortRecipeResponse {
	return ShortRecipeResponse{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       mediaURL(recipe.Image),
		CookingTime: recipe.CookingTime,
	}
}

func currentUser(c *gin.Context) *models.User {
	if value, exists := c.Get("user"); exists {
		if user, ok := value.(*models.User); ok {
			return user
		}
	}
	return nil
}

// requireUser answers 401 for anonymous callers on endpoints reached
// through optional-auth routes.
func requireUser(c *gin.Context) *models.User {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Authentication credentials were not provided"})
	}
	return user
}

// requireStaff answers 405 for anonymous and non-staff callers, matching
// the write policy on reference data.
func requireStaff(c *gin.Context) bool {
	user := currentUser(c)
	if user == nil || !user.IsStaff {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"detail": "Method not allowed for non-administrators"})
		return false
	}
	return true
}

func paginationParams(c *gin.Context, defaultLimit int) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > models.MaxPageSize {
		limit = models.MaxPageSize
	}

	return page, limit, (page - 1) * limit
}

func pageCount(total int64, limit int) int {
	return (int(total) + limit - 1) / limit
}

// subscribedSet returns the ids among userIDs the viewer is subscribed to.
func subscribedSet(db *gorm.DB, viewer *models.User, userIDs []uint) map[uint]bool {
	set := make(map[uint]bool)
	if viewer == nil || len(userIDs) == 0 {
		return set
	}

	var subscriptions []models.Subscription
	db.Where("subscriber_id = ? AND subscribed_id IN ?", viewer.ID, userIDs).Find(&subscriptions)
	for _, sub := range subscriptions {
		set[sub.SubscribedID] = true
	}
	return set
}
