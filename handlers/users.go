package handlers

import (
	"net/http"
	"strconv"

	"foodgram-backend/config"
	"foodgram-backend/models"
	"foodgram-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewUserHandler(db *gorm.DB, cfg *config.Config) *UserHandler {
	return &UserHandler{DB: db, Cfg: cfg}
}

func (h *UserHandler) Signup(c *gin.Context) {
	var input struct {
		Email     string `json:"email" binding:"required,email"`
		Username  string `json:"username" binding:"required,min=3,max=150"`
		FirstName string `json:"first_name" binding:"required"`
		LastName  string `json:"last_name" binding:"required"`
		Password  string `json:"password" binding:"required,min=6"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	var existing models.User
	if err := h.DB.Where("email = ?", input.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"email": "A user with this email already exists"})
		return
	}
	if err := h.DB.Where("username = ?", input.Username).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"username": "A user with this username already exists"})
		return
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create user"})
		return
	}

	user := models.User{
		Email:        input.Email,
		Username:     input.Username,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: hash,
	}

	if err := h.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, newUserResponse(user, false))
}

func (h *UserHandler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	var user models.User
	if err := h.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Unable to log in with provided credentials"})
		return
	}

	if !utils.CheckPasswordHash(input.Password, user.PasswordHash) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Unable to log in with provided credentials"})
		return
	}

	token, err := utils.GenerateJWT(user.ID, user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"auth_token": token})
}

// Logout is stateless: the client discards its token.
func (h *UserHandler) Logout(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) List(c *gin.Context) {
	page, limit, offset := paginationParams(c, h.Cfg.PageSize)

	var total int64
	h.DB.Model(&models.User{}).Count(&total)

	var users []models.User
	if err := h.DB.Order("username").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to fetch users"})
		return
	}

	viewer := currentUser(c)
	ids := make([]uint, 0, len(users))
	for _, user := range users {
		ids = append(ids, user.ID)
	}
	subscribed := subscribedSet(h.DB, viewer, ids)

	results := make([]UserResponse, 0, len(users))
	for _, user := range users {
		results = append(results, newUserResponse(user, subscribed[user.ID]))
	}

	c.JSON(http.StatusOK, gin.H{
		"users": results,
		"total": total,
		"page":  page,
		"limit": limit,
		"pages": pageCount(total, limit),
	})
}

func (h *UserHandler) Retrieve(c *gin.Context) {
	var user models.User
	if err := h.DB.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
		return
	}

	viewer := currentUser(c)
	subscribed := subscribedSet(h.DB, viewer, []uint{user.ID})

	c.JSON(http.StatusOK, newUserResponse(user, subscribed[user.ID]))
}

func (h *UserHandler) Me(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}

	c.JSON(http.StatusOK, newUserResponse(*user, false))
}

func (h *UserHandler) SetAvatar(c *gin.Context) {
	user := currentUser(c)

	var input struct {
		Avatar string `json:"avatar" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"avatar": "This field is required"})
		return
	}

	path, err := utils.SaveBase64Image(input.Avatar, h.Cfg.MediaDir, "avatars")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"avatar": "Invalid base64 image"})
		return
	}

	user.Avatar = &path
	if err := h.DB.Model(user).Update("avatar", path).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update avatar"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"avatar": mediaURL(path)})
}

func (h *UserHandler) DeleteAvatar(c *gin.Context) {
	user := currentUser(c)

	if err := h.DB.Model(user).Update("avatar", nil).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to delete avatar"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	user := currentUser(c)

	var subscribed models.User
	if err := h.DB.First(&subscribed, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
		return
	}

	if subscribed.ID == user.ID {
		c.JSON(http.StatusBadRequest, gin.H{"subscribe": "You cannot subscribe to yourself"})
		return
	}

	var existing models.Subscription
	err := h.DB.Where("subscriber_id = ? AND subscribed_id = ?", user.ID, subscribed.ID).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"subscribe": "You are already subscribed to this user"})
		return
	}

	subscription := models.Subscription{SubscriberID: user.ID, SubscribedID: subscribed.ID}
	if err := h.DB.Create(&subscription).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to subscribe"})
		return
	}

	c.JSON(http.StatusCreated, h.subscriptionResponse(c, subscribed))
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	user := currentUser(c)

	var subscribed models.User
	if err := h.DB.First(&subscribed, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
		return
	}

	result := h.DB.Where("subscriber_id = ? AND subscribed_id = ?", user.ID, subscribed.ID).
		Delete(&models.Subscription{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to unsubscribe"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"subscribe": "You are not subscribed to this user"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Subscriptions(c *gin.Context) {
	user := requireUser(c)
	if user == nil {
		return
	}
	page, limit, offset := paginationParams(c, h.Cfg.PageSize)

	var total int64
	h.DB.Model(&models.Subscription{}).Where("subscriber_id = ?", user.ID).Count(&total)

	var users []models.User
	err := h.DB.Model(&models.User{}).
		Select("users.*").
		Joins("JOIN subscriptions ON subscriptions.subscribed_id = users.id").
		Where("subscriptions.subscriber_id = ?", user.ID).
		Order("users.username").Offset(offset).Limit(limit).
		Find(&users).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to fetch subscriptions"})
		return
	}

	results := make([]SubscriptionResponse, 0, len(users))
	for _, subscribed := range users {
		results = append(results, h.subscriptionResponse(c, subscribed))
	}

	c.JSON(http.StatusOK, gin.H{
		"users": results,
		"total": total,
		"page":  page,
		"limit": limit,
		"pages": pageCount(total, limit),
	})
}

// subscriptionResponse renders a subscribed user together with their
// recipes, honoring the recipes_limit query parameter.
func (h *UserHandler) subscriptionResponse(c *gin.Context, subscribed models.User) SubscriptionResponse {
	var recipesCount int64
	h.DB.Model(&models.Recipe{}).Where("author_id = ?", subscribed.ID).Count(&recipesCount)

	query := h.DB.Where("author_id = ?", subscribed.ID).Order("created_at DESC")
	if limit, err := strconv.Atoi(c.Query("recipes_limit")); err == nil && limit > 0 {
		query = query.Limit(limit)
	}

	var recipes []models.Recipe
	query.Find(&recipes)

	short := make([]ShortRecipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		short = append(short, newShortRecipeResponse(recipe))
	}

	return SubscriptionResponse{
		UserResponse: newUserResponse(subscribed, true),
		Recipes:      short,
		RecipesCount: recipesCount,
	}
}
