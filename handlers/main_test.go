package handlers_test

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"foodgram-backend/config"
	"foodgram-backend/models"
	"foodgram-backend/routes"
	"foodgram-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	utils.InitAuth("test-secret")

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.Favorite{},
		&models.ShoppingCart{},
		&models.Subscription{},
	))

	cfg := &config.Config{
		MediaDir:   t.TempDir(),
		DomainName: "foodgram.example.org",
		PageSize:   6,
	}

	return routes.SetupRouter(db, cfg, zerolog.Nop()), db
}

func createUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()

	hash, err := utils.HashPassword("password123")
	require.NoError(t, err)

	user := models.User{
		Username:     username,
		Email:        username + "@example.org",
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: hash,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createStaff(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()

	user := createUser(t, db, username)
	require.NoError(t, db.Model(&user).Update("is_staff", true).Error)
	user.IsStaff = true
	return user
}

func tokenFor(t *testing.T, user models.User) string {
	t.Helper()

	token, err := utils.GenerateJWT(user.ID, user.Email)
	require.NoError(t, err)
	return token
}

func createTag(t *testing.T, db *gorm.DB, name, slug string) models.Tag {
	t.Helper()

	tag := models.Tag{Name: name, Slug: slug}
	require.NoError(t, db.Create(&tag).Error)
	return tag
}

func createIngredient(t *testing.T, db *gorm.DB, name, unit string) models.Ingredient {
	t.Helper()

	ingredient := models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(&ingredient).Error)
	return ingredient
}

type ingredientAmount struct {
	ingredient models.Ingredient
	amount     int
}

func createRecipe(t *testing.T, db *gorm.DB, author models.User, name string, items ...ingredientAmount) models.Recipe {
	t.Helper()

	recipe := models.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Image:       "recipes/" + name + ".png",
		Text:        "Instructions for " + name,
		CookingTime: 10,
	}
	require.NoError(t, db.Create(&recipe).Error)

	for _, item := range items {
		ri := models.RecipeIngredient{
			RecipeID:     recipe.ID,
			IngredientID: item.ingredient.ID,
			Amount:       item.amount,
		}
		require.NoError(t, db.Create(&ri).Error)
	}

	return recipe
}

func pngDataURI() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("test image bytes"))
}

func recipePayload(tagIDs []uint, ingredients []map[string]any) map[string]any {
	return map[string]any{
		"tags":         tagIDs,
		"ingredients":  ingredients,
		"name":         "Pancakes",
		"image":        pngDataURI(),
		"text":         "Mix and fry",
		"cooking_time": 15,
	}
}

func doRequest(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
