package models

import (
	"time"
)

const (
	MinCookingTime = 1
	MinAmount      = 1
	MaxAmount      = 32000

	MaxPageSize = 100
)

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"size:150;uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"size:254;uniqueIndex;not null"`
	FirstName    string    `json:"first_name" gorm:"size:150;not null"`
	LastName     string    `json:"last_name" gorm:"size:150;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Avatar       *string   `json:"avatar"`
	IsStaff      bool      `json:"-" gorm:"default:false"`
	CreatedAt    time.Time `json:"-"`

	Recipes []Recipe `json:"-" gorm:"foreignKey:AuthorID"`
}

type Tag struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:256;uniqueIndex;not null"`
	Slug string `json:"slug" gorm:"size:256;uniqueIndex;not null"`
}

type Ingredient struct {
	ID              uint   `json:"id" gorm:"primaryKey"`
	Name            string `json:"name" gorm:"size:256;uniqueIndex:idx_ingredient_name_unit;not null"`
	MeasurementUnit string `json:"measurement_unit" gorm:"size:64;uniqueIndex:idx_ingredient_name_unit;not null"`
}

type Recipe struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	AuthorID    uint      `json:"-" gorm:"not null;index"`
	Name        string    `json:"name" gorm:"size:256;not null"`
	Image       string    `json:"image" gorm:"not null"`
	Text        string    `json:"text" gorm:"not null"`
	CookingTime int       `json:"cooking_time" gorm:"not null"`
	CreatedAt   time.Time `json:"-"`

	Author      User               `json:"-" gorm:"foreignKey:AuthorID"`
	Tags        []Tag              `json:"-" gorm:"many2many:recipe_tags"`
	Ingredients []RecipeIngredient `json:"-" gorm:"foreignKey:RecipeID"`
}

// RecipeIngredient is the join row carrying the amount of one ingredient
// in one recipe. A recipe lists each ingredient at most once.
type RecipeIngredient struct {
	ID           uint `gorm:"primaryKey"`
	RecipeID     uint `gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	IngredientID uint `gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	Amount       int  `gorm:"not null"`

	Ingredient Ingredient `gorm:"foreignKey:IngredientID"`
}

type Favorite struct {
	ID       uint `gorm:"primaryKey"`
	UserID   uint `gorm:"not null;uniqueIndex:idx_favorite_user_recipe"`
	RecipeID uint `gorm:"not null;uniqueIndex:idx_favorite_user_recipe"`

	Recipe Recipe `gorm:"foreignKey:RecipeID"`
}

type ShoppingCart struct {
	ID       uint `gorm:"primaryKey"`
	UserID   uint `gorm:"not null;uniqueIndex:idx_cart_user_recipe"`
	RecipeID uint `gorm:"not null;uniqueIndex:idx_cart_user_recipe"`

	Recipe Recipe `gorm:"foreignKey:RecipeID"`
}

func (ShoppingCart) TableName() string {
	return "shopping_carts"
}

// Subscription is a follow relationship. Self-subscription is rejected at
// validation time, the schema only enforces pair uniqueness.
type Subscription struct {
	ID           uint `gorm:"primaryKey"`
	SubscriberID uint `gorm:"not null;uniqueIndex:idx_subscription_pair"`
	SubscribedID uint `gorm:"not null;uniqueIndex:idx_subscription_pair"`

	Subscribed User `gorm:"foreignKey:SubscribedID"`
}
