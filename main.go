package main

import (
	"foodgram-backend/config"
	"foodgram-backend/logger"
	"foodgram-backend/models"
	"foodgram-backend/routes"
	"foodgram-backend/utils"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Load environment variables
	godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	utils.InitAuth(cfg.JWTSecret)

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.Favorite{},
		&models.ShoppingCart{},
		&models.Subscription{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	router := routes.SetupRouter(db, cfg, log)

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
