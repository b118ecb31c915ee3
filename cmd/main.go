// Package main is the entry point for the nutriplan-service application.
//
// @title           NutriPlan Service API
// @version         1.0.0
// @description     API for building budget-aware weekly meal plans for a family.
//
//	The optimizer turns a family and a weekly budget into a shopping list, a seven day meal plan
//	and nutrition coverage. Signed-in users can keep price books and saved plans.
//
// @termsOfService  http://swagger.io/terms/
//
// @contact.name   API Support
// @contact.email  support@example.com
// @contact.url    https://github.com/guttosm/nutriplan-service
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @host      localhost:8080
// @BasePath  /
//
// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        X-API-Key
// @description                 API key for authentication. Required if authentication is enabled.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 JWT access token as "Bearer {token}".
//
// @tag.name        Foods
// @tag.description Food catalog and efficiency ranking
//
// @tag.name        Plans
// @tag.description Meal plan optimization
//
// @tag.name        Suggestions
// @tag.description Budget, meal plan and personalized suggestions
//
// @tag.name        Saved Plans
// @tag.description Plans saved by the signed-in user
//
// @tag.name        Prices
// @tag.description Per-user price books
//
// @tag.name        Profile
// @tag.description Planning defaults of the signed-in user
//
// @tag.name        Auth
// @tag.description Authentication endpoints
//
// @tag.name        Admin
// @tag.description Operational endpoints for administrators
//
// @tag.name        Health
// @tag.description Health check endpoints
package main

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	_ "github.com/guttosm/nutriplan-service/docs" // swagger docs

	"github.com/guttosm/nutriplan-service/config"
	"github.com/guttosm/nutriplan-service/internal/app"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("No .env file loaded, using process environment")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	for _, name := range cfg.InsecureDefaults() {
		log.Warn().Str("variable", name).Msg("Using development default, set it before deploying")
	}

	application := app.InitializeApp(cfg)
	server := app.NewServer(application.Router, cfg.Server.Port,
		app.WithWriteTimeout(cfg.Server.RequestTimeout+5*time.Second),
		app.WithOnShutdown(application.Close),
	)

	if err := server.Run(); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}
