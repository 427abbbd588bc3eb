package main

import (
	"log"
	"os"

	"github.com/dinkhousedev/dink-house-db/db"
	_ "github.com/dinkhousedev/dink-house-db/docs"
	"github.com/dinkhousedev/dink-house-db/routes"

	"github.com/gin-gonic/gin"
)

// @title Dink House Crowdfunding API
// @version 1.0
// @description Crowdfunding and booking backend for The Dink House: campaigns, contribution tiers, Stripe checkout and webhook reconciliation, backer benefits and court sponsorships.
// @host localhost:8080
// @BasePath /
// @SecurityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter the JWT with the Bearer prefix: Bearer <JWT>
func main() {

	gin.SetMode(gin.ReleaseMode)

	db.InitDB()

	r := routes.SetupRouter()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Error starting the server:", err)
	}
}
