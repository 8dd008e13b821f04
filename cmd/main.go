package main

import (
	"os"

	"reservation-engine/cmd/cli"

	"github.com/gin-gonic/gin"
)

func init() {
	// fail safe: never expose debug output because of a missing setting
	gin.SetMode(gin.ReleaseMode)

	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	}
}

// @title           reservation-engine
// @version         1.0
// @description     Bookings for excursions, hotel rooms and flights with payment deadlines.

// @BasePath  /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cli.Execute()
}
