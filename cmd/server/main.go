package main

import (
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/openbook-app/backend/internal/router"
	"github.com/openbook-app/backend/pkg/config"
	"github.com/openbook-app/backend/validators"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.Load()
	if cfg.Env == "development" {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		log.SetLevel(logrus.DebugLevel)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB()

	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	router.SetupMiddleware(e, log)
	sink, err := router.SetupRoutes(e, db, log)
	if err != nil {
		log.Fatalf("Failed to set up routes: %v", err)
	}
	defer sink.Close()

	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
