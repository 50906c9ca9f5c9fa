package main

import (
	"context"
	"log"
	"time"

	"github.com/Safaet-Rabbi/Amazon/config"
	"github.com/Safaet-Rabbi/Amazon/database"
	"github.com/Safaet-Rabbi/Amazon/handlers"
	custommw "github.com/Safaet-Rabbi/Amazon/middleware"
	"github.com/Safaet-Rabbi/Amazon/routes"
	"github.com/Safaet-Rabbi/Amazon/services"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(custommw.Metrics())

	if err := database.ConnectDB(cfg.MongoURI, cfg.DBName); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.EnsureIndexes(ctx); err != nil {
		log.Fatal("Failed to create indexes:", err)
	}

	handlers.Init(services.NewManager(database.DB))

	watcher := services.NewStockWatcher(database.DB)
	if err := watcher.Start(); err != nil {
		log.Fatal("Failed to start stock watcher:", err)
	}
	defer watcher.Stop()

	routes.SetupRoutes(e)

	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
