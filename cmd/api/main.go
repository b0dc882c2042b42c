package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/garageworks/garage-scheduler/internal/cache"
	"github.com/garageworks/garage-scheduler/internal/config"
	dbpkg "github.com/garageworks/garage-scheduler/internal/db"
	"github.com/garageworks/garage-scheduler/internal/routes"
)

func main() {

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	availCache := cache.NewAvailabilityCache(cfg.RedisAddr)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, availCache, cfg)

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
