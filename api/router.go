package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type RouterConfig struct {
	AllowedOrigin string
}

func NewRouter(cfg RouterConfig, log logrus.FieldLogger, reservations *ReservationHandler, tables *TableHandler) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery(), RequestLogger(log), CORS(cfg.AllowedOrigin))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Path not found: " + c.Request.URL.Path})
	})
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": c.Request.Method + " not allowed for " + c.Request.URL.Path})
	})

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	reservations.Register(router.Group("/reservations"))
	tables.Register(router.Group("/tables"))
	return router
}
