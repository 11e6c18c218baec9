package httpapi

import (
	"log/slog"
	"net/http"

	"booktracker/internal/config"
	"booktracker/internal/microservices/http-api/handler"
	"booktracker/internal/microservices/http-api/middleware"
	"booktracker/internal/microservices/http-api/repository"
	"booktracker/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// NewRouter builds the full HTTP surface on top of an open database.
func NewRouter(cfg *config.Config, db *gorm.DB, logger *slog.Logger, opts ...service.Option) *gin.Engine {
	repo := repository.NewBookRepository(db)
	svc := service.NewBookService(repo, logger, opts...)
	return NewRouterWithService(cfg, svc, logger)
}

// NewRouterWithService wires middleware and routes around an existing service.
func NewRouterWithService(cfg *config.Config, svc service.BookService, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies(nil)

	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORSOrigins),
		middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	r.GET("/health", handler.Health)

	books := handler.NewBookHandler(svc, logger)
	books.RegisterRoutes(r.Group("/api/books"))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	return r
}
