package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"rhp-backend/internal/config"
	"rhp-backend/internal/database"
	"rhp-backend/internal/metrics"
	custommiddleware "rhp-backend/internal/middleware"
	"rhp-backend/internal/repository"
	"rhp-backend/internal/service"
	"rhp-backend/internal/storage"
	"rhp-backend/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *gorm.DB
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *gorm.DB, store storage.ImageStore) *Server {
	m := metrics.New()
	if sqlDB, err := db.DB(); err == nil {
		m.Registry().MustRegister(collectors.NewDBStatsCollector(sqlDB, "rhp"))
	}

	router := chi.NewRouter()

	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(m.Middleware)
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(middleware.Recoverer)
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins))

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("RHP Backend API"))
	})

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		health := database.Health(r.Context(), db)
		status := http.StatusOK
		if health["status"] != "up" {
			status = http.StatusServiceUnavailable
		}
		custommiddleware.RespondWithJSON(w, status, map[string]any{
			"status":   "All good!",
			"database": health,
		})
	})

	router.Handle("/metrics", m.Handler())

	if local, ok := store.(*storage.LocalStore); ok {
		mountLocalImages(router, cfg.Local.PublicBaseURL, local, logger)
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)

	// Initialize services
	productService := service.NewProductService(productRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	uploadService := service.NewUploadService(store, productService, logger,
		service.WithMaxImageSize(cfg.Images.MaxBytes))

	// Register routes
	transport.NewProductHandler(productService, logger).RegisterRoutes(router)
	transport.NewCategoryHandler(categoryService, logger).RegisterRoutes(router)
	transport.NewUploadHandler(uploadService, m, store.Name(), logger).RegisterRoutes(router)

	return &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
	}
}

// mountLocalImages serves locally stored images under the path of their public URL.
func mountLocalImages(r chi.Router, publicURL string, store *storage.LocalStore, logger *zap.Logger) {
	u, err := url.Parse(publicURL)
	if err != nil {
		logger.Warn("Not serving local images", zap.String("url", publicURL), zap.Error(err))
		return
	}
	prefix := strings.TrimRight(u.Path, "/")
	if prefix == "" {
		return
	}
	r.Handle(prefix+"/*", http.StripPrefix(prefix, store.Handler()))
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.db != nil {
		if err := database.Close(s.db); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
			return err
		}
	}

	_ = s.logger.Sync()
	return nil
}
