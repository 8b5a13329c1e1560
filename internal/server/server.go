package server

import (
	"context"
	"net/http"
	"time"

	"gymbook/internal/config"
	"gymbook/internal/email"
	"gymbook/internal/enrollment"
	"gymbook/internal/gym"
	"gymbook/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router  *gin.Engine
	http    *http.Server
	db      *sqlx.DB
	config  *config.Config
	limiter *RateLimiter
}

// New wires repositories, services and handlers onto a gin router.
// emailService may be nil when outgoing mail is disabled.
func New(db *sqlx.DB, cfg *config.Config, emailService *email.Service) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(corsMiddleware())

	var limiter *RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, visitorTTL)
		router.Use(RateLimitMiddleware(limiter))
	}
	router.Use(RequestTimeoutMiddleware(cfg.RequestTimeout))

	gymRepo := gym.NewRepository(db)
	userRepo := user.NewRepository(db)
	enrollmentRepo := enrollment.NewRepository(db)

	var notifier enrollment.Notifier
	if emailService != nil {
		notifier = emailService
	}

	gymHandler := gym.NewHandler(gym.NewService(gymRepo))
	userHandler := user.NewHandler(user.NewService(userRepo))
	enrollmentHandler := enrollment.NewHandler(
		enrollment.NewService(enrollmentRepo, gymRepo, userRepo, notifier),
	)

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	router.GET("/ping", Ping(db))

	router.GET("/", gymHandler.ListGyms)
	router.POST("/gym", gymHandler.CreateGym)
	router.DELETE("/gym", gymHandler.DeleteGym)
	router.GET("/schedule/:id", gymHandler.GetSchedule)
	router.PUT("/schedule/:id", gymHandler.UpdateSchedule)

	router.POST("/classes", gymHandler.ListClasses)
	router.GET("/classes/:id", gymHandler.GetClass)
	router.POST("/class", gymHandler.CreateClass)
	router.DELETE("/class", gymHandler.DeleteClass)

	classes := router.Group("/classes/:id")
	{
		classes.POST("/add-user", enrollmentHandler.AddUser)
		classes.POST("/check-user", enrollmentHandler.CheckUser)
		classes.DELETE("/remove-user", enrollmentHandler.RemoveUser)
		classes.GET("/users", enrollmentHandler.ListUsers)
	}

	router.POST("/user", userHandler.Authenticate)
	router.POST("/users", userHandler.CreateUser)
	router.DELETE("/users", userHandler.DeleteUser)

	return &Server{
		router:  router,
		db:      db,
		config:  cfg,
		limiter: limiter,
	}
}

// RunMaintenance performs periodic housekeeping until ctx is done.
func (s *Server) RunMaintenance(ctx context.Context) {
	if s.limiter == nil {
		return
	}
	s.limiter.Run(ctx, time.Minute)
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:              ":" + port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       90 * time.Second,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, X-Request-ID, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
