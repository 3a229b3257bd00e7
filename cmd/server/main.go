package main

import (
	"context" // context package is needed for Redis operations

	"investment_platform/internal/api"        // Custom package for API handlers
	"investment_platform/internal/auth"       // Custom package for the authorization gate
	"investment_platform/internal/config"     // Custom package for configuration
	"investment_platform/internal/db"         // Custom package for database setup
	"investment_platform/internal/domain"     // Custom package for domain models
	"investment_platform/internal/ledger"     // Custom package for the approval workflow
	"investment_platform/internal/middleware" // Custom package for middleware
	"investment_platform/internal/notify"     // Custom package for email notices

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if cfg.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET must be set") // Sessions cannot be signed without it
	}

	// Connect to the database
	conn, err := db.Open(cfg.DSN())
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Mail transport, logging only when SMTP is not configured
	var mailer notify.Mailer = notify.LogMailer{Log: logrus.StandardLogger()}
	if cfg.SMTPHost != "" {
		mailer = notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	}

	// Approval workflow with its post-commit hooks
	store := ledger.NewGormStore(conn)
	workflow := ledger.NewService(store, logrus.StandardLogger())
	workflow.OnAny(api.CacheInvalidation(redisClient)) // Keep cached views in step with the ledger
	if cfg.NotifyWithdrawalDecline {
		workflow.On(domain.KindWithdrawal, domain.StatusDeclined, notify.DeclineNotice{Mailer: mailer})
	}
	if cfg.NotifyDepositDecline {
		workflow.On(domain.KindDeposit, domain.StatusDeclined, notify.DeclineNotice{Mailer: mailer})
	}

	// Authorization gate shared by member and admin routes
	revocations := auth.NewRedisRevocations(redisClient)
	gate := &auth.SessionAuthorizer{
		Secret:  cfg.JWTSecret,     // Token signing secret
		Cookie:  cfg.SessionCookie, // Session cookie name
		Users:   store,             // Role is read from the store on every request
		Revoked: revocations,       // Logged-out sessions
	}
	sessions := api.Sessions{
		Secret:  cfg.JWTSecret,
		Cookie:  cfg.SessionCookie,
		TTL:     cfg.SessionTTL,
		Secure:  cfg.IsProd,
		Revoker: revocations,
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.New()                                    // Gin router instance
	r.Use(gin.Recovery(), middleware.RequestLogger()) // Panic recovery and structured access log

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	r.GET("/healthz", api.HealthHandler(conn, redisClient))      // Liveness endpoint
	r.GET("/api/plans", api.PlansHandler(domain.DefaultCatalog)) // Plan catalog

	// Auth routes
	authGroup := r.Group("/api/auth")
	authGroup.POST("/register", api.RegisterHandler(conn))                                     // Registration endpoint
	authGroup.POST("/login", api.LoginHandler(conn, sessions))                                 // Login endpoint
	authGroup.POST("/logout", middleware.SessionMiddleware(gate), api.LogoutHandler(sessions)) // Logout endpoint

	// Dashboard routes (any signed-in user)
	userGroup := r.Group("/api/user")
	userGroup.Use(middleware.SessionMiddleware(gate))
	userGroup.GET("/profile", api.ProfileHandler(conn))                                             // Own profile
	userGroup.POST("/deposits", api.CreateDepositHandler(conn, redisClient, domain.DefaultCatalog)) // Submit deposit
	userGroup.POST("/withdrawals", api.CreateWithdrawalHandler(conn, redisClient))                  // Submit withdrawal
	userGroup.GET("/history", api.HistoryHandler(conn, redisClient))                                // Own history
	userGroup.DELETE("/history/:id", api.DeleteHistoryHandler(conn, redisClient))                   // Remove pending entry

	// Admin routes (protected, admin only)
	adminGroup := r.Group("/api/admin")
	adminGroup.Use(middleware.AdminOnlyMiddleware(gate))
	adminGroup.GET("/users", api.ListUsersHandler(conn, redisClient))             // List users endpoint
	adminGroup.GET("/users/:id", api.GetUserHandler(conn))                        // User details
	adminGroup.PUT("/users/update/:id", api.UpdateUserHandler(conn, redisClient)) // Edit user
	adminGroup.DELETE("/users/:id", api.DeleteUserHandler(conn, redisClient))     // Delete user

	adminGroup.GET("/deposits", api.ListDepositsHandler(conn, redisClient))                // List deposits
	adminGroup.PUT("/deposits/approve/:depositId", api.ApproveDepositHandler(workflow))    // Approve deposit
	adminGroup.PUT("/deposits/decline/:depositId", api.DeclineDepositHandler(workflow))    // Decline deposit
	adminGroup.DELETE("/deposits/:depositId", api.DeleteDepositHandler(conn, redisClient)) // Delete deposit

	adminGroup.GET("/withdrawals", api.ListWithdrawalsHandler(conn, redisClient))                // List withdrawals
	adminGroup.PUT("/withdrawals/approve/:withdrawalId", api.ApproveWithdrawalHandler(workflow)) // Approve withdrawal
	adminGroup.PUT("/withdrawals/decline/:withdrawalId", api.DeclineWithdrawalHandler(workflow)) // Decline withdrawal
	adminGroup.DELETE("/withdrawals/:withdrawalId", api.DeleteWithdrawalHandler(conn, redisClient))

	logrus.Info("Server running on " + cfg.AppPort)  // Log server start
	if err := r.Run(":" + cfg.AppPort); err != nil { // Start the server on port cfg.AppPort
		logrus.Fatalf("server stopped: %v", err)
	}
}
