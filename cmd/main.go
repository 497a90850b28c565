package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"internship-platform/internal/auth"
	"internship-platform/internal/config"
	"internship-platform/internal/database"
	"internship-platform/internal/handlers"
	"internship-platform/internal/mailer"
	"internship-platform/internal/notifier"
	"internship-platform/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize JWT
	auth.InitJWT(cfg.App.JWTSecret)

	// Connect to database
	if err := database.Connect(cfg.GetDSN()); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Outbound mail degrades to a no-op when SMTP is not configured
	var outbound mailer.Mailer
	if cfg.SMTPConfigured() {
		outbound = mailer.NewSMTPMailer(cfg.SMTP)
	} else {
		log.Println("SMTP not configured, email notifications disabled")
		outbound = mailer.Noop{}
	}

	// Background notification queue
	emailNotifier := notifier.New(outbound, 256)

	// Initialize services
	db := database.GetDB()
	programService := services.NewProgramService(db)
	orderService := services.NewOrderService(db)
	paymentService := services.NewPaymentService(db, emailNotifier, cfg.Gateway.KeySecret)
	referralService := services.NewReferralService(db, emailNotifier, cfg.App.FrontendURL)
	affiliateService := services.NewAffiliateService(db)

	// Initialize handlers
	programHandler := handlers.NewProgramHandler(programService)
	paymentHandler := handlers.NewPaymentHandler(orderService, paymentService)
	referralHandler := handlers.NewReferralHandler(referralService)
	affiliateHandler := handlers.NewAffiliateHandler(affiliateService)

	// Set up Gin router
	router := gin.Default()

	// CORS middleware
	allowedOrigins := []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	}
	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Public routes
	router.GET("/api/programs", programHandler.GetPrograms)
	router.GET("/api/programs/:id", programHandler.GetProgramByID)
	router.POST("/api/referrals/validate", referralHandler.ValidateReferral)

	// API routes (protected)
	api := router.Group("/api")
	api.Use(auth.AuthMiddleware())
	{
		payments := api.Group("/payments")
		{
			payments.POST("/orders", paymentHandler.CreateOrder)
			payments.POST("/verify", paymentHandler.VerifyPayment)
			payments.GET("/orders", paymentHandler.GetMyOrders)
		}

		referrals := api.Group("/referrals")
		{
			referrals.POST("/generate", referralHandler.GenerateReferral)
			referrals.GET("", referralHandler.GetMyReferrals)
		}

		affiliates := api.Group("/affiliates")
		{
			affiliates.POST("/apply", affiliateHandler.Apply)
			affiliates.GET("/me", affiliateHandler.GetMyAffiliate)
		}
	}

	// Admin routes (protected + admin only)
	admin := router.Group("/api/admin")
	admin.Use(auth.AuthMiddleware())
	admin.Use(auth.RequireAdmin())
	{
		admin.POST("/programs", programHandler.CreateProgram)
		admin.PUT("/programs/:id", programHandler.UpdateProgram)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		log.Printf("Health check: http://localhost:%s/health", cfg.Server.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	// Drain queued notifications before exit
	emailNotifier.Close()

	log.Println("Server exited")
}
