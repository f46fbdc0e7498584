package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/example/electricity-record/internal/config"
	"github.com/example/electricity-record/internal/handlers"
	"github.com/example/electricity-record/internal/middleware"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, rdb *redis.Client, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg)
	recordHandler := handlers.NewRecordHandler(db, cfg)
	customerHandler := handlers.NewCustomerHandler(db)
	adminHandler := handlers.NewAdminHandler(db)

	authRequired := middleware.AuthMiddleware(db, cfg)
	adminRequired := middleware.AdminMiddleware()
	authLimited := middleware.AuthRateLimit(rdb, cfg)

	app.Static("/uploads", cfg.UploadDir)

	api := app.Group("/api")
	api.Get("/health", handlers.Health)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authLimited, authHandler.Register)
	auth.Post("/login", authLimited, authHandler.Login)
	auth.Get("/me", authRequired, authHandler.Me)
	auth.Get("/profile", authRequired, authHandler.GetProfile)
	auth.Put("/profile", authRequired, authHandler.UpdateProfile)
	auth.Post("/logout", authRequired, authHandler.Logout)

	// Record routes; submit-payment stays public so share-link visitors can
	// attach payment evidence without an account.
	records := api.Group("/records")
	records.Post("/:id/submit-payment", recordHandler.SubmitPayment)
	records.Get("/mine", authRequired, recordHandler.Mine)
	records.Get("/last", authRequired, recordHandler.Last)
	records.Get("/export", authRequired, recordHandler.Export)
	records.Post("/", authRequired, recordHandler.Create)
	records.Put("/:id", authRequired, recordHandler.Update)
	records.Put("/:id/payment-status", authRequired, recordHandler.UpdatePaymentStatus)
	records.Put("/:id/reject-payment", authRequired, recordHandler.RejectPayment)
	records.Delete("/:id", authRequired, recordHandler.Delete)

	// Customer routes; the share verification endpoint is the public entry
	// of the share gateway.
	customers := api.Group("/customers")
	customers.Post("/share/:token/verify", customerHandler.VerifyShare)
	customers.Get("/", authRequired, customerHandler.List)
	customers.Post("/", authRequired, customerHandler.Create)
	customers.Get("/:id", authRequired, customerHandler.Get)
	customers.Put("/:id", authRequired, customerHandler.Update)
	customers.Delete("/:id", authRequired, customerHandler.Delete)
	customers.Get("/:id/summary", authRequired, customerHandler.Summary)
	customers.Post("/:id/share-link", authRequired, customerHandler.ShareLink)

	// Admin routes
	admin := api.Group("/admin", authRequired, adminRequired)
	admin.Get("/users", adminHandler.ListUsers)
	admin.Put("/users/:id/upi", adminHandler.UpdateUserUpi)
	admin.Get("/records", adminHandler.ListRecords)
	admin.Put("/records/:id/payment", adminHandler.UpdateRecordPayment)
	admin.Get("/customers", adminHandler.ListCustomers)
}
