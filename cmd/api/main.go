package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-storefront/internal/handler"
	"go-storefront/internal/middleware"
	"go-storefront/internal/model"
	"go-storefront/internal/notify"
	"go-storefront/internal/repository"
	"go-storefront/internal/service"
	"go-storefront/internal/ws"
	"go-storefront/pkg/database"
	"go-storefront/pkg/storage"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on system env")
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// 2. Setup Database
	db := database.ConnectDB()
	// Auto Migrate (Hati-hati di production, sebaiknya pakai tools migrasi terpisah)
	db.AutoMigrate(
		&model.Product{},
		&model.Admin{},
		&model.OnlineOrder{},
		&model.OnlineOrderItem{},
		&model.InventoryTransaction{},
		&model.OrderCounter{},
	)

	// 3. Seed default admin and sample products
	seedDefaults(db)

	// 4. Supporting infrastructure
	wsHub := ws.NewHub()
	go wsHub.Run()

	uploadRoot := os.Getenv("UPLOAD_ROOT")
	if uploadRoot == "" {
		uploadRoot = "static/uploads"
	}
	fileStore := storage.NewDisk(uploadRoot)

	mailer := notify.NewMailer(notify.ConfigFromEnv(), log.Logger)

	sessions := session.New(session.Config{
		Expiration:     12 * time.Hour,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})

	// 5. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	adminRepo := repository.NewAdminRepo(db)
	inventoryRepo := repository.NewInventoryRepo(db)

	catalogService := service.NewCatalogService(productRepo)
	checkoutService := service.NewCheckoutService(productRepo, orderRepo, db, fileStore, mailer, wsHub)
	orderService := service.NewOrderService(orderRepo, mailer)
	inventoryService := service.NewInventoryService(productRepo, inventoryRepo, db, fileStore, wsHub)
	adminService := service.NewAdminService(adminRepo)

	storeHandler := handler.NewStoreHandler(catalogService, checkoutService, orderService, sessions)
	adminHandler := handler.NewAdminHandler(adminService, inventoryService, orderService, sessions)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Storefront v1.0",
	})

	// Middleware
	app.Use(fiberlogger.New()) // Logging request
	app.Use(recover.New())     // Panic recovery
	app.Use(cors.New())        // CORS

	// 7. Routes
	// ============ STOREFRONT ============
	app.Get("/", storeHandler.ListProducts)
	app.Get("/product/:id", storeHandler.GetProduct)
	app.Post("/product/:id", storeHandler.AddToCart)
	app.Get("/cart", storeHandler.GetCart)
	app.Post("/cart/update/:id", storeHandler.UpdateCart)
	app.Get("/cart/remove/:id", storeHandler.RemoveFromCart)
	app.Get("/cart/clear", storeHandler.ClearCart)
	app.Get("/checkout", storeHandler.ShowCheckout)
	app.Post("/checkout", storeHandler.Checkout)
	app.Get("/success", storeHandler.Success)
	app.Get("/track-order", storeHandler.TrackOrder)
	app.Post("/track-order", storeHandler.TrackOrder)

	// ============ ADMIN PANEL ============
	admin := app.Group("/admin")
	admin.Get("/login", adminHandler.ShowLogin)
	admin.Post("/login", adminHandler.Login)
	admin.Get("/logout", adminHandler.Logout)

	// All routes below require the admin session marker
	protected := admin.Group("", middleware.RequireAdmin(sessions))
	protected.Get("/orders", adminHandler.ListOrders)
	protected.Get("/order/:id", adminHandler.GetOrder)
	protected.Post("/order/:id", adminHandler.UpdateOrderStatus)
	protected.Post("/order/:id/send-invoice", adminHandler.SendInvoice)
	protected.Get("/inventory", adminHandler.ListInventory)
	protected.Get("/products", adminHandler.ListProducts)
	protected.Post("/product/add", adminHandler.AddProduct)
	protected.Get("/product/edit/:id", adminHandler.ShowProduct)
	protected.Post("/product/edit/:id", adminHandler.EditProduct)
	protected.Post("/product/delete/:id", adminHandler.DeleteProduct)
	protected.Get("/product/:id/inventory", adminHandler.ShowProduct)
	protected.Post("/product/:id/inventory", adminHandler.AddInventory)
	protected.Get("/admins", adminHandler.ListAdmins)
	protected.Post("/admins", adminHandler.CreateAdmin)
	protected.Post("/admin/:id/change-password", adminHandler.ChangePassword)

	// Live stock feed for the admin panel
	protected.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	protected.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "5000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// seedDefaults creates the bootstrap admin and a couple of sample products on
// an empty database.
func seedDefaults(db *gorm.DB) {
	adminRepo := repository.NewAdminRepo(db)
	productRepo := repository.NewProductRepo(db)

	count, err := adminRepo.Count()
	if err == nil && count == 0 {
		password := os.Getenv("ADMIN_PASSWORD")
		if password == "" {
			password = "admin123"
		}
		admin := &model.Admin{Username: "admin"}
		if err := admin.SetPassword(password); err != nil {
			log.Warn().Err(err).Msg("failed to hash bootstrap admin password")
			return
		}
		if err := adminRepo.Create(admin); err != nil {
			log.Warn().Err(err).Msg("failed to create bootstrap admin")
		} else {
			log.Info().Msg("bootstrap admin created: admin")
		}
	}

	products, err := productRepo.FindAll()
	if err == nil && len(products) == 0 {
		samples := []model.Product{
			{Name: "Produk A", Description: "Contoh A", Price: 10, Stock: 5},
			{Name: "Produk B", Description: "Contoh B", Price: 25, Stock: 2},
		}
		for i := range samples {
			if err := productRepo.Create(&samples[i]); err != nil {
				log.Warn().Err(err).Msg("failed to seed sample product")
			}
		}
	}
}
