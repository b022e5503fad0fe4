package main

import (
	"fmt"
	"strings"
	"time"

	"izinkuy/assist"
	"izinkuy/auth"
	"izinkuy/cloud"
	"izinkuy/config"
	"izinkuy/handlers/api"
	"izinkuy/handlers/web"
	"izinkuy/letter"
	"izinkuy/middleware"
	"izinkuy/state"
	"izinkuy/storage"
	"izinkuy/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/template/html/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/nicksnyder/go-i18n/v2/i18n"
)

// Helper function to determine if request is an API request
func isAPIRequest(c *fiber.Ctx) bool {
	if c == nil {
		return false
	}

	// Check for HTMX request first
	if c.Get("HX-Request") != "" {
		return true
	}

	// Safely check if path starts with /api
	path := c.Path()
	return len(path) >= 4 && path[:4] == "/api"
}

func main() {
	utils.Log.Info("Initializing IzinKuy...")

	// Load configuration
	cfg, err := config.LoadConfig("config.toml")
	if err != nil {
		utils.Log.Fatal("Failed to load config: %v", err)
	}

	// Initialize i18n system
	if err := utils.InitI18n(cfg.I18n.DefaultLanguage); err != nil {
		utils.Log.Error("Failed to initialize i18n: %v", err)
	}

	// Open the local database
	db, err := storage.InitDB(cfg.Storage.DataDir)
	if err != nil {
		utils.Log.Fatal("Failed to open database: %v", err)
	}
	defer db.Close()

	stateStore := storage.NewStateStore(db)
	userStorage := storage.NewUserStorage(db)
	cloudStore := cloud.NewLocalStore(db)

	authService := auth.NewService(userStorage)

	manager, err := state.NewManager(stateStore, cloudStore, authService)
	if err != nil {
		utils.Log.Fatal("Failed to load application state: %v", err)
	}

	// The assistant is optional; without an API key polishing is a no-op.
	var rephraser assist.Rephraser = assist.Noop{}
	if cfg.Assistant.APIKey != "" {
		rephraser = assist.NewClient(cfg.Assistant.Endpoint, cfg.Assistant.APIKey, cfg.Assistant.Model)
	}

	// Session store backed by the same database
	store := session.New(session.Config{
		Storage:        storage.NewSessionStorage(db),
		Expiration:     time.Duration(cfg.Auth.SessionHours) * time.Hour,
		CookieSecure:   false, // Set to true in production with HTTPS
		CookieHTTPOnly: true,
	})

	// Initialize template engine with custom functions
	engine := html.New("./templates", ".html")

	// String manipulation functions
	engine.AddFunc("split", strings.Split)
	engine.AddFunc("join", strings.Join)
	engine.AddFunc("lower", strings.ToLower)
	engine.AddFunc("upper", strings.ToUpper)
	engine.AddFunc("trim", strings.TrimSpace)
	engine.AddFunc("hasPrefix", strings.HasPrefix)

	// i18n template functions
	engine.AddFunc("t", func(messageID string) string {
		// This will be overridden per-request with the correct localizer
		return utils.T(utils.Localizer, messageID)
	})

	engine.AddFunc("tWithData", func(messageID string, data map[string]interface{}) string {
		return utils.TWithData(utils.Localizer, messageID, data)
	})

	// Date helpers matching the generated letters
	engine.AddFunc("formatDate", letter.FormatDate)
	engine.AddFunc("dayName", letter.DayName)
	engine.AddFunc("formatTimestamp", func(ms int64) string {
		return time.UnixMilli(ms).Format("02/01/2006 15:04")
	})

	engine.Reload(true)

	// Initialize Fiber with template engine
	app := fiber.New(fiber.Config{
		Views:       engine,
		ViewsLayout: "layouts/main", // Default layout
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError

			// Check for AppError
			if appErr, ok := err.(*utils.AppError); ok {
				code = appErr.Code
				utils.Log.Error("Application error: %v", appErr)
			} else if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			// Handle API requests differently
			if isAPIRequest(c) {
				return c.Status(code).JSON(fiber.Map{
					"error": err.Error(),
				})
			}

			// Render error page for regular requests
			return c.Status(code).Render("error", fiber.Map{
				"Error": err.Error(),
				"Code":  code,
			})
		},
	})

	// Add global middleware
	app.Use(recover.New())  // Recover from panics
	app.Use(logger.New())   // Request logging
	app.Use(compress.New()) // Response compression
	app.Use(helmet.New(helmet.Config{ // Security headers
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "SAMEORIGIN",
		ReferrerPolicy:        "no-referrer",
		ContentSecurityPolicy: "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline';",
	}))

	// Add locale middleware
	app.Use(middleware.LocaleMiddleware())

	// Add rate limiting (100 requests per minute per IP)
	app.Use(middleware.RateLimiter(100, time.Minute))

	// Issue a CSRF cookie on page loads; API mutations must echo it back.
	app.Use(func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodGet && !isAPIRequest(c) && c.Cookies("csrf_token") == "" {
			middleware.GenerateCSRFToken(c)
		}
		return c.Next()
	})

	// Serve static files
	app.Static("/assets", "./assets", fiber.Static{
		Compress:      true,
		CacheDuration: 24 * time.Hour,
	})

	// Initialize web handlers
	webAuthHandler := web.NewAuthHandler(store, cfg, authService)
	pageHandler := web.NewPageHandler(store, cfg, manager)

	// Initialize API handlers
	generatorHandler := api.NewGeneratorHandler(manager, rephraser)
	profileHandler := api.NewProfileHandler(manager)
	scheduleHandler := api.NewScheduleHandler(manager)
	templateHandler := api.NewTemplateHandler(manager)
	historyHandler := api.NewHistoryHandler(manager)
	backupHandler := api.NewBackupHandler(manager)
	syncHandler := api.NewSyncHandler(manager)
	adminHandler := api.NewAdminHandler(userStorage, cloudStore, cfg)
	notificationHandler := api.NewNotificationHandler(manager)
	i18nHandler := &api.I18nHandler{}

	// Auth routes
	app.Get("/login", webAuthHandler.ShowLogin)
	app.Post("/login", webAuthHandler.HandleLogin)
	app.Get("/register", webAuthHandler.ShowRegister)
	app.Post("/register", webAuthHandler.HandleRegister)
	app.Get("/logout", webAuthHandler.HandleLogout)

	// Main web routes. The app works without an account; signing in only
	// enables cloud sync.
	app.Get("/", pageHandler.HandleGenerator)
	app.Get("/schedule", pageHandler.HandleSchedule)
	app.Get("/templates", pageHandler.HandleTemplates)
	app.Get("/history", pageHandler.HandleHistory)
	app.Get("/settings", pageHandler.HandleSettings)

	// API routes
	apiRoutes := app.Group("/api", middleware.CSRFProtection(), func(c *fiber.Ctx) error {
		manager.SetUserAgent(c.Get("User-Agent"))
		return c.Next()
	})
	{
		// Letter generation
		apiRoutes.Post("/generate/preview", generatorHandler.HandlePreview)
		apiRoutes.Post("/generate/polish", generatorHandler.HandlePolish)

		// Profile routes
		apiRoutes.Get("/profile", profileHandler.HandleGet)
		apiRoutes.Put("/profile", profileHandler.HandleUpdate)

		// Schedule routes
		apiRoutes.Get("/schedules", scheduleHandler.HandleList)
		apiRoutes.Post("/schedules", scheduleHandler.HandleSave)
		apiRoutes.Delete("/schedules/:id", scheduleHandler.HandleDelete)

		// Template routes
		apiRoutes.Get("/templates", templateHandler.HandleList)
		apiRoutes.Put("/templates", templateHandler.HandleSave)
		apiRoutes.Post("/templates/types", templateHandler.HandleAddType)
		apiRoutes.Post("/templates/:name/reset", templateHandler.HandleReset)

		// History routes
		apiRoutes.Get("/history", historyHandler.HandleList)
		apiRoutes.Post("/history", historyHandler.HandleSave)
		apiRoutes.Delete("/history/:id", historyHandler.HandleDelete)
		apiRoutes.Delete("/history", historyHandler.HandleClear)

		// Backup routes
		apiRoutes.Get("/backup/export", backupHandler.HandleExport)
		apiRoutes.Post("/backup/import", backupHandler.HandleImport)
		apiRoutes.Post("/backup/reset", backupHandler.HandleReset)

		// Sync status and onboarding
		apiRoutes.Get("/sync/status", syncHandler.HandleStatus)
		apiRoutes.Post("/onboarding/complete", syncHandler.HandleOnboardingComplete)

		// Real-time events
		apiRoutes.Get("/events", notificationHandler.HandleSSE)

		// i18n routes
		apiRoutes.Get("/i18n/:lang", i18nHandler.GetTranslations)
	}

	// Admin routes require a signed-in session
	adminRoutes := app.Group("/admin", middleware.RequireSession(store, cfg.Auth.JWTSecret))
	{
		adminRoutes.Get("/", pageHandler.HandleAdmin)
	}
	adminAPI := app.Group("/api/admin", middleware.RequireSession(store, cfg.Auth.JWTSecret))
	{
		adminAPI.Get("/users", adminHandler.HandleUsers)
		adminAPI.Get("/analytics", adminHandler.HandleAnalytics)
	}

	// WebSocket endpoint for real-time events
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(notificationHandler.HandleWebSocket))

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// 404 Handler for undefined routes
	app.Use(func(c *fiber.Ctx) error {
		localizer := c.Locals("localizer").(*i18n.Localizer)

		if isAPIRequest(c) {
			return c.Status(404).JSON(fiber.Map{
				"error": utils.T(localizer, "error_404"),
			})
		}
		return c.Status(404).Render("error", fiber.Map{
			"Error": utils.T(localizer, "error_404"),
			"Code":  404,
		})
	})

	// Start server
	utils.Log.Info("Starting server on port %d...", cfg.Server.Port)
	if err := app.Listen(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
		utils.Log.Error("Error starting server: %v", err)
	}
}
