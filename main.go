package main

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/b4build/vic-duty-roster-sub000/app/config"
	"github.com/b4build/vic-duty-roster-sub000/app/database"
	"github.com/b4build/vic-duty-roster-sub000/app/routes/auth"
	"github.com/b4build/vic-duty-roster-sub000/app/routes/backup"
	"github.com/b4build/vic-duty-roster-sub000/app/routes/duties"
	"github.com/b4build/vic-duty-roster-sub000/app/routes/faculty"
	"github.com/b4build/vic-duty-roster-sub000/app/routes/stats"
	"github.com/b4build/vic-duty-roster-sub000/app/services"
)

// customErrorHandler answers API requests with JSON and everything else
// with a plain status.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	if strings.HasPrefix(c.Path(), "/api") || strings.HasPrefix(c.Path(), "/auth") {
		return c.Status(code).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
			"code":    code,
		})
	}
	return c.SendStatus(code)
}

func main() {
	cfg := config.Load()

	var store database.Store
	if cfg.DB != nil {
		if err := database.RunMigrations(cfg.DB); err != nil {
			log.Fatal("Migrations failed:", err)
		}
		store = database.NewPostgresStore(cfg.DB)
	} else {
		log.Println("Running with in-memory store (LOCAL_ONLY)")
		store = database.NewMemoryStore()
	}

	engine := services.NewHistoryEngine(store)

	sealer, err := services.NewSealer(cfg.BackupKey)
	if err != nil {
		log.Fatal("Failed to initialize backup encryption:", err)
	}
	var remote services.RemoteStore
	if cfg.RemoteConfigured() {
		remote = services.NewHTTPRemote(cfg.RemoteURL, cfg.RemoteToken)
	} else {
		log.Println("Remote backup not configured, sync disabled")
	}
	syncer := services.NewSyncer(store, engine, remote, sealer)

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    20 * 1024 * 1024,
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000,http://localhost:5173",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	auth.SetupAuthRoutes(app)
	faculty.SetupFacultyRoutes(app, store, engine)
	duties.SetupDutiesRoutes(app, store, engine, syncer)
	stats.SetupStatsRoutes(app, store, engine)
	backup.SetupBackupRoutes(app, store, engine, syncer)

	if cfg.RemoteConfigured() && cfg.SyncInterval > 0 {
		services.StartSyncScheduler(syncer, cfg.SyncInterval)
	}

	log.Printf("Duty roster service listening on :%s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
