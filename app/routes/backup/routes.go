package backup

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/b4build/vic-duty-roster-sub000/app/config"
	"github.com/b4build/vic-duty-roster-sub000/app/database"
	"github.com/b4build/vic-duty-roster-sub000/app/routes/auth"
	"github.com/b4build/vic-duty-roster-sub000/app/services"
)

var (
	store  database.Store
	engine *services.HistoryEngine
	syncer *services.Syncer
)

func SetupBackupRoutes(app *fiber.App, s database.Store, e *services.HistoryEngine, sy *services.Syncer) {
	store = s
	engine = e
	syncer = sy

	api := app.Group("/api/backup")

	// The blob endpoint is what other instances point BACKUP_REMOTE_URL at,
	// so it authenticates with the static remote token rather than a
	// session.
	api.Get("/remote", remoteAuth, GetRemoteAPI)
	api.Put("/remote", remoteAuth, PutRemoteAPI)

	api.Use(auth.AuthMiddleware)
	api.Post("/sync", SyncAPI)
	api.Post("/hydrate", HydrateAPI)
	api.Get("/export", ExportAPI)
	api.Post("/import", ImportAPI)
	api.Post("/reset-all", ResetAllAPI)
}

// remoteAuth admits callers presenting the configured remote token. With
// no token configured, a valid operator session works too.
func remoteAuth(c *fiber.Ctx) error {
	token := config.AppConfig.RemoteToken
	if token == "" {
		return auth.AuthMiddleware(c)
	}
	header := c.Get("Authorization")
	presented := strings.TrimPrefix(header, "Bearer ")
	if presented == header || subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
		return c.Status(401).JSON(fiber.Map{"error": "Invalid token"})
	}
	return c.Next()
}
