package faculty

import (
	"github.com/gofiber/fiber/v2"

	"github.com/b4build/vic-duty-roster-sub000/app/database"
	"github.com/b4build/vic-duty-roster-sub000/app/routes/auth"
	"github.com/b4build/vic-duty-roster-sub000/app/services"
)

var (
	store  database.Store
	engine *services.HistoryEngine
)

func SetupFacultyRoutes(app *fiber.App, s database.Store, e *services.HistoryEngine) {
	store = s
	engine = e

	api := app.Group("/api/faculty")
	api.Use(auth.AuthMiddleware)
	api.Get("/", GetFacultyListAPI)
	api.Get("/available", GetAvailableFacultyAPI)
	api.Get("/export", ExportFacultyAPI)
	api.Post("/import", ImportFacultyAPI)
	api.Post("/", CreateFacultyAPI)
	api.Get("/:id", GetFacultyAPI)
	api.Put("/:id", UpdateFacultyAPI)
}
