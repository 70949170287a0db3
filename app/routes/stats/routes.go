package stats

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

func SetupStatsRoutes(app *fiber.App, s database.Store, e *services.HistoryEngine) {
	store = s
	engine = e

	api := app.Group("/api/stats")
	api.Use(auth.AuthMiddleware)
	api.Get("/duty-counts", GetDutyCountsAPI)
	api.Get("/fairness", GetFairnessAPI)
	api.Get("/weekday-load", GetWeekdayLoadAPI)
	api.Get("/history", GetHistoryAPI)
}
