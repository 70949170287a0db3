package duties

import (
	"github.com/gofiber/fiber/v2"

	"github.com/b4build/vic-duty-roster-sub000/app/database"
	"github.com/b4build/vic-duty-roster-sub000/app/routes/auth"
	"github.com/b4build/vic-duty-roster-sub000/app/services"
)

var (
	store  database.Store
	engine *services.HistoryEngine
	syncer *services.Syncer
)

func SetupDutiesRoutes(app *fiber.App, s database.Store, e *services.HistoryEngine, sy *services.Syncer) {
	store = s
	engine = e
	syncer = sy

	api := app.Group("/api/duties")
	api.Use(auth.AuthMiddleware)
	api.Get("/", GetAssignmentsAPI)
	api.Get("/:date", GetAssignmentAPI)
	api.Get("/:date/draft", GetDraftAPI)
	api.Put("/:date/draft", SaveDraftAPI)
	api.Get("/:date/can-generate", CanGenerateAPI)
	api.Post("/:date/supervisor", SetSupervisorAPI)
	api.Post("/:date/slot", AssignSlotAPI)
	api.Post("/:date/slot/clear", ClearSlotAPI)
	api.Post("/:date/room", AddRoomAPI)
	api.Post("/:date/room/resize", ResizeRoomAPI)
	api.Post("/:date/room/remove", RemoveRoomAPI)
	api.Post("/:date/repeat", SetAllowRepeatAPI)
	api.Post("/:date/commit", CommitAPI)
	api.Post("/:date/reset", ResetAPI)
}
