package duties

import (
	"database/sql"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/b4build/vic-duty-roster-sub000/app/models"
	"github.com/b4build/vic-duty-roster-sub000/app/services"
)

func validDate(c *fiber.Ctx) (string, bool) {
	date := c.Params("date")
	if _, err := services.ParseDutyDate(date); err != nil {
		return "", false
	}
	return date, true
}

// loadDraft returns the working draft for a date, seeding it from the
// committed chart when one exists, or from the default layout otherwise.
func loadDraft(date string) (*models.Assignment, error) {
	draft, err := store.GetDraft(date)
	if err == nil {
		return draft, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}
	committed, err := store.GetAssignment(date)
	if err == nil {
		return committed, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}
	return services.NewAssignment(date), nil
}

// mutate applies one chart operation to the draft and persists it.
func mutate(c *fiber.Ctx, date string, op func(a *models.Assignment)) error {
	draft, err := loadDraft(date)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}
	op(draft)
	if err := store.SaveDraft(draft); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to save draft"})
	}
	return c.JSON(fiber.Map{"draft": draft, "can_generate": services.CanGenerate(draft)})
}

func GetAssignmentsAPI(c *fiber.Ctx) error {
	list, err := store.ListAssignments()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}
	if list == nil {
		list = []models.Assignment{}
	}
	return c.JSON(fiber.Map{"duties": list, "count": len(list)})
}

func GetAssignmentAPI(c *fiber.Ctx) error {
	date, ok := validDate(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
	}
	a, err := store.GetAssignment(date)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "No duty chart for that date"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(fiber.Map{"assignment": a})
}

func GetDraftAPI(c *fiber.Ctx) error {
	date, ok := validDate(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
	}
	draft, err := loadDraft(date)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(fiber.Map{"draft": draft, "can_generate": services.CanGenerate(draft)})
}

// SaveDraftAPI persists the whole draft as submitted, after re-running the
// exclusivity sweep so a hand-edited payload cannot smuggle duplicates in.
func SaveDraftAPI(c *fiber.Ctx) error {
	date, ok := validDate(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
	}
	var draft models.Assignment
	if err := c.BodyParser(&draft); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	draft.Date = date
	services.SetAllowRepeat(&draft, draft.AllowRepeat)
	if err := store.SaveDraft(&draft); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to save draft"})
	}
	return c.JSON(fiber.Map{"draft": draft, "can_generate": services.CanGenerate(&draft)})
}

func CanGenerateAPI(c *fiber.Ctx) error {
	date, ok := validDate(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
	}
	draft, err := loadDraft(date)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(fiber.Map{"can_generate": services.CanGenerate(draft)})
}

func SetSupervisorAPI(c *fiber.Ctx) error {
	date, ok := validDate(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
	}
	var req struct {
		Shift models.ShiftNumber `json:"shift"`
		Name  string             `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	return mutate(c, date, func(a *models.Assignment) {
		services.SetSupervisor(a, req.Shift, req.Name)
	})
}

func AssignSlotAPI(c *fiber.Ctx) error {
	date, ok := validDate(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
	}
	var req struct {
		Shift  models.ShiftNumber `json:"shift"`
		RoomID string             `json:"room_id"`
		SlotID string             `json:"slot_id"`
		Name   string             `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	return mutate(c, date, func(a *models.Assignment) {
		services.AssignSlot(a, req.Shift, req.RoomID, req.SlotID, req.Name)
	})
}

func ClearSlotAPI(c *fiber.Ctx) error {
	date, ok := validDate(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
	}
	var req struct {
		Shift  models.ShiftNumber `json:"shift"`
		RoomID string             `json:"room_id"`
		SlotID string             `json:"slot_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	return mutate(c, date, func(a *models.Assignment) {
		services.ClearSlot(a, req.Shift, req.RoomID, req.SlotID)
	})
}

func AddRoomAPI(c *fiber.Ctx) error {
	date, ok := validDate(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
	}
	var req struct {
		Shift        models.ShiftNumber `json:"shift"`
		RoomNo       string             `json:"room_no"`
		StudentCount int                `json:"student_count"`
		Required     int                `json:"required_invigilators"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	return mutate(c, date, func(a *models.Assignment) {
		services.AddRoom(a, req.Shift, req.RoomNo, req.StudentCount, req.Required)
	})
}

func ResizeRoomAPI(c *fiber.Ctx) error {
	date, ok := validDate(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
	}
	var req struct {
		Shift  models.ShiftNumber `json:"shift"`
		RoomID string             `json:"room_id"`
		Count  int                `json:"count"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	return mutate(c, date, func(a *models.Assignment) {
		services.ResizeRoom(a, req.Shift, req.RoomID, req.Count)
	})
}

func RemoveRoomAPI(c *fiber.Ctx) error {
	date, ok := validDate(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
	}
	var req struct {
		Shift  models.ShiftNumber `json:"shift"`
		RoomID string             `json:"room_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	return mutate(c, date, func(a *models.Assignment) {
		services.RemoveRoom(a, req.Shift, req.RoomID)
	})
}

func SetAllowRepeatAPI(c *fiber.Ctx) error {
	date, ok := validDate(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
	}
	var req struct {
		Allow bool `json:"allow"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	return mutate(c, date, func(a *models.Assignment) {
		services.SetAllowRepeat(a, req.Allow)
	})
}

// CommitAPI promotes the draft to the canonical chart for the date,
// regenerates that date's history, and kicks off a background push of all
// sections. The push result only ever shows up in the logs; a failure
// leaves local state authoritative.
func CommitAPI(c *fiber.Ctx) error {
	date, ok := validDate(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
	}
	draft, err := store.GetDraft(date)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(400).JSON(fiber.Map{"error": "No draft to commit for that date"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}

	if err := store.SaveAssignment(draft); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to save duty chart"})
	}
	if err := engine.Commit(draft); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to regenerate history"})
	}
	if err := store.DeleteDraft(date); err != nil {
		log.Printf("Failed to drop draft for %s after commit: %v", date, err)
	}

	go func() {
		if _, err := syncer.SyncToRemote(); err != nil {
			log.Printf("Backup push after commit failed: %v", err)
		}
	}()

	return c.JSON(fiber.Map{"message": "Duty chart saved", "assignment": draft})
}

// ResetAPI deletes the committed chart, draft and history for a date.
// Destructive, so the caller has to send confirm:true.
func ResetAPI(c *fiber.Ctx) error {
	date, ok := validDate(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
	}
	var req struct {
		Confirm bool `json:"confirm"`
	}
	if err := c.BodyParser(&req); err != nil || !req.Confirm {
		return c.Status(400).JSON(fiber.Map{"error": "Reset requires confirmation"})
	}

	if err := store.DeleteAssignment(date); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete duty chart"})
	}
	if err := store.DeleteDraft(date); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete draft"})
	}
	if err := engine.ResetForDate(date); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to reset history"})
	}
	return c.JSON(fiber.Map{"message": "Duty chart reset", "date": date})
}
