package stats

import (
	"github.com/gofiber/fiber/v2"

	"github.com/b4build/vic-duty-roster-sub000/app/models"
)

func GetDutyCountsAPI(c *fiber.Ctx) error {
	list, err := store.ListFaculty()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}
	counts := make([]fiber.Map, 0, len(list))
	for _, f := range list {
		counts = append(counts, fiber.Map{
			"id":         f.ID,
			"name":       f.Name,
			"department": f.Department,
			"duty_count": f.DutyCount,
		})
	}
	return c.JSON(fiber.Map{"counts": counts})
}

func GetFairnessAPI(c *fiber.Ctx) error {
	report, err := engine.FairnessReport()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(fiber.Map{"fairness": report})
}

func GetWeekdayLoadAPI(c *fiber.Ctx) error {
	load, err := engine.WeekdayLoad()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(fiber.Map{"weekday_load": load})
}

func GetHistoryAPI(c *fiber.Ctx) error {
	entries, err := store.ListHistory()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}
	if entries == nil {
		entries = []models.DutyHistoryEntry{}
	}
	return c.JSON(fiber.Map{"history": entries, "count": len(entries)})
}
