package faculty

import (
	"database/sql"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/b4build/vic-duty-roster-sub000/app/models"
	"github.com/b4build/vic-duty-roster-sub000/app/services"
)

// facultyRequest is the write payload. FID and Unavailable arrive as
// free text and are parsed into typed sets before anything is stored.
type facultyRequest struct {
	Name         string `json:"name"`
	ShortName    string `json:"short_name"`
	Department   string `json:"department"`
	Designation  string `json:"designation"`
	Gender       string `json:"gender"`
	FacultyShift string `json:"faculty_shift"`
	FID          string `json:"fid"`
	Unavailable  string `json:"unavailable"`
}

func (r *facultyRequest) apply(f *models.Faculty) {
	f.Name = strings.TrimSpace(r.Name)
	f.ShortName = strings.TrimSpace(r.ShortName)
	f.Department = strings.TrimSpace(r.Department)
	f.Designation = strings.TrimSpace(r.Designation)
	f.Gender = r.Gender
	f.FacultyShift = models.FacultyShift(r.FacultyShift)
	f.FID = services.ParseWeekdays(r.FID)
	f.Unavailable = services.ParseDates(r.Unavailable)
}

func GetFacultyListAPI(c *fiber.Ctx) error {
	list, err := store.ListFaculty()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}
	if list == nil {
		list = []*models.Faculty{}
	}
	return c.JSON(fiber.Map{"faculty": list, "count": len(list)})
}

func GetAvailableFacultyAPI(c *fiber.Ctx) error {
	date := c.Query("date")
	if date == "" {
		return c.Status(400).JSON(fiber.Map{"error": "date query parameter is required"})
	}
	if _, err := services.ParseDutyDate(date); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
	}

	all, err := store.ListFaculty()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}
	available := services.AvailableFaculty(date, all)
	if available == nil {
		available = []*models.Faculty{}
	}
	return c.JSON(fiber.Map{"faculty": available, "count": len(available), "date": date})
}

func GetFacultyAPI(c *fiber.Ctx) error {
	f, err := store.GetFaculty(c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Faculty not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(fiber.Map{"faculty": f})
}

func CreateFacultyAPI(c *fiber.Ctx) error {
	var req facultyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if strings.TrimSpace(req.Name) == "" || req.Department == "" || req.Designation == "" {
		return c.Status(400).JSON(fiber.Map{"error": "name, department and designation are required"})
	}

	if _, err := store.GetFacultyByName(req.Name); err == nil {
		return c.Status(409).JSON(fiber.Map{"error": "A faculty member with that name already exists"})
	} else if err != sql.ErrNoRows {
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}

	f := &models.Faculty{ID: uuid.NewString()}
	req.apply(f)
	if err := store.SaveFaculty(f); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create faculty"})
	}
	return c.Status(201).JSON(fiber.Map{"faculty": f})
}

func UpdateFacultyAPI(c *fiber.Ctx) error {
	f, err := store.GetFaculty(c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Faculty not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}

	var req facultyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.Status(400).JSON(fiber.Map{"error": "name is required"})
	}

	// Renames must not collide with another member's name.
	if existing, err := store.GetFacultyByName(req.Name); err == nil && existing.ID != f.ID {
		return c.Status(409).JSON(fiber.Map{"error": "A faculty member with that name already exists"})
	} else if err != nil && err != sql.ErrNoRows {
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}

	req.apply(f)
	if err := store.SaveFaculty(f); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update faculty"})
	}
	return c.JSON(fiber.Map{"faculty": f})
}

// ExportFacultyAPI returns the directory as a plain JSON array, the same
// shape ImportFacultyAPI accepts.
func ExportFacultyAPI(c *fiber.Ctx) error {
	list, err := store.ListFaculty()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}
	out := make([]models.Faculty, 0, len(list))
	for _, f := range list {
		out = append(out, *f)
	}
	return c.JSON(out)
}

// ImportFacultyAPI replaces the whole directory from a JSON array. The
// payload is validated wholesale before any write, and duty counts are
// recomputed afterwards since the imported records may carry stale ones.
func ImportFacultyAPI(c *fiber.Ctx) error {
	var list []models.Faculty
	if err := c.BodyParser(&list); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request, expected a JSON array of faculty"})
	}
	if err := services.ValidateFacultyImport(list); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	if err := store.ReplaceAllFaculty(list); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to import faculty"})
	}
	if err := engine.RecountDuties(); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to recompute duty counts"})
	}
	return c.JSON(fiber.Map{"message": "Faculty imported", "count": len(list)})
}
