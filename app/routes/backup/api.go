package backup

import (
	"database/sql"
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/b4build/vic-duty-roster-sub000/app/models"
)

// Blob keys under which this instance stores pushed sections when it acts
// as the remote for another copy of the app.
const (
	blobKeyPrefix = "backup/"
	blobKeyMeta   = "backup/meta"
	blobKeyLegacy = "backup/all"
)

// SyncAPI pushes the requested sections (default all) to the configured
// remote.
func SyncAPI(c *fiber.Ctx) error {
	var req struct {
		Sections []models.BackupSection `json:"sections"`
	}
	// An empty body means "push everything".
	c.BodyParser(&req)

	status, err := syncer.SyncToRemote(req.Sections...)
	if err != nil {
		return c.Status(502).JSON(fiber.Map{"error": "Push failed", "detail": err.Error()})
	}
	return c.JSON(fiber.Map{"sync": status})
}

// HydrateAPI pulls the remote snapshot and merges it per section.
func HydrateAPI(c *fiber.Ctx) error {
	status, err := syncer.HydrateFromRemote()
	if err != nil {
		return c.Status(502).JSON(fiber.Map{"error": "Pull failed", "detail": err.Error()})
	}
	return c.JSON(fiber.Map{"hydrate": status})
}

func ExportAPI(c *fiber.Ctx) error {
	snap, err := syncer.Export()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Export failed"})
	}
	return c.JSON(snap)
}

// ImportAPI restores an exported snapshot. Destructive, so it requires
// confirmation alongside the payload.
func ImportAPI(c *fiber.Ctx) error {
	var req struct {
		Confirm bool                  `json:"confirm"`
		Data    models.BackupSnapshot `json:"data"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if !req.Confirm {
		return c.Status(400).JSON(fiber.Map{"error": "Import requires confirmation"})
	}
	if err := syncer.Import(&req.Data); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Backup imported"})
}

// ResetAllAPI wipes every duty chart and the whole history. Faculty
// records survive with zeroed counts.
func ResetAllAPI(c *fiber.Ctx) error {
	var req struct {
		Confirm bool `json:"confirm"`
	}
	if err := c.BodyParser(&req); err != nil || !req.Confirm {
		return c.Status(400).JSON(fiber.Map{"error": "Reset requires confirmation"})
	}
	if err := store.ReplaceAllAssignments(nil); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to clear duty charts"})
	}
	if err := engine.ResetAll(); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to clear history"})
	}
	return c.JSON(fiber.Map{"message": "All duty data cleared"})
}

// GetRemoteAPI assembles the stored section blobs into one envelope, the
// GET half of the remote backup contract. Falls back to the legacy
// combined blob when no per-section blobs exist; 404 when nothing is
// stored at all.
func GetRemoteAPI(c *fiber.Ctx) error {
	out := map[string]json.RawMessage{}

	for _, section := range models.AllSections {
		data, err := store.GetBlob(blobKeyPrefix + string(section))
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Storage error"})
		}
		out[string(section)] = data
	}

	if meta, err := store.GetBlob(blobKeyMeta); err == nil {
		out["_meta"] = meta
	} else if err != sql.ErrNoRows {
		return c.Status(500).JSON(fiber.Map{"error": "Storage error"})
	}

	if len(out) == 0 {
		if legacy, err := store.GetBlob(blobKeyLegacy); err == nil {
			c.Set("Content-Type", "application/json")
			return c.Send(legacy)
		}
		return c.Status(404).JSON(fiber.Map{"error": "No backup stored"})
	}

	return c.JSON(out)
}

// PutRemoteAPI stores each section present in the body as its own blob and
// merges the submitted stamps into the stored meta map.
func PutRemoteAPI(c *fiber.Ctx) error {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON body"})
	}

	var updated []string
	for _, section := range models.AllSections {
		raw, ok := body[string(section)]
		if !ok {
			continue
		}
		if err := store.PutBlob(blobKeyPrefix+string(section), raw); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Storage error"})
		}
		updated = append(updated, string(section))
	}

	if rawMeta, ok := body["_meta"]; ok {
		meta := map[string]string{}
		if existing, err := store.GetBlob(blobKeyMeta); err == nil {
			json.Unmarshal(existing, &meta)
		}
		incoming := map[string]string{}
		if err := json.Unmarshal(rawMeta, &incoming); err == nil {
			for k, v := range incoming {
				meta[k] = v
			}
		}
		merged, _ := json.Marshal(meta)
		if err := store.PutBlob(blobKeyMeta, merged); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Storage error"})
		}
	}

	if len(updated) == 0 {
		return c.JSON(fiber.Map{"skipped": true})
	}
	return c.JSON(fiber.Map{"ok": true, "updatedSections": updated})
}
