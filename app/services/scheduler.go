package services

import (
	"log"
	"time"
)

// StartSyncScheduler starts the background push of all three sections at
// the given interval. Failures are logged and not retried until the next
// tick.
func StartSyncScheduler(syncer *Syncer, interval time.Duration) {
	go func() {
		log.Printf("Backup sync scheduler started (every %s)...", interval)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			status, err := syncer.SyncToRemote()
			if err != nil {
				log.Printf("Scheduled backup sync failed: %v", err)
				continue
			}
			if status.Status == "ok" {
				log.Printf("Scheduled backup sync pushed sections: %v", status.Sections)
			}
		}
	}()
}
