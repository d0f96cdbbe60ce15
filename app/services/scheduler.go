package services

import (
	"database/sql"
	"log"
	"time"

	"github.com/Upmanyu201/SchoolManagementSystem/app/database"
)

// StartScheduler starts the background task scheduler
func StartScheduler(db *sql.DB) {
	go func() {
		log.Println("Scheduler started...")
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			now := time.Now()

			// Trigger shortly after midnight so due dates roll over once
			if now.Hour() == 0 && now.Minute() == 5 {
				log.Println("Triggering scheduled tasks [00:05]...")

				flagged, err := database.MarkOverdueFees(db)
				if err != nil {
					log.Printf("Error flagging overdue fees: %v", err)
				} else if flagged > 0 {
					log.Printf("Flagged %d fees as overdue", flagged)
				}
			}
		}
	}()
}
