package jobs

import (
	"context"
	"log"
	"time"

	"github.com/anjiri1684/tutor_scheduler/services"
	"gorm.io/gorm"
)

// MessageCleanupJob deletes session messages that expired more than
// Retention ago.
type MessageCleanupJob struct {
	DB        *gorm.DB
	Clock     services.Clock
	Retention time.Duration
}

func (j *MessageCleanupJob) Run() {
	log.Println("Running job: PurgeExpiredMessages...")

	removed, err := services.PurgeExpired(context.Background(), j.DB, j.Clock.Now().Add(-j.Retention))
	if err != nil {
		log.Printf("Error purging expired messages: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("Purged %d expired message(s).", removed)
	}
}
