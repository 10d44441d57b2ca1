package workers

import (
	"context"
	"log"
	"time"

	"github.com/OliverSkoczylas/SXM-GO/services"

	"github.com/go-co-op/gocron/v2"
)

// DeletionWorker runs the GDPR deletion pass on a daily schedule, mirroring
// the external cron that can also trigger it via /admin/process-deletions.
type DeletionWorker struct {
	Privacy *services.PrivacyService
}

func NewDeletionWorker(privacy *services.PrivacyService) *DeletionWorker {
	return &DeletionWorker{Privacy: privacy}
}

// Start schedules the daily pass (02:00 UTC) and shuts the scheduler down
// when ctx is cancelled.
func (w *DeletionWorker) Start(ctx context.Context) {
	sched, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		log.Printf("❌ [DELETION_WORKER] failed to create scheduler: %v", err)
		return
	}

	_, err = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(2, 0, 0))),
		gocron.NewTask(w.Run),
	)
	if err != nil {
		log.Printf("❌ [DELETION_WORKER] failed to schedule job: %v", err)
		return
	}

	sched.Start()
	log.Println("🗑️ Deletion worker scheduled (daily at 02:00)")

	go func() {
		<-ctx.Done()
		_ = sched.Shutdown()
		log.Println("Deletion worker stopped.")
	}()
}

// Run performs one pass. Exposed so the admin endpoint and tests can invoke
// the same logic the schedule does.
func (w *DeletionWorker) Run() {
	results, err := w.Privacy.ProcessExpiredDeletions("system-cron")
	if err != nil {
		log.Printf("❌ [DELETION_WORKER] pass failed: %v", err)
		return
	}
	if len(results) == 0 {
		return
	}
	log.Printf("🗑️ [DELETION_WORKER] processed %d deletion request(s)", len(results))
	for _, r := range results {
		if r.Status != "completed" {
			log.Printf("⚠️ [DELETION_WORKER] user %s: %s (%s)", r.UserID, r.Status, r.Error)
		}
	}
}
