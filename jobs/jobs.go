package jobs

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Schedule registers the jobs on c. The reminder window follows the spacing
// of the schedule so each booking falls into exactly one run.
func Schedule(c *cron.Cron, spec string, reminders *ReminderJob, cleanup *MessageCleanupJob) error {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return err
	}
	if reminders.Interval == 0 {
		first := sched.Next(time.Now())
		reminders.Interval = sched.Next(first).Sub(first)
	}

	c.Schedule(sched, reminders)
	c.Schedule(sched, cleanup)
	log.Printf("✅ Cron jobs scheduled (%s, reminder window %s).", spec, reminders.Interval)
	return nil
}
