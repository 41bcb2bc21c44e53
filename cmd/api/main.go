package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	config "github.com/anjiri1684/tutor_scheduler/configs"
	"github.com/anjiri1684/tutor_scheduler/database"
	"github.com/anjiri1684/tutor_scheduler/handlers"
	"github.com/anjiri1684/tutor_scheduler/jobs"
	"github.com/anjiri1684/tutor_scheduler/notifications"
	"github.com/anjiri1684/tutor_scheduler/routes"
	"github.com/anjiri1684/tutor_scheduler/services"
	"github.com/anjiri1684/tutor_scheduler/websocket"
	"github.com/robfig/cron/v3"
)

func main() {
	settings := config.Load()

	db, err := database.ConnectDB(settings)
	if err != nil {
		log.Fatalf("🔥 Failed to connect to database: %v", err)
	}
	log.Println("✅ Database connection successfully opened")

	if err := database.Migrate(db); err != nil {
		log.Fatalf("🔥 Failed to migrate database: %v", err)
	}
	if err := database.SeedAdmin(db, settings); err != nil {
		log.Fatalf("🔥 Failed to seed admin: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clock := services.SystemClock{}
	notifier := notifications.NewEmailService(settings.BrevoAPIKey, settings.EmailSender, settings.EmailSenderName)

	hub := websocket.NewHub()
	go hub.Run(ctx)

	c := cron.New()
	reminders := &jobs.ReminderJob{DB: db, Clock: clock, Notifier: notifier, Lead: settings.ReminderLead}
	cleanup := &jobs.MessageCleanupJob{DB: db, Clock: clock, Retention: settings.MessageRetention}
	if err := jobs.Schedule(c, settings.CronSpec, reminders, cleanup); err != nil {
		log.Fatalf("🔥 Invalid CRON_SPEC %q: %v", settings.CronSpec, err)
	}
	c.Start()
	defer c.Stop()

	app := routes.NewApp(handlers.New(db, clock, settings, notifier, hub))

	go func() {
		<-ctx.Done()
		log.Println("Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("🔥 Shutdown error: %v", err)
		}
	}()

	log.Printf("✅ Server is running on %s", settings.HTTPAddr)
	if err := app.Listen(settings.HTTPAddr); err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
