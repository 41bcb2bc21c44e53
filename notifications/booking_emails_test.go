package notifications

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/anjiri1684/tutor_scheduler/models"
	"github.com/google/uuid"
)

type capture struct {
	wg     sync.WaitGroup
	mu     sync.Mutex
	to     []string
	bodies []string
}

func (c *capture) SendEmail(_ context.Context, _, toEmail, _, htmlContent string) error {
	defer c.wg.Done()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.to = append(c.to, toEmail)
	c.bodies = append(c.bodies, htmlContent)
	return nil
}

func TestBookingCancelledEscapesReason(t *testing.T) {
	student := &models.User{ID: uuid.New(), FullName: "Sam", Email: "sam@example.com"}
	tutor := &models.User{ID: uuid.New(), FullName: "Tina", Email: "tina@example.com"}
	reason := `<a href="https://evil.example">click</a> & run`
	b := &models.Booking{
		StudentID:          student.ID,
		TutorID:            tutor.ID,
		Student:            student,
		Tutor:              tutor,
		ScheduledStartTime: time.Date(2024, 1, 10, 14, 0, 0, 0, time.UTC),
		CancelledBy:        &student.ID,
		CancellationReason: &reason,
	}

	c := &capture{}
	c.wg.Add(1)
	BookingCancelled(c, b)
	c.wg.Wait()

	if len(c.to) != 1 || c.to[0] != "tina@example.com" {
		t.Fatalf("cancellation should reach the tutor only, got %v", c.to)
	}
	body := c.bodies[0]
	if strings.Contains(body, "<a href") {
		t.Fatalf("reason was not escaped: %s", body)
	}
	if !strings.Contains(body, "&lt;a href=&#34;https://evil.example&#34;&gt;click&lt;/a&gt; &amp; run") {
		t.Fatalf("escaped reason missing from body: %s", body)
	}
}
