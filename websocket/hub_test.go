package websocket

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/anjiri1684/tutor_scheduler/models"
	"github.com/google/uuid"
)

type fakeConn struct {
	mu     sync.Mutex
	got    []interface{}
	fail   bool
	closed bool
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("broken pipe")
	}
	c.got = append(c.got, v)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.got)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubDeliversToOtherParticipant(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	student, tutor := uuid.New(), uuid.New()
	studentConn, tutorConn := &fakeConn{}, &fakeConn{}
	hub.Register <- &Client{UserID: student, Conn: studentConn}
	hub.Register <- &Client{UserID: tutor, Conn: tutorConn}

	msg := &models.SessionMessage{ID: uuid.New(), SenderID: student, MessageContent: "hi"}
	hub.Publish(msg, &models.Booking{StudentID: student, TutorID: tutor})

	waitFor(t, func() bool { return tutorConn.count() == 1 })
	if studentConn.count() != 0 {
		t.Fatalf("sender must not receive its own message")
	}
}

func TestHubDropsBrokenConnections(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	student, tutor := uuid.New(), uuid.New()
	broken := &fakeConn{fail: true}
	hub.Register <- &Client{UserID: tutor, Conn: broken}

	hub.Publish(&models.SessionMessage{ID: uuid.New(), SenderID: student}, &models.Booking{StudentID: student, TutorID: tutor})

	waitFor(t, func() bool { return !hub.Online(tutor) })
	broken.mu.Lock()
	defer broken.mu.Unlock()
	if !broken.closed {
		t.Fatalf("broken connection should be closed")
	}
}

func TestHubUnregisterKeepsNewerConnection(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	user := uuid.New()
	oldConn, newConn := &fakeConn{}, &fakeConn{}
	hub.Register <- &Client{UserID: user, Conn: oldConn}
	hub.Register <- &Client{UserID: user, Conn: newConn}
	hub.Unregister <- &Client{UserID: user, Conn: oldConn}

	waitFor(t, func() bool { return hub.Online(user) })
}

// exclusiveConn fails the test if two writes ever overlap, as the real
// socket would panic.
type exclusiveConn struct {
	t       *testing.T
	writing int32
	writes  int32
}

func (c *exclusiveConn) WriteJSON(v interface{}) error {
	if !atomic.CompareAndSwapInt32(&c.writing, 0, 1) {
		c.t.Errorf("concurrent write to connection")
		return nil
	}
	time.Sleep(time.Millisecond)
	atomic.AddInt32(&c.writes, 1)
	atomic.StoreInt32(&c.writing, 0)
	return nil
}

func (c *exclusiveConn) Close() error { return nil }

func TestHubAndHandlerWritesDoNotOverlap(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	student, tutor := uuid.New(), uuid.New()
	conn := &exclusiveConn{t: t}
	client := &Client{UserID: student, Conn: conn}
	if !hub.Join(client) {
		t.Fatalf("join failed")
	}

	const n = 20
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			_ = client.Send(map[string]string{"echo": "ok"})
		}
	}()
	for i := 0; i < n; i++ {
		hub.Broadcast <- Delivery{
			Message:    &models.SessionMessage{ID: uuid.New(), SenderID: tutor},
			Recipients: []uuid.UUID{student, tutor},
		}
	}
	wg.Wait()

	waitFor(t, func() bool { return atomic.LoadInt32(&conn.writes) == 2*n })
}

func TestJoinAndLeaveReturnAfterHubStops(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	client := &Client{UserID: uuid.New(), Conn: &fakeConn{}}
	done := make(chan bool)
	go func() {
		joined := hub.Join(client)
		hub.Leave(client)
		done <- joined
	}()

	select {
	case joined := <-done:
		if joined {
			t.Fatalf("join should fail on a stopped hub")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("join or leave blocked on a stopped hub")
	}
}
