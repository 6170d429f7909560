package notification

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// overlapConn reports whether two writes ever ran at the same time.
type overlapConn struct {
	inFlight int32
	overlaps int32
	writes   int32
}

func (c *overlapConn) WriteMessage(messageType int, data []byte) error {
	if atomic.AddInt32(&c.inFlight, 1) > 1 {
		atomic.AddInt32(&c.overlaps, 1)
	}
	time.Sleep(time.Millisecond)
	atomic.AddInt32(&c.writes, 1)
	atomic.AddInt32(&c.inFlight, -1)
	return nil
}

func TestBroadcastSerializesWritesPerConnection(t *testing.T) {
	hub := NewHub(zap.NewNop())
	userID := primitive.NewObjectID()

	conn := &overlapConn{}
	hub.Register(userID.Hex(), conn)

	const broadcasts = 20
	var wg sync.WaitGroup
	for i := 0; i < broadcasts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Broadcast(&Notification{UserID: userID, Title: "Task due"})
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&conn.overlaps); got != 0 {
		t.Fatalf("observed %d concurrent writes on one connection", got)
	}
	if got := atomic.LoadInt32(&conn.writes); got != broadcasts {
		t.Fatalf("expected %d deliveries, got %d", broadcasts, got)
	}
}

func TestUnregisterStopsDelivery(t *testing.T) {
	hub := NewHub(zap.NewNop())
	userID := primitive.NewObjectID()

	conn := &overlapConn{}
	hub.Register(userID.Hex(), conn)
	hub.Unregister(userID.Hex(), conn)

	hub.Broadcast(&Notification{UserID: userID, Title: "Task due"})

	if got := atomic.LoadInt32(&conn.writes); got != 0 {
		t.Fatalf("expected no deliveries after unregister, got %d", got)
	}
}
