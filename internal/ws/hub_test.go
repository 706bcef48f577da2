package ws

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/goleak"
)

func waitForCount(t *testing.T, h *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if h.ClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("client count never reached %d, have %d", want, h.ClientCount())
}

func TestHubDeliversToRecipientOnly(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := NewHub(nil)
	go h.Run()
	defer h.Stop()

	alice := uuid.New()
	bob := uuid.New()

	aliceClient := NewClient(h, nil, alice)
	bobClient := NewClient(h, nil, bob)
	h.Register(aliceClient)
	h.Register(bobClient)
	waitForCount(t, h, 2)

	h.SendToUser(alice, []byte(`{"type":"bid_accepted"}`))

	select {
	case got := <-aliceClient.send:
		if string(got) != `{"type":"bid_accepted"}` {
			t.Fatalf("payload = %s", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("recipient never received the event")
	}

	select {
	case got := <-bobClient.send:
		t.Fatalf("unrelated user received %s", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubFansOutToAllConnectionsOfUser(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := NewHub(nil)
	go h.Run()
	defer h.Stop()

	user := uuid.New()
	first := NewClient(h, nil, user)
	second := NewClient(h, nil, user)
	h.Register(first)
	h.Register(second)
	waitForCount(t, h, 2)

	h.SendToUser(user, []byte("ping"))

	for _, c := range []*Client{first, second} {
		select {
		case <-c.send:
		case <-time.After(2 * time.Second):
			t.Fatal("connection missed the fan-out")
		}
	}
}

func TestHubUnregisterDropsConnection(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := NewHub(nil)
	go h.Run()
	defer h.Stop()

	user := uuid.New()
	c := NewClient(h, nil, user)
	h.Register(c)
	waitForCount(t, h, 1)

	h.Unregister(c)
	waitForCount(t, h, 0)

	if _, ok := <-c.send; ok {
		t.Fatal("send channel should be closed after unregister")
	}
}

func TestHubDropsSlowClientWithoutStalling(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := NewHub(nil)
	go h.Run()
	defer h.Stop()

	user := uuid.New()
	slow := NewClient(h, nil, user)
	h.Register(slow)
	waitForCount(t, h, 1)

	// Nothing drains slow.send; once its buffer is full the hub must drop
	// the connection instead of blocking its own loop.
	for i := 0; i < cap(slow.send)+1; i++ {
		h.SendToUser(user, []byte("event"))
	}
	waitForCount(t, h, 0)

	drained := make(chan struct{})
	go func() {
		for range slow.send {
		}
		close(drained)
	}()
	select {
	case <-drained:
	case <-time.After(2 * time.Second):
		t.Fatal("dropped client's send channel was never closed")
	}

	// The hub keeps serving after the drop.
	fast := NewClient(h, nil, uuid.New())
	h.Register(fast)
	waitForCount(t, h, 1)

	h.SendToUser(fast.userID, []byte("ping"))
	select {
	case <-fast.send:
	case <-time.After(2 * time.Second):
		t.Fatal("hub stopped delivering after dropping a slow client")
	}
}

func TestHubStopTerminatesRun(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := NewHub(nil)
	ran := make(chan struct{})
	go func() {
		h.Run()
		close(ran)
	}()

	user := uuid.New()
	c := NewClient(h, nil, user)
	h.Register(c)
	waitForCount(t, h, 1)

	h.Stop()
	h.Stop() // second call is a no-op

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Stop")
	}
	if _, ok := <-c.send; ok {
		t.Fatal("send channel should be closed on shutdown")
	}
}
