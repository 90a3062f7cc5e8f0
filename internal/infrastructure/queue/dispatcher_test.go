package queue

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/basisdhar/mrmanager/internal/infrastructure/mail"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []mail.Message
	fail bool
}

func (s *recordingSender) Send(msg mail.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("smtp unreachable")
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func (s *recordingSender) messages() []mail.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]mail.Message, len(s.sent))
	copy(out, s.sent)
	return out
}

func waitForSent(t *testing.T, sender *recordingSender, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if sender.count() >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("only %d of %d mails delivered in time", sender.count(), want)
}

func TestDispatcher_DeliversEnqueuedMail(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(2, sender, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.EnqueueVerification("alice@example.com", "alice", "http://localhost/verify/abc")
	d.EnqueuePasswordReset("bob@example.com", "bob", "http://localhost/reset/def")
	waitForSent(t, sender, 2)

	byKind := map[string]mail.Message{}
	for _, msg := range sender.messages() {
		byKind[msg.Kind] = msg
	}
	verify, ok := byKind[mail.KindVerification]
	if !ok || verify.To != "alice@example.com" {
		t.Fatalf("verification mail missing: %+v", byKind)
	}
	if !strings.Contains(verify.HTML, "http://localhost/verify/abc") {
		t.Fatalf("verification link not rendered")
	}
	reset, ok := byKind[mail.KindPasswordReset]
	if !ok || !strings.Contains(reset.HTML, "http://localhost/reset/def") {
		t.Fatalf("reset mail missing or link not rendered: %+v", reset)
	}
}

func TestDispatcher_ShardIsStablePerRecipient(t *testing.T) {
	d := NewDispatcher(4, &recordingSender{}, zerolog.Nop())

	first := d.shardIndex("alice@example.com")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("alice@example.com"); got != first {
			t.Fatalf("shard changed between calls: %d vs %d", got, first)
		}
	}
	if first < 0 || first >= 4 {
		t.Fatalf("shard out of range: %d", first)
	}
}

func TestDispatcher_SendFailureDoesNotStopWorker(t *testing.T) {
	sender := &recordingSender{fail: true}
	d := NewDispatcher(1, sender, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.EnqueueVerification("alice@example.com", "alice", "http://localhost/verify/abc")
	time.Sleep(20 * time.Millisecond)

	sender.mu.Lock()
	sender.fail = false
	sender.mu.Unlock()

	d.EnqueueVerification("alice@example.com", "alice", "http://localhost/verify/xyz")
	waitForSent(t, sender, 1)

	if !strings.Contains(sender.messages()[0].HTML, "/verify/xyz") {
		t.Fatalf("worker did not process the mail after a failure")
	}
}

func TestDispatcher_FullQueueDropsInsteadOfBlocking(t *testing.T) {
	// No workers started, so the single buffer fills up and further
	// enqueues must return immediately.
	d := NewDispatcher(1, &recordingSender{}, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+10; i++ {
			d.EnqueueVerification("alice@example.com", "alice", "http://localhost/verify/abc")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("enqueue blocked on a full queue")
	}
	if got := len(d.workers[d.shardIndex("alice@example.com")]); got != channelBuffer {
		t.Fatalf("buffered = %d, want %d", got, channelBuffer)
	}
}
