package store

import (
	"sync"
	"testing"
	"time"

	"github.com/rfaisal/noteminder/internal/models"
	tu "github.com/rfaisal/noteminder/internal/testing"
)

func TestConcurrentWrites(t *testing.T) {
	clock := tu.NewClock(testStart, time.Millisecond)
	s := openTestStore(t, t.TempDir(), clock)

	const writers = 16

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = map[int]bool{}
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := s.AddNote("u1", "general", "n", "", models.PriorityNormal, models.NoReminder())
			if err != nil {
				t.Errorf("failed to add note: %v", err)
				return
			}
			mu.Lock()
			ids[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(ids) != writers {
		t.Fatalf("expected %d distinct ids, got %d", writers, len(ids))
	}
	for want := 1; want <= writers; want++ {
		if !ids[want] {
			t.Errorf("id %d was skipped", want)
		}
	}

	if notes := s.Notes("u1"); len(notes) != writers {
		t.Errorf("expected %d persisted notes, got %d", writers, len(notes))
	}
}
