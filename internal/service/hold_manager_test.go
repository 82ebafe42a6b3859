package service

import (
    "context"
    "errors"
    "fmt"
    "sync"
    "testing"
    "time"

    "github.com/iliyamo/event-seat-reservation/internal/model"
    "github.com/iliyamo/event-seat-reservation/internal/repository"
)

// fakeSeatReader serves seats from a map keyed by seat ID and enforces
// the event scope the way the SQL lookup does.
type fakeSeatReader struct {
    mu    sync.Mutex
    seats map[uint64]model.Seat
}

func newFakeSeatReader(seats ...model.Seat) *fakeSeatReader {
    m := make(map[uint64]model.Seat, len(seats))
    for _, s := range seats {
        m[s.ID] = s
    }
    return &fakeSeatReader{seats: m}
}

func (f *fakeSeatReader) GetByEvent(_ context.Context, eventID, seatID uint64) (*model.Seat, error) {
    f.mu.Lock()
    defer f.mu.Unlock()
    s, ok := f.seats[seatID]
    if !ok || s.EventID != eventID {
        return nil, repository.ErrSeatNotFound
    }
    out := s
    return &out, nil
}

func (f *fakeSeatReader) setStatus(seatID uint64, status string) {
    f.mu.Lock()
    defer f.mu.Unlock()
    s := f.seats[seatID]
    s.Status = status
    f.seats[seatID] = s
}

// fakeHoldStore emulates the Redis primitives the manager relies on:
// atomic set-if-absent with expiry, reads that treat expired keys as
// absent, and deletes.  Time is driven by the test through advance so
// expiry does not need sleeps.
type fakeHoldStore struct {
    mu   sync.Mutex
    now  time.Time
    data map[string]holdEntry
}

type holdEntry struct {
    value     string
    expiresAt time.Time
}

func newFakeHoldStore() *fakeHoldStore {
    return &fakeHoldStore{
        now:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
        data: make(map[string]holdEntry),
    }
}

func (f *fakeHoldStore) advance(d time.Duration) {
    f.mu.Lock()
    defer f.mu.Unlock()
    f.now = f.now.Add(d)
}

func (f *fakeHoldStore) live(key string) (holdEntry, bool) {
    e, ok := f.data[key]
    if !ok || !e.expiresAt.After(f.now) {
        return holdEntry{}, false
    }
    return e, true
}

func (f *fakeHoldStore) SetNX(_ context.Context, key, value string, ttl time.Duration) (bool, error) {
    f.mu.Lock()
    defer f.mu.Unlock()
    if _, ok := f.live(key); ok {
        return false, nil
    }
    f.data[key] = holdEntry{value: value, expiresAt: f.now.Add(ttl)}
    return true, nil
}

func (f *fakeHoldStore) Get(_ context.Context, key string) (string, error) {
    f.mu.Lock()
    defer f.mu.Unlock()
    e, ok := f.live(key)
    if !ok {
        return "", nil
    }
    return e.value, nil
}

func (f *fakeHoldStore) MGet(_ context.Context, keys []string) ([]string, error) {
    f.mu.Lock()
    defer f.mu.Unlock()
    out := make([]string, len(keys))
    for i, k := range keys {
        if e, ok := f.live(k); ok {
            out[i] = e.value
        }
    }
    return out, nil
}

func (f *fakeHoldStore) Del(_ context.Context, key string) error {
    f.mu.Lock()
    defer f.mu.Unlock()
    delete(f.data, key)
    return nil
}

func availableSeat(id, eventID uint64) model.Seat {
    return model.Seat{ID: id, EventID: eventID, SeatNumber: fmt.Sprintf("A%d", id), Status: model.SeatStatusAvailable}
}

func TestHoldManager_Acquire(t *testing.T) {
    t.Parallel()

    t.Run("claims an available seat", func(t *testing.T) {
        store := newFakeHoldStore()
        m := NewHoldManager(newFakeSeatReader(availableSeat(10, 5)), store, 0)

        before := time.Now().UTC()
        hold, err := m.Acquire(context.Background(), 5, 10, 1)
        if err != nil {
            t.Fatalf("expected no error, got %v", err)
        }
        if hold.UserID != 1 || hold.EventID != 5 || hold.SeatID != 10 {
            t.Fatalf("unexpected hold %+v", hold)
        }
        // expires_at is roughly now + the default 300s TTL
        want := before.Add(DefaultHoldTTL)
        if hold.ExpiresAt.Before(want.Add(-time.Second)) || hold.ExpiresAt.After(want.Add(5*time.Second)) {
            t.Fatalf("expected expiry near %v, got %v", want, hold.ExpiresAt)
        }
        if v, _ := store.Get(context.Background(), HoldKey(5, 10)); v != "1" {
            t.Fatalf("expected stored owner %q, got %q", "1", v)
        }
    })

    t.Run("second user observes the existing hold", func(t *testing.T) {
        store := newFakeHoldStore()
        m := NewHoldManager(newFakeSeatReader(availableSeat(10, 5)), store, 0)

        if _, err := m.Acquire(context.Background(), 5, 10, 1); err != nil {
            t.Fatalf("first acquire: %v", err)
        }
        if _, err := m.Acquire(context.Background(), 5, 10, 2); !errors.Is(err, ErrAlreadyHeld) {
            t.Fatalf("expected ErrAlreadyHeld, got %v", err)
        }
    })

    t.Run("exactly one winner among concurrent claims", func(t *testing.T) {
        store := newFakeHoldStore()
        m := NewHoldManager(newFakeSeatReader(availableSeat(10, 5)), store, 0)

        const callers = 16
        var wg sync.WaitGroup
        errs := make([]error, callers)
        for i := 0; i < callers; i++ {
            wg.Add(1)
            go func(i int) {
                defer wg.Done()
                _, errs[i] = m.Acquire(context.Background(), 5, 10, uint64(i+1))
            }(i)
        }
        wg.Wait()

        wins := 0
        for _, err := range errs {
            switch {
            case err == nil:
                wins++
            case errors.Is(err, ErrAlreadyHeld):
            default:
                t.Fatalf("unexpected error: %v", err)
            }
        }
        if wins != 1 {
            t.Fatalf("expected exactly 1 winner, got %d", wins)
        }
    })

    t.Run("unknown seat", func(t *testing.T) {
        m := NewHoldManager(newFakeSeatReader(availableSeat(10, 5)), newFakeHoldStore(), 0)
        if _, err := m.Acquire(context.Background(), 5, 99, 1); !errors.Is(err, ErrSeatNotFound) {
            t.Fatalf("expected ErrSeatNotFound, got %v", err)
        }
    })

    t.Run("seat from another event", func(t *testing.T) {
        m := NewHoldManager(newFakeSeatReader(availableSeat(10, 5)), newFakeHoldStore(), 0)
        if _, err := m.Acquire(context.Background(), 6, 10, 1); !errors.Is(err, ErrSeatNotFound) {
            t.Fatalf("expected ErrSeatNotFound, got %v", err)
        }
    })

    t.Run("reserved seat cannot be held", func(t *testing.T) {
        seats := newFakeSeatReader(availableSeat(10, 5))
        seats.setStatus(10, model.SeatStatusReserved)
        m := NewHoldManager(seats, newFakeHoldStore(), 0)
        if _, err := m.Acquire(context.Background(), 5, 10, 1); !errors.Is(err, ErrSeatUnavailable) {
            t.Fatalf("expected ErrSeatUnavailable, got %v", err)
        }
    })

    t.Run("expired hold can be claimed again", func(t *testing.T) {
        store := newFakeHoldStore()
        m := NewHoldManager(newFakeSeatReader(availableSeat(10, 5)), store, 0)

        if _, err := m.Acquire(context.Background(), 5, 10, 1); err != nil {
            t.Fatalf("first acquire: %v", err)
        }
        store.advance(DefaultHoldTTL + time.Second)
        if _, err := m.Acquire(context.Background(), 5, 10, 2); err != nil {
            t.Fatalf("expected fresh claim after expiry, got %v", err)
        }
        if v, _ := store.Get(context.Background(), HoldKey(5, 10)); v != "2" {
            t.Fatalf("expected owner %q after re-claim, got %q", "2", v)
        }
    })
}

func TestHoldManager_Verify(t *testing.T) {
    t.Parallel()

    store := newFakeHoldStore()
    m := NewHoldManager(newFakeSeatReader(availableSeat(10, 5)), store, 0)
    if _, err := m.Acquire(context.Background(), 5, 10, 1); err != nil {
        t.Fatalf("acquire: %v", err)
    }

    t.Run("owner verifies", func(t *testing.T) {
        ok, err := m.Verify(context.Background(), 5, 10, 1)
        if err != nil || !ok {
            t.Fatalf("expected owned hold, got ok=%v err=%v", ok, err)
        }
    })

    t.Run("other user does not", func(t *testing.T) {
        ok, err := m.Verify(context.Background(), 5, 10, 2)
        if err != nil || ok {
            t.Fatalf("expected not owned, got ok=%v err=%v", ok, err)
        }
    })

    t.Run("absent hold does not", func(t *testing.T) {
        ok, err := m.Verify(context.Background(), 5, 11, 1)
        if err != nil || ok {
            t.Fatalf("expected no hold, got ok=%v err=%v", ok, err)
        }
    })

    t.Run("expired hold does not", func(t *testing.T) {
        store.advance(DefaultHoldTTL + time.Second)
        ok, err := m.Verify(context.Background(), 5, 10, 1)
        if err != nil || ok {
            t.Fatalf("expected expired hold to fail, got ok=%v err=%v", ok, err)
        }
    })
}

func TestHoldManager_Release(t *testing.T) {
    t.Parallel()

    store := newFakeHoldStore()
    m := NewHoldManager(newFakeSeatReader(availableSeat(10, 5)), store, 0)

    // releasing an absent hold is not an error
    if err := m.Release(context.Background(), 5, 10); err != nil {
        t.Fatalf("release absent: %v", err)
    }

    if _, err := m.Acquire(context.Background(), 5, 10, 1); err != nil {
        t.Fatalf("acquire: %v", err)
    }
    if err := m.Release(context.Background(), 5, 10); err != nil {
        t.Fatalf("release: %v", err)
    }
    // the seat is immediately claimable again
    if _, err := m.Acquire(context.Background(), 5, 10, 2); err != nil {
        t.Fatalf("expected claim after release, got %v", err)
    }
}

func TestHoldManager_HeldSeats(t *testing.T) {
    t.Parallel()

    store := newFakeHoldStore()
    seats := newFakeSeatReader(availableSeat(10, 5), availableSeat(11, 5), availableSeat(12, 5))
    m := NewHoldManager(seats, store, 0)

    if _, err := m.Acquire(context.Background(), 5, 11, 7); err != nil {
        t.Fatalf("acquire: %v", err)
    }

    held, err := m.HeldSeats(context.Background(), 5, []uint64{10, 11, 12})
    if err != nil {
        t.Fatalf("held seats: %v", err)
    }
    if len(held) != 1 || !held[11] {
        t.Fatalf("expected only seat 11 held, got %v", held)
    }

    empty, err := m.HeldSeats(context.Background(), 5, nil)
    if err != nil || len(empty) != 0 {
        t.Fatalf("expected empty overlay, got %v err=%v", empty, err)
    }
}
