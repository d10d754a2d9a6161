package command

import (
	"context"
	"errors"
	"slices"
	"testing"
)

func mustSubscribe(t *testing.T, b *Bus, id ID, h Handler) string {
	t.Helper()
	subID, err := b.Subscribe(id, h)
	if err != nil {
		t.Fatalf("Subscribe(%q) error = %v", id, err)
	}
	return subID
}

func TestBusFireReachesSubscribersInOrder(t *testing.T) {
	b := NewBus()
	var got []string

	mustSubscribe(t, b, "reinit", func(context.Context, ID) error {
		got = append(got, "first")
		return nil
	})
	mustSubscribe(t, b, None, func(_ context.Context, id ID) error {
		got = append(got, "any:"+string(id))
		return nil
	})
	mustSubscribe(t, b, "other", func(context.Context, ID) error {
		got = append(got, "other")
		return nil
	})

	if err := b.Fire(context.Background(), "reinit"); err != nil {
		t.Fatalf("Fire() error = %v", err)
	}
	if want := []string{"first", "any:reinit"}; !slices.Equal(got, want) {
		t.Errorf("handlers ran %q, want %q", got, want)
	}
	if n := b.Subscribers("reinit"); n != 2 {
		t.Errorf("Subscribers(reinit) = %d, want 2", n)
	}
}

func TestBusFireWithoutSubscribers(t *testing.T) {
	b := NewBus()
	if err := b.Fire(context.Background(), "nobody"); err != nil {
		t.Errorf("Fire() error = %v", err)
	}

	fired, failed := b.Stats()
	if fired != 1 || failed != 0 {
		t.Errorf("Stats() = %d, %d, want 1, 0", fired, failed)
	}
}

func TestBusFireErrors(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		id   ID
		want error
	}{
		{"no command", context.Background(), None, ErrNoCommand},
		{"cancelled context", cancelled, "x", context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := NewBus().Fire(tt.ctx, tt.id); !errors.Is(err, tt.want) {
				t.Errorf("Fire() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBusHandlerErrorsAreJoined(t *testing.T) {
	b := NewBus()
	boom := errors.New("boom")
	ran := false

	subID := mustSubscribe(t, b, "save", func(context.Context, ID) error { return boom })
	mustSubscribe(t, b, "save", func(context.Context, ID) error {
		ran = true
		return nil
	})

	err := b.Fire(context.Background(), "save")
	if !errors.Is(err, boom) {
		t.Fatalf("Fire() error = %v, want %v", err, boom)
	}
	if !ran {
		t.Error("later subscribers should still run")
	}

	var herr *HandlerError
	if !errors.As(err, &herr) {
		t.Fatalf("Fire() error = %v, want *HandlerError", err)
	}
	if herr.SubscriptionID != subID || herr.Command != "save" {
		t.Errorf("HandlerError = %+v, want subscription %s on save", herr, subID)
	}
}

func TestBusPanicRecovered(t *testing.T) {
	b := NewBus()
	mustSubscribe(t, b, "crash", func(context.Context, ID) error { panic("bad") })

	if err := b.Fire(context.Background(), "crash"); !errors.Is(err, ErrHandlerPanic) {
		t.Errorf("Fire() error = %v, want ErrHandlerPanic", err)
	}
	if _, failed := b.Stats(); failed != 1 {
		t.Errorf("failed = %d, want 1", failed)
	}
}

func TestBusUnsubscribe(t *testing.T) {
	b := NewBus()
	calls := 0
	subID := mustSubscribe(t, b, "x", func(context.Context, ID) error {
		calls++
		return nil
	})

	if err := b.Unsubscribe(subID); err != nil {
		t.Fatalf("Unsubscribe() error = %v", err)
	}
	if err := b.Fire(context.Background(), "x"); err != nil {
		t.Fatalf("Fire() error = %v", err)
	}
	if calls != 0 {
		t.Errorf("unsubscribed handler ran %d times", calls)
	}
	if err := b.Unsubscribe(subID); !errors.Is(err, ErrSubscriptionNotFound) {
		t.Errorf("second Unsubscribe() error = %v, want ErrSubscriptionNotFound", err)
	}
}

func TestBusSubscribeNilHandler(t *testing.T) {
	if _, err := NewBus().Subscribe("x", nil); !errors.Is(err, ErrNilHandler) {
		t.Errorf("Subscribe(nil) error = %v, want ErrNilHandler", err)
	}
}
