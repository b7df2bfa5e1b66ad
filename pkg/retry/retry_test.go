package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastConfig(retries int) *Config {
	return &Config{
		MaxRetries:      retries,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		Multiplier:      2.0,
	}
}

func TestNew_FillsDefaults(t *testing.T) {
	r := New(&Config{})

	if r.config.InitialInterval != time.Second {
		t.Errorf("InitialInterval = %v, want 1s", r.config.InitialInterval)
	}
	if r.config.MaxInterval != 10*time.Second {
		t.Errorf("MaxInterval = %v, want 10s", r.config.MaxInterval)
	}
	if r.config.Multiplier != 2.0 {
		t.Errorf("Multiplier = %f, want 2.0", r.config.Multiplier)
	}
}

func TestNew_DoesNotMutateInput(t *testing.T) {
	cfg := &Config{MaxRetries: 1}
	New(cfg)

	if cfg.InitialInterval != 0 {
		t.Errorf("input config mutated: InitialInterval = %v", cfg.InitialInterval)
	}
}

func TestDo_SucceedsAfterRetries(t *testing.T) {
	attempts := 0
	notified := 0

	err := Do(context.Background(), fastConfig(5), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("connection refused")
		}
		return nil
	}, func(attempt int, err error, wait time.Duration) {
		notified++
	})

	if err != nil {
		t.Fatalf("Do() error = %v, want nil", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
	if notified != 2 {
		t.Errorf("notify called %d times, want 2", notified)
	}
}

func TestDo_ExhaustsRetries(t *testing.T) {
	attempts := 0
	cause := errors.New("connection refused")

	err := Do(context.Background(), fastConfig(2), func(ctx context.Context) error {
		attempts++
		return cause
	}, nil)

	if !errors.Is(err, cause) {
		t.Errorf("Do() error = %v, want wrapping %v", err, cause)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestDo_PermanentErrorStops(t *testing.T) {
	attempts := 0
	cause := errors.New("bad password")

	err := Do(context.Background(), fastConfig(5), func(ctx context.Context) error {
		attempts++
		return Permanent(cause)
	}, nil)

	if !errors.Is(err, cause) {
		t.Errorf("Do() error = %v, want %v", err, cause)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestDo_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0

	err := Do(ctx, fastConfig(10), func(ctx context.Context) error {
		attempts++
		if attempts == 2 {
			cancel()
		}
		return errors.New("timeout")
	}, nil)

	if !errors.Is(err, ErrContextCanceled) {
		t.Errorf("Do() error = %v, want ErrContextCanceled", err)
	}
}

func TestInterval_Capped(t *testing.T) {
	r := New(&Config{
		MaxRetries:      5,
		InitialInterval: time.Second,
		MaxInterval:     5 * time.Second,
		Multiplier:      2.0,
	})

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 5 * time.Second},
	}

	for _, tt := range tests {
		if got := r.interval(tt.attempt); got != tt.expected {
			t.Errorf("interval(%d) = %v, want %v", tt.attempt, got, tt.expected)
		}
	}
}

func TestPermanent_Nil(t *testing.T) {
	if Permanent(nil) != nil {
		t.Error("Permanent(nil) should return nil")
	}
}
