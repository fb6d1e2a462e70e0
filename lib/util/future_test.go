package util

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestResolvedFuture(t *testing.T) {
	f := Resolved(42, nil)

	select {
	case <-f.Done():
	default:
		t.Fatal("Resolved future should be done")
	}

	v, err := f.Wait(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if v != 42 {
		t.Errorf("Expected 42, got %d", v)
	}
}

func TestGoFutureError(t *testing.T) {
	expected := errors.New("boom")
	f := Go(func() (bool, error) { return false, expected })

	_, err := f.Result()
	if !errors.Is(err, expected) {
		t.Errorf("Expected %v, got %v", expected, err)
	}
}

func TestFutureWaitContext(t *testing.T) {
	f, resolve := NewFuture[string]()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := f.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got %v", err)
	}

	// the future is still usable after a cancelled wait
	resolve("done", nil)
	v, err := f.Wait(context.Background())
	if err != nil || v != "done" {
		t.Errorf("Expected (done, nil), got (%s, %v)", v, err)
	}
}

func TestFutureManyWaiters(t *testing.T) {
	f, resolve := NewFuture[int]()
	results := make(chan int, 10)

	for i := 0; i < 10; i++ {
		go func() {
			v, _ := f.Result()
			results <- v
		}()
	}

	resolve(7, nil)
	for i := 0; i < 10; i++ {
		if v := <-results; v != 7 {
			t.Errorf("Waiter %d got %d, expected 7", i, v)
		}
	}
}

func TestHashString(t *testing.T) {
	if HashString("a", 0) == HashString("b", 0) {
		t.Error("Different strings should hash differently")
	}
	if HashString("a", 0) != HashString("a", 0) {
		t.Error("Hash should be deterministic")
	}
	if HashString("a", 0) == HashString("a", 1) {
		t.Error("Seed should change the hash")
	}
}
