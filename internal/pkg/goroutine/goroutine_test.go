package goroutine

import (
	"context"
	"errors"
	"testing"
)

func TestManager_CollectsErrorsAndRecoversPanics(t *testing.T) {
	// Arrange
	m := NewManager(4)
	boom := errors.New("boom")

	// Act
	ok1 := m.Go(context.Background(), func(context.Context) error { return boom })
	ok2 := m.Go(context.Background(), func(context.Context) error { panic("handler exploded") })
	err := m.Wait()

	// Assert
	if !ok1 || !ok2 {
		t.Fatalf("scheduled = %v, %v", ok1, ok2)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("Wait() = %v, want boom", err)
	}
}

func TestManager_RejectsAfterWait(t *testing.T) {
	// Arrange
	m := NewManager(1)
	_ = m.Wait()

	// Act
	ran := false
	ok := m.Go(context.Background(), func(context.Context) error { ran = true; return nil })

	// Assert
	if ok || ran {
		t.Fatalf("closed manager scheduled work: ok=%v ran=%v", ok, ran)
	}
}

func TestManager_RejectsWhenFull(t *testing.T) {
	// Arrange
	m := NewManager(1)
	release := make(chan struct{})
	started := make(chan struct{})
	m.Go(context.Background(), func(context.Context) error {
		close(started)
		<-release
		return nil
	})
	<-started

	// Act
	ok := m.Go(context.Background(), func(context.Context) error { return nil })
	close(release)

	// Assert
	if ok {
		t.Fatal("expected second Go to be rejected at the limit")
	}
	if err := m.Wait(); err != nil {
		t.Fatalf("Wait() = %v", err)
	}
}

func TestManager_NilIsSafe(t *testing.T) {
	var m *Manager
	if m.Go(context.Background(), func(context.Context) error { return nil }) {
		t.Fatal("nil manager scheduled work")
	}
	if err := m.Wait(); err != nil {
		t.Fatalf("Wait() = %v", err)
	}
}
