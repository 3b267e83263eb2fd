package switcher

import (
	"errors"
	"testing"
)

func TestOperation_ClampsProgress(t *testing.T) {
	op := newOperation("Installing PHP 8.2...")

	go func() {
		op.emit(0.5, "half")
		op.emit(0.1, "late fetch")
		op.emit(1.5, "overshoot")
		op.finish(nil)
	}()

	var got []float64
	for p := range op.Events() {
		got = append(got, p.Value)
		if p.Title != "Installing PHP 8.2..." {
			t.Errorf("Title = %q", p.Title)
		}
	}

	want := []float64{0.5, 0.5, 1}
	if len(got) != len(want) {
		t.Fatalf("values = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("values = %v, want %v", got, want)
			break
		}
	}
	if err := op.Wait(); err != nil {
		t.Errorf("Wait() error = %v", err)
	}
}

func TestOperation_WaitDrainsUnreadEvents(t *testing.T) {
	op := newOperation("busy")
	want := errors.New("brew exploded")

	go func() {
		// More events than the buffer holds: Wait must keep the producer moving
		for i := 0; i < eventBuffer*3; i++ {
			op.emit(float64(i)/float64(eventBuffer*3), "step")
		}
		op.finish(want)
	}()

	if err := op.Wait(); !errors.Is(err, want) {
		t.Errorf("Wait() error = %v, want %v", err, want)
	}
	select {
	case <-op.Done():
	default:
		t.Error("Done() should be closed after Wait")
	}
}

func TestFailedOperation(t *testing.T) {
	want := errors.New("nope")
	op := failedOperation("x", want)

	if _, open := <-op.Events(); open {
		t.Error("events of a failed operation should be closed")
	}
	if !errors.Is(op.Err(), want) {
		t.Errorf("Err() = %v", op.Err())
	}
}
