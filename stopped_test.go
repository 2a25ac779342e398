package sendr

import (
	"context"
	"testing"
)

func TestStopped(t *testing.T) {
	t.Run("Delivers Done Inline", func(t *testing.T) {
		rx := &recordReceiver[int]{}
		Stopped[int]("halt").Connect(rx).Start(context.Background())

		rx.assertOnlyDone(t)
	})

	t.Run("Declared Shapes", func(t *testing.T) {
		src := Stopped[int]("halt")
		if shapes := src.ValueShapes(); len(shapes) != 0 {
			t.Errorf("expected no value shapes, got %v", shapes)
		}
		if shapes := src.ErrorShapes(); len(shapes) != 0 {
			t.Errorf("expected no error shapes, got %v", shapes)
		}
		if src.Name() != "halt" {
			t.Errorf("Name() = %v, want halt", src.Name())
		}
	})

	t.Run("Second Start Panics", func(t *testing.T) {
		op := Stopped[int]("halt").Connect(&recordReceiver[int]{})
		op.Start(context.Background())

		defer func() {
			if recover() == nil {
				t.Fatal("expected panic on second start")
			}
		}()
		op.Start(context.Background())
	})
}
