package sendr

import (
	"context"
	"errors"
	"testing"
)

func TestFailWith(t *testing.T) {
	t.Run("Delivers Error Inline", func(t *testing.T) {
		errBoom := errors.New("boom")
		rx := &recordReceiver[int]{}
		FailWith[int]("broken", errBoom).Connect(rx).Start(context.Background())

		if err := rx.assertOnlyError(t); err != errBoom { //nolint:errorlint
			t.Errorf("expected identical error, got %v", err)
		}
	})

	t.Run("Declared Shapes", func(t *testing.T) {
		errBoom := errors.New("boom")
		src := FailWith[int]("broken", errBoom)
		if shapes := src.ValueShapes(); len(shapes) != 0 {
			t.Errorf("expected no value shapes, got %v", shapes)
		}
		shapes := src.ErrorShapes()
		if len(shapes) != 1 || shapes[0] != shapeOfValue(errBoom) {
			t.Errorf("expected the stored error's shape, got %v", shapes)
		}
		if src.Blocking() != BlockingAlwaysInline {
			t.Errorf("expected always_inline, got %v", src.Blocking())
		}
	})

	t.Run("Second Start Panics", func(t *testing.T) {
		op := FailWith[int]("broken", errors.New("boom")).Connect(&recordReceiver[int]{})
		op.Start(context.Background())

		defer func() {
			if recover() == nil {
				t.Fatal("expected panic on second start")
			}
		}()
		op.Start(context.Background())
	})
}
