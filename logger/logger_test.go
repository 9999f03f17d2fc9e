package logger

import "testing"

func TestNew(t *testing.T) {
	for _, debug := range []bool{true, false} {
		l := New(debug)
		if l == nil {
			t.Fatalf("expected logger for debug=%v, got nil", debug)
		}
		l.Infow("logger ready", "debug", debug)
		_ = l.Sync()
	}
}
