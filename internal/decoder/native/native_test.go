package native_test

import (
	"errors"
	"testing"

	"github.com/handheld-labs/m4vplay/internal/decoder"
	"github.com/handheld-labs/m4vplay/internal/decoder/native"
)

type counterState struct {
	decodes  int
	destroys int
}

func TestWrapperRoundTripsStateThroughHandle(t *testing.T) {
	st := &counterState{}
	w := native.New(native.Hooks{
		Create: func(sram []byte) (interface{}, error) {
			if len(sram) == 0 {
				return nil, errors.New("empty sram")
			}
			return st, nil
		},
		Decode: func(state interface{}, req decoder.Request) (decoder.Result, error) {
			state.(*counterState).decodes++
			return decoder.Result{BytesConsumed: 1, Type: decoder.TypeI}, nil
		},
		Destroy: func(state interface{}) error {
			state.(*counterState).destroys++
			return nil
		},
	})

	if err := w.GlobalInit(make([]byte, 64)); err != nil {
		t.Fatalf("GlobalInit failed: %v", err)
	}
	if _, err := w.Decode(decoder.Request{}); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if _, err := w.Decode(decoder.Request{}); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if st.decodes != 2 {
		t.Fatalf("decodes = %d, want 2", st.decodes)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if st.destroys != 1 {
		t.Fatalf("destroys = %d, want 1", st.destroys)
	}
}

func TestGlobalInitFailsWithoutCreateHook(t *testing.T) {
	w := native.New(native.Hooks{})
	if err := w.GlobalInit(make([]byte, 64)); err == nil {
		t.Fatal("expected error with no Create hook")
	}
}

func TestDecodeBeforeGlobalInitFails(t *testing.T) {
	w := native.New(native.Hooks{})
	if _, err := w.Decode(decoder.Request{}); err == nil {
		t.Fatal("expected error decoding before GlobalInit")
	}
}
