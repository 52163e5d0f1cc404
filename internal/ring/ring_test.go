package ring

import "testing"

func TestPushPopOrder(t *testing.T) {
	b := New[int](3)
	for _, v := range []int{1, 2, 3} {
		if !b.Push(v) {
			t.Fatalf("push %d failed unexpectedly", v)
		}
	}
	if b.Push(4) {
		t.Fatalf("push on full ring should fail")
	}
	for _, want := range []int{1, 2, 3} {
		got, ok := b.Pop()
		if !ok || got != want {
			t.Fatalf("pop = (%d, %v), want (%d, true)", got, ok, want)
		}
	}
	if _, ok := b.Pop(); ok {
		t.Fatalf("pop on empty ring should fail")
	}
}

func TestFullOnFullDoesNotMutate(t *testing.T) {
	b := New[int](1)
	b.Push(42)
	if b.Push(99) {
		t.Fatalf("push on full ring should fail")
	}
	v, ok := b.Pop()
	if !ok || v != 42 {
		t.Fatalf("full push must not overwrite existing value, got (%d, %v)", v, ok)
	}
}

func TestNewFull(t *testing.T) {
	b := NewFull([]int{0, 1, 2})
	if !b.Full() {
		t.Fatalf("NewFull ring should report full")
	}
	if b.Cap() != 3 || b.Len() != 3 {
		t.Fatalf("cap/len = %d/%d, want 3/3", b.Cap(), b.Len())
	}
	for i := 0; i < 3; i++ {
		v, ok := b.Pop()
		if !ok || v != i {
			t.Fatalf("pop %d = (%d, %v)", i, v, ok)
		}
	}
}

func TestWrapAround(t *testing.T) {
	b := New[int](2)
	b.Push(1)
	b.Push(2)
	b.Pop()
	b.Push(3)
	v1, _ := b.Pop()
	v2, _ := b.Pop()
	if v1 != 2 || v2 != 3 {
		t.Fatalf("got %d, %d, want 2, 3", v1, v2)
	}
}
