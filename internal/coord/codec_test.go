package coord

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Run("float64", func(t *testing.T) {
		buf := make([]byte, 8)
		Encode[float64](buf, 3.14159)
		if got := Decode[float64](buf); got != 3.14159 {
			t.Fatalf("got %v", got)
		}
	})
	t.Run("int32 negative", func(t *testing.T) {
		buf := make([]byte, 4)
		Encode[int32](buf, -12345)
		if got := Decode[int32](buf); got != -12345 {
			t.Fatalf("got %v", got)
		}
	})
	t.Run("uint16", func(t *testing.T) {
		buf := make([]byte, 2)
		Encode[uint16](buf, 60000)
		if got := Decode[uint16](buf); got != 60000 {
			t.Fatalf("got %v", got)
		}
	})
	t.Run("float32", func(t *testing.T) {
		buf := make([]byte, 4)
		Encode[float32](buf, 1.5)
		if got := Decode[float32](buf); got != 1.5 {
			t.Fatalf("got %v", got)
		}
	})
}

func TestArrayGetSet(t *testing.T) {
	buf := make([]byte, 8*4)
	arr := NewArray[float64](buf)
	if arr.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", arr.Len())
	}
	for i := 0; i < 4; i++ {
		arr.Set(i, float64(i)*1.5)
	}
	for i := 0; i < 4; i++ {
		if got := arr.Get(i); got != float64(i)*1.5 {
			t.Fatalf("Get(%d) = %v", i, got)
		}
	}
}
