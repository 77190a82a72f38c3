package geoerr

import (
	"errors"
	"testing"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"magic", &WrongMagic{Got: 0x01, Expected: 0xFB}},
		{"version", &WrongVersion{Got: 2, Expected: 3}},
		{"coordtype", &WrongCoordType{Got: 5, Expected: 8}},
		{"length", &LengthMismatch{Got: 10, Expected: 20}},
		{"level", &LevelOutOfRange{Level: 5, NumLevels: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() == "" {
				t.Fatal("expected non-empty error message")
			}
		})
	}
}

func TestErrorsAsTarget(t *testing.T) {
	var err error = &WrongMagic{Got: 1, Expected: 2}
	var target *WrongMagic
	if !errors.As(err, &target) {
		t.Fatal("errors.As should match *WrongMagic")
	}
}

func TestConstructionViolationPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	ConstructionViolation("add called %d times, want %d", 3, 2)
}
