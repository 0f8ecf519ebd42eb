package domain

import (
	"errors"
	"testing"
)

func TestParsePoint(t *testing.T) {
	p, err := ParsePoint("0_-52_26")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.X != 0 || p.Y != -52 || p.Z != 26 {
		t.Errorf("got %+v, want {0 -52 26}", p)
	}
}

func TestParsePoint_Fractional(t *testing.T) {
	p, err := ParsePoint("1.5_-2.25_0.0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.X != 1.5 || p.Y != -2.25 || p.Z != 0 {
		t.Errorf("got %+v", p)
	}
}

func TestParsePoint_Invalid(t *testing.T) {
	bad := []string{
		"",
		"1_2",
		"1_2_3_4",
		"a_b_c",
		"1_2_z",
		"1,2,3",
	}
	for _, s := range bad {
		if _, err := ParsePoint(s); !errors.Is(err, ErrInvalidCoordinates) {
			t.Errorf("ParsePoint(%q): want ErrInvalidCoordinates, got %v", s, err)
		}
	}
}

func TestPoint_Vector(t *testing.T) {
	v := Point{X: 1, Y: -2, Z: 3}.Vector()
	if len(v) != 3 || v[0] != 1 || v[1] != -2 || v[2] != 3 {
		t.Errorf("Vector() = %v", v)
	}
}
