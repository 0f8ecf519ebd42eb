package domain

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"posterior_cingulate", "posterior_cingulate"},
		{"Posterior   Cingulate", "posterior_cingulate"},
		{"  posterior__cingulate_", "posterior_cingulate"},
		{"VENTROMEDIAL PREFRONTAL", "ventromedial_prefrontal"},
		{"amygdala", "amygdala"},
		{" \t\n ", ""},
		{"", ""},
		{"___", ""},
		{"a _ b", "a_b"},
		{"default mode network", "default_mode_network"},
	}
	for _, tc := range tests {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"Posterior   Cingulate",
		"  posterior__cingulate_",
		"already_canonical",
		"",
		"  Mixed _ Case__Runs  ",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}
