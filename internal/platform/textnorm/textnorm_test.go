package textnorm

import "testing"

func TestFold(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"Bocaditos de Salmón", "bocaditos de salmon"},
		{"BOCADITOS  DE   SALMON", "bocaditos de salmon"},
		{"Galletas-Light de Pavo!", "galletas light de pavo"},
		{"  Energía (alta) ", "energia alta"},
		{"Lácteos", "lacteos"},
		{"Niño/Cachorro", "nino cachorro"},
	}

	for _, tc := range cases {
		if got := Fold(tc.in); got != tc.want {
			t.Fatalf("Fold(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFold_NameJoin(t *testing.T) {
	if Fold("Tiras de Res Deshidratada") != Fold("tiras de res, deshidratada") {
		t.Fatalf("expected names to match after folding")
	}
	if Fold("Huesitos de Pollo") == Fold("Huesitos de Pavo") {
		t.Fatalf("expected different names to differ")
	}
}
