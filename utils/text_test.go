package utils

import "testing"

func TestNormalizeTextFoldsAccentsAndCase(t *testing.T) {
	a := NormalizeText("CAFÉ  Torrado")
	b := NormalizeText("cafe torrado")
	if a != b {
		t.Fatalf("expected %q and %q to normalize equal, got %q vs %q", "CAFÉ  Torrado", "cafe torrado", a, b)
	}
}

func TestNormalizeTextCollapsesWhitespace(t *testing.T) {
	got := NormalizeText("  Arroz   Branco \t 5kg ")
	if got != "arroz branco 5kg" {
		t.Fatalf("got %q", got)
	}
}

func TestDigitsOnly(t *testing.T) {
	got := DigitsOnly("12.345.678/0001-95")
	if got != "12345678000195" {
		t.Fatalf("got %q", got)
	}
	if DigitsOnly("sem documento") != "" {
		t.Fatalf("expected empty for non-numeric input")
	}
}
