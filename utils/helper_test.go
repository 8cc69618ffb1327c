package utils

import "testing"

func TestGenerateUniqueFilenameDistinct(t *testing.T) {
	a := GenerateUniqueFilename()
	b := GenerateUniqueFilename()
	if a == b {
		t.Fatalf("expected distinct filenames, got %q twice", a)
	}
}
