package models

import "testing"

func TestValidateDocumentValidCPF(t *testing.T) {
	if err := ValidateDocument("529.982.247-25"); err != nil {
		t.Fatalf("expected valid cpf, got %v", err)
	}
}

func TestValidateDocumentValidCNPJ(t *testing.T) {
	if err := ValidateDocument("11.222.333/0001-81"); err != nil {
		t.Fatalf("expected valid cnpj, got %v", err)
	}
}

func TestValidateDocumentBadCheckDigit(t *testing.T) {
	if err := ValidateDocument("52998224726"); err == nil {
		t.Fatal("expected check digit rejection")
	}
}

func TestValidateDocumentWrongLength(t *testing.T) {
	if err := ValidateDocument("12345"); err == nil {
		t.Fatal("expected length rejection")
	}
}

func TestValidateDocumentRepeatedDigits(t *testing.T) {
	if err := ValidateDocument("00000000000000"); err == nil {
		t.Fatal("expected repeated digit rejection")
	}
}
