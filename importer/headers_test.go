package importer

import "testing"

func TestMapHeadersTypicalSheet(t *testing.T) {
	columns := []string{"CNPJ Fornecedor", "Descrição", "Qtd", "Vlr Unit"}
	mapped := MapHeaders(columns)

	if mapped.Column(RoleDocument) != "CNPJ Fornecedor" {
		t.Fatalf("document mapped to %q", mapped.Column(RoleDocument))
	}
	if mapped.Column(RoleDescription) != "Descrição" {
		t.Fatalf("description mapped to %q", mapped.Column(RoleDescription))
	}
	if mapped.Column(RoleQuantity) != "Qtd" {
		t.Fatalf("quantity mapped to %q", mapped.Column(RoleQuantity))
	}
	if mapped.Column(RoleUnitPrice) != "Vlr Unit" {
		t.Fatalf("unit price mapped to %q", mapped.Column(RoleUnitPrice))
	}
	if mapped.Column(RoleTotal) != "" {
		t.Fatalf("total should be unmapped, got %q", mapped.Column(RoleTotal))
	}
	if err := mapped.Validate(); err != nil {
		t.Fatalf("expected valid mapping: %v", err)
	}
}

func TestMapHeadersFirstColumnWins(t *testing.T) {
	columns := []string{"Data Emissão", "Data Entrega", "Produto", "Valor Total"}
	mapped := MapHeaders(columns)

	if mapped.Column(RoleDate) != "Data Emissão" {
		t.Fatalf("date mapped to %q", mapped.Column(RoleDate))
	}
}

func TestMapHeadersAccentInsensitive(t *testing.T) {
	mapped := MapHeaders([]string{"DESCRIÇÃO", "PREÇO UNITÁRIO"})
	if mapped.Column(RoleDescription) != "DESCRIÇÃO" {
		t.Fatalf("description mapped to %q", mapped.Column(RoleDescription))
	}
	if mapped.Column(RoleUnitPrice) != "PREÇO UNITÁRIO" {
		t.Fatalf("unit price mapped to %q", mapped.Column(RoleUnitPrice))
	}
}

func TestValidateRequiresDescription(t *testing.T) {
	mapped := MapHeaders([]string{"CNPJ", "Qtd", "Total"})
	if err := mapped.Validate(); err == nil {
		t.Fatal("expected rejection without a description column")
	}
}

func TestValidateRequiresMonetaryColumn(t *testing.T) {
	mapped := MapHeaders([]string{"Produto", "Qtd", "Data"})
	if err := mapped.Validate(); err == nil {
		t.Fatal("expected rejection without price or total column")
	}
}
