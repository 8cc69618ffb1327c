package models

import (
	"errors"

	"github.com/pitangasoft/compras_backend/utils"
)

// GenericSupplierDocument is the reserved document value for the sentinel
// supplier that orders fall back to when the source row carries no
// identifiable counterparty document. It is excluded from dedup-by-document
// lookups and from checksum validation.
const GenericSupplierDocument = "00000000000000"

// GenericSupplierName is the legal name the sentinel supplier is created with.
const GenericSupplierName = "Fornecedor Genérico"

// ValidateDocument checks a counterparty document number: 11 digits (CPF)
// or 14 digits (CNPJ), with valid check digits. Used by the manual CRUD
// path only; the import resolver deliberately accepts malformed documents
// as opaque keys.
func ValidateDocument(document string) error {
	doc := utils.DigitsOnly(document)
	switch len(doc) {
	case 11:
		if !validCheckDigits(doc, cpfWeights) {
			return errors.New("invalid cpf check digits")
		}
	case 14:
		if !validCheckDigits(doc, cnpjWeights) {
			return errors.New("invalid cnpj check digits")
		}
	default:
		return errors.New("document must have 11 or 14 digits")
	}
	if allSameDigit(doc) {
		return errors.New("document digits are all equal")
	}
	return nil
}

var cpfWeights = [][]int{
	{10, 9, 8, 7, 6, 5, 4, 3, 2},
	{11, 10, 9, 8, 7, 6, 5, 4, 3, 2},
}

var cnpjWeights = [][]int{
	{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2},
	{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2},
}

func validCheckDigits(doc string, weights [][]int) bool {
	for _, w := range weights {
		sum := 0
		for i, weight := range w {
			sum += int(doc[i]-'0') * weight
		}
		check := 11 - sum%11
		if check >= 10 {
			check = 0
		}
		if int(doc[len(w)]-'0') != check {
			return false
		}
	}
	return true
}

func allSameDigit(doc string) bool {
	for i := 1; i < len(doc); i++ {
		if doc[i] != doc[0] {
			return false
		}
	}
	return true
}
