package importer

import (
	"errors"
	"strings"

	"github.com/pitangasoft/compras_backend/utils"
)

// HeaderRole names the meaning a spreadsheet column carries for the import.
type HeaderRole string

const (
	RoleDocument    HeaderRole = "document"
	RoleDescription HeaderRole = "description"
	RoleDate        HeaderRole = "date"
	RoleQuantity    HeaderRole = "quantity"
	RoleUnit        HeaderRole = "unit"
	RoleUnitPrice   HeaderRole = "unitPrice"
	RoleTotal       HeaderRole = "total"
)

// roleSynonyms maps each role to the normalized substrings that identify it
// in third-party spreadsheet headers. Order matters: earlier entries take
// the column before later ones get a chance, so the more specific synonyms
// ("vlr unit", "total") must precede the looser ones ("valor").
var roleSynonyms = []struct {
	role     HeaderRole
	patterns []string
}{
	{RoleDocument, []string{"cnpj", "cpf", "documento", "doc fornecedor"}},
	{RoleDescription, []string{"descricao", "produto", "mercadoria", "item"}},
	{RoleDate, []string{"data", "emissao", "dt "}},
	{RoleQuantity, []string{"qtd", "quant", "qde"}},
	{RoleUnit, []string{"unid", "medida", "embalagem"}},
	{RoleUnitPrice, []string{"vlr unit", "valor unit", "preco unit", "unitario", "preco"}},
	{RoleTotal, []string{"total", "vlr liquido", "valor liquido"}},
}

// HeaderMap records which source column fills each role.
type HeaderMap map[HeaderRole]string

// MapHeaders infers the role of each column from its header text. Matching
// is case- and accent-insensitive substring containment; when several
// columns match a role, the first in sheet order wins, and a column is
// consumed by at most one role.
func MapHeaders(columns []string) HeaderMap {
	normalized := make([]string, len(columns))
	for i, col := range columns {
		normalized[i] = utils.NormalizeText(col)
	}

	mapped := HeaderMap{}
	taken := make([]bool, len(columns))
	for _, entry := range roleSynonyms {
	scan:
		for i, norm := range normalized {
			if taken[i] || norm == "" {
				continue
			}
			for _, pattern := range entry.patterns {
				if strings.Contains(norm, pattern) {
					mapped[entry.role] = columns[i]
					taken[i] = true
					break scan
				}
			}
		}
	}
	return mapped
}

// Column returns the source column bound to a role, or "" when the role was
// not recognized in the sheet.
func (m HeaderMap) Column(role HeaderRole) string {
	return m[role]
}

// Validate enforces the minimum a sheet must carry to be importable: an
// item description and at least one monetary column. Everything else has a
// per-row fallback.
func (m HeaderMap) Validate() error {
	if m[RoleDescription] == "" {
		return errors.New("no product description column recognized")
	}
	if m[RoleUnitPrice] == "" && m[RoleTotal] == "" {
		return errors.New("no unit price or total column recognized")
	}
	return nil
}
