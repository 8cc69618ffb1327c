package utils

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Spreadsheet serial day numbers are anchored at 1899-12-30, which puts
// 1970-01-01 at serial 25569.
const unixEpochSerial = 25569

// ParseLocaleDecimal converts a loosely formatted spreadsheet cell into a
// decimal. Accepts plain numbers as-is; otherwise scrubs currency markers
// and whitespace, drops "." thousands separators and treats "," as the
// decimal separator ("R$ 1.234,56" -> 1234.56).
//
// Unparseable values degrade to zero instead of erroring: callers treat a
// zero result as "absent" when deciding fallback computations.
func ParseLocaleDecimal(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero
	}
	if d, err := decimal.NewFromString(s); err == nil {
		return d
	}

	s = strings.NewReplacer("R$", "", "r$", "", "$", "", " ", "", "\u00a0", "").Replace(s)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")

	// Keep digits and '.' only.
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	clean := b.String()
	if clean == "" || clean == "." {
		return decimal.Zero
	}
	if neg {
		clean = "-" + clean
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseFlexibleDate resolves the date notations seen in purchasing
// spreadsheets to a calendar date (midnight UTC). Rules apply in order:
//
//  1. blank -> today
//  2. numeric > 30000 -> spreadsheet serial day count
//  3. contains "/" -> day/month/year, two-digit years expanded to 20YY,
//     accepted only when the result is a real calendar date
//  4. generic ISO parsing
//  5. today
//
// The ordering is what disambiguates otherwise ambiguous inputs; do not
// reorder. Malformed dates never error, they degrade to today.
func ParseFlexibleDate(raw string) time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return today()
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 30000 {
		days := int64(serial) - unixEpochSerial
		return time.Unix(days*86400, 0).UTC()
	}

	if strings.Contains(s, "/") {
		if t, ok := parseSlashDate(s); ok {
			return t
		}
	}

	for _, layout := range []string{"2006-01-02", "2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		}
	}

	return today()
}

// parseSlashDate handles DD/MM/YYYY and DD/MM/YY.
func parseSlashDate(s string) (time.Time, bool) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	day := zeroPad2(strings.TrimSpace(parts[0]))
	month := zeroPad2(strings.TrimSpace(parts[1]))
	year := strings.TrimSpace(parts[2])
	if len(year) == 2 {
		year = "20" + year
	}
	// time.Parse rejects impossible calendar dates (e.g. 31/02).
	t, err := time.Parse("2006-01-02", year+"-"+month+"-"+day)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func zeroPad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
