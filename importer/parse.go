package importer

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"scoutdesk/player"
)

// DisplayCurrency prefixes market values that arrive without a symbol.
const DisplayCurrency = "€"

var (
	marketValueDisplayForm = regexp.MustCompile(`^[€$£¥]\d{1,3}(,\d{3})*$`)
	marketValueResidue     = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
	marketValueGrouped     = regexp.MustCompile(`^-?\d{1,3}(,\d{3})+$`)
	marketValueStripper    = strings.NewReplacer(
		"€", "", "$", "", "£", "", "¥", "",
		"EUR", "", "USD", "", "GBP", "",
		"'", "",
		" ", "", "\t", "", "\u00a0", "", "\u202f", "",
	)
)

// parseInteger returns nil for empty input and ok=false for text that is not
// a number. Fractions are truncated toward zero.
func parseInteger(raw string) (*int, bool) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return nil, true
	}

	if value, err := strconv.Atoi(cleaned); err == nil {
		return &value, true
	}

	parsed, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return nil, false
	}
	value := int(math.Trunc(parsed))
	return &value, true
}

// parseDecimal handles fractional statistics such as ratings and percentages.
func parseDecimal(raw string) (*decimal.Decimal, bool) {
	cleaned := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	if cleaned == "" {
		return nil, true
	}

	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return nil, false
	}
	return &value, true
}

// parseMarketValue strips currency markers and grouping from raw and returns
// the magnitude. Text already in display form ("€50,000") keeps its spelling.
func parseMarketValue(raw string) (player.Money, bool) {
	trimmed := strings.TrimSpace(raw)
	stripped := marketValueStripper.Replace(strings.ToUpper(trimmed))
	if !unambiguousSeparators(stripped) {
		return player.Money{}, false
	}
	residue := strings.ReplaceAll(stripped, ",", "")
	if !marketValueResidue.MatchString(residue) {
		return player.Money{}, false
	}

	amount, err := decimal.NewFromString(residue)
	if err != nil {
		return player.Money{}, false
	}

	display := trimmed
	if !marketValueDisplayForm.MatchString(trimmed) {
		display = FormatMarketValue(amount)
	}
	return player.Money{Amount: amount, Display: display}, true
}

// unambiguousSeparators accepts commas only as thousands groups before an
// optional decimal point. European notation such as "1.234,56" or "€1.500"
// could mean two different amounts and is rejected.
func unambiguousSeparators(value string) bool {
	integer, fraction, hasDot := strings.Cut(value, ".")
	if strings.ContainsAny(fraction, ".,") {
		return false
	}
	if strings.Contains(integer, ",") {
		return marketValueGrouped.MatchString(integer)
	}
	digits := strings.TrimPrefix(integer, "-")
	// "1.500" reads as 1.5 or 1500 depending on locale.
	if hasDot && len(fraction) == 3 && len(digits) <= 3 && strings.Trim(digits, "0") != "" {
		return false
	}
	return true
}

// FormatMarketValue renders amount as DisplayCurrency followed by digits
// grouped in thousands. A fraction keeps at least two digits.
func FormatMarketValue(amount decimal.Decimal) string {
	text := amount.Abs().String()
	integer, fraction, hasFraction := strings.Cut(text, ".")

	var grouped strings.Builder
	for i, digit := range integer {
		if i > 0 && (len(integer)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(digit)
	}

	out := DisplayCurrency + grouped.String()
	if hasFraction {
		if len(fraction) == 1 {
			fraction += "0"
		}
		out += "." + fraction
	}
	if amount.IsNegative() {
		out = "-" + out
	}
	return out
}

func splitTags(raw string, separator string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, separator)
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
