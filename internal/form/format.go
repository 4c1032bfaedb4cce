// internal/form/format.go
package form

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/solatis/tallyboard/internal/types"
)

/*
 * Locale-aware value formatting.
 *
 * The simulator renders for a French-speaking audience: comma decimal
 * separator, booleans as oui/non, Empty as blank. Formatting is pure
 * presentation; stored values stay numeric.
 */

var printer = message.NewPrinter(language.French)

// FormatNumber renders a number with locale decimal rules, at most two
// fraction digits, trailing zeros dropped.
func FormatNumber(v float64) string {
	return printer.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(2)))
}

// FormatPercent renders a percentage with at most one fraction digit,
// e.g. 97.3 -> "97,3 %".
func FormatPercent(v float64) string {
	return printer.Sprintf("%v %%", number.Decimal(v, number.MaxFractionDigits(1)))
}

// FormatBool renders booleans as oui/non.
func FormatBool(v bool) string {
	if v {
		return "oui"
	}
	return "non"
}

// FormatValue renders any node value for display, appending the rule's unit
// for numbers when one is declared. Empty renders as blank.
func FormatValue(v types.NodeValue, unit string) string {
	switch v.Kind() {
	case types.ValueNum:
		n, _ := v.AsNumber()
		if unit == "%" {
			return FormatPercent(n)
		}
		formatted := FormatNumber(n)
		if unit != "" {
			return formatted + " " + unit
		}
		return formatted
	case types.ValueStr:
		s, _ := v.AsString()
		return s
	case types.ValueBool:
		b, _ := v.AsBool()
		return FormatBool(b)
	default:
		return ""
	}
}
