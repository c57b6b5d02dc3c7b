// Package currency maps ISO 4217 codes to the symbol shown next to amounts.
package currency

import (
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Symbol returns the display symbol for an ISO 4217 code ("USD" -> "$").
// Unknown codes are returned upper-cased so the chart still labels amounts.
func Symbol(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	unit, err := currency.ParseISO(code)
	if err != nil {
		return code
	}
	return printer.Sprint(currency.Symbol(unit))
}
