package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold normaliza un texto para comparaciones por igualdad:
// minúsculas, sin diacríticos, puntuación convertida a espacio y espacios colapsados.
//
//	Fold("Bocaditos de Salmón!") == "bocaditos de salmon"
func Fold(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}

	// transform.Chain guarda estado, por eso se arma uno por llamada.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}

	mapped := strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return ' '
		}
		return unicode.ToLower(r)
	}, stripped)

	return strings.Join(strings.Fields(mapped), " ")
}
