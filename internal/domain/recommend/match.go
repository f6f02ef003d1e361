package recommend

import (
	"pet-snack-assistant/internal/domain/products"
	"pet-snack-assistant/internal/platform/textnorm"
)

// Match une un nombre recomendado con el producto vivo del catálogo.
// Found=false: solo hay nombre, sin precio ni imagen.
type Match struct {
	Name    string
	Product products.Product
	Found   bool
}

// MatchCatalog hace el join por nombre normalizado. Conserva el orden de names.
// Ante nombres repetidos en el catálogo gana el primero.
func MatchCatalog(names []string, live []products.Product) []Match {
	byName := make(map[string]products.Product, len(live))
	for _, p := range live {
		k := textnorm.Fold(p.Name)
		if k == "" {
			continue
		}
		if _, dup := byName[k]; !dup {
			byName[k] = p
		}
	}

	out := make([]Match, 0, len(names))
	for _, n := range names {
		p, ok := byName[textnorm.Fold(n)]
		out = append(out, Match{Name: n, Product: p, Found: ok})
	}
	return out
}
