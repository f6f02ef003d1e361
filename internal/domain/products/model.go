package products

import (
	"strings"
	"time"
)

// Product es un producto del catálogo tal como lo entrega el backend.
type Product struct {
	ID       string
	Name     string
	Price    float64
	Stock    int
	Category string

	// ImageRef es la referencia cruda (nombre de archivo o URL absoluta).
	ImageRef string

	CreatedAt time.Time
}

func (p Product) InStock() bool {
	return p.Stock > 0
}

// ImageURL resuelve la referencia de imagen contra una base.
// Si ref ya es absoluta, se devuelve tal cual.
func ImageURL(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return ref
	}
	return base + "/" + strings.TrimLeft(ref, "/")
}
