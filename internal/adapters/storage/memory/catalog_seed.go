package memory

import (
	"time"

	"pet-snack-assistant/internal/domain/products"
	"pet-snack-assistant/internal/domain/relations"
)

// DefaultProducts es el catálogo de desarrollo: los productos que conoce la tabla de relaciones.
func DefaultProducts() []products.Product {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return []products.Product{
		{ID: "snk-huesitos-pollo", Name: relations.HuesitosDePollo, Price: 3.5, Stock: 40, Category: "snacks", ImageRef: "huesitos-pollo.png", CreatedAt: created},
		{ID: "snk-croquetas-pollo-arroz", Name: relations.CroquetasDePolloYArroz, Price: 4.2, Stock: 25, Category: "snacks", ImageRef: "croquetas-pollo-arroz.png", CreatedAt: created},
		{ID: "snk-bocaditos-salmon", Name: relations.BocaditosDeSalmon, Price: 5.9, Stock: 18, Category: "snacks", ImageRef: "bocaditos-salmon.png", CreatedAt: created},
		{ID: "snk-galletas-light-pavo", Name: relations.GalletasLightDePavo, Price: 2.9, Stock: 60, Category: "snacks", ImageRef: "galletas-light-pavo.png", CreatedAt: created},
		{ID: "snk-tiras-res", Name: relations.TirasDeResDeshidratada, Price: 6.4, Stock: 12, Category: "snacks", ImageRef: "tiras-res.png", CreatedAt: created},
	}
}
