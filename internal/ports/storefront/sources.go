package storefront

import (
	"context"

	"pet-snack-assistant/internal/domain/pets"
	"pet-snack-assistant/internal/domain/products"
)

// PetSource entrega las mascotas de un usuario (id, nombre, especie, nota).
type PetSource interface {
	ListByOwner(ctx context.Context, ownerUserID string) ([]pets.Pet, error)
}

// ProductSource entrega el catálogo vivo (precio, stock, imagen).
type ProductSource interface {
	List(ctx context.Context) ([]products.Product, error)
}
