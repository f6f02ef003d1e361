package pets

import "time"

// Species define las especies soportadas.
// @Enum dog, cat
type Species string

const (
	SpeciesDog Species = "dog"
	SpeciesCat Species = "cat"
)

// Label devuelve el nombre en castellano para mostrar en el asistente.
func (s Species) Label() string {
	switch s {
	case SpeciesDog:
		return "Perro"
	case SpeciesCat:
		return "Gato"
	default:
		return string(s)
	}
}

// Pet representa el perfil de una mascota registrada por un cliente de la tienda.
type Pet struct {
	ID          string
	OwnerUserID string

	Name    string
	Species Species // dog, cat

	// Annotation es la nota libre con alergias, objetivos, actividad y edad.
	// Formato: "Alergias: Pollo | Objetivo nutricional: Control de peso | ..."
	Annotation string

	CreatedAt time.Time
	UpdatedAt time.Time
}
