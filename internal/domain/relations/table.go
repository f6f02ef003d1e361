package relations

import (
	"pet-snack-assistant/internal/domain/criteria"
	"pet-snack-assistant/internal/platform/textnorm"
)

// Data es la forma "cruda" de la tabla, con nombres tal cual se muestran.
// Las claves de alergias y objetivos se comparan normalizadas (textnorm.Fold).
type Data struct {
	Products []string

	AllergyExclusions       map[string][]string
	GoalRecommendations     map[string][]string
	ActivityRecommendations map[criteria.ActivityLevel][]string
	AgeRecommendations      map[criteria.AgeBracket][]string
}

// Table es la base de conocimiento criterio -> productos.
// Es inmutable después de New: se comparte sin locks.
// Un slice vacío en actividad/edad significa "sin restricción".
type Table struct {
	products []string

	allergy  map[string]map[string]struct{}
	goals    map[string][]string
	activity map[criteria.ActivityLevel][]string
	age      map[criteria.AgeBracket][]string
}

// New construye la tabla copiando los datos de entrada.
func New(d Data) *Table {
	t := &Table{
		products: dedupe(d.Products),
		allergy:  make(map[string]map[string]struct{}, len(d.AllergyExclusions)),
		goals:    make(map[string][]string, len(d.GoalRecommendations)),
		activity: make(map[criteria.ActivityLevel][]string, len(d.ActivityRecommendations)),
		age:      make(map[criteria.AgeBracket][]string, len(d.AgeRecommendations)),
	}

	for allergen, names := range d.AllergyExclusions {
		key := textnorm.Fold(allergen)
		set, ok := t.allergy[key]
		if !ok {
			set = map[string]struct{}{}
			t.allergy[key] = set
		}
		for _, n := range names {
			set[textnorm.Fold(n)] = struct{}{}
		}
	}
	for goal, names := range d.GoalRecommendations {
		key := textnorm.Fold(goal)
		t.goals[key] = dedupe(append(t.goals[key], names...))
	}
	for level, names := range d.ActivityRecommendations {
		t.activity[level] = dedupe(names)
	}
	for bracket, names := range d.AgeRecommendations {
		t.age[bracket] = dedupe(names)
	}

	return t
}

// Products devuelve el catálogo conocido, en orden.
func (t *Table) Products() []string {
	return append([]string(nil), t.products...)
}

// Excludes indica si el alérgeno excluye el producto.
// Un alérgeno desconocido no excluye nada.
func (t *Table) Excludes(allergen, product string) bool {
	set, ok := t.allergy[textnorm.Fold(allergen)]
	if !ok {
		return false
	}
	_, excluded := set[textnorm.Fold(product)]
	return excluded
}

// KnownAllergen indica si el alérgeno figura en la tabla.
func (t *Table) KnownAllergen(allergen string) bool {
	_, ok := t.allergy[textnorm.Fold(allergen)]
	return ok
}

// GoalProducts devuelve los productos recomendados para un objetivo (puede ser vacío).
func (t *Table) GoalProducts(goal string) []string {
	return append([]string(nil), t.goals[textnorm.Fold(goal)]...)
}

func (t *Table) ActivityProducts(level criteria.ActivityLevel) []string {
	return append([]string(nil), t.activity[level]...)
}

func (t *Table) AgeProducts(bracket criteria.AgeBracket) []string {
	return append([]string(nil), t.age[bracket]...)
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		key := textnorm.Fold(n)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, n)
	}
	return out
}
