package recommend

import (
	"pet-snack-assistant/internal/domain/criteria"
	"pet-snack-assistant/internal/domain/relations"
	"pet-snack-assistant/internal/platform/textnorm"
)

// Filter aplica la tabla de relaciones sobre una lista de nombres de producto.
// Es puro: no tiene estado propio además de la tabla (inmutable).
type Filter struct {
	table *relations.Table
}

func NewFilter(table *relations.Table) *Filter {
	return &Filter{table: table}
}

// Recommend devuelve los nombres del catálogo que califican para los criterios.
//
// Etapas, cada una sobre el resultado de la anterior:
//  1. Exclusión por alergias. Si deja vacío, se devuelve vacío.
//  2. Objetivos: la unión de recomendados (dentro de los candidatos) reemplaza
//     a los candidatos; si la unión es vacía, la etapa no hace nada.
//  3. Actividad: intersección, salvo que el set mapeado sea vacío (sin restricción).
//  4. Edad: igual que 3, solo para Senior.
//
// Los nombres devueltos conservan la escritura del catálogo.
func (f *Filter) Recommend(c criteria.Criteria, catalog []string) []string {
	candidates := f.excludeAllergens(c.Allergies, catalog)
	if len(candidates) == 0 {
		return []string{}
	}

	if len(c.Goals) > 0 {
		if union := f.goalUnion(c.Goals, candidates); len(union) > 0 {
			candidates = union
		}
	}

	if c.Activity != criteria.ActivityUnset && c.Activity != criteria.ActivityModeratelyActive {
		candidates = narrow(candidates, f.table.ActivityProducts(c.Activity))
	}

	if c.Age == criteria.AgeSenior {
		candidates = narrow(candidates, f.table.AgeProducts(c.Age))
	}

	return candidates
}

func (f *Filter) excludeAllergens(allergies []string, catalog []string) []string {
	out := make([]string, 0, len(catalog))
	seen := make(map[string]struct{}, len(catalog))

	for _, name := range catalog {
		key := textnorm.Fold(name)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		excluded := false
		for _, a := range allergies {
			if f.table.Excludes(a, name) {
				excluded = true
				break
			}
		}
		if !excluded {
			out = append(out, name)
		}
	}
	return out
}

// goalUnion recorre los objetivos en orden y, para cada uno, sus productos en el
// orden de la tabla. El orden del resultado sale de ese recorrido.
func (f *Filter) goalUnion(goals []string, candidates []string) []string {
	byKey := index(candidates)
	added := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))

	for _, g := range goals {
		for _, p := range f.table.GoalProducts(g) {
			key := textnorm.Fold(p)
			name, ok := byKey[key]
			if !ok {
				continue
			}
			if _, dup := added[key]; dup {
				continue
			}
			added[key] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}

// narrow intersecta manteniendo el orden de candidates. Un set vacío no restringe.
func narrow(candidates []string, allowed []string) []string {
	if len(allowed) == 0 {
		return candidates
	}
	set := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		set[textnorm.Fold(a)] = struct{}{}
	}

	out := make([]string, 0, len(candidates))
	for _, name := range candidates {
		if _, ok := set[textnorm.Fold(name)]; ok {
			out = append(out, name)
		}
	}
	return out
}

func index(names []string) map[string]string {
	m := make(map[string]string, len(names))
	for _, n := range names {
		m[textnorm.Fold(n)] = n
	}
	return m
}
