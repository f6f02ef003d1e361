package criteria

import (
	"strings"

	"pet-snack-assistant/internal/platform/textnorm"
)

// Etiquetas reconocidas (ya normalizadas). Se buscan como substring del label.
const (
	labelAllergies = "alergias"
	labelGoals     = "objetivo nutricional"
	labelActivity  = "nivel de actividad"
	labelAge       = "edad"
)

var noneSentinels = map[string]struct{}{
	"ninguna":         {},
	"ninguno":         {},
	"no especificado": {},
	"no especificada": {},
}

var activityByLabel = map[string]ActivityLevel{
	"sedentario":           ActivitySedentary,
	"sedentaria":           ActivitySedentary,
	"moderadamente activo": ActivityModeratelyActive,
	"moderadamente activa": ActivityModeratelyActive,
	"muy activo":           ActivityVeryActive,
	"muy activa":           ActivityVeryActive,
}

var ageByLabel = map[string]AgeBracket{
	"cachorro":     AgePuppy,
	"cachorra":     AgePuppy,
	"joven adulto": AgeYoungAdult,
	"joven adulta": AgeYoungAdult,
	"adulto":       AgeAdult,
	"adulta":       AgeAdult,
	"senior":       AgeSenior,
	"adulto mayor": AgeSenior,
}

// Parse convierte la nota de una mascota en Criteria.
//
// Formato: secciones separadas por "|", cada una "Etiqueta: valor[, valor...]".
// Secciones desconocidas se ignoran. Nunca falla: ante cualquier problema interno
// devuelve Criteria vacío.
func Parse(annotation string) (out Criteria) {
	defer func() {
		if r := recover(); r != nil {
			out = Criteria{}
		}
	}()

	if strings.TrimSpace(annotation) == "" {
		return Criteria{}
	}

	for _, section := range strings.Split(annotation, "|") {
		label, value, ok := strings.Cut(section, ":")
		if !ok {
			continue
		}
		label = textnorm.Fold(label)
		value = strings.TrimSpace(value)

		switch {
		case strings.Contains(label, labelAllergies):
			for _, a := range splitList(value) {
				out.Allergies = appendUnique(out.Allergies, a)
			}
		case strings.Contains(label, labelGoals):
			for _, g := range splitList(value) {
				g = stripParenthetical(g)
				if g == "" || isNone(g) {
					continue
				}
				out.Goals = appendUnique(out.Goals, g)
			}
		case strings.Contains(label, labelActivity):
			out.Activity = ParseActivity(value)
		case strings.Contains(label, labelAge):
			out.Age = ParseAge(value)
		}
	}

	return out
}

// ParseActivity interpreta el valor completo (sin separar por comas).
// Valores desconocidos o "no especificado" devuelven ActivityUnset.
func ParseActivity(s string) ActivityLevel {
	return activityByLabel[textnorm.Fold(stripParenthetical(s))]
}

// ParseAge interpreta el valor completo (sin separar por comas).
func ParseAge(s string) AgeBracket {
	return ageByLabel[textnorm.Fold(stripParenthetical(s))]
}

// splitList separa por comas fuera de paréntesis, recorta y descarta vacíos y centinelas.
func splitList(value string) []string {
	parts := make([]string, 0)
	depth := 0
	start := 0
	for i, r := range value {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, value[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, value[start:])

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || isNone(p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// stripParenthetical quita calificadores "(...)"; un paréntesis sin cerrar corta hasta el final.
func stripParenthetical(s string) string {
	var b strings.Builder
	depth := 0
	for _, r := range s {
		switch {
		case r == '(':
			depth++
		case r == ')' && depth > 0:
			depth--
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func isNone(s string) bool {
	_, ok := noneSentinels[textnorm.Fold(s)]
	return ok
}

func appendUnique(list []string, v string) []string {
	key := textnorm.Fold(v)
	for _, existing := range list {
		if textnorm.Fold(existing) == key {
			return list
		}
	}
	return append(list, v)
}
