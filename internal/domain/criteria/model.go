package criteria

// ActivityLevel es el nivel de actividad declarado en la nota de la mascota.
// @Enum sedentary, moderately_active, very_active
type ActivityLevel string

const (
	ActivityUnset            ActivityLevel = ""
	ActivitySedentary        ActivityLevel = "sedentary"
	ActivityModeratelyActive ActivityLevel = "moderately_active"
	ActivityVeryActive       ActivityLevel = "very_active"
)

// AgeBracket es la etapa de vida declarada en la nota.
// @Enum puppy, young_adult, adult, senior
type AgeBracket string

const (
	AgeUnset      AgeBracket = ""
	AgePuppy      AgeBracket = "puppy"
	AgeYoungAdult AgeBracket = "young_adult"
	AgeAdult      AgeBracket = "adult"
	AgeSenior     AgeBracket = "senior"
)

// Criteria es la entrada estructurada del filtro, derivada de la nota libre.
// Se recalcula en cada pedido de recomendación; no se cachea.
type Criteria struct {
	Allergies []string // set: sin duplicados (comparando con textnorm.Fold)
	Goals     []string // el orden no afecta el filtrado
	Activity  ActivityLevel
	Age       AgeBracket
}

func (c Criteria) IsEmpty() bool {
	return len(c.Allergies) == 0 && len(c.Goals) == 0 && c.Activity == ActivityUnset && c.Age == AgeUnset
}

// Label devuelve la etiqueta en castellano, para mensajes al usuario.
func (a ActivityLevel) Label() string {
	switch a {
	case ActivitySedentary:
		return "Sedentario"
	case ActivityModeratelyActive:
		return "Moderadamente activo"
	case ActivityVeryActive:
		return "Muy activo"
	default:
		return ""
	}
}

func (a AgeBracket) Label() string {
	switch a {
	case AgePuppy:
		return "Cachorro"
	case AgeYoungAdult:
		return "Joven adulto"
	case AgeAdult:
		return "Adulto"
	case AgeSenior:
		return "Senior"
	default:
		return ""
	}
}
