package criteria

import (
	"reflect"
	"testing"
)

func TestParse_FullAnnotation(t *testing.T) {
	c := Parse("Alergias: Pollo | Objetivo nutricional: Control de peso | Nivel de actividad: Sedentario | Edad: Adulto")

	if !reflect.DeepEqual(c.Allergies, []string{"Pollo"}) {
		t.Fatalf("allergies = %#v", c.Allergies)
	}
	if !reflect.DeepEqual(c.Goals, []string{"Control de peso"}) {
		t.Fatalf("goals = %#v", c.Goals)
	}
	if c.Activity != ActivitySedentary {
		t.Fatalf("activity = %q", c.Activity)
	}
	if c.Age != AgeAdult {
		t.Fatalf("age = %q", c.Age)
	}
}

func TestParse_NoneSentinels(t *testing.T) {
	c := Parse("Alergias: Ninguna | Objetivo nutricional: No especificado | Nivel de actividad: Moderadamente activo | Edad: Cachorro")

	if len(c.Allergies) != 0 {
		t.Fatalf("expected no allergies, got %#v", c.Allergies)
	}
	if len(c.Goals) != 0 {
		t.Fatalf("expected no goals, got %#v", c.Goals)
	}
	if c.Activity != ActivityModeratelyActive {
		t.Fatalf("activity = %q", c.Activity)
	}
	// Cachorro se reconoce, pero es una etapa sin restricción para el filtro.
	if c.Age != AgePuppy {
		t.Fatalf("age = %q", c.Age)
	}
}

func TestParse_AllergiesSentinel_CaseInsensitive(t *testing.T) {
	for _, in := range []string{
		"Alergias: ninguna",
		"ALERGIAS: NINGUNA",
		"alergias:   Ninguna   ",
		"Alergias: no especificado",
	} {
		if got := Parse(in).Allergies; len(got) != 0 {
			t.Fatalf("Parse(%q).Allergies = %#v, want empty", in, got)
		}
	}
}

func TestParse_EmptyAndMalformed(t *testing.T) {
	for _, in := range []string{"", "   ", "sin formato", "|||", ":", "Color: marrón"} {
		c := Parse(in)
		if !c.IsEmpty() {
			t.Fatalf("Parse(%q) = %#v, want empty criteria", in, c)
		}
	}
}

func TestParse_ListsSplitTrimAndDedupe(t *testing.T) {
	c := Parse("Alergias: Pollo,  Res , pollo, , Ninguna | Objetivo nutricional: Control de peso (sobrepeso leve, 2kg), Salud dental, Energía (alta)")

	if !reflect.DeepEqual(c.Allergies, []string{"Pollo", "Res"}) {
		t.Fatalf("allergies = %#v", c.Allergies)
	}
	want := []string{"Control de peso", "Salud dental", "Energía"}
	if !reflect.DeepEqual(c.Goals, want) {
		t.Fatalf("goals = %#v, want %#v", c.Goals, want)
	}
}

func TestParse_ScalarsAreNotSplit(t *testing.T) {
	c := Parse("Nivel de actividad: Muy activo, corre todos los días | Edad: Senior")
	// el valor completo no coincide con ningún nivel conocido
	if c.Activity != ActivityUnset {
		t.Fatalf("activity = %q, want unset", c.Activity)
	}
	if c.Age != AgeSenior {
		t.Fatalf("age = %q", c.Age)
	}
}

func TestParse_LabelSubstringAndAccents(t *testing.T) {
	c := Parse("Mis alergías conocidas: Salmón | Edad aproximada: Joven Adulto (3 años) | Vacunas: al día")

	if !reflect.DeepEqual(c.Allergies, []string{"Salmón"}) {
		t.Fatalf("allergies = %#v", c.Allergies)
	}
	if c.Age != AgeYoungAdult {
		t.Fatalf("age = %q", c.Age)
	}
}

func TestParse_UnspecifiedScalars(t *testing.T) {
	c := Parse("Nivel de actividad: No especificado | Edad: no especificada")
	if !c.IsEmpty() {
		t.Fatalf("expected empty criteria, got %#v", c)
	}
}
