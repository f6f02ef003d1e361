package recommend

import (
	"reflect"
	"testing"

	"pet-snack-assistant/internal/domain/criteria"
	"pet-snack-assistant/internal/domain/relations"
)

func newTestFilter() (*Filter, *relations.Table) {
	tbl := relations.Default()
	return NewFilter(tbl), tbl
}

func TestRecommend_ScenarioA(t *testing.T) {
	f, tbl := newTestFilter()
	c := criteria.Parse("Alergias: Pollo | Objetivo nutricional: Control de peso | Nivel de actividad: Sedentario | Edad: Adulto")

	got := f.Recommend(c, tbl.Products())
	want := []string{relations.GalletasLightDePavo}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("recommend = %#v, want %#v", got, want)
	}
}

func TestRecommend_ScenarioA_StageByStage(t *testing.T) {
	f, tbl := newTestFilter()
	catalog := tbl.Products()

	afterAllergy := f.Recommend(criteria.Criteria{Allergies: []string{"Pollo"}}, catalog)
	if !reflect.DeepEqual(afterAllergy, []string{relations.BocaditosDeSalmon, relations.GalletasLightDePavo, relations.TirasDeResDeshidratada}) {
		t.Fatalf("after allergy = %#v", afterAllergy)
	}

	afterGoal := f.Recommend(criteria.Criteria{Allergies: []string{"Pollo"}, Goals: []string{"Control de peso"}}, catalog)
	if !reflect.DeepEqual(afterGoal, []string{relations.GalletasLightDePavo, relations.BocaditosDeSalmon}) {
		t.Fatalf("after goal = %#v", afterGoal)
	}
}

func TestRecommend_ScenarioB_Unrestricted(t *testing.T) {
	f, tbl := newTestFilter()
	c := criteria.Parse("Alergias: Ninguna | Objetivo nutricional: No especificado | Nivel de actividad: Moderadamente activo | Edad: Cachorro")

	got := f.Recommend(c, tbl.Products())
	if !reflect.DeepEqual(got, tbl.Products()) {
		t.Fatalf("expected full catalog, got %#v", got)
	}
}

func TestRecommend_ExclusionSoundness(t *testing.T) {
	f, tbl := newTestFilter()
	catalog := tbl.Products()

	allergenSets := [][]string{
		{"Pollo"},
		{"Pescado"},
		{"Res", "Trigo"},
		{"Granos", "Salmón"},
		{"pavo", "LACTEOS"},
	}
	goalSets := [][]string{nil, {"Control de peso"}, {"Energía", "Salud dental"}}
	activities := []criteria.ActivityLevel{criteria.ActivityUnset, criteria.ActivitySedentary, criteria.ActivityVeryActive}
	ages := []criteria.AgeBracket{criteria.AgeUnset, criteria.AgeSenior}

	for _, as := range allergenSets {
		for _, gs := range goalSets {
			for _, act := range activities {
				for _, age := range ages {
					c := criteria.Criteria{Allergies: as, Goals: gs, Activity: act, Age: age}
					for _, name := range f.Recommend(c, catalog) {
						for _, a := range as {
							if tbl.Excludes(a, name) {
								t.Fatalf("criteria %#v returned %q excluded by %q", c, name, a)
							}
						}
					}
				}
			}
		}
	}
}

func TestRecommend_ShortCircuitWhenAllExcluded(t *testing.T) {
	f, tbl := newTestFilter()
	c := criteria.Criteria{
		Allergies: []string{"Pollo", "Pescado", "Res", "Pavo"},
		Goals:     []string{"Control de peso"},
		Activity:  criteria.ActivitySedentary,
		Age:       criteria.AgeSenior,
	}

	got := f.Recommend(c, tbl.Products())
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestRecommend_GoalSoftFail(t *testing.T) {
	f, tbl := newTestFilter()
	catalog := tbl.Products()

	// Objetivo sin productos asociados.
	got := f.Recommend(criteria.Criteria{Goals: []string{"Articulaciones"}}, catalog)
	if !reflect.DeepEqual(got, catalog) {
		t.Fatalf("articulaciones should leave candidates unchanged, got %#v", got)
	}

	// Objetivo cuyos productos fueron todos excluidos.
	before := f.Recommend(criteria.Criteria{Allergies: []string{"Pollo"}}, catalog)
	after := f.Recommend(criteria.Criteria{Allergies: []string{"Pollo"}, Goals: []string{"Salud dental"}}, catalog)
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("soft-fail violated: before %#v after %#v", before, after)
	}

	// Objetivo desconocido.
	got = f.Recommend(criteria.Criteria{Goals: []string{"Volar"}}, catalog)
	if !reflect.DeepEqual(got, catalog) {
		t.Fatalf("unknown goal should be a no-op, got %#v", got)
	}
}

func TestRecommend_GoalUnionOrder(t *testing.T) {
	f, tbl := newTestFilter()

	got := f.Recommend(criteria.Criteria{Goals: []string{"Salud dental", "Energía"}}, tbl.Products())
	want := []string{relations.HuesitosDePollo, relations.CroquetasDePolloYArroz, relations.TirasDeResDeshidratada}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("union = %#v, want %#v", got, want)
	}
}

func TestRecommend_ActivityAndAge(t *testing.T) {
	f, tbl := newTestFilter()
	catalog := tbl.Products()

	got := f.Recommend(criteria.Criteria{Activity: criteria.ActivityVeryActive}, catalog)
	want := []string{relations.CroquetasDePolloYArroz, relations.BocaditosDeSalmon, relations.TirasDeResDeshidratada}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("very active = %#v, want %#v", got, want)
	}

	got = f.Recommend(criteria.Criteria{Age: criteria.AgeSenior}, catalog)
	want = []string{relations.BocaditosDeSalmon, relations.GalletasLightDePavo}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("senior = %#v, want %#v", got, want)
	}

	for _, b := range []criteria.AgeBracket{criteria.AgePuppy, criteria.AgeYoungAdult, criteria.AgeAdult} {
		if got := f.Recommend(criteria.Criteria{Age: b}, catalog); !reflect.DeepEqual(got, catalog) {
			t.Fatalf("age %q should be skipped, got %#v", b, got)
		}
	}

	// Actividad + edad pueden dejar vacío: la intersección no es soft-fail.
	got = f.Recommend(criteria.Criteria{Activity: criteria.ActivityVeryActive, Age: criteria.AgeSenior, Allergies: []string{"Pescado"}}, catalog)
	if len(got) != 0 {
		t.Fatalf("expected empty, got %#v", got)
	}
}

func TestRecommend_Idempotent(t *testing.T) {
	f, tbl := newTestFilter()
	c := criteria.Parse("Alergias: Res | Objetivo nutricional: Energía, Pelaje brillante | Nivel de actividad: Muy activo | Edad: Senior")

	first := f.Recommend(c, tbl.Products())
	second := f.Recommend(c, tbl.Products())
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("not idempotent: %#v vs %#v", first, second)
	}
}

func TestRecommend_CatalogSpellingAndDuplicates(t *testing.T) {
	f, _ := newTestFilter()
	catalog := []string{"HUESITOS DE POLLO", "bocaditos de salmon", "Bocaditos de Salmón", "Snack Nuevo"}

	got := f.Recommend(criteria.Criteria{Allergies: []string{"Pollo"}}, catalog)
	want := []string{"bocaditos de salmon", "Snack Nuevo"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("recommend = %#v, want %#v", got, want)
	}
}
