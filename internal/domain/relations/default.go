package relations

import "pet-snack-assistant/internal/domain/criteria"

// Nombres del catálogo de la marca. Deben coincidir (normalizados) con los
// nombres de producto cargados en el backend.
const (
	HuesitosDePollo        = "Huesitos de Pollo"
	CroquetasDePolloYArroz = "Croquetas de Pollo y Arroz"
	BocaditosDeSalmon      = "Bocaditos de Salmón"
	GalletasLightDePavo    = "Galletas Light de Pavo"
	TirasDeResDeshidratada = "Tiras de Res Deshidratada"
)

// DefaultData es la tabla de relaciones de la tienda.
func DefaultData() Data {
	return Data{
		Products: []string{
			HuesitosDePollo,
			CroquetasDePolloYArroz,
			BocaditosDeSalmon,
			GalletasLightDePavo,
			TirasDeResDeshidratada,
		},
		AllergyExclusions: map[string][]string{
			"Pollo":        {HuesitosDePollo, CroquetasDePolloYArroz},
			"Pescado":      {BocaditosDeSalmon},
			"Salmón":       {BocaditosDeSalmon},
			"Res":          {TirasDeResDeshidratada},
			"Carne de res": {TirasDeResDeshidratada},
			"Pavo":         {GalletasLightDePavo},
			"Granos":       {CroquetasDePolloYArroz},
			"Cereales":     {CroquetasDePolloYArroz},
			"Arroz":        {CroquetasDePolloYArroz},
			"Trigo":        {GalletasLightDePavo},
			"Lácteos":      {},
		},
		GoalRecommendations: map[string][]string{
			"Control de peso":     {GalletasLightDePavo, BocaditosDeSalmon, HuesitosDePollo},
			"Salud dental":        {HuesitosDePollo},
			"Pelaje brillante":    {BocaditosDeSalmon},
			"Desarrollo muscular": {TirasDeResDeshidratada, CroquetasDePolloYArroz},
			"Energía":             {CroquetasDePolloYArroz, TirasDeResDeshidratada},
			"Digestión saludable": {GalletasLightDePavo, CroquetasDePolloYArroz},
			"Articulaciones":      {},
		},
		ActivityRecommendations: map[criteria.ActivityLevel][]string{
			criteria.ActivitySedentary:        {GalletasLightDePavo, HuesitosDePollo},
			criteria.ActivityModeratelyActive: {},
			criteria.ActivityVeryActive:       {TirasDeResDeshidratada, CroquetasDePolloYArroz, BocaditosDeSalmon},
		},
		// Solo Senior restringe.
		AgeRecommendations: map[criteria.AgeBracket][]string{
			criteria.AgePuppy:      {},
			criteria.AgeYoungAdult: {},
			criteria.AgeAdult:      {},
			criteria.AgeSenior:     {GalletasLightDePavo, BocaditosDeSalmon},
		},
	}
}

// Default construye la tabla por defecto. Se llama una vez al arrancar.
func Default() *Table {
	return New(DefaultData())
}
