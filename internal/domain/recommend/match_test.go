package recommend

import (
	"testing"

	"pet-snack-assistant/internal/domain/products"
	"pet-snack-assistant/internal/domain/relations"
)

func TestMatchCatalog_NormalizedJoin(t *testing.T) {
	live := []products.Product{
		{ID: "1", Name: "BOCADITOS DE SALMON", Price: 5},
		{ID: "2", Name: "galletas light de pavo!", Price: 3},
		{ID: "3", Name: "Galletas Light de Pavo", Price: 99},
	}

	got := MatchCatalog([]string{relations.GalletasLightDePavo, relations.BocaditosDeSalmon, relations.HuesitosDePollo}, live)
	if len(got) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(got))
	}

	if !got[0].Found || got[0].Product.ID != "2" {
		t.Fatalf("first catalog entry should win: %#v", got[0])
	}
	if !got[1].Found || got[1].Product.ID != "1" {
		t.Fatalf("accent/case fold failed: %#v", got[1])
	}
	if got[2].Found || got[2].Name != relations.HuesitosDePollo {
		t.Fatalf("missing product must keep the name only: %#v", got[2])
	}
}
