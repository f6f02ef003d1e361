package router_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pet-snack-assistant/internal/adapters/auth/jwtauth"
	"pet-snack-assistant/internal/domain/relations"
	"pet-snack-assistant/internal/router"
)

const scenarioA = "Alergias: Pollo | Objetivo nutricional: Control de peso | Nivel de actividad: Sedentario | Edad: Adulto"

// Config vacía: sin demoras ni animación, todo se publica en el mismo request.
func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	t.Cleanup(ts.Close)
	return ts
}

type messageView struct {
	ID       string `json:"id"`
	Role     string `json:"role"`
	Text     string `json:"text"`
	Revealed bool   `json:"revealed"`
	Options  []struct {
		Label        string `json:"label"`
		Action       string `json:"action"`
		Value        string `json:"value"`
		DisplayLabel string `json:"display_label"`
	} `json:"options"`
	Product *struct {
		ProductID string  `json:"product_id"`
		Name      string  `json:"name"`
		Price     float64 `json:"price"`
		Found     bool    `json:"found"`
	} `json:"product"`
}

type sessionView struct {
	SessionID string        `json:"session_id"`
	State     string        `json:"state"`
	Messages  []messageView `json:"messages"`
}

func TestHTTP_Health(t *testing.T) {
	ts := newServer(t)

	st, body := doReq(t, ts.URL, "GET", "/health", "", nil)
	if st != http.StatusOK || string(body) != "ok" {
		t.Fatalf("health: %d %s", st, body)
	}
}

func TestHTTP_ProductsSeeded(t *testing.T) {
	ts := newServer(t)

	st, body := doReq(t, ts.URL, "GET", "/products", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200, got %d", st)
	}
	var items []struct {
		Name string `json:"name"`
	}
	_ = json.Unmarshal(body, &items)
	want := relations.Default().Products()
	if len(items) != len(want) {
		t.Fatalf("expected %d products, got %d", len(want), len(items))
	}
	for i := range want {
		if items[i].Name != want[i] {
			t.Fatalf("product %d = %q, want %q", i, items[i].Name, want[i])
		}
	}
}

func TestHTTP_PetRecommendations(t *testing.T) {
	ts := newServer(t)

	petID := createPet(t, ts.URL, "owner-1", map[string]any{
		"name":       "Milo",
		"species":    "dog",
		"annotation": scenarioA,
	})

	st, body := doReq(t, ts.URL, "GET", "/pets/"+petID+"/recommendations", "owner-1", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", st, body)
	}

	var resp struct {
		Products []string `json:"products"`
		Criteria struct {
			Allergies []string `json:"allergies"`
			Activity  string   `json:"activity_level"`
		} `json:"criteria"`
		Cards []struct {
			ProductID string `json:"product_id"`
			Found     bool   `json:"found"`
		} `json:"cards"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Products) != 1 || resp.Products[0] != relations.GalletasLightDePavo {
		t.Fatalf("unexpected products: %v", resp.Products)
	}
	if len(resp.Cards) != 1 || !resp.Cards[0].Found || resp.Cards[0].ProductID != "snk-galletas-light-pavo" {
		t.Fatalf("unexpected cards: %#v", resp.Cards)
	}
	if resp.Criteria.Activity != "sedentary" || len(resp.Criteria.Allergies) != 1 {
		t.Fatalf("unexpected criteria: %#v", resp.Criteria)
	}

	// mascota ajena
	if st, _ := doReq(t, ts.URL, "GET", "/pets/"+petID+"/recommendations", "intruder", nil); st != http.StatusNotFound {
		t.Fatalf("expected 404 for another owner, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "GET", "/pets/"+petID+"/recommendations", "", nil); st != http.StatusUnauthorized {
		t.Fatalf("expected 401 without user, got %d", st)
	}
}

func TestHTTP_AssistantConversation(t *testing.T) {
	ts := newServer(t)
	user := "owner-1"

	miloID := createPet(t, ts.URL, user, map[string]any{"name": "Milo", "species": "dog", "annotation": scenarioA})
	lunaID := createPet(t, ts.URL, user, map[string]any{
		"name":       "Luna",
		"species":    "cat",
		"annotation": "Alergias: Pollo, Pescado, Res, Pavo",
	})

	// sin panel abierto
	if st, _ := doReq(t, ts.URL, "GET", "/assistant/session/messages", user, nil); st != http.StatusNotFound {
		t.Fatalf("expected 404 before open, got %d", st)
	}

	s := sessionCall(t, ts.URL, "POST", "/assistant/session", user, nil, http.StatusCreated)
	if len(s.Messages) != 1 || s.Messages[0].Role != "assistant" || len(s.Messages[0].Options) != 2 {
		t.Fatalf("expected greeting, got %#v", s.Messages)
	}

	// dos mascotas: menú de selección
	s = sessionCall(t, ts.URL, "POST", "/assistant/session/actions", user, map[string]any{"action": "recommendations"}, http.StatusAccepted)
	if s.State != "awaiting_pet_selection" {
		t.Fatalf("state = %s", s.State)
	}
	picker := s.Messages[len(s.Messages)-1]
	if len(picker.Options) != 2 {
		t.Fatalf("expected 2 pet options, got %#v", picker.Options)
	}
	got := map[string]string{}
	for _, o := range picker.Options {
		got[o.Value] = o.DisplayLabel
	}
	if got[miloID] != "Milo" || got[lunaID] != "Luna" {
		t.Fatalf("unexpected pet options: %#v", picker.Options)
	}

	// Milo: una recomendación
	before := len(s.Messages)
	s = sessionCall(t, ts.URL, "POST", "/assistant/session/actions", user, map[string]any{
		"action": "selectPet", "value": miloID, "label": "Milo",
	}, http.StatusAccepted)
	added := s.Messages[before:]
	if added[0].Role != "user" || added[0].Text != "Milo" {
		t.Fatalf("expected user echo, got %#v", added[0])
	}
	cards := cardsIn(added)
	if len(cards) != 1 || cards[0].Product.Name != relations.GalletasLightDePavo || !cards[0].Product.Found {
		t.Fatalf("unexpected cards: %#v", cards)
	}
	if s.State != "displaying" {
		t.Fatalf("state = %s", s.State)
	}

	// Luna: nada califica
	before = len(s.Messages)
	s = sessionCall(t, ts.URL, "POST", "/assistant/session/actions", user, map[string]any{
		"action": "selectPet", "value": lunaID,
	}, http.StatusAccepted)
	added = s.Messages[before:]
	if len(cardsIn(added)) != 0 {
		t.Fatalf("no-match must not send cards")
	}
	last := added[len(added)-1]
	if len(last.Options) != 2 || last.Options[0].Action != "products" || last.Options[1].Action != "home" {
		t.Fatalf("unexpected fallback menu: %#v", last.Options)
	}

	// catálogo
	before = len(s.Messages)
	s = sessionCall(t, ts.URL, "POST", "/assistant/session/actions", user, map[string]any{"action": "products"}, http.StatusAccepted)
	if n := len(cardsIn(s.Messages[before:])); n != 5 {
		t.Fatalf("expected 5 catalog cards, got %d", n)
	}

	if st, _ := doReq(t, ts.URL, "POST", "/assistant/session/actions", user, map[string]any{}); st != http.StatusBadRequest {
		t.Fatalf("expected 400 without action, got %d", st)
	}

	// cerrar y reabrir: log nuevo
	if st, _ := doReq(t, ts.URL, "DELETE", "/assistant/session", user, nil); st != http.StatusNoContent {
		t.Fatalf("expected 204 on close, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "GET", "/assistant/session/messages", user, nil); st != http.StatusNotFound {
		t.Fatalf("expected 404 after close, got %d", st)
	}
	s = sessionCall(t, ts.URL, "POST", "/assistant/session", user, nil, http.StatusCreated)
	if len(s.Messages) != 1 {
		t.Fatalf("reopened panel should start fresh, got %d messages", len(s.Messages))
	}
}

func TestHTTP_AssistantStream(t *testing.T) {
	ts := newServer(t)
	user := "owner-1"

	_ = sessionCall(t, ts.URL, "POST", "/assistant/session", user, nil, http.StatusCreated)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, "GET", ts.URL+"/assistant/session/stream", nil)
	req.Header.Set("X-Debug-User-ID", user)
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	defer res.Body.Close()
	if ct := res.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content-type = %q", ct)
	}

	_ = sessionCall(t, ts.URL, "POST", "/assistant/session/actions", user, map[string]any{"action": "home"}, http.StatusAccepted)

	sc := bufio.NewScanner(res.Body)
	var events []string
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "event: ") {
			events = append(events, strings.TrimPrefix(line, "event: "))
		}
		if len(events) == 4 {
			break
		}
	}

	want := []string{"message", "message", "frame", "message"}
	if strings.Join(events, ",") != strings.Join(want, ",") {
		t.Fatalf("events = %v", events)
	}
}

func TestHTTP_ShutdownClosesStreams(t *testing.T) {
	ts := httptest.NewUnstartedServer(nil)
	ts.Config.Handler = router.NewRouter(router.Options{Server: ts.Config})
	ts.Start()
	defer ts.Close()

	user := "owner-1"
	_ = sessionCall(t, ts.URL, "POST", "/assistant/session", user, nil, http.StatusCreated)

	req, _ := http.NewRequest("GET", ts.URL+"/assistant/session/stream", nil)
	req.Header.Set("X-Debug-User-ID", user)
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	defer res.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	start := time.Now()
	if err := ts.Config.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown with an open stream: %v after %v", err, time.Since(start))
	}

	// El stream termina: el cuerpo se corta.
	if _, err := io.Copy(io.Discard, res.Body); err != nil {
		t.Logf("stream body ended with %v", err)
	}
}

func TestHTTP_JWTAuth(t *testing.T) {
	v := jwtauth.NewVerifier("test-secret")
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: v}))
	defer ts.Close()

	token, err := v.Sign("owner-9", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	req, _ := http.NewRequest("GET", ts.URL+"/pets", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d", res.StatusCode)
	}

	// con verifier no se acepta el header de dev
	if st, _ := doReq(t, ts.URL, "GET", "/pets", "owner-9", nil); st != http.StatusUnauthorized {
		t.Fatalf("expected 401 with debug header, got %d", st)
	}
}

func cardsIn(ms []messageView) []messageView {
	var out []messageView
	for _, m := range ms {
		if m.Product != nil {
			out = append(out, m)
		}
	}
	return out
}

func sessionCall(t *testing.T, baseURL, method, path, userID string, body any, wantStatus int) sessionView {
	t.Helper()

	st, raw := doReq(t, baseURL, method, path, userID, body)
	if st != wantStatus {
		t.Fatalf("%s %s: expected %d, got %d body=%s", method, path, wantStatus, st, string(raw))
	}
	var s sessionView
	if err := json.Unmarshal(raw, &s); err != nil {
		t.Fatalf("decode session: %v body=%s", err, string(raw))
	}
	return s
}

func createPet(t *testing.T, baseURL, userID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/pets", userID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create pet, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create pet: missing id body=%s", string(body))
	}
	return resp.ID
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
