package assistant

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pet-snack-assistant/internal/domain/criteria"
	"pet-snack-assistant/internal/middleware"

	"github.com/go-chi/chi/v5"
)

const streamKeepAlive = 15 * time.Second

func RegisterRoutes(r chi.Router, hub *Hub) {
	r.Route("/assistant/session", func(ar chi.Router) {
		ar.Post("/", openSessionHandler(hub))
		ar.Delete("/", closeSessionHandler(hub))
		ar.Get("/messages", messagesHandler(hub))
		ar.Post("/actions", dispatchHandler(hub))
		ar.Get("/stream", streamHandler(hub))
	})
}

// RecommendationsHandler se monta bajo /pets/{petID}/recommendations (ver pets.RegisterRoutes).
func RecommendationsHandler(hub *Hub) http.HandlerFunc {
	return petRecommendationsHandler(hub)
}

type sessionResponse struct {
	SessionID string    `json:"session_id"`
	State     State     `json:"state"`
	OpenedAt  time.Time `json:"opened_at"`
	Messages  []View    `json:"messages"`
}

type actionRequest struct {
	Action ActionTag `json:"action"`
	Value  string    `json:"value"`
	Label  string    `json:"label"`
}

type recommendationsResponse struct {
	PetID    string           `json:"pet_id"`
	Criteria criteriaResponse `json:"criteria"`
	Products []string         `json:"products"`
	Cards    []ProductCard    `json:"cards"`
}

type criteriaResponse struct {
	Allergies []string               `json:"allergies"`
	Goals     []string               `json:"goals"`
	Activity  criteria.ActivityLevel `json:"activity_level,omitempty"`
	Age       criteria.AgeBracket    `json:"age_bracket,omitempty"`
}

// openSessionHandler godoc
// @Summary Abrir panel del asistente
// @Description Abre el panel del usuario. Si ya había uno abierto se descarta y se empieza una conversación nueva con el saludo.
// @Tags assistant
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 201 {object} sessionResponse
// @Failure 401 {string} string "unauthorized"
// @Router /assistant/session [post]
func openSessionHandler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userFrom(w, r)
		if !ok {
			return
		}

		s, err := hub.Open(r.Context(), userID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toSessionResponse(s))
	}
}

// closeSessionHandler godoc
// @Summary Cerrar panel del asistente
// @Description Cierra el panel y descarta la conversación.
// @Tags assistant
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 204
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "session not found"
// @Router /assistant/session [delete]
func closeSessionHandler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userFrom(w, r)
		if !ok {
			return
		}

		if !hub.Close(userID) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// messagesHandler godoc
// @Summary Conversación actual
// @Description Devuelve los mensajes del panel. Mientras un mensaje se está revelando, `text` trae solo el prefijo visible y no incluye opciones ni producto.
// @Tags assistant
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {object} sessionResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "session not found"
// @Router /assistant/session/messages [get]
func messagesHandler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := sessionFrom(w, r, hub)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, toSessionResponse(s))
	}
}

// dispatchHandler godoc
// @Summary Elegir una opción
// @Description Envía la acción de una respuesta rápida (`recommendations`, `products`, `selectPet` con `value` = id de mascota, `home`). Las respuestas del asistente se publican con demora; ver /assistant/session/stream.
// @Tags assistant
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body actionRequest true "Acción"
// @Success 202 {object} sessionResponse
// @Failure 400 {string} string "invalid json / action required"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "session not found"
// @Router /assistant/session/actions [post]
func dispatchHandler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := sessionFrom(w, r, hub)
		if !ok {
			return
		}

		var req actionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(string(req.Action)) == "" {
			http.Error(w, "action required", http.StatusBadRequest)
			return
		}

		err := s.Dispatch(r.Context(), Action{
			Tag:   ActionTag(strings.TrimSpace(string(req.Action))),
			Value: req.Value,
			Label: req.Label,
		})
		if err != nil {
			if errors.Is(err, ErrSessionClosed) {
				http.Error(w, "session not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusAccepted, toSessionResponse(s))
	}
}

// streamHandler godoc
// @Summary Stream del panel
// @Description Server-Sent Events: `message` cuando se agrega un mensaje (y otra vez cuando termina de revelarse, ya con su adjunto) y `frame` con cada prefijo revelado.
// @Tags assistant
// @Produce text/event-stream
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {string} string "event stream"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "session not found"
// @Router /assistant/session/stream [get]
func streamHandler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := sessionFrom(w, r, hub)
		if !ok {
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		events, cancel := s.Subscribe()
		defer cancel()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		keepAlive := time.NewTicker(streamKeepAlive)
		defer keepAlive.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case <-keepAlive.C:
				_, _ = fmt.Fprint(w, ": ping\n\n")
				flusher.Flush()
			case ev, open := <-events:
				if !open {
					return
				}
				b, err := json.Marshal(ev)
				if err != nil {
					continue
				}
				_, _ = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, b)
				flusher.Flush()
			}
		}
	}
}

// petRecommendationsHandler godoc
// @Summary Recomendaciones para una mascota
// @Description Interpreta la nota de la mascota y devuelve los snacks que califican, sin pasar por el panel.
// @Tags assistant
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} recommendationsResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "pet not found"
// @Failure 502 {string} string "upstream error"
// @Router /pets/{petID}/recommendations [get]
func petRecommendationsHandler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userFrom(w, r)
		if !ok {
			return
		}

		ctrl, err := NewController(userID, hub.deps)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		res, err := ctrl.Recommend(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			if errors.Is(err, ErrPetNotFound) {
				http.Error(w, "pet not found", http.StatusNotFound)
				return
			}
			http.Error(w, "upstream error", http.StatusBadGateway)
			return
		}

		out := recommendationsResponse{
			PetID: res.PetID,
			Criteria: criteriaResponse{
				Allergies: nonNil(res.Criteria.Allergies),
				Goals:     nonNil(res.Criteria.Goals),
				Activity:  res.Criteria.Activity,
				Age:       res.Criteria.Age,
			},
			Products: nonNil(res.Products),
			Cards:    res.Cards,
		}
		if out.Cards == nil {
			out.Cards = []ProductCard{}
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func userFrom(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return "", false
	}
	return userID, true
}

func sessionFrom(w http.ResponseWriter, r *http.Request, hub *Hub) (*Session, bool) {
	userID, ok := userFrom(w, r)
	if !ok {
		return nil, false
	}
	s, ok := hub.Get(userID)
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return nil, false
	}
	return s, true
}

func toSessionResponse(s *Session) sessionResponse {
	return sessionResponse{
		SessionID: s.ID,
		State:     s.State(),
		OpenedAt:  s.OpenedAt,
		Messages:  s.Messages(),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para no crear un paquete de helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
