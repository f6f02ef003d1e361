package assistant

import (
	"context"
	"strings"
	"sync"

	"pet-snack-assistant/internal/platform/logger"
	"pet-snack-assistant/internal/platform/reveal"
)

// Hub guarda un panel abierto por usuario.
type Hub struct {
	deps   Deps
	reveal reveal.Options
	log    logger.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewHub(deps Deps, revealOpts reveal.Options, log logger.Logger) *Hub {
	if log == nil {
		log = logger.Nop()
	}
	if deps.Logger == nil {
		deps.Logger = log
	}
	return &Hub{
		deps:     deps,
		reveal:   revealOpts,
		log:      log,
		sessions: map[string]*Session{},
	}
}

// Open abre el panel. Si ya había uno, se descarta y se empieza de cero.
func (h *Hub) Open(ctx context.Context, userID string) (*Session, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}

	ctrl, err := NewController(userID, h.deps)
	if err != nil {
		return nil, err
	}
	s := newSession(userID, ctrl, h.reveal, h.log)

	h.mu.Lock()
	prev := h.sessions[userID]
	h.sessions[userID] = s
	h.mu.Unlock()

	if prev != nil {
		prev.Close()
	}

	s.start(ctx)
	h.log.Info("assistant session opened", map[string]any{"user_id": userID, "session_id": s.ID})
	return s, nil
}

func (h *Hub) Get(userID string) (*Session, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sessions[userID]
	return s, ok
}

// Close cierra el panel y descarta su log.
func (h *Hub) Close(userID string) bool {
	h.mu.Lock()
	s, ok := h.sessions[userID]
	delete(h.sessions, userID)
	h.mu.Unlock()

	if !ok {
		return false
	}
	s.Close()
	h.log.Info("assistant session closed", map[string]any{"user_id": userID, "session_id": s.ID})
	return true
}

// Shutdown cierra todos los paneles.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	all := h.sessions
	h.sessions = map[string]*Session{}
	h.mu.Unlock()

	for _, s := range all {
		s.Close()
	}
}
