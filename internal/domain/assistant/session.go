package assistant

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"pet-snack-assistant/internal/platform/logger"
	"pet-snack-assistant/internal/platform/reveal"
)

var ErrSessionClosed = errors.New("assistant session closed")

// Event es lo que reciben los suscriptores del stream.
type Event struct {
	Type    string        `json:"type"` // message | frame
	Message *View         `json:"message,omitempty"`
	Frame   *reveal.Frame `json:"frame,omitempty"`
}

const subscriberBuffer = 64

// Session es el panel abierto de un usuario: log, diálogo y presentación.
type Session struct {
	ID       string
	UserID   string
	OpenedAt time.Time

	conv   *Conversation
	sched  *reveal.Scheduler
	driver *reveal.Driver
	log    logger.Logger

	ctrlMu sync.Mutex
	ctrl   *Controller

	subMu  sync.Mutex
	subs   map[chan Event]struct{}
	closed bool
}

func newSession(userID string, ctrl *Controller, opts reveal.Options, log logger.Logger) *Session {
	s := &Session{
		ID:       uuid.NewString(),
		UserID:   userID,
		OpenedAt: time.Now().UTC(),
		conv:     NewConversation(),
		sched:    reveal.NewScheduler(),
		ctrl:     ctrl,
		subs:     map[chan Event]struct{}{},
	}
	s.log = log.With(map[string]any{"session_id": s.ID, "user_id": userID})
	s.driver = reveal.NewDriver(opts, s.onFrame)
	return s
}

// start hace la carga inicial y publica el saludo.
func (s *Session) start(ctx context.Context) {
	s.ctrlMu.Lock()
	if err := s.ctrl.Load(ctx); err != nil {
		s.log.Warn("initial pet load failed", map[string]any{"error": err})
	}
	greeting := s.ctrl.Greeting()
	s.ctrlMu.Unlock()

	s.deliver(greeting)
}

// Dispatch registra el eco del usuario y agenda las respuestas del asistente.
// Lo pendiente de acciones anteriores no se cancela.
func (s *Session) Dispatch(ctx context.Context, a Action) error {
	if s.isClosed() {
		return ErrSessionClosed
	}

	s.deliver(Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Text:      echoLabel(a),
		CreatedAt: time.Now().UTC(),
	})

	s.ctrlMu.Lock()
	emissions := s.ctrl.Handle(ctx, a)
	s.ctrlMu.Unlock()

	steps := make([]reveal.Step, 0, len(emissions))
	for _, e := range emissions {
		m := e.Message
		steps = append(steps, reveal.Step{Delay: e.Delay, Run: func() { s.deliver(m) }})
	}
	s.sched.Schedule(steps)
	return nil
}

func (s *Session) State() State {
	s.ctrlMu.Lock()
	defer s.ctrlMu.Unlock()
	return s.ctrl.State()
}

func (s *Session) Messages() []View {
	return s.conv.Snapshot()
}

// Subscribe devuelve un canal de eventos y la función para soltarlo.
// Si el suscriptor no consume a tiempo, los eventos se descartan.
func (s *Session) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	s.subMu.Lock()
	if s.closed {
		s.subMu.Unlock()
		close(ch)
		return ch, func() {}
	}
	s.subs[ch] = struct{}{}
	s.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			if _, ok := s.subs[ch]; ok {
				delete(s.subs, ch)
				close(ch)
			}
		})
	}
}

// Close descarta lo pendiente, completa la revelación activa y corta los streams.
func (s *Session) Close() {
	s.subMu.Lock()
	if s.closed {
		s.subMu.Unlock()
		return
	}
	s.closed = true
	s.subMu.Unlock()

	s.sched.Stop()
	s.driver.Stop()

	s.subMu.Lock()
	for ch := range s.subs {
		close(ch)
	}
	s.subs = map[chan Event]struct{}{}
	s.subMu.Unlock()
}

func (s *Session) isClosed() bool {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	return s.closed
}

func (s *Session) deliver(m Message) {
	s.conv.Append(m)
	if v, ok := s.conv.Message(m.ID); ok {
		s.publish(Event{Type: "message", Message: &v})
	}

	if m.Role == RoleAssistant {
		s.driver.Reveal(m.ID, m.Text)
	}
}

func (s *Session) onFrame(f reveal.Frame) {
	if !s.conv.Progress(f.MessageID, f.Text, f.Done) {
		return
	}
	s.publish(Event{Type: "frame", Frame: &f})

	// Al completarse, el adjunto ya es visible: se reenvía el mensaje entero.
	if f.Done {
		if v, ok := s.conv.Message(f.MessageID); ok && v.HasAttachment() {
			s.publish(Event{Type: "message", Message: &v})
		}
	}
}

func (s *Session) publish(ev Event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if s.closed {
		return
	}
	for ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func echoLabel(a Action) string {
	if a.Label != "" {
		return a.Label
	}
	switch a.Tag {
	case ActionRecommendations:
		return "Recomendaciones para mi mascota"
	case ActionProducts:
		return "Ver catálogo"
	case ActionSelectPet:
		return "Elegir mascota"
	default:
		return "Inicio"
	}
}
