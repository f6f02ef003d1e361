package assistant

import "sync"

// Conversation es el log de mensajes de un panel abierto. Solo crece.
type Conversation struct {
	mu      sync.RWMutex
	entries []entry
	byID    map[string]int
}

type entry struct {
	msg      Message
	visible  string
	revealed bool
}

// View es un mensaje tal como se ve ahora. Mientras el texto no terminó de
// revelarse, Text trae el prefijo visible y el adjunto se omite.
type View struct {
	Message
	Revealed bool `json:"revealed"`
}

func NewConversation() *Conversation {
	return &Conversation{byID: map[string]int{}}
}

// Append agrega un mensaje. Los mensajes del usuario se consideran revelados.
func (c *Conversation) Append(m Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := entry{msg: m}
	if m.Role == RoleUser {
		e.visible = m.Text
		e.revealed = true
	}
	c.byID[m.ID] = len(c.entries)
	c.entries = append(c.entries, e)
}

// Progress actualiza el texto visible. Con done el mensaje queda revelado
// y ya no retrocede.
func (c *Conversation) Progress(id, visible string, done bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.byID[id]
	if !ok {
		return false
	}
	e := &c.entries[i]
	if e.revealed {
		return true
	}
	if done {
		e.visible = e.msg.Text
		e.revealed = true
		return true
	}
	e.visible = visible
	return true
}

func (c *Conversation) Snapshot() []View {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]View, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e.view())
	}
	return out
}

func (e entry) view() View {
	m := e.msg
	if !e.revealed {
		m.Text = e.visible
		m.Options = nil
		m.Product = nil
	}
	return View{Message: m, Revealed: e.revealed}
}

// Message devuelve la vista actual de un mensaje.
func (c *Conversation) Message(id string) (View, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.byID[id]
	if !ok {
		return View{}, false
	}
	return c.entries[i].view(), true
}
