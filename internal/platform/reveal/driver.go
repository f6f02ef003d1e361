package reveal

import (
	"sync"
	"time"
)

// Frame es una actualización del texto visible de un mensaje.
// Done=true trae siempre el texto completo.
type Frame struct {
	MessageID string `json:"message_id"`
	Text      string `json:"text"`
	Done      bool   `json:"done"`
}

type Sink func(Frame)

type Options struct {
	// Cadence es el intervalo entre prefijos. Con 0 el texto se muestra completo en el acto.
	Cadence time.Duration
	Step    int
}

// Driver revela un mensaje por vez. Si llega otro mensaje mientras uno
// se está revelando, el anterior se completa de inmediato y el nuevo toma su lugar.
type Driver struct {
	opts Options
	sink Sink

	// serializa Reveal/Stop entre sí
	startMu sync.Mutex

	mu     sync.Mutex
	active *run
}

type run struct {
	id       string
	text     string
	cancel   chan struct{}
	finished chan struct{}
}

func NewDriver(opts Options, sink Sink) *Driver {
	if opts.Step <= 0 {
		opts.Step = 1
	}
	if sink == nil {
		sink = func(Frame) {}
	}
	return &Driver{opts: opts, sink: sink}
}

func (d *Driver) Reveal(messageID, text string) {
	d.startMu.Lock()
	defer d.startMu.Unlock()

	d.supersede()

	if d.opts.Cadence <= 0 {
		d.sink(Frame{MessageID: messageID, Text: text, Done: true})
		return
	}

	r := &run{
		id:       messageID,
		text:     text,
		cancel:   make(chan struct{}),
		finished: make(chan struct{}),
	}
	d.mu.Lock()
	d.active = r
	d.mu.Unlock()

	go d.loop(r)
}

// Stop completa el mensaje activo, si lo hay.
func (d *Driver) Stop() {
	d.startMu.Lock()
	defer d.startMu.Unlock()
	d.supersede()
}

// current devuelve el id del mensaje que se está revelando.
func (d *Driver) current() (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.active == nil {
		return "", false
	}
	return d.active.id, true
}

func (d *Driver) supersede() {
	d.mu.Lock()
	prev := d.active
	d.mu.Unlock()
	if prev == nil {
		return
	}

	select {
	case <-prev.finished:
	default:
		close(prev.cancel)
		<-prev.finished
	}
}

func (d *Driver) loop(r *run) {
	defer func() {
		d.mu.Lock()
		if d.active == r {
			d.active = nil
		}
		d.mu.Unlock()
		close(r.finished)
	}()

	cur := NewCursor(r.text, d.opts.Step)
	t := time.NewTicker(d.opts.Cadence)
	defer t.Stop()

	for {
		select {
		case <-r.cancel:
			d.sink(Frame{MessageID: r.id, Text: r.text, Done: true})
			return
		case <-t.C:
			prefix, _ := cur.Next()
			if cur.Done() {
				d.sink(Frame{MessageID: r.id, Text: r.text, Done: true})
				return
			}
			d.sink(Frame{MessageID: r.id, Text: prefix})
		}
	}
}
