package reveal

import (
	"sync"
	"time"
)

// Step es una tarea diferida: Delay se mide desde que arranca el lote.
type Step struct {
	Delay time.Duration
	Run   func()
}

// Scheduler ejecuta lotes de tareas diferidas. Dentro de un lote el orden
// es el de la lista y un lote empieza cuando terminó el anterior; lotes
// distintos no se cancelan entre sí.
type Scheduler struct {
	mu      sync.Mutex
	stopped bool
	done    chan struct{}
	tail    chan struct{} // se cierra cuando termina el último lote agendado
	wg      sync.WaitGroup
}

func NewScheduler() *Scheduler {
	return &Scheduler{done: make(chan struct{})}
}

// Schedule agenda el lote. Si ninguna tarea tiene demora y no hay nada
// pendiente, se ejecuta en el acto, en la goroutine del llamador.
func (s *Scheduler) Schedule(steps []Step) {
	if len(steps) == 0 {
		return
	}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}

	prev := s.tail
	if immediate(steps) && idle(prev) {
		s.mu.Unlock()
		for _, st := range steps {
			st.Run()
		}
		return
	}

	finished := make(chan struct{})
	s.tail = finished
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		defer close(finished)

		if prev != nil {
			select {
			case <-s.done:
				return
			case <-prev:
			}
		}

		// Las demoras cuentan desde que el lote arranca, no desde que se agendó.
		start := time.Now()

		for _, st := range steps {
			if wait := st.Delay - time.Since(start); wait > 0 {
				t := time.NewTimer(wait)
				select {
				case <-s.done:
					t.Stop()
					return
				case <-t.C:
				}
			}

			select {
			case <-s.done:
				return
			default:
			}
			st.Run()
		}
	}()
}

// Stop descarta todo lo pendiente y espera a que terminen los lotes en curso.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	close(s.done)
	s.mu.Unlock()

	s.wg.Wait()
}

func immediate(steps []Step) bool {
	for _, st := range steps {
		if st.Delay > 0 {
			return false
		}
	}
	return true
}

func idle(tail chan struct{}) bool {
	if tail == nil {
		return true
	}
	select {
	case <-tail:
		return true
	default:
		return false
	}
}
