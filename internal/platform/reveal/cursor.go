package reveal

// Cursor recorre los prefijos crecientes de un texto, de a step runas.
// Es perezoso, finito y de un solo uso: una vez agotado no se reinicia.
type Cursor struct {
	runes []rune
	step  int
	pos   int
	done  bool
}

func NewCursor(text string, step int) *Cursor {
	if step <= 0 {
		step = 1
	}
	return &Cursor{runes: []rune(text), step: step}
}

// Next devuelve el siguiente prefijo. ok=false cuando ya se entregó el texto completo.
// Un texto vacío produce un único prefijo vacío.
func (c *Cursor) Next() (prefix string, ok bool) {
	if c.done {
		return "", false
	}

	c.pos += c.step
	if c.pos >= len(c.runes) {
		c.pos = len(c.runes)
		c.done = true
	}
	return string(c.runes[:c.pos]), true
}

// Done indica si ya se entregó el último prefijo.
func (c *Cursor) Done() bool {
	return c.done
}
