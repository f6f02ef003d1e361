package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-snack-assistant/internal/domain/criteria"
	"pet-snack-assistant/internal/domain/pets"
	"pet-snack-assistant/internal/domain/products"
	"pet-snack-assistant/internal/domain/recommend"
	"pet-snack-assistant/internal/domain/relations"
	"pet-snack-assistant/internal/platform/logger"
	"pet-snack-assistant/internal/ports/storefront"
)

// State es el estado del diálogo.
// @Enum idle, awaiting_pet_selection, processing, displaying
type State string

const (
	StateIdle                 State = "idle"
	StateAwaitingPetSelection State = "awaiting_pet_selection"
	StateProcessing           State = "processing"
	StateDisplaying           State = "displaying"
)

var (
	ErrNotConfigured = errors.New("assistant not configured")
	ErrInvalidInput  = errors.New("invalid input")
	ErrPetNotFound   = errors.New("pet not found")
)

// Recommender es el filtro de recomendación (recommend.Filter en producción).
type Recommender interface {
	Recommend(c criteria.Criteria, catalog []string) []string
}

// Pacing son las demoras de presentación. Todo en 0 publica sin esperas.
type Pacing struct {
	ThinkingDelay time.Duration
	AckPause      time.Duration
	Stagger       time.Duration
}

// minStagger mantiene las demoras estrictamente crecientes cuando hay alguna
// demora configurada pero Stagger vino en 0.
const minStagger = time.Nanosecond

func (p Pacing) normalized() Pacing {
	if p.Stagger <= 0 {
		p.Stagger = 0
		if p.ThinkingDelay > 0 || p.AckPause > 0 {
			p.Stagger = minStagger
		}
	}
	return p
}

type Deps struct {
	Pets     storefront.PetSource
	Products storefront.ProductSource
	Table    *relations.Table

	// Opcional; por defecto recommend.NewFilter(Table).
	Recommender Recommender

	ImageBaseURL string
	Pacing       Pacing
	Logger       logger.Logger

	Now   func() time.Time
	NewID func() string
}

// Controller maneja el diálogo de un usuario. No espera ni programa timers:
// devuelve los mensajes con la demora con la que deben publicarse.
// No es seguro para uso concurrente; Session lo serializa.
type Controller struct {
	userID string

	pets        storefront.PetSource
	products    storefront.ProductSource
	table       *relations.Table
	recommender Recommender
	imageBase   string
	pacing      Pacing
	log         logger.Logger
	now         func() time.Time
	newID       func() string

	state    State
	userPets []pets.Pet
}

func NewController(userID string, d Deps) (*Controller, error) {
	if d.Pets == nil || d.Products == nil || d.Table == nil {
		return nil, ErrNotConfigured
	}

	c := &Controller{
		userID:      userID,
		pets:        d.Pets,
		products:    d.Products,
		table:       d.Table,
		recommender: d.Recommender,
		imageBase:   d.ImageBaseURL,
		pacing:      d.Pacing.normalized(),
		log:         d.Logger,
		now:         d.Now,
		newID:       d.NewID,
		state:       StateIdle,
	}
	if c.recommender == nil {
		c.recommender = recommend.NewFilter(d.Table)
	}
	if c.log == nil {
		c.log = logger.Nop()
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.newID == nil {
		c.newID = uuid.NewString
	}
	c.log = c.log.With(map[string]any{"user_id": userID})
	return c, nil
}

func (c *Controller) State() State {
	return c.state
}

// Load hace la carga inicial de mascotas. Si falla, se reintenta en la próxima acción.
func (c *Controller) Load(ctx context.Context) error {
	return c.refreshPets(ctx)
}

// Greeting es el mensaje inicial con el menú principal.
func (c *Controller) Greeting() Message {
	return c.msg(
		"¡Hola! Soy tu asistente de snacks. Puedo recomendarte snacks según el perfil de tu mascota o mostrarte el catálogo.",
		Option{Label: "Recomendaciones para mi mascota", Action: ActionRecommendations},
		Option{Label: "Ver catálogo", Action: ActionProducts},
	)
}

// Handle procesa una acción y devuelve los mensajes a publicar, en orden.
// Nunca devuelve error: cualquier falla termina en un mensaje de reintento.
func (c *Controller) Handle(ctx context.Context, a Action) []Emission {
	b := &batch{next: c.pacing.ThinkingDelay, stagger: c.pacing.Stagger}

	switch a.Tag {
	case ActionRecommendations:
		c.guard(b, a, func() error { return c.recommendations(ctx, b) })
	case ActionProducts:
		c.guard(b, a, func() error { return c.catalog(ctx, b) })
	case ActionSelectPet:
		c.guard(b, a, func() error { return c.selectPet(ctx, b, a.Value) })
	default:
		c.state = StateIdle
		b.add(c.Greeting())
	}

	return b.out
}

// guard descarta lo emitido por fn si falla (error o panic) y lo reemplaza
// por un único mensaje de reintento.
func (c *Controller) guard(b *batch, a Action, fn func() error) {
	mark, next := len(b.out), b.next

	fail := func(fields map[string]any) {
		c.log.Error("assistant action failed", fields)
		b.out = b.out[:mark]
		b.next = next
		b.add(c.retryMessage(a))
		c.state = StateIdle
	}

	defer func() {
		if r := recover(); r != nil {
			fail(map[string]any{"action": string(a.Tag), "panic": fmt.Sprint(r)})
		}
	}()

	if err := fn(); err != nil {
		fail(map[string]any{"action": string(a.Tag), "error": err})
	}
}

func (c *Controller) recommendations(ctx context.Context, b *batch) error {
	if err := c.refreshPets(ctx); err != nil {
		return err
	}

	switch len(c.userPets) {
	case 0:
		c.state = StateIdle
		b.add(c.msg(
			"Todavía no tenés mascotas registradas. Cargá el perfil de tu mascota para que pueda recomendarte snacks; mientras tanto podés explorar el catálogo.",
			Option{Label: "Explorar catálogo", Action: ActionProducts},
			Option{Label: "Inicio", Action: ActionHome},
		))
		return nil

	case 1:
		return c.recommendFor(ctx, b, c.userPets[0])

	default:
		opts := make([]Option, 0, len(c.userPets))
		for _, p := range c.userPets {
			opts = append(opts, Option{
				Label:        fmt.Sprintf("%s (%s)", p.Name, p.Species.Label()),
				Action:       ActionSelectPet,
				Value:        p.ID,
				DisplayLabel: p.Name,
			})
		}
		b.add(c.msg("¿Para cuál de tus mascotas buscamos snacks?", opts...))
		c.state = StateAwaitingPetSelection
		return nil
	}
}

// selectPet se acepta en cualquier estado: un menú viejo todavía puede clickearse.
func (c *Controller) selectPet(ctx context.Context, b *batch, petID string) error {
	petID = strings.TrimSpace(petID)

	p, ok := c.findPet(petID)
	if !ok && petID != "" {
		if err := c.refreshPets(ctx); err != nil {
			return err
		}
		p, ok = c.findPet(petID)
	}
	if !ok {
		c.state = StateIdle
		b.add(c.msg(
			"No encontré esa mascota entre tus perfiles. ¿Probamos de nuevo?",
			Option{Label: "Elegir mascota", Action: ActionRecommendations},
			Option{Label: "Inicio", Action: ActionHome},
		))
		return nil
	}

	return c.recommendFor(ctx, b, p)
}

func (c *Controller) recommendFor(ctx context.Context, b *batch, p pets.Pet) error {
	c.state = StateProcessing

	b.add(c.msg(fmt.Sprintf("¡Perfecto! Estoy revisando el perfil de %s...", p.Name)))
	b.pause(c.pacing.AckPause)

	crit := criteria.Parse(p.Annotation)
	names := c.recommender.Recommend(crit, c.table.Products())

	b.add(c.msg(c.summary(p, crit, len(names))))

	if len(names) == 0 {
		b.add(c.msg(
			"No encontré snacks que se ajusten a su perfil. Podés ver el catálogo completo o volver al inicio.",
			Option{Label: "Ver catálogo completo", Action: ActionProducts},
			Option{Label: "Inicio", Action: ActionHome},
		))
		c.state = StateIdle
		return nil
	}

	// Sin catálogo vivo las tarjetas salen solo con el nombre.
	live, err := c.products.List(ctx)
	if err != nil {
		c.log.Warn("product lookup failed", map[string]any{"pet_id": p.ID, "error": err})
		live = nil
	}

	for _, m := range recommend.MatchCatalog(names, live) {
		b.add(c.cardMessage(m.Name, m.Product, m.Found))
	}

	b.add(c.closingMessage())
	c.state = StateDisplaying

	c.log.Info("recommendations sent", map[string]any{"pet_id": p.ID, "count": len(names)})
	return nil
}

// Result es el pipeline de recomendación sin mensajes, para la API directa.
type Result struct {
	PetID    string
	Criteria criteria.Criteria
	Products []string
	Cards    []ProductCard
}

func (c *Controller) Recommend(ctx context.Context, petID string) (Result, error) {
	if err := c.refreshPets(ctx); err != nil {
		return Result{}, err
	}
	p, ok := c.findPet(strings.TrimSpace(petID))
	if !ok {
		return Result{}, ErrPetNotFound
	}

	crit := criteria.Parse(p.Annotation)
	names := c.recommender.Recommend(crit, c.table.Products())
	res := Result{PetID: p.ID, Criteria: crit, Products: names}
	if len(names) == 0 {
		return res, nil
	}

	live, err := c.products.List(ctx)
	if err != nil {
		c.log.Warn("product lookup failed", map[string]any{"pet_id": p.ID, "error": err})
		live = nil
	}
	for _, m := range recommend.MatchCatalog(names, live) {
		res.Cards = append(res.Cards, *c.productCard(m.Name, m.Product, m.Found))
	}
	return res, nil
}

func (c *Controller) catalog(ctx context.Context, b *batch) error {
	list, err := c.products.List(ctx)
	if err != nil {
		return err
	}

	if len(list) == 0 {
		c.state = StateIdle
		b.add(c.msg(
			"Por ahora no hay productos disponibles en el catálogo.",
			Option{Label: "Recomendaciones para mi mascota", Action: ActionRecommendations},
			Option{Label: "Inicio", Action: ActionHome},
		))
		return nil
	}

	for _, p := range list {
		b.add(c.cardMessage(p.Name, p, true))
	}
	b.add(c.closingMessage())
	c.state = StateDisplaying
	return nil
}

func (c *Controller) refreshPets(ctx context.Context) error {
	list, err := c.pets.ListByOwner(ctx, c.userID)
	if err != nil {
		return err
	}
	c.userPets = list
	return nil
}

func (c *Controller) findPet(id string) (pets.Pet, bool) {
	if id == "" {
		return pets.Pet{}, false
	}
	for _, p := range c.userPets {
		if p.ID == id {
			return p, true
		}
	}
	return pets.Pet{}, false
}

func (c *Controller) msg(text string, opts ...Option) Message {
	m := Message{
		ID:        c.newID(),
		Role:      RoleAssistant,
		Text:      text,
		CreatedAt: c.now().UTC(),
	}
	if len(opts) > 0 {
		m.Options = opts
	}
	return m
}

func (c *Controller) productCard(name string, p products.Product, found bool) *ProductCard {
	card := &ProductCard{Name: name, Found: found}
	if found {
		card.ProductID = p.ID
		card.Price = p.Price
		card.Stock = p.Stock
		card.InStock = p.InStock()
		card.ImageURL = products.ImageURL(c.imageBase, p.ImageRef)
	}
	return card
}

func (c *Controller) cardMessage(name string, p products.Product, found bool) Message {
	m := c.msg(name)
	m.Product = c.productCard(name, p, found)
	return m
}

func (c *Controller) closingMessage() Message {
	return c.msg(
		"¿Querés hacer algo más?",
		Option{Label: "Recomendaciones para mi mascota", Action: ActionRecommendations},
		Option{Label: "Ver catálogo", Action: ActionProducts},
		Option{Label: "Inicio", Action: ActionHome},
	)
}

// retryMessage ofrece repetir la misma acción que falló.
func (c *Controller) retryMessage(a Action) Message {
	return c.msg(
		"Ups, algo salió mal mientras preparaba la respuesta. ¿Querés intentar de nuevo?",
		Option{Label: "Intentar de nuevo", Action: a.Tag, Value: a.Value, DisplayLabel: a.Label},
		Option{Label: "Inicio", Action: ActionHome},
	)
}

// summary cuenta qué se aplicó. Solo figuran como excluidas las alergias que
// la tabla conoce; las demás se nombran aparte porque no filtraron nada.
func (c *Controller) summary(p pets.Pet, crit criteria.Criteria, found int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Analicé el perfil de %s.", p.Name)

	if crit.IsEmpty() {
		sb.WriteString(" No tiene restricciones registradas, así que consideré todo el catálogo.")
	}

	var known, unknown []string
	for _, a := range crit.Allergies {
		if c.table.KnownAllergen(a) {
			known = append(known, a)
		} else {
			unknown = append(unknown, a)
		}
	}
	if len(known) > 0 {
		fmt.Fprintf(&sb, " Excluí los productos con: %s.", strings.Join(known, ", "))
	}
	if len(unknown) > 0 {
		fmt.Fprintf(&sb, " No tengo datos de ingredientes para: %s.", strings.Join(unknown, ", "))
	}
	if len(crit.Goals) > 0 {
		fmt.Fprintf(&sb, " Prioricé: %s.", strings.Join(crit.Goals, ", "))
	}
	if l := crit.Activity.Label(); l != "" {
		fmt.Fprintf(&sb, " Nivel de actividad: %s.", l)
	}
	if l := crit.Age.Label(); l != "" {
		fmt.Fprintf(&sb, " Edad: %s.", l)
	}

	switch found {
	case 0:
	case 1:
		sb.WriteString(" Encontré 1 opción.")
	default:
		fmt.Fprintf(&sb, " Encontré %d opciones.", found)
	}
	return sb.String()
}

// batch acumula emisiones con demoras crecientes.
type batch struct {
	next    time.Duration
	stagger time.Duration
	out     []Emission
}

func (b *batch) add(m Message) {
	b.out = append(b.out, Emission{Message: m, Delay: b.next})
	b.next += b.stagger
}

func (b *batch) pause(d time.Duration) {
	b.next += d
}
