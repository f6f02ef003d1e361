package assistant

import "time"

// Role identifica quién escribió un mensaje.
// @Enum user, assistant
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ActionTag es la acción que dispara una opción del menú.
// @Enum recommendations, products, selectPet, home
type ActionTag string

const (
	ActionRecommendations ActionTag = "recommendations"
	ActionProducts        ActionTag = "products"
	ActionSelectPet       ActionTag = "selectPet"
	ActionHome            ActionTag = "home"
)

// Option es una respuesta rápida.
// DisplayLabel es lo que se muestra como eco del usuario al elegirla.
type Option struct {
	Label        string    `json:"label"`
	Action       ActionTag `json:"action"`
	Value        string    `json:"value,omitempty"`
	DisplayLabel string    `json:"display_label,omitempty"`
}

// ProductCard es la referencia a un producto para renderizar como tarjeta.
// Found=false: el nombre no está en el catálogo vivo; solo se muestra el nombre.
type ProductCard struct {
	ProductID string  `json:"product_id,omitempty"`
	Name      string  `json:"name"`
	Price     float64 `json:"price,omitempty"`
	Stock     int     `json:"stock,omitempty"`
	InStock   bool    `json:"in_stock"`
	ImageURL  string  `json:"image_url,omitempty"`
	Found     bool    `json:"found"`
}

// Message es una entrada del log de conversación.
// Tiene a lo sumo un adjunto: Options o Product.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`

	Options []Option     `json:"options,omitempty"`
	Product *ProductCard `json:"product,omitempty"`
}

func (m Message) HasAttachment() bool {
	return len(m.Options) > 0 || m.Product != nil
}

// Action es lo que eligió el usuario.
type Action struct {
	Tag   ActionTag `json:"action"`
	Value string    `json:"value,omitempty"`

	// Label es el texto del eco; si está vacío se usa uno por defecto.
	Label string `json:"label,omitempty"`
}

// Emission es un mensaje a publicar con su demora respecto del momento de la acción.
type Emission struct {
	Message Message
	Delay   time.Duration
}
