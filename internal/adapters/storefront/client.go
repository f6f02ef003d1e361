package storefront

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pet-snack-assistant/internal/domain/pets"
	"pet-snack-assistant/internal/domain/products"
	"pet-snack-assistant/internal/platform/httpclient"
)

var (
	ErrNotConfigured = errors.New("storefront client not configured")
	ErrUnauthorized  = errors.New("storefront unauthorized")
	ErrUpstream      = errors.New("storefront upstream error")
)

type Config struct {
	BaseURL string
	APIKey  string

	// Si está vacío, se usa "X-Api-Key".
	APIKeyHeader string
	Timeout      time.Duration

	Transport http.RoundTripper
}

// Client lee mascotas y catálogo del backend REST de la tienda.
// Implementa ports/storefront.PetSource y ProductSource.
type Client struct {
	http *httpclient.Client
}

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrNotConfigured
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	hc, err := httpclient.New(httpclient.Options{
		BaseURL:      cfg.BaseURL,
		Timeout:      timeout,
		Transport:    cfg.Transport,
		APIKey:       cfg.APIKey,
		APIKeyHeader: cfg.APIKeyHeader,
	})
	if err != nil {
		return nil, err
	}
	return &Client{http: hc}, nil
}

type petDTO struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_user_id"`
	Name    string `json:"name"`
	Species string `json:"species"`

	// El backend histórico guarda la nota en "notes"; los nuevos endpoints en "annotation".
	Annotation string `json:"annotation"`
	Notes      string `json:"notes"`
}

type productDTO struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	Category string  `json:"category"`
	Image    string  `json:"image"`
}

// ListByOwner: GET /users/{id}/pets
func (c *Client) ListByOwner(ctx context.Context, ownerUserID string) ([]pets.Pet, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, nil
	}

	var out []petDTO
	if err := c.http.GetJSON(ctx, "/users/"+url.PathEscape(ownerUserID)+"/pets", &out); err != nil {
		return nil, wrapErr(err)
	}

	items := make([]pets.Pet, 0, len(out))
	for _, d := range out {
		annotation := d.Annotation
		if strings.TrimSpace(annotation) == "" {
			annotation = d.Notes
		}
		owner := d.OwnerID
		if owner == "" {
			owner = ownerUserID
		}
		items = append(items, pets.Pet{
			ID:          d.ID,
			OwnerUserID: owner,
			Name:        strings.TrimSpace(d.Name),
			Species:     pets.Species(strings.ToLower(strings.TrimSpace(d.Species))),
			Annotation:  annotation,
		})
	}
	return items, nil
}

// List: GET /products
func (c *Client) List(ctx context.Context) ([]products.Product, error) {
	var out []productDTO
	if err := c.http.GetJSON(ctx, "/products", &out); err != nil {
		return nil, wrapErr(err)
	}

	items := make([]products.Product, 0, len(out))
	for _, d := range out {
		items = append(items, products.Product{
			ID:       d.ID,
			Name:     strings.TrimSpace(d.Name),
			Price:    d.Price,
			Stock:    d.Stock,
			Category: d.Category,
			ImageRef: d.Image,
		})
	}
	return items, nil
}

func wrapErr(err error) error {
	if httpclient.IsStatus(err, http.StatusUnauthorized) || httpclient.IsStatus(err, http.StatusForbidden) {
		return ErrUnauthorized
	}
	return fmt.Errorf("%w: %v", ErrUpstream, err)
}
