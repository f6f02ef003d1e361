package products

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-snack-assistant/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes expone el catálogo. imageBaseURL se usa para resolver image_url.
func RegisterRoutes(r chi.Router, svc *Service, imageBaseURL string) {
	r.Route("/products", func(pr chi.Router) {
		pr.Get("/", listProductsHandler(svc, imageBaseURL))
		pr.Get("/{productID}", getProductHandler(svc, imageBaseURL))

		// Alta desde el back-office.
		pr.Post("/", createProductHandler(svc, imageBaseURL))
	})
}

type createProductRequest struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	Category string  `json:"category"`
	ImageRef string  `json:"image_ref"`
}

type productResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Stock     int       `json:"stock"`
	Category  string    `json:"category"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

// listProductsHandler godoc
// @Summary Listar catálogo
// @Tags products
// @Produce json
// @Success 200 {array} productResponse
// @Failure 500 {string} string "internal error"
// @Router /products [get]
func listProductsHandler(svc *Service, imageBaseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]productResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toProductResponse(p, imageBaseURL))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getProductHandler(svc *Service, imageBaseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "productID"))
		if err != nil {
			if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidInput) {
				http.Error(w, "product not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toProductResponse(p, imageBaseURL))
	}
}

// createProductHandler godoc
// @Summary Crear producto
// @Description Alta de producto desde el back-office. Requiere usuario autenticado.
// @Tags products
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body createProductRequest true "Datos del producto"
// @Success 201 {object} productResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 401 {string} string "unauthorized"
// @Router /products [post]
func createProductHandler(svc *Service, imageBaseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createProductRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Create(r.Context(), CreateInput{
			Name:     req.Name,
			Price:    req.Price,
			Stock:    req.Stock,
			Category: req.Category,
			ImageRef: req.ImageRef,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toProductResponse(p, imageBaseURL))
	}
}

func toProductResponse(p Product, imageBaseURL string) productResponse {
	return productResponse{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Stock:     p.Stock,
		Category:  p.Category,
		ImageURL:  ImageURL(imageBaseURL, p.ImageRef),
		CreatedAt: p.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
