package router

import (
	"database/sql"
	"net/http"

	_ "pet-snack-assistant/docs"

	"pet-snack-assistant/internal/adapters/storefront"
	mem "pet-snack-assistant/internal/adapters/storage/memory"
	pg "pet-snack-assistant/internal/adapters/storage/postgres"
	"pet-snack-assistant/internal/config"
	"pet-snack-assistant/internal/domain/assistant"
	"pet-snack-assistant/internal/domain/pets"
	"pet-snack-assistant/internal/domain/products"
	"pet-snack-assistant/internal/domain/relations"
	"pet-snack-assistant/internal/middleware"
	"pet-snack-assistant/internal/platform/logger"
	"pet-snack-assistant/internal/platform/reveal"
	"pet-snack-assistant/internal/ports/auth"
	sfports "pet-snack-assistant/internal/ports/storefront"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	Config config.Config
	Logger logger.Logger

	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory con el catálogo de dev.
	DB *sql.DB

	// Opcional: tabla de relaciones; por defecto relations.Default().
	Table *relations.Table

	// Opcionales: de dónde lee el asistente. Si no vienen y hay STOREFRONT_API_URL,
	// se usa el backend REST de la tienda; si no, los servicios locales.
	PetSource     sfports.PetSource
	ProductSource sfports.ProductSource

	// Opcional: si viene, al apagarlo se cierran los paneles abiertos y sus streams.
	Server *http.Server
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	cfg := opts.Config

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier, log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var (
		petRepo     pets.Repository
		productRepo products.Repository
	)
	if opts.DB != nil {
		petRepo = pg.NewPetsRepo(opts.DB)
		productRepo = pg.NewProductsRepo(opts.DB)
	} else {
		petRepo = mem.NewPetRepo()
		productRepo = mem.NewProductRepo(mem.DefaultProducts()...)
	}

	// Services por módulo
	petsSvc := pets.NewService(petRepo)
	productsSvc := products.NewService(productRepo)

	petSource, productSource := opts.PetSource, opts.ProductSource
	if (petSource == nil || productSource == nil) && cfg.StorefrontAPIURL != "" {
		client, err := storefront.NewClient(storefront.Config{
			BaseURL: cfg.StorefrontAPIURL,
			APIKey:  cfg.StorefrontAPIKey,
		})
		if err != nil {
			log.Warn("storefront client disabled", map[string]any{"error": err})
		} else {
			if petSource == nil {
				petSource = client
			}
			if productSource == nil {
				productSource = client
			}
		}
	}
	if petSource == nil {
		petSource = petsSvc
	}
	if productSource == nil {
		productSource = productsSvc
	}

	table := opts.Table
	if table == nil {
		table = relations.Default()
	}

	hub := assistant.NewHub(assistant.Deps{
		Pets:         petSource,
		Products:     productSource,
		Table:        table,
		ImageBaseURL: cfg.ImageBaseURL,
		Pacing: assistant.Pacing{
			ThinkingDelay: cfg.Assistant.ThinkingDelay,
			AckPause:      cfg.Assistant.AckPause,
			Stagger:       cfg.Assistant.Stagger,
		},
		Logger: log.With(map[string]any{"component": "assistant"}),
	}, reveal.Options{
		Cadence: cfg.Assistant.RevealCadence,
		Step:    cfg.Assistant.RevealStep,
	}, log)
	if opts.Server != nil {
		opts.Server.RegisterOnShutdown(hub.Shutdown)
	}

	// Rutas por módulo
	pets.RegisterRoutes(r, petsSvc, assistant.RecommendationsHandler(hub))
	products.RegisterRoutes(r, productsSvc, cfg.ImageBaseURL)
	assistant.RegisterRoutes(r, hub)

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	return r
}
