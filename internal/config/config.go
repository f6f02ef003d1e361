package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// DBDSN vacío => repos in-memory (modo dev).
	DBDSN string

	LogLevel  string
	LogFormat string
	AppName   string

	// JWTSecret vacío => sin verifier; se acepta X-Debug-User-ID.
	JWTSecret string

	// StorefrontAPIURL, si viene, hace que el asistente lea mascotas/productos del backend REST
	// en vez de los repos locales.
	StorefrontAPIURL string
	StorefrontAPIKey string

	ImageBaseURL string

	Assistant AssistantConfig
}

// AssistantConfig controla solo el ritmo de presentación; cero desactiva la pausa.
type AssistantConfig struct {
	ThinkingDelay time.Duration
	AckPause      time.Duration
	Stagger       time.Duration

	RevealCadence time.Duration
	RevealStep    int
}

// Load lee .env (si existe) y luego variables de entorno.
// Devuelve también si se encontró .env, para que main lo loguee.
func Load() (Config, bool) {
	foundDotEnv := godotenv.Load() == nil

	return Config{
		Port:             getEnv("PORT", "8080"),
		DBDSN:            getEnv("DB_DSN", ""),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
		AppName:          getEnv("APP_NAME", "pet-snack-assistant"),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		StorefrontAPIURL: getEnv("STOREFRONT_API_URL", ""),
		StorefrontAPIKey: getEnv("STOREFRONT_API_KEY", ""),
		ImageBaseURL:     getEnv("IMAGE_BASE_URL", ""),
		Assistant: AssistantConfig{
			ThinkingDelay: getEnvDuration("ASSISTANT_THINKING_DELAY", 800*time.Millisecond),
			AckPause:      getEnvDuration("ASSISTANT_ACK_PAUSE", 1200*time.Millisecond),
			Stagger:       getEnvDuration("ASSISTANT_STAGGER", 600*time.Millisecond),
			RevealCadence: getEnvDuration("REVEAL_CADENCE", 25*time.Millisecond),
			RevealStep:    getEnvAsInt("REVEAL_STEP", 2),
		},
	}, foundDotEnv
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

// getEnvDuration acepta "250ms", "1s" o un entero en milisegundos.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil && d >= 0 {
		return d
	}
	if ms, err := strconv.Atoi(raw); err == nil && ms >= 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}
