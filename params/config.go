package params

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Server struct {
	// Addr is the listen address for the REST/WebSocket API.
	Addr string
	// AllowedOrigins for CORS, e.g. local frontends during development.
	AllowedOrigins []string
	// DefaultDepth is how many book levels /book/{symbol} returns when the
	// request doesn't say. 0 means the full book.
	DefaultDepth int
}

type Log struct {
	// File receives a copy of the structured log alongside stdout.
	// Empty means stdout only.
	File string
}

type Config struct {
	Server Server
	Log    Log
}

func Default() Config {
	return Config{
		Server: Server{
			Addr:           ":8080",
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:3001"},
			DefaultDepth:   20,
		},
	}
}

// LoadFromEnv loads configuration from a .env file (if present) and
// environment variables. Priority: ENV > .env file > defaults.
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	if addr := os.Getenv("BOOKD_ADDR"); addr != "" {
		cfg.Server.Addr = addr
	}
	if origins := os.Getenv("BOOKD_ALLOWED_ORIGINS"); origins != "" {
		cfg.Server.AllowedOrigins = strings.Split(origins, ",")
	}
	if depth := os.Getenv("BOOKD_DEFAULT_DEPTH"); depth != "" {
		if n, err := strconv.Atoi(depth); err == nil && n >= 0 {
			cfg.Server.DefaultDepth = n
		}
	}
	if file := os.Getenv("LOG_FILE"); file != "" {
		cfg.Log.File = file
	}

	return cfg
}
