package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Output           string
	OutputDir        string
	AddComments      string
	Keywords         []string
	ProjectIDVersion string
	ReportBugsTo     string
	WorkerCount      int
	// DatabaseURL enables the PostgreSQL extraction cache when set.
	DatabaseURL string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	return &Config{
		Output:           getEnv("JSXGETTEXT_OUTPUT", "messages.po"),
		OutputDir:        getEnv("JSXGETTEXT_OUTPUT_DIR", ""),
		AddComments:      getEnv("JSXGETTEXT_ADD_COMMENTS", "L10n:"),
		Keywords:         getEnvList("JSXGETTEXT_KEYWORDS"),
		ProjectIDVersion: getEnv("JSXGETTEXT_PROJECT_ID_VERSION", ""),
		ReportBugsTo:     getEnv("JSXGETTEXT_REPORT_BUGS_TO", ""),
		WorkerCount:      getEnvInt("WORKER_COUNT", 8),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// getEnvList splits a comma-separated variable, dropping blanks.
func getEnvList(key string) []string {
	var list []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			list = append(list, v)
		}
	}
	return list
}
