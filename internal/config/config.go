package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Curriculum backend
	CatalogBaseURL string
	CatalogToken   string
	PageSize       int

	// HTTP server
	ListenAddr string

	// SFTP (export upload)
	SFTPHost                  string
	SFTPPort                  int
	SFTPUser                  string
	SFTPPass                  string
	SFTPDir                   string
	SFTPInsecureIgnoreHostKey bool
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in first when present (never overriding real env vars).
func Load() Config {
	_ = godotenv.Load()

	return Config{
		CatalogBaseURL: getenv("CATALOG_BASE_URL", "http://localhost:8080/api/v1"),
		CatalogToken:   os.Getenv("CATALOG_TOKEN"),
		PageSize:       getenvInt("CATALOG_PAGE_SIZE", 100),

		ListenAddr: getenv("LISTEN_ADDR", ":3000"),

		SFTPHost:                  os.Getenv("SFTP_HOST"),
		SFTPPort:                  getenvInt("SFTP_PORT", 22),
		SFTPUser:                  os.Getenv("SFTP_USER"),
		SFTPPass:                  os.Getenv("SFTP_PASS"),
		SFTPDir:                   getenv("SFTP_DIR", "/"),
		SFTPInsecureIgnoreHostKey: os.Getenv("SFTP_INSECURE_IGNORE_HOST_KEY") == "true",
	}
}

func getenv(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
