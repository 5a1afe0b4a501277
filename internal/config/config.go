package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig bundles everything the server needs to start.
type AppConfig struct {
	ListenAddr       string
	Port             string
	DatabasePath     string
	GinMode          string
	JWTSecret        string
	SiteBaseURL      string
	ObjectStore      ObjectStoreConfig
	DefaultAvatarURL string
	// Hosts whose images we reference but never own (OAuth avatars,
	// default-avatar CDNs). Assets on these hosts are never deleted.
	ExternalAssetHosts []string
}

// ObjectStoreConfig holds the MinIO connection settings.
type ObjectStoreConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Load reads configuration from the environment, providing safe defaults
// for anything missing. A .env file in the working directory is applied
// first when present.
func Load() AppConfig {
	_ = godotenv.Load()

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	databasePath := strings.TrimSpace(os.Getenv("DATABASE_PATH"))
	if databasePath == "" {
		databasePath = "helpinghand.db"
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))
	if ginMode == "" {
		ginMode = "release"
	}

	jwtSecret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if jwtSecret == "" {
		jwtSecret = "helpinghand-dev-secret"
	}

	siteBaseURL := strings.TrimSpace(os.Getenv("SITE_BASE_URL"))
	if siteBaseURL == "" {
		siteBaseURL = "http://localhost:8080"
	}

	defaultAvatarURL := strings.TrimSpace(os.Getenv("DEFAULT_AVATAR_URL"))
	if defaultAvatarURL == "" {
		defaultAvatarURL = "https://static.helpinghand.org/avatars/default.png"
	}

	externalHosts := []string{"googleusercontent.com", "gravatar.com", "static.helpinghand.org"}
	if extra := strings.TrimSpace(os.Getenv("EXTERNAL_ASSET_HOSTS")); extra != "" {
		for _, host := range strings.Split(extra, ",") {
			if host = strings.TrimSpace(host); host != "" {
				externalHosts = append(externalHosts, host)
			}
		}
	}

	return AppConfig{
		ListenAddr:         listenAddr,
		Port:               port,
		DatabasePath:       databasePath,
		GinMode:            ginMode,
		JWTSecret:          jwtSecret,
		SiteBaseURL:        siteBaseURL,
		ObjectStore:        loadObjectStore(),
		DefaultAvatarURL:   defaultAvatarURL,
		ExternalAssetHosts: externalHosts,
	}
}

func loadObjectStore() ObjectStoreConfig {
	endpoint := strings.TrimSpace(os.Getenv("MINIO_ENDPOINT"))
	if endpoint == "" {
		endpoint = "localhost:9000"
	}

	bucket := strings.TrimSpace(os.Getenv("MINIO_BUCKET"))
	if bucket == "" {
		bucket = "helpinghand"
	}

	return ObjectStoreConfig{
		Endpoint:  endpoint,
		AccessKey: strings.TrimSpace(os.Getenv("MINIO_ACCESS_KEY")),
		SecretKey: strings.TrimSpace(os.Getenv("MINIO_SECRET_KEY")),
		Bucket:    bucket,
		UseSSL:    strings.EqualFold(strings.TrimSpace(os.Getenv("MINIO_USE_SSL")), "true"),
	}
}
