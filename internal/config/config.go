package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kozaktomas/face-match/internal/constants"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Config struct {
	Storage   StorageConfig
	Matching  MatchingConfig
	Embedding EmbeddingConfig
	Database  DatabaseConfig
	MariaDB   MariaDBConfig
	SQLite    SQLiteConfig
	Web       WebConfig
}

type StorageConfig struct {
	PhotosDir       string   `yaml:"photos_dir"`       // root directory holding one subdirectory per album
	MetadataFile    string   `yaml:"metadata_file"`    // per-album embeddings document name
	Backend         string   `yaml:"backend"`          // file, memory, sqlite, postgres or mariadb
	ImageExtensions []string `yaml:"image_extensions"` // lowercase, with leading dot
}

type MatchingConfig struct {
	Threshold float64 `yaml:"threshold"` // maximum Euclidean distance for a match
}

type EmbeddingConfig struct {
	URL          string `yaml:"url"`            // face embedding service, used by the http extractor
	Dim          int    `yaml:"dim"`            // expected embedding length
	Extractor    string `yaml:"extractor"`      // http or dlib
	MaxImageSize int    `yaml:"max_image_size"` // larger images are downscaled before extraction
	ModelsDir    string `yaml:"models_dir"`     // dlib model files, used by the dlib extractor
}

type DatabaseConfig struct {
	URL          string // PostgreSQL connection URL
	MaxOpenConns int    // Maximum open connections (default 25)
	MaxIdleConns int    // Maximum idle connections (default 5)
}

type MariaDBConfig struct {
	DSN string // e.g. facematch:facematch@tcp(mariadb:3306)/facematch
}

type SQLiteConfig struct {
	Path string // database file; empty means albums.db under the photos directory
}

type WebConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string // CORS origins in addition to localhost
}

type defaults struct {
	Storage   StorageConfig   `yaml:"storage"`
	Matching  MatchingConfig  `yaml:"matching"`
	Embedding EmbeddingConfig `yaml:"embedding"`
}

// applyFallbacks fills values the embedded defaults leave unset.
func (d *defaults) applyFallbacks() {
	if d.Storage.MetadataFile == "" {
		d.Storage.MetadataFile = constants.MetadataFileName
	}
	if d.Matching.Threshold <= 0 {
		d.Matching.Threshold = constants.DefaultDistanceThreshold
	}
	if d.Embedding.Dim <= 0 {
		d.Embedding.Dim = constants.DefaultEmbeddingDim
	}
	if d.Embedding.MaxImageSize <= 0 {
		d.Embedding.MaxImageSize = constants.MaxImageSize
	}
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable and parses it as a positive float.
// Returns the default value if the env var is unset, empty, or invalid.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return f
	}
	return defaultVal
}

// envString returns the environment variable or the default when unset.
func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

// envList reads a comma-separated environment variable, dropping empty items.
func envList(key string) []string {
	var out []string
	for item := range strings.SplitSeq(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func Load() *Config {
	var d defaults
	if err := yaml.Unmarshal(defaultsYAML, &d); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded defaults.yaml: " + err.Error())
	}
	d.applyFallbacks()

	return &Config{
		Storage: StorageConfig{
			PhotosDir:       envString("PHOTOS_DIR", d.Storage.PhotosDir),
			MetadataFile:    d.Storage.MetadataFile,
			Backend:         envString("STORE_BACKEND", d.Storage.Backend),
			ImageExtensions: d.Storage.ImageExtensions,
		},
		Matching: MatchingConfig{
			Threshold: envFloat("MATCH_THRESHOLD", d.Matching.Threshold),
		},
		Embedding: EmbeddingConfig{
			URL:          envString("EMBEDDING_URL", d.Embedding.URL),
			Dim:          envInt("EMBEDDING_DIM", d.Embedding.Dim),
			Extractor:    envString("EXTRACTOR", d.Embedding.Extractor),
			MaxImageSize: envInt("MAX_IMAGE_SIZE", d.Embedding.MaxImageSize),
			ModelsDir:    envString("DLIB_MODELS_DIR", d.Embedding.ModelsDir),
		},
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		MariaDB: MariaDBConfig{
			DSN: os.Getenv("MARIADB_DSN"),
		},
		SQLite: SQLiteConfig{
			Path: os.Getenv("SQLITE_PATH"),
		},
		Web: WebConfig{
			Host:           envString("WEB_HOST", "0.0.0.0"),
			Port:           envInt("WEB_PORT", 8000),
			AllowedOrigins: envList("WEB_ALLOWED_ORIGINS"),
		},
	}
}

// IsImageFile reports whether name carries one of the configured image extensions.
// The comparison is case-insensitive.
func (c *StorageConfig) IsImageFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return false
	}
	return slices.Contains(c.ImageExtensions, ext)
}
