package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/url"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Image store drivers
const (
	StoreGitHub = "github"
	StoreS3     = "s3"
	StoreLocal  = "local"
)

// DefaultAllowedOrigins are the browser origins the storefront is served from.
var DefaultAllowedOrigins = []string{
	"http://localhost:3000",
	"http://localhost:3001",
	"http://localhost:4200",
	"http://localhost:4321",
	"http://localhost:5173",
	"http://localhost:8080",
	"https://www.distribuidorarhp.com",
	"https://distribuidorarhp.com",
}

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Images   ImagesConfig
	GitHub   GitHubConfig
	S3       S3Config
	Local    LocalConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Driver       string // postgres | sqlite
	URL          string
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type ImagesConfig struct {
	Store    string
	MaxBytes int64
}

type GitHubConfig struct {
	Token         string
	Owner         string
	Repo          string
	Branch        string
	Path          string
	APIURL        string // empty for api.github.com
	PublicBaseURL string
}

type S3Config struct {
	Bucket        string
	Region        string
	Key           string
	Secret        string
	Endpoint      string
	PublicBaseURL string
}

type LocalConfig struct {
	Root          string
	PublicBaseURL string
}

type LogConfig struct {
	Level string
}

// Load reads configuration from .env and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Warning: Could not read .env file: %v", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "3000")
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("CORS_ALLOWED_ORIGINS", strings.Join(DefaultAllowedOrigins, ","))
	v.SetDefault("IMAGE_STORE", StoreGitHub)
	v.SetDefault("IMAGE_MAX_BYTES", 5*1024*1024)
	v.SetDefault("GITHUB_OWNER", "n3-n2-n1")
	v.SetDefault("GITHUB_REPO", "rhp-backend")
	v.SetDefault("GITHUB_BRANCH", "main")
	v.SetDefault("GITHUB_PATH", "public/images")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("STORAGE_LOCAL_ROOT", "storage/images")
	v.SetDefault("STORAGE_URL", "http://localhost:3000/images")
	v.SetDefault("LOG_LEVEL", "info")
}

func fromViper(v *viper.Viper) *Config {
	port := v.GetString("SERVER_PORT")
	if port == "" {
		port = v.GetString("PORT")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: port,
			Env:  v.GetString("SERVER_ENV"),
		},
		Database: DatabaseConfig{
			Driver:       v.GetString("DB_DRIVER"),
			URL:          v.GetString("DATABASE_URL"),
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetString("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			Name:         v.GetString("DB_DATABASE"),
			SSLMode:      v.GetString("DB_SSLMODE"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		},
		CORS: CORSConfig{
			AllowedOrigins: ParseList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Images: ImagesConfig{
			Store:    strings.ToLower(v.GetString("IMAGE_STORE")),
			MaxBytes: v.GetInt64("IMAGE_MAX_BYTES"),
		},
		GitHub: GitHubConfig{
			Token:         v.GetString("GITHUB_TOKEN"),
			Owner:         v.GetString("GITHUB_OWNER"),
			Repo:          v.GetString("GITHUB_REPO"),
			Branch:        v.GetString("GITHUB_BRANCH"),
			Path:          strings.Trim(v.GetString("GITHUB_PATH"), "/"),
			APIURL:        v.GetString("GITHUB_API_URL"),
			PublicBaseURL: v.GetString("GITHUB_PUBLIC_BASE_URL"),
		},
		S3: S3Config{
			Bucket:        v.GetString("S3_BUCKET"),
			Region:        v.GetString("S3_REGION"),
			Key:           v.GetString("S3_KEY"),
			Secret:        v.GetString("S3_SECRET"),
			Endpoint:      v.GetString("S3_ENDPOINT"),
			PublicBaseURL: v.GetString("S3_URL"),
		},
		Local: LocalConfig{
			Root:          v.GetString("STORAGE_LOCAL_ROOT"),
			PublicBaseURL: v.GetString("STORAGE_URL"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
	}

	if cfg.GitHub.PublicBaseURL == "" {
		cfg.GitHub.PublicBaseURL = fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s/%s",
			cfg.GitHub.Owner, cfg.GitHub.Repo, cfg.GitHub.Branch, cfg.GitHub.Path)
	}

	return cfg
}

// IsProduction reports whether the server runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// DSN returns the database connection string. DATABASE_URL takes precedence
// over the discrete DB_* settings.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	if d.Driver == "sqlite" {
		if d.Name == "" {
			return "rhp.db"
		}
		return d.Name
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + d.Port,
		Path:     d.Name,
		RawQuery: "sslmode=" + d.SSLMode,
	}
	return u.String()
}

// Validate reports settings that are required by the selected drivers.
func (c *Config) Validate() error {
	var errs []error

	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q (supported: postgres, sqlite)", c.Database.Driver))
	}

	switch c.Images.Store {
	case StoreGitHub:
		if c.GitHub.Token == "" {
			errs = append(errs, errors.New("GITHUB_TOKEN is required when IMAGE_STORE=github"))
		}
	case StoreS3:
		if c.S3.Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET is required when IMAGE_STORE=s3"))
		}
	case StoreLocal:
	default:
		errs = append(errs, fmt.Errorf("unsupported IMAGE_STORE %q (supported: github, s3, local)", c.Images.Store))
	}

	return errors.Join(errs...)
}

// ParseList splits a comma separated setting, dropping blanks.
func ParseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
