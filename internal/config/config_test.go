package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestViper(env map[string]any) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for k, val := range env {
		v.Set(k, val)
	}
	return v
}

func TestDefaultsMatchImageRepository(t *testing.T) {
	cfg := fromViper(newTestViper(nil))

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "n3-n2-n1", cfg.GitHub.Owner)
	assert.Equal(t, "rhp-backend", cfg.GitHub.Repo)
	assert.Equal(t, "main", cfg.GitHub.Branch)
	assert.Equal(t, "public/images", cfg.GitHub.Path)
	assert.Equal(t, "https://raw.githubusercontent.com/n3-n2-n1/rhp-backend/main/public/images", cfg.GitHub.PublicBaseURL)
	assert.Equal(t, int64(5*1024*1024), cfg.Images.MaxBytes)
	assert.Equal(t, DefaultAllowedOrigins, cfg.CORS.AllowedOrigins)
}

func TestServerPortOverridesPort(t *testing.T) {
	cfg := fromViper(newTestViper(map[string]any{"PORT": "9000", "SERVER_PORT": "8081"}))
	assert.Equal(t, "8081", cfg.Server.Port)

	cfg = fromViper(newTestViper(map[string]any{"PORT": "9000"}))
	assert.Equal(t, "9000", cfg.Server.Port)
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{
		Driver:   "postgres",
		Host:     "db",
		Port:     "5432",
		User:     "rhp",
		Password: "s3cr@t",
		Name:     "catalog",
		SSLMode:  "disable",
	}
	assert.Equal(t, "postgres://rhp:s3cr%40t@db:5432/catalog?sslmode=disable", d.DSN())

	d.URL = "postgres://other"
	assert.Equal(t, "postgres://other", d.DSN())

	assert.Equal(t, "rhp.db", DatabaseConfig{Driver: "sqlite"}.DSN())
}

func TestValidate(t *testing.T) {
	cfg := fromViper(newTestViper(map[string]any{"IMAGE_STORE": "github"}))
	require.Error(t, cfg.Validate())

	cfg.GitHub.Token = "token"
	require.NoError(t, cfg.Validate())

	cfg.Images.Store = StoreS3
	require.Error(t, cfg.Validate())

	cfg.Images.Store = StoreLocal
	cfg.Database.Driver = "mysql"
	require.Error(t, cfg.Validate())
}

func TestParseList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, ParseList(" a , ,b,"))
	assert.Nil(t, ParseList(""))
}
