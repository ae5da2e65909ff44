package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg := fromViper(viper.New())

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, "../db", cfg.Ingest.DefaultDir)
	assert.Equal(t, "0.0.0.0:3000", cfg.HTTP.Addr())
	assert.Equal(t, "*", cfg.HTTP.CORSOrigins)
}

func TestFromViper_EnvOverrides(t *testing.T) {
	v := viper.New()
	v.Set("DB_PORT", "6543")
	v.Set("HTTP_PORT", "no-es-numero")
	v.Set("INGEST_DEFAULT_DIR", "/data/csv")

	cfg := fromViper(v)

	assert.Equal(t, 6543, cfg.DB.Port)
	assert.Equal(t, 3000, cfg.HTTP.Port, "un entero inválido cae al valor por defecto")
	assert.Equal(t, "/data/csv", cfg.Ingest.DefaultDir)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "recaudo", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/recaudo?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
