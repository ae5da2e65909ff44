package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Recaudo-api/pkg/config"
)

func TestNewPoolConfig_DatabaseURLSinResolverExterno(t *testing.T) {
	pc, err := newPoolConfig(config.DBConfig{DatabaseURL: "postgres://u:p@db.example.com:6543/recaudo?sslmode=require"})
	require.NoError(t, err)
	// El host queda tal cual; no se reemplaza por una IPv4 resuelta.
	assert.Equal(t, "db.example.com", pc.ConnConfig.Host)
	assert.Equal(t, uint16(6543), pc.ConnConfig.Port)
	assert.Equal(t, "recaudo", pc.ConnConfig.Database)
	assert.Equal(t, int32(10), pc.MaxConns)
	assert.NotNil(t, pc.AfterConnect)
}

func TestNewPoolConfig_DesdeCampos(t *testing.T) {
	pc, err := newPoolConfig(config.DBConfig{
		Host: "localhost", Port: 5432, User: "recaudo", Password: "secret",
		DBName: "recaudo", SSLMode: "disable", MaxConns: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, "localhost", pc.ConnConfig.Host)
	assert.Equal(t, "recaudo", pc.ConnConfig.User)
	assert.Equal(t, int32(4), pc.MaxConns)
}

func TestNewPoolConfig_DSNInvalido(t *testing.T) {
	_, err := newPoolConfig(config.DBConfig{DatabaseURL: "postgres://u@h:notaport/db"})
	assert.Error(t, err)
}
