package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.True(t, cfg.DB.Migrate)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, 10*time.Minute, cfg.Redis.CacheTTL)
	assert.False(t, cfg.SMTP.Enabled())
	assert.Equal(t, 2000, cfg.Batch.MaxRows)
}

func TestFromViper_LeeVariables(t *testing.T) {
	v := viper.New()
	v.Set("DB_DRIVER", "memory")
	v.Set("DB_PORT", "6543")
	v.Set("SMTP_HOST", "smtp.example.com")
	v.Set("PUBLIC_BASE_URL", "https://vaxa.app/")
	v.Set("BATCH_MAX_ROWS", "no-numero")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.DB.Driver)
	assert.Equal(t, 6543, cfg.DB.Port)
	assert.True(t, cfg.SMTP.Enabled())
	assert.Equal(t, "https://vaxa.app/validar/VX-ABCD-EFGH", cfg.Public.ValidationURL("VX-ABCD-EFGH"))
	assert.Equal(t, 2000, cfg.Batch.MaxRows, "un entero inválido cae al valor por defecto")
}

func TestFromViper_DriverInvalido(t *testing.T) {
	v := viper.New()
	v.Set("DB_DRIVER", "mysql")
	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestFromViper_ProduccionSinSecret(t *testing.T) {
	v := viper.New()
	v.Set("APP_ENV", "production")
	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDSN_EscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "vaxa", Password: "p@ss:word", DBName: "vaxa", SSLMode: "disable"}
	assert.Equal(t, "postgres://vaxa:p%40ss%3Aword@db:5432/vaxa?sslmode=disable", c.ConnectionString())
}
