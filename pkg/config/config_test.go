package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	v := viper.New()
	v.Set("JWT_SECRET", "s3cr3t")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, StoragePostgres, cfg.Storage.Driver)
	assert.True(t, cfg.DB.Migrate, "en development se migra por defecto")
	assert.Equal(t, 60, cfg.JWT.Expiration)
	assert.Equal(t, 60*time.Minute, cfg.Redis.SessionTTL, "sin SESSION_TTL_MINUTES se usa la expiración del JWT")
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Kafka.Enabled())
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, "postgres://postgres:@localhost:5432/insumos?sslmode=disable", cfg.DB.ConnectionString())
}

func TestFromViper_EnvExplicito(t *testing.T) {
	v := viper.New()
	v.Set("APP_ENV", "production")
	v.Set("JWT_SECRET", "s3cr3t")
	v.Set("STORAGE_DRIVER", "MEMORY")
	v.Set("HTTP_PORT", "9090")
	v.Set("REDIS_ADDR", "redis:6379")
	v.Set("SESSION_TTL_MINUTES", "15")
	v.Set("KAFKA_BROKERS", "k1:9092, k2:9092,")
	v.Set("DATABASE_URL", "postgres://u:p@db/x")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.False(t, cfg.DB.Migrate)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 15*time.Minute, cfg.Redis.SessionTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "postgres://u:p@db/x", cfg.DB.ConnectionString())
}

func TestFromViper_Invalido(t *testing.T) {
	_, err := fromViper(viper.New())
	assert.Error(t, err, "JWT_SECRET es obligatorio")

	v := viper.New()
	v.Set("JWT_SECRET", "x")
	v.Set("STORAGE_DRIVER", "sqlite")
	_, err = fromViper(v)
	assert.Error(t, err)
}

func TestDSN_EscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "insumos", SSLMode: "require"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/insumos?sslmode=require", c.DSN())
}
