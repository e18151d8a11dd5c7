package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "lotetracker", cfg.App.Name)
	assert.Equal(t, "", cfg.App.ResolverBaseURL)
	assert.Equal(t, DriverMongo, cfg.Store.Driver)
	assert.Equal(t, "lotetracker_db", cfg.Store.DBName)
	assert.Equal(t, 5*time.Second, cfg.Store.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Store.PingInterval)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, ArtifactFS, cfg.Artifact.Driver)
	assert.Equal(t, "./exports", cfg.Artifact.Dir)
	assert.Equal(t, "lotes.registrado", cfg.Events.Subject)
	assert.Equal(t, 200*time.Millisecond, cfg.Suggest.GracePeriod)
	assert.Empty(t, cfg.Store.Address(), "sin MONGO_URI no hay dirección")
}

func TestOverrides(t *testing.T) {
	v := viper.New()
	v.Set("STORE_DRIVER", "SQLite")
	v.Set("SQLITE_PATH", "/tmp/lotes.db")
	v.Set("STORE_TIMEOUT_SECONDS", "2")
	v.Set("HTTP_PORT", 9090)
	v.Set("SUGGEST_GRACE_MS", "350")
	v.Set("RESOLVER_BASE_URL", "  https://lotes.example.com/ ")
	v.Set("ARTIFACT_DRIVER", "s3")
	v.Set("ARTIFACT_S3_BUCKET", "qr-exports")
	v.Set("ARTIFACT_S3_PATH_STYLE", "true")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "/tmp/lotes.db", cfg.Store.Address())
	assert.Equal(t, 2*time.Second, cfg.Store.Timeout)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 350*time.Millisecond, cfg.Suggest.GracePeriod)
	assert.Equal(t, "https://lotes.example.com/", cfg.App.ResolverBaseURL)
	assert.True(t, cfg.Artifact.S3PathStyle)
}

func TestEnteroInvalidoUsaDefault(t *testing.T) {
	v := viper.New()
	v.Set("HTTP_PORT", "ochenta")
	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTP.Port)
}

func TestArtifactDriverInvalido(t *testing.T) {
	v := viper.New()
	v.Set("ARTIFACT_DRIVER", "ftp")
	_, err := fromViper(v)
	assert.Error(t, err)

	v = viper.New()
	v.Set("ARTIFACT_DRIVER", "s3")
	_, err = fromViper(v)
	assert.Error(t, err, "s3 sin bucket")
}
