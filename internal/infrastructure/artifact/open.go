package artifact

import (
	"context"
	"fmt"

	"github.com/jhoicas/lotetracker/internal/application/ports"
	"github.com/jhoicas/lotetracker/pkg/config"
)

// Open construye el destino indicado por ARTIFACT_DRIVER.
func Open(ctx context.Context, cfg config.ArtifactConfig) (ports.ArtifactSink, error) {
	switch cfg.Driver {
	case config.ArtifactFS, "":
		return NewFSSink(cfg.Dir)
	case config.ArtifactS3:
		return NewS3Sink(ctx, S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
		})
	}
	return nil, fmt.Errorf("artefactos: driver %q no soportado", cfg.Driver)
}
