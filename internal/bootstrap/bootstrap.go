// Package bootstrap construye el grafo de dependencias compartido por la API y lotectl.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/lotetracker/internal/application/analytics"
	"github.com/jhoicas/lotetracker/internal/application/catalog"
	"github.com/jhoicas/lotetracker/internal/application/ports"
	"github.com/jhoicas/lotetracker/internal/application/suggest"
	"github.com/jhoicas/lotetracker/internal/application/traceability"
	"github.com/jhoicas/lotetracker/internal/infrastructure/artifact"
	"github.com/jhoicas/lotetracker/internal/infrastructure/events"
	"github.com/jhoicas/lotetracker/internal/infrastructure/metrics"
	"github.com/jhoicas/lotetracker/internal/infrastructure/pdf"
	"github.com/jhoicas/lotetracker/internal/infrastructure/qr"
	"github.com/jhoicas/lotetracker/internal/infrastructure/store"
	"github.com/jhoicas/lotetracker/pkg/config"
	"github.com/jhoicas/lotetracker/pkg/logger"
)

// Container dependencias ya cableadas.
type Container struct {
	Config  *config.Config
	Store   *store.Handle
	Metrics *metrics.Metrics

	Index    *catalog.ValueIndex
	Registry *traceability.LotRegistry
	QR       *traceability.QRUseCase
	Stats    *analytics.StatsUseCase
	Suggest  *suggest.Engine

	nats *events.NATSPublisher
}

// Build abre el almacén, los adaptadores de salida y arma los casos de uso.
// Un almacén sin dirección no es error (arranca degradado); un driver desconocido sí.
func Build(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	h, err := store.Open(ctx, cfg.Store, log.Component("store"))
	if err != nil {
		return nil, fmt.Errorf("abrir almacén: %w", err)
	}
	if !h.Status.Available() {
		log.Warn().Str("driver", h.Driver).Msg("almacén no disponible: lecturas vacías y escrituras rechazadas")
	}

	m := metrics.New()
	m.StoreAvailable(h.Status.Available())
	h.Status.OnChange(m.StoreAvailable)

	sink, err := artifact.Open(ctx, cfg.Artifact)
	if err != nil {
		_ = h.Close(ctx)
		return nil, fmt.Errorf("destino de artefactos: %w", err)
	}

	c := &Container{Config: cfg, Store: h, Metrics: m}

	// interfaz nil explícita: un *NATSPublisher nil no lo sería
	var publisher ports.LotEventPublisher
	if cfg.Events.NatsURL != "" {
		c.nats, err = events.Connect(cfg.Events.NatsURL, cfg.Events.Subject, cfg.App.Name, log.Component("events"))
		if err != nil {
			log.Warn().Err(err).Msg("eventos deshabilitados")
		} else {
			publisher = c.nats
		}
	}

	c.Index = catalog.NewValueIndex(h.Catalog, h.Lots, h.Status, cfg.Store.Timeout, log.Zerolog())
	c.Registry = traceability.NewLotRegistry(traceability.RegistryDeps{
		Lots:         h.Lots,
		Index:        c.Index,
		Status:       h.Status,
		Events:       publisher,
		Metrics:      m,
		StoreTimeout: cfg.Store.Timeout,
		Logger:       log.Zerolog(),
	})
	if cfg.App.ResolverBaseURL == "" {
		log.Error().Msg("RESOLVER_BASE_URL no configurada: el registro funciona pero no se generarán QR")
	}
	c.QR = traceability.NewQRUseCase(
		c.Registry,
		cfg.App.ResolverBaseURL,
		qr.NewRenderer(),
		pdf.NewLabelGenerator(cfg.App.Name),
		sink,
	)
	c.Stats = analytics.NewStatsUseCase(h.Stats, h.Status, cfg.Store.Timeout, log.Zerolog())
	c.Suggest = suggest.NewEngine(c.Index, m)
	return c, nil
}

// Monitor sondea el almacén hasta que ctx termine. Solo lo usa el proceso de larga vida.
func (c *Container) Monitor(ctx context.Context) {
	c.Store.Status.Monitor(ctx, c.Config.Store.PingInterval, c.Config.Store.Timeout)
}

// Close drena NATS y cierra el almacén.
func (c *Container) Close(ctx context.Context) error {
	if c.nats != nil {
		c.nats.Close()
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return c.Store.Close(ctx)
}
