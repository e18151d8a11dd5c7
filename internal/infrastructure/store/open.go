package store

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/lotetracker/internal/domain"
	"github.com/jhoicas/lotetracker/internal/domain/entity"
	"github.com/jhoicas/lotetracker/internal/domain/repository"
	mongostore "github.com/jhoicas/lotetracker/internal/infrastructure/mongo"
	"github.com/jhoicas/lotetracker/internal/infrastructure/postgres"
	"github.com/jhoicas/lotetracker/internal/infrastructure/sqlite"
	"github.com/jhoicas/lotetracker/pkg/config"
)

// Handle almacén abierto: repositorios, disponibilidad y cierre.
type Handle struct {
	Driver  string
	Lots    repository.LotRepository
	Catalog repository.CatalogRepository
	Stats   repository.StatsRepository
	Status  *Status
	close   func(ctx context.Context) error
}

// Close libera las conexiones.
func (h *Handle) Close(ctx context.Context) error {
	if h.close == nil {
		return nil
	}
	return h.close(ctx)
}

// Open abre el driver configurado. Sin dirección no falla: devuelve un handle marcado como
// no disponible (estado explícito de no funcionamiento) y lo registra con nivel error.
// Un driver desconocido sí es error de configuración.
func Open(ctx context.Context, cfg config.StoreConfig, log zerolog.Logger) (*Handle, error) {
	switch cfg.Driver {
	case config.DriverMongo, config.DriverPostgres, config.DriverSQLite:
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedDriver, cfg.Driver)
	}
	if cfg.Address() == "" {
		log.Error().Err(domain.ErrMissingStoreAddress).Str("driver", cfg.Driver).
			Msg("el servicio arranca sin almacén")
		return Offline(cfg.Driver, log), nil
	}

	var (
		h   *Handle
		err error
	)
	switch cfg.Driver {
	case config.DriverMongo:
		h, err = openMongo(ctx, cfg, log)
	case config.DriverPostgres:
		h, err = openPostgres(ctx, cfg, log)
	case config.DriverSQLite:
		h, err = openSQLite(ctx, cfg, log)
	}
	if err != nil {
		return nil, err
	}
	h.Driver = cfg.Driver
	h.Status.Check(ctx, setupTimeout(cfg))
	return h, nil
}

func openMongo(ctx context.Context, cfg config.StoreConfig, log zerolog.Logger) (*Handle, error) {
	client, err := mongostore.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.DBName)
	status := NewStatus(func(ctx context.Context) error { return mongostore.Ping(ctx, client) }, log)
	ictx, cancel := context.WithTimeout(ctx, setupTimeout(cfg))
	defer cancel()
	if err := mongostore.EnsureIndexes(ictx, db); err != nil {
		log.Warn().Err(err).Msg("no se pudieron crear los índices de mongo")
	}
	return classify(&Handle{
		Lots:    mongostore.NewLotRepository(db),
		Catalog: mongostore.NewCatalogRepository(db),
		Stats:   mongostore.NewStatsRepository(db),
		Status:  status,
		close:   client.Disconnect,
	}, mongostore.ClassifyError), nil
}

func openPostgres(ctx context.Context, cfg config.StoreConfig, log zerolog.Logger) (*Handle, error) {
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	tx := postgres.NewTxRunner(pool)
	var migrated atomic.Bool
	// El esquema se aplica en el primer ping exitoso: la base puede no estar lista al arrancar.
	ping := func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			return err
		}
		if !migrated.Load() {
			if err := postgres.MigrateLocked(ctx, tx); err != nil {
				return err
			}
			migrated.Store(true)
		}
		return nil
	}
	return classify(&Handle{
		Lots:    postgres.NewLotRepository(pool),
		Catalog: postgres.NewCatalogRepository(pool),
		Stats:   postgres.NewStatsRepository(pool),
		Status:  NewStatus(ping, log),
		close: func(context.Context) error {
			pool.Close()
			return nil
		},
	}, postgres.ClassifyError), nil
}

func openSQLite(ctx context.Context, cfg config.StoreConfig, log zerolog.Logger) (*Handle, error) {
	db, err := sqlite.Open(ctx, cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	s := sqlite.NewStore(db)
	return classify(&Handle{
		Lots:    s,
		Catalog: s,
		Stats:   s,
		Status:  NewStatus(s.Ping, log),
		close:   func(context.Context) error { return db.Close() },
	}, sqlite.ClassifyError), nil
}

func setupTimeout(cfg config.StoreConfig) time.Duration {
	if cfg.Timeout > 0 {
		return cfg.Timeout
	}
	return 5 * time.Second
}

// Offline handle sin almacén: el indicador nunca sube y toda llamada devuelve
// domain.ErrStoreUnavailable.
func Offline(driver string, log zerolog.Logger) *Handle {
	var o offline
	return &Handle{
		Driver:  driver,
		Lots:    o,
		Catalog: o,
		Stats:   o,
		Status:  NewStatus(nil, log),
	}
}

type offline struct{}

func (offline) Create(context.Context, *entity.Lot) error { return domain.ErrStoreUnavailable }
func (offline) GetByID(context.Context, string) (*entity.Lot, error) {
	return nil, domain.ErrStoreUnavailable
}
func (offline) ListRecent(context.Context, int) ([]*entity.Lot, error) {
	return nil, domain.ErrStoreUnavailable
}
func (offline) ListOperatorPairs(context.Context) ([]entity.OperatorEntry, error) {
	return nil, domain.ErrStoreUnavailable
}
func (offline) Upsert(context.Context, entity.CatalogKind, string) error {
	return domain.ErrStoreUnavailable
}
func (offline) List(context.Context, entity.CatalogKind) ([]string, error) {
	return nil, domain.ErrStoreUnavailable
}
func (offline) CountLots(context.Context) (int, error) { return 0, domain.ErrStoreUnavailable }
func (offline) StockByProduct(context.Context) ([]entity.ProductStock, error) {
	return nil, domain.ErrStoreUnavailable
}
