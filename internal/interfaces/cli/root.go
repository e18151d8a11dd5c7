// Package cli comandos de operador (lotectl) sobre la misma capa de aplicación que la API.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/lotetracker/internal/application/analytics"
	"github.com/jhoicas/lotetracker/internal/application/catalog"
	"github.com/jhoicas/lotetracker/internal/application/suggest"
	"github.com/jhoicas/lotetracker/internal/application/traceability"
)

// App casos de uso que consumen los comandos.
type App struct {
	Registry *traceability.LotRegistry
	QR       *traceability.QRUseCase
	Stats    *analytics.StatsUseCase
	Index    *catalog.ValueIndex
	Suggest  *suggest.Engine

	GracePeriod time.Duration // ocultamiento diferido de suggest -i
}

// Factory construye la App la primera vez que un comando la necesita (--help no abre el almacén).
type Factory func(ctx context.Context) (*App, error)

type root struct {
	factory Factory
	app     *App
}

// NewRootCmd arma el árbol de comandos.
func NewRootCmd(factory Factory) *cobra.Command {
	r := &root{factory: factory}
	cmd := &cobra.Command{
		Use:           "lotectl",
		Short:         "Registro y trazabilidad de lotes de producción",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(
		r.registerCmd(),
		r.getCmd(),
		r.historyCmd(),
		r.statsCmd(),
		r.suggestCmd(),
		r.qrCmd(),
		r.labelCmd(),
		r.seedCmd(),
	)
	return cmd
}

func (r *root) load(cmd *cobra.Command) (*App, error) {
	if r.app != nil {
		return r.app, nil
	}
	app, err := r.factory(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("inicializar: %w", err)
	}
	r.app = app
	return app, nil
}
