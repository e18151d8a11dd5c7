package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/lotetracker/internal/application/suggest"
)

var errStoreDown = errors.New("almacén de datos no disponible: revise la configuración y la conexión")

func (r *root) suggestCmd() *cobra.Command {
	var interactive bool
	cmd := &cobra.Command{
		Use:   "suggest [campo] [texto]",
		Short: "Sugerencias de autocompletado (producto, proveedor, operador, codigo_operador)",
		Long: `Sin -i imprime hasta 8 coincidencias del texto.

Con -i lee consultas línea a línea desde la entrada estándar, como un campo con
autocompletado: cada línea filtra, "=valor" selecciona y termina, y el fin de la
entrada equivale a perder el foco (la lista se oculta tras el periodo de gracia).`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			field, err := suggest.ParseField(args[0])
			if err != nil {
				return err
			}
			app, err := r.load(cmd)
			if err != nil {
				return err
			}
			if interactive {
				return runSuggestSession(cmd, app, field)
			}
			query := ""
			if len(args) == 2 {
				query = args[1]
			}
			items, err := app.Suggest.Suggest(cmd.Context(), field, query)
			if err != nil {
				return err
			}
			for _, it := range items {
				fmt.Fprintln(cmd.OutOrStdout(), it)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "sesión interactiva sobre la entrada estándar")
	return cmd
}

func runSuggestSession(cmd *cobra.Command, app *App, field suggest.Field) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	grace := app.GracePeriod
	if grace <= 0 {
		grace = suggest.DefaultGracePeriod
	}

	hidden := make(chan struct{}, 1)
	s := suggest.NewSession(app.Suggest, field,
		suggest.WithGracePeriod(grace),
		suggest.WithOnChange(func(v suggest.View) {
			printView(out, v)
			if v.State == suggest.StateIdle {
				select {
				case hidden <- struct{}{}:
				default:
				}
			}
		}),
	)

	if err := s.Focus(ctx); err != nil {
		return err
	}
	sc := bufio.NewScanner(cmd.InOrStdin())
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if v, ok := strings.CutPrefix(line, "="); ok {
			s.Select(strings.TrimSpace(v))
			fmt.Fprintf(out, "Seleccionado: %s\n", s.Snapshot().Value)
			return nil
		}
		if err := s.Input(ctx, line); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}

	if s.Snapshot().State == suggest.StateIdle {
		return nil
	}
	select {
	case <-hidden:
	default:
	}
	s.Blur()
	select {
	case <-hidden:
	case <-ctx.Done():
	case <-time.After(grace + time.Second):
	}
	return nil
}

func printView(w io.Writer, v suggest.View) {
	if v.State != suggest.StateShowing {
		fmt.Fprintln(w, "(sin sugerencias)")
		return
	}
	for _, it := range v.Items {
		fmt.Fprintf(w, "  %s\n", it)
	}
}

func (r *root) seedCmd() *cobra.Command {
	var encoding string
	cmd := &cobra.Command{
		Use:   "seed [archivo.csv]",
		Short: "Cargar productos y proveedores desde CSV (tipo,nombre)",
		Long: `Carga masiva e idempotente del índice de valores.

Cada fila: tipo,nombre donde tipo es "producto" o "proveedor".
Los archivos exportados desde hojas de cálculo antiguas suelen venir en ISO-8859-1:
use --encoding latin1.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("abrir CSV: %w", err)
			}
			defer f.Close()

			products, suppliers, err := ReadSeedCSV(f, strings.EqualFold(encoding, "latin1"))
			if err != nil {
				return err
			}
			app, err := r.load(cmd)
			if err != nil {
				return err
			}
			np, ns, err := app.Index.Seed(cmd.Context(), products, suppliers)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cargados %d productos y %d proveedores\n", np, ns)
			return nil
		},
	}
	cmd.Flags().StringVar(&encoding, "encoding", "utf8", "codificación del archivo: utf8 | latin1")
	return cmd
}
