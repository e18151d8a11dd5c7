package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jhoicas/lotetracker/internal/application/dto"
	"github.com/jhoicas/lotetracker/internal/application/traceability"
	"github.com/jhoicas/lotetracker/internal/domain/entity"
	"github.com/jhoicas/lotetracker/internal/domain/inventory"
)

func (r *root) registerCmd() *cobra.Command {
	var in dto.RegisterLotRequest
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Registrar un lote e imprimir el payload del QR",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.Normalize()
			if in.OperatorCode == "" && in.OperatorName != "" {
				// operador conocido: se propone su primer código
				app, err := r.load(cmd)
				if err != nil {
					return err
				}
				if code, ok := app.Index.OperatorCode(cmd.Context(), in.OperatorName); ok {
					in.OperatorCode = code
					fmt.Fprintf(cmd.ErrOrStderr(), "Código de operador: %s\n", code)
				}
			}
			if err := in.Validate(); err != nil {
				return err
			}
			app, err := r.load(cmd)
			if err != nil {
				return err
			}
			quantity := in.Quantity
			if in.Unit != "" {
				quantity = inventory.FormatQuantity(in.Quantity, in.Unit)
			}
			lot, payload, err := app.QR.RegisterAndEncode(cmd.Context(), traceability.RegisterInput{
				OperatorName: in.OperatorName,
				OperatorCode: in.OperatorCode,
				ProductType:  in.ProductType,
				Quantity:     quantity,
				Supplier:     in.Supplier,
				Date:         in.Date,
			})
			if lot != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Lote registrado: %s\n", lot.ID)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), payload)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.OperatorName, "operator", "", "nombre del operador")
	f.StringVar(&in.OperatorCode, "code", "", "código del operador (si se omite, el primero conocido para --operator)")
	f.StringVar(&in.ProductType, "product", "", "tipo de producto")
	f.StringVar(&in.Quantity, "quantity", "", "cantidad (ej. 100)")
	f.StringVar(&in.Unit, "unit", entity.DefaultUnit, "unidad: kg, libras, litros, unidades, toneladas, cajas, sacos")
	f.StringVar(&in.Supplier, "supplier", "", "proveedor")
	f.StringVar(&in.Date, "date", "", "fecha (por defecto, ahora)")
	return cmd
}

func (r *root) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [lote-id]",
		Short: "Mostrar un lote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.load(cmd)
			if err != nil {
				return err
			}
			if !app.Registry.Available() {
				return errStoreDown
			}
			lot, err := app.Registry.GetByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if lot == nil {
				return fmt.Errorf("lote %q no encontrado", args[0])
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "ID:\t%s\n", lot.ID)
			fmt.Fprintf(w, "Producto:\t%s\n", lot.ProductType)
			fmt.Fprintf(w, "Cantidad:\t%s\n", lot.Quantity)
			fmt.Fprintf(w, "Restante:\t%s\n", lot.RemainingQuantity)
			fmt.Fprintf(w, "Proveedor:\t%s\n", lot.Supplier)
			fmt.Fprintf(w, "Operador:\t%s (%s)\n", lot.OperatorName, lot.OperatorCode)
			fmt.Fprintf(w, "Estado:\t%s\n", lot.Status)
			fmt.Fprintf(w, "Fecha:\t%s\n", lot.Date)
			return w.Flush()
		},
	}
}

func (r *root) historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Últimos lotes registrados",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := r.load(cmd)
			if err != nil {
				return err
			}
			if !app.Registry.Available() {
				return errStoreDown
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tPRODUCTO\tCANTIDAD\tPROVEEDOR\tFECHA")
			for _, l := range app.Registry.RecentHistory(cmd.Context(), limit) {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", l.ID, l.ProductType, l.Quantity, l.Supplier, l.Date)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", traceability.DefaultHistoryLimit, "cantidad de lotes")
	return cmd
}

func (r *root) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Total de lotes y existencias por producto",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := r.load(cmd)
			if err != nil {
				return err
			}
			agg := app.Stats.Stats(cmd.Context())
			if !agg.Available {
				return errStoreDown
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Total de lotes:\t%d\n", agg.TotalLots)
			for _, p := range agg.ByProduct {
				fmt.Fprintf(w, "%s\t%s\n", p.ProductType, p.Total)
			}
			return w.Flush()
		},
	}
}

func (r *root) qrCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qr",
		Short: "Payload y exportación del código QR",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "payload [lote-id]",
		Short: "Imprimir el texto del QR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.load(cmd)
			if err != nil {
				return err
			}
			_, text, err := app.QR.Payload(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}, &cobra.Command{
		Use:   "export [lote-id]",
		Short: "Exportar el PNG al destino de artefactos (QR-{producto}-{epoch}.png)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.load(cmd)
			if err != nil {
				return err
			}
			_, location, err := app.QR.Export(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exportado: %s\n", location)
			return nil
		},
	})
	return cmd
}

func (r *root) labelCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "label [lote-id]",
		Short: "Generar la etiqueta PDF del lote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.load(cmd)
			if err != nil {
				return err
			}
			pdf, filename, err := app.QR.Label(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if out == "" {
				out = filename
			}
			if err := os.WriteFile(out, pdf, 0o644); err != nil {
				return fmt.Errorf("escribir %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Etiqueta: %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "archivo de salida (por defecto lote_<id>.pdf)")
	return cmd
}
