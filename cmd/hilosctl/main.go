// Command hilosctl is the operator CLI: seeding staff, bulk imports and
// amount-in-words checks against the configured store.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"hilanderia-pos/internal/app"
	"hilanderia-pos/internal/config"
	"hilanderia-pos/internal/export"
	"hilanderia-pos/internal/model"
	"hilanderia-pos/internal/service"
	"hilanderia-pos/pkg/apperr"
	"hilanderia-pos/pkg/currency"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const actor = "hilosctl"

var (
	logger *zap.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "hilosctl",
	Short: "Operator tools for the Hilanderia POS backend",
	Long: `hilosctl works directly on the store configured in the environment
(.env is loaded when present), without going through the HTTP API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, _ = config.Load()
		var err error
		logger, err = app.NewLogger(cfg.LogLevel)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var seedStaffCmd = &cobra.Command{
	Use:   "seed-staff",
	Short: "Create or update a staff member allowed to log in",
	Long: `Creates the roster entry with the given DNI, or updates its name and
profile when it already exists.

Example:
  hilosctl seed-staff --name "Ana Torres" --dni 12345678 --profile Administrador`,
	RunE: seedStaff,
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Bulk load products or customers from a template workbook",
}

var importProductsCmd = &cobra.Command{
	Use:   "products [file.xlsx]",
	Short: "Import products (all rows or none)",
	Args:  cobra.ExactArgs(1),
	RunE:  importProducts,
}

var importCustomersCmd = &cobra.Command{
	Use:   "customers [file.xlsx]",
	Short: "Import customers row by row, reporting failed rows",
	Args:  cobra.ExactArgs(1),
	RunE:  importCustomers,
}

var wordsCmd = &cobra.Command{
	Use:   "words [amount]",
	Short: "Print an amount the way receipts spell it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printWords(cmd.OutOrStdout(), args[0])
	},
}

var (
	staffName    string
	staffDNI     string
	staffProfile string
	staffPhone   string
)

func init() {
	seedStaffCmd.Flags().StringVar(&staffName, "name", "", "full name, used at login")
	seedStaffCmd.Flags().StringVar(&staffDNI, "dni", "", "8 digit DNI, used at login")
	seedStaffCmd.Flags().StringVar(&staffProfile, "profile", string(model.ProfileAdministrator), "Administrador, Vendedor or Almacenero")
	seedStaffCmd.Flags().StringVar(&staffPhone, "phone", "", "optional phone number")
	_ = seedStaffCmd.MarkFlagRequired("name")
	_ = seedStaffCmd.MarkFlagRequired("dni")

	importCmd.AddCommand(importProductsCmd, importCustomersCmd)
	rootCmd.AddCommand(seedStaffCmd, importCmd, wordsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func withApp(fn func(ctx context.Context, a *app.App) error) error {
	a, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(context.Background(), a)
}

func seedStaff(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app.App) error {
		staff, err := a.Services.Customers.SeedStaff(ctx, service.CustomerInput{
			Name:    staffName,
			DNI:     staffDNI,
			Phone:   staffPhone,
			Profile: model.Profile(staffProfile),
		}, actor)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "staff ready: %s (%s) %s\n", staff.Name, staff.DNI, staff.Profile)
		return nil
	})
}

func readRows(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return export.ReadSheet(f)
}

func importProducts(cmd *cobra.Command, args []string) error {
	rows, err := readRows(args[0])
	if err != nil {
		return err
	}
	return withApp(func(ctx context.Context, a *app.App) error {
		created, err := a.Services.Inventory.ImportProducts(ctx, rows, actor)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d products imported\n", len(created))
		return nil
	})
}

func importCustomers(cmd *cobra.Command, args []string) error {
	rows, err := readRows(args[0])
	if err != nil {
		return err
	}
	return withApp(func(ctx context.Context, a *app.App) error {
		res, err := a.Services.Customers.ImportCustomers(ctx, rows, actor)
		if err != nil && !errors.Is(err, apperr.PartialFailure) {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%d customers imported\n", len(res.Created))
		for _, f := range res.Failed {
			fmt.Fprintf(out, "  row %d (%s): %s\n", f.Row, f.DNI, f.Error)
		}
		return err
	})
}

func printWords(w io.Writer, raw string) error {
	amount, err := currency.Parse(raw)
	if err != nil {
		return err
	}
	words, err := currency.ToWords(amount)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s\n%s\n", currency.Format(amount), words)
	return nil
}
