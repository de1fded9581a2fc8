package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/treasuretrove/ledger/migrations/inventory"
	"github.com/treasuretrove/ledger/pkg/database"
	"github.com/treasuretrove/ledger/pkg/logger"
	"github.com/treasuretrove/ledger/pkg/migrator"
	"github.com/treasuretrove/ledger/services/inventory/domain"
	"github.com/treasuretrove/ledger/services/inventory/domain/models"
	"github.com/treasuretrove/ledger/services/inventory/domain/repositories"
)

func newAddCmd(opts *rootOptions) *cobra.Command {
	var (
		container    string
		newContainer string
		location     string
		printLabel   bool
	)
	cmd := &cobra.Command{
		Use:   "add [text...]",
		Short: "Record items from free text (reads stdin when no text is given)",
		Example: `  trove add "3 boxes of nails" --new-container "Spring 1"
  printf '2 tape\nglue\n' | trove add --location garage`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			e, err := open(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.close()

			res, err := e.svcs.Submission.Submit(cmd.Context(), models.Submission{
				RawText:            text,
				ContainerSelection: optional(container),
				ContainerNewName:   optional(newContainer),
				Location:           optional(location),
			})
			if err != nil && !errors.Is(err, domain.ErrStorage) {
				return err
			}

			out := cmd.OutOrStdout()
			for _, w := range res.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
			}
			if res.Container != nil {
				fmt.Fprintf(out, "container: %s (%s)\n", res.Container.Name, res.Container.ID)
			}
			for _, line := range res.Label.Lines {
				fmt.Fprintln(out, line.Text)
			}
			if err != nil {
				return err
			}

			// Without an outbox the subscriber in this process has printed it.
			if printLabel && e.app.EventBus.Transactional() {
				if err := e.svcs.Inventory.PrintLabel(cmd.Context(), res.SubmissionID.String(), res.Label); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&container, "container", "", "ID of an existing container")
	cmd.Flags().StringVar(&newContainer, "new-container", "", "Name of a container to use, created if missing")
	cmd.Flags().StringVar(&location, "location", "", "Where the items are kept")
	cmd.Flags().BoolVar(&printLabel, "print", false, "Print the label now instead of leaving it to the worker (PostgreSQL only)")
	return cmd
}

func newContainersCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "containers",
		Short: "List containers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := open(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.close()

			list, err := e.svcs.Inventory.ListContainers(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME")
			for _, c := range list {
				fmt.Fprintf(tw, "%s\t%s\n", c.ID, c.Name)
			}
			return tw.Flush()
		},
	}
}

func newItemsCmd(opts *rootOptions) *cobra.Command {
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "items",
		Short: "List items, containerized first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := open(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.close()

			entries, total, err := e.svcs.Inventory.ListItems(cmd.Context(), repositories.QueryOpts{Limit: limit, Offset: offset})
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "QTY\tNAME\tCONTAINER\tLOCATION")
			for _, en := range entries {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n",
					en.Item.Quantity.Int(), en.Item.Name.SingleLine(), deref(en.ContainerName), deref(en.Item.LocationHint))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d items\n", len(entries), total)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum items to show (0 = all)")
	cmd.Flags().IntVar(&offset, "offset", 0, "Items to skip")
	return cmd
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the inventory to an XLSX file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := open(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.close()

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			n, err := e.svcs.Inventory.Export(cmd.Context(), f)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d items to %s\n", n, out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "inventory.xlsx", "Output file")
	return cmd
}

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			log := logger.NewWithWriter(cmd.ErrOrStderr(), cfg.LogLevel)

			db, err := database.NewPool(cmd.Context(), cfg.DatabaseURL, log)
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := migrator.RunMigrations(cmd.Context(), db, inventory.FS)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migrations (%s)\n", applied, db.Dialect())
			return nil
		},
	}
}

// readText joins args, or reads stdin when there are none.
func readText(stdin io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(b), nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
