package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tair/storefront/internal/analytics"
	productdomain "github.com/tair/storefront/internal/product/domain"
	"github.com/tair/storefront/internal/seed"
	"github.com/tair/storefront/internal/store"
)

// NewReportCommand creates the report command
func NewReportCommand(opts *RootOptions) *cobra.Command {
	var threshold int

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the dashboard overview of the seed data",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(opts)
			if !cmd.Flags().Changed("low-stock") {
				threshold = cfg.LowStockThreshold
			}

			f, err := seed.Load(cfg.SeedFile)
			if err != nil {
				return err
			}
			s := store.New()
			if err := seed.Apply(f, s, nil); err != nil {
				return err
			}

			overview := analytics.BuildOverview(s.Snapshot(), threshold)
			if opts.Format == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(overview)
			}
			return writeOverview(cmd.OutOrStdout(), overview)
		},
	}

	cmd.Flags().IntVar(&threshold, "low-stock", analytics.DefaultLowStockThreshold, "low stock threshold")
	return cmd
}

func writeOverview(out io.Writer, o analytics.Overview) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintf(w, "Total revenue\t%.2f\n", o.TotalRevenue)
	fmt.Fprintf(w, "Products\t%d (%d active, %d out of stock, %d featured)\n",
		o.TotalProducts, o.ActiveProducts, o.OutOfStockProducts, o.FeaturedProducts)
	fmt.Fprintf(w, "Orders\t%d\n", o.TotalOrders)
	fmt.Fprintf(w, "Customers\t%d\n", o.TotalCustomers)

	fmt.Fprintln(w, "\nRevenue by category")
	for _, c := range productdomain.Categories {
		fmt.Fprintf(w, "  %s\t%.2f\n", c, o.RevenueByCategory[c])
	}

	fmt.Fprintln(w, "\nOrders by status")
	statuses := make([]string, 0, len(o.OrdersByStatus))
	for s := range o.OrdersByStatus {
		statuses = append(statuses, s)
	}
	sort.Strings(statuses)
	for _, s := range statuses {
		fmt.Fprintf(w, "  %s\t%d\n", s, o.OrdersByStatus[s])
	}

	fmt.Fprintln(w, "\nTop selling")
	for _, p := range o.TopSelling {
		fmt.Fprintf(w, "  %s\t%d sold\n", p.Name, p.Sold)
	}

	fmt.Fprintln(w, "\nRecent orders")
	for _, ord := range o.RecentOrders {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%.2f\n", ord.ID, ord.CustomerName, ord.Status, ord.Total)
	}

	fmt.Fprintln(w, "\nLow stock")
	for _, p := range o.LowStock {
		fmt.Fprintf(w, "  %s\t%d left\n", p.Name, p.Stock)
	}

	return w.Flush()
}
