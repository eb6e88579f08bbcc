package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrKriegler/go-storefront/internal/catalog"
	"github.com/MrKriegler/go-storefront/internal/core"
	"github.com/MrKriegler/go-storefront/internal/events"
)

func newCartCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "cart", Short: "Persisted cart"}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the stored cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sf, err := a.storefront(cmd.Context(), events.NewLogPublisher(a.log))
			if err != nil {
				return err
			}
			return a.printJSON(sf.Cart.Snapshot())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Empty the stored cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sf, err := a.storefront(cmd.Context(), events.NewLogPublisher(a.log))
			if err != nil {
				return err
			}
			before := sf.Cart.TotalItemCount()
			if _, err := sf.Dispatch(cmd.Context(), core.ClearCart{}); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "cleared %d item(s) from %s\n", before, a.cfg.CartKey)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "quote",
		Short: "Price the stored cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sf, err := a.storefront(cmd.Context(), events.NewLogPublisher(a.log))
			if err != nil {
				return err
			}
			sum, err := sf.Checkout.Quote(core.CartCheckout(sf.Cart.Lines()))
			if err != nil {
				return err
			}
			return a.printJSON(sum)
		},
	})

	return cmd
}

func newFavoritesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "favorites", Short: "Persisted favorites"}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print stored favorites in insertion order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sf, err := a.storefront(cmd.Context(), events.NewLogPublisher(a.log))
			if err != nil {
				return err
			}
			return a.printJSON(sf.Favorites.Snapshot())
		},
	})

	return cmd
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Print the raw stored value for KEY",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			v, ok, err := b.KV.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%s: %w", args[0], core.ErrNotFound)
			}
			fmt.Fprintln(a.out, v)
			return nil
		},
	}
}

func newCatalogCmd(a *app) *cobra.Command {
	var (
		page int
		sort string
	)

	search := &cobra.Command{
		Use:   "search [QUERY]",
		Short: "Fetch one catalog page",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			order, err := core.ParseSortOrder(sort)
			if err != nil {
				return err
			}

			src, err := catalog.NewClient(a.cfg.CatalogBaseURL, time.Duration(a.cfg.CatalogTimeoutSec)*time.Second)
			if err != nil {
				return err
			}
			pager := core.NewCatalogPager(src, a.cfg.CatalogPageSize, a.log)
			st, err := pager.LoadPage(cmd.Context(), page, false, query)
			if err != nil {
				return fmt.Errorf("%s: %w", core.UserMessage(err), err)
			}
			if order != core.SortDefault {
				if st, err = pager.ChangeSort(order); err != nil {
					return err
				}
			}

			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tPRICE\tRATING\tCATEGORY")
			for _, p := range st.Items {
				fmt.Fprintf(tw, "%s\t%s\t%.2f\t%.2f\t%s\n", p.ID, p.Title, p.Price, p.Rating, p.Category)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "\npage %d: %d of %d\n", st.Page, len(st.Items), st.TotalAvailable)
			return nil
		},
	}
	search.Flags().IntVarP(&page, "page", "p", 0, "zero-based page index")
	search.Flags().StringVarP(&sort, "sort", "s", "", "default, price_asc, price_desc or alpha")

	cmd := &cobra.Command{Use: "catalog", Short: "Remote catalog"}
	cmd.AddCommand(search)
	return cmd
}
