// Command storectl inspects and resets the persisted storefront state and
// queries the catalog from a terminal.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrKriegler/go-storefront/internal/core"
	"github.com/MrKriegler/go-storefront/internal/platform/config"
	"github.com/MrKriegler/go-storefront/internal/platform/logging"
	"github.com/MrKriegler/go-storefront/internal/store"
)

type app struct {
	cfg     *config.Config
	log     *slog.Logger
	out     io.Writer
	backend *store.Backend
	verbose bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(&app{out: os.Stdout}).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:          "storectl",
		Short:        "Inspect and reset go-storefront state",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg
			if a.verbose {
				a.log = logging.NewWithWriter(cfg.Env, cmd.ErrOrStderr())
			} else {
				a.log = logging.Discard()
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if a.backend == nil {
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return a.backend.Close(ctx)
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log to stderr")

	root.AddCommand(
		newCartCmd(a),
		newFavoritesCmd(a),
		newCatalogCmd(a),
		newGetCmd(a),
	)
	return root
}

// open connects to the configured store once per invocation.
func (a *app) open(ctx context.Context) (*store.Backend, error) {
	if a.backend != nil {
		return a.backend, nil
	}
	b, err := store.Open(ctx, a.cfg, a.log)
	if err != nil {
		return nil, err
	}
	a.backend = b
	return b, nil
}

// storefront loads the cart and favorites with write-through persistence so
// changes land before the command exits.
func (a *app) storefront(ctx context.Context, publisher core.OrderPublisher) (*core.Storefront, error) {
	b, err := a.open(ctx)
	if err != nil {
		return nil, err
	}
	persister := core.NewDirectPersister(b.KV, time.Duration(a.cfg.PersistTimeoutMs)*time.Millisecond)
	cart := core.NewCartLedger(b.KV, persister, a.cfg.CartKey, a.log)
	sf := &core.Storefront{
		Cart:      cart,
		Favorites: core.NewFavoritesSet(b.KV, persister, a.cfg.FavoritesKey, a.log),
		Checkout:  core.NewCheckoutService(cart, publisher, a.log),
	}
	sf.Load(ctx)
	return sf, nil
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
