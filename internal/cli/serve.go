package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/kintreehq/kintree/internal/config"
	"github.com/kintreehq/kintree/internal/server"
	"github.com/kintreehq/kintree/pkg/viewstate"
)

// serveCommand creates the serve command that runs the editor's HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the family-tree editor HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (overrides config)")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg config.Config) error {
	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	blobs, err := openBlob(cfg)
	if err != nil {
		return err
	}

	viewDir, err := viewStateDir()
	if err != nil {
		return err
	}
	views, err := viewstate.NewFileStore(viewDir)
	if err != nil {
		return err
	}

	diagramCache := openCache(ctx, cfg, c.Logger)
	defer diagramCache.Close()

	srvCfg := server.Config{
		Store:    st,
		Blob:     blobs,
		Views:    views,
		Cache:    diagramCache,
		Logger:   c.Logger,
		Layout:   cfg.LayoutOptions(),
		CacheTTL: cfg.Cache.TTL.Std(),
	}
	if cfg.Blob.Backend == config.BlobLocal {
		srvCfg.UploadsDir = cfg.Blob.Local.Dir
	}

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.New(srvCfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", cfg.Server.Addr, "store", cfg.Store.Backend, "blob", cfg.Blob.Backend)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		c.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	}
}
