package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/slidesync/internal/editor"
	"github.com/ziadkadry99/slidesync/internal/persist"
	"github.com/ziadkadry99/slidesync/internal/server"
	"github.com/ziadkadry99/slidesync/internal/slides"
)

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the slide editor server",
	Long:  `Starts the slidesync editor: the browser UI, its JSON API and the WebSocket channel that keeps preview, selection and presentation in sync.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, closeLog, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer closeLog()

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		d, err := openDeck(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer d.Close()

		writer := persist.NewWriter(d.adapter, logger.Named("persist"))
		defer writer.Close()

		store, err := slides.NewStore(d.slides)
		if err != nil {
			return fmt.Errorf("loading slides: %w", err)
		}

		hub := editor.NewHub(logger.Named("ws"))
		sess := editor.NewSession(store, hub, writer, editor.Config{
			StylesheetURL: cfg.Render.StylesheetURL,
			DefaultScale:  cfg.Render.DefaultScale,
			IdleTimeout:   cfg.IdleTimeout(),
			Title:         "slidesync",
			Logger:        logger.Named("editor"),
		})
		sess.Subscribe(hub.Broadcast)

		port := cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port = serverPort
		}
		srv := server.New(server.Config{
			Port:     port,
			AllowAll: cfg.Server.AllowAllOrigins,
		}, logger)
		editor.RegisterRoutes(srv.Router(), sess, hub)

		go func() {
			<-ctx.Done()
			logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("shutdown", zap.Error(err))
			}
		}()

		fmt.Fprintf(os.Stderr, "slidesync %s editor at http://localhost:%d\n", Version, port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", d.db.Path())
		fmt.Fprintf(os.Stderr, "  Slides: %d\n", store.Len())

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return writer.Flush(context.Background())
	},
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Port to listen on (overrides server.port)")
	rootCmd.AddCommand(serverCmd)
}
