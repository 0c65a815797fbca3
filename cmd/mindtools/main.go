// Mindtools: task tracking and structured reasoning MCP server
//
// Gives any MCP client a per-user todo list, a declared reasoning context,
// and a SQLite-backed long-term memory bank.
//
// Usage:
//
//	mindtools serve                  # Start MCP server (stdio transport)
//	mindtools serve --http :8080     # Start MCP server (streamable HTTP)
//	mindtools version                # Print the version
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/soon2moon/mindtools/internal/config"
	mtserver "github.com/soon2moon/mindtools/internal/server"
)

const shutdownTimeout = 5 * time.Second

var (
	// Global flags
	configPath string
	envFile    string
	debug      bool

	// Serve flags
	httpAddr string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "mindtools",
	Short: "Task tracking and structured reasoning MCP server",
	Long: `mindtools is an MCP server exposing a per-user todo list, a declared
reasoning context and a long-term memory bank to AI assistants.

Add it to your AI tool's MCP config:

  {
    "mcpServers": {
      "mindtools": {
        "command": "mindtools",
        "args": ["serve"]
      }
    }
  }`,
	SilenceUsage: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server (stdio, or streamable HTTP with --http)",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "mindtools v%s\n", mtserver.Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", config.DefaultEnvFile, "Path to a .env file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	serveCmd.Flags().StringVar(&httpAddr, "http", "", "Serve streamable HTTP on this address instead of stdio")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves the effective configuration from the .env file, the
// YAML file, the environment and the command-line flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := config.LoadEnvFile(envFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if debug {
		cfg.Debug = true
	}
	if f := cmd.Flags().Lookup("http"); f != nil && f.Changed {
		cfg.HTTPAddr = httpAddr
	}
	return cfg, nil
}

// newLogger builds a production logger. Output goes to stderr because
// stdout carries the stdio transport.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	if cfg.Debug {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	l, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return l, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err = newLogger(cfg)
	if err != nil {
		return err
	}

	s, cleanup, err := mtserver.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	if cfg.HTTPAddr == "" {
		logger.Info("serving MCP over stdio")
		return server.ServeStdio(s)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serveHTTP(ctx, server.NewStreamableHTTPServer(s), cfg.HTTPAddr)
}

// httpServer is the part of server.StreamableHTTPServer the run loop uses.
type httpServer interface {
	Start(addr string) error
	Shutdown(ctx context.Context) error
}

// serveHTTP runs srv until ctx is canceled or it fails, then shuts it down.
func serveHTTP(ctx context.Context, srv httpServer, addr string) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("serving MCP over streamable HTTP", zap.String("addr", addr))
		if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down HTTP server")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
