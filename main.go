package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"pdfmerge/api"
	"pdfmerge/files"
	"pdfmerge/pdf"
	"pdfmerge/session"
)

// Version is set at build time
var Version = "dev"

const (
	// DefaultMaxFileSize is the default maximum file size (10MB)
	DefaultMaxFileSize = 10 * 1024 * 1024

	// DefaultPort is the default server port
	DefaultPort = "8080"

	// ServerReadTimeout is the HTTP server read timeout
	ServerReadTimeout = 15 * time.Second

	// ServerWriteTimeout is the HTTP server write timeout
	ServerWriteTimeout = 15 * time.Second

	// ServerIdleTimeout is the HTTP server idle timeout
	ServerIdleTimeout = 60 * time.Second

	// GracefulShutdownTimeout is the timeout for graceful shutdown
	GracefulShutdownTimeout = 10 * time.Second
)

func main() {
	// A missing .env file is fine
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logrus.New()
	logger.SetLevel(parseLogLevel(os.Getenv("LOG_LEVEL")))
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	app := newApp(logger)
	if err := app.Run(ctx, os.Args); err != nil {
		logger.WithError(err).Error("Command failed")
		fmt.Fprintln(os.Stderr, color.RedString("Error: %s", session.Message(err)))
		os.Exit(1)
	}
}

// backendFlags configures the pdfcpu backend; each command gets its own instances
func backendFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "strict",
			Usage:   "Reject PDFs that need repairs to be read",
			Sources: cli.EnvVars("PDF_STRICT_VALIDATION"),
		},
		&cli.BoolFlag{
			Name:    "optimize",
			Usage:   "Optimize every generated PDF",
			Sources: cli.EnvVars("PDF_OPTIMIZE_OUTPUT"),
		},
		&cli.StringFlag{
			Name:    "split-suffix",
			Value:   pdf.DefaultSplitSuffix,
			Usage:   "Suffix appended to the name of split outputs",
			Sources: cli.EnvVars("SPLIT_SUFFIX"),
		},
	}
}

func serveFlags() []cli.Flag {
	return append([]cli.Flag{
		&cli.StringFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Value:   getEnv("PORT", DefaultPort),
			Usage:   "Port to listen on",
		},
		&cli.Int64Flag{
			Name:  "max-file-size",
			Value: getEnvInt64("MAX_FILE_SIZE", DefaultMaxFileSize),
			Usage: "Maximum accepted upload size in bytes",
		},
	}, backendFlags()...)
}

func newApp(logger *logrus.Logger) *cli.Command {
	serve := &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP server",
		Flags: serveFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runServer(ctx, cmd, logger)
		},
	}

	return &cli.Command{
		Name:           "pdfmerge",
		Usage:          "Merge PDF files or extract pages from one",
		Version:        Version,
		DefaultCommand: serve.Name,
		Commands: []*cli.Command{
			serve,
			{
				Name:      "merge",
				Usage:     "Merge PDF files in the order given",
				ArgsUsage: "FILE FILE [FILE...]",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file (default: " + pdf.MergedFilename + ")",
					},
				}, backendFlags()...),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					sess := newSession(cmd, logger)
					if err := addFiles(sess, cmd.Args().Slice()); err != nil {
						return err
					}
					out, err := sess.Merge()
					if err != nil {
						return err
					}
					return writeOutput(out, cmd.String("output"))
				},
			},
			{
				Name:      "split",
				Usage:     "Extract pages from a PDF file",
				ArgsUsage: "FILE",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "pages",
						Aliases:  []string{"p"},
						Usage:    `Pages to extract, e.g. "1-3,5"`,
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file (default: derived from the input name)",
					},
				}, backendFlags()...),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 1 {
						return fmt.Errorf("split takes exactly one file, got %d", cmd.Args().Len())
					}
					sess := newSession(cmd, logger)
					if err := addFiles(sess, cmd.Args().Slice()); err != nil {
						return err
					}
					out, err := sess.Split(cmd.String("pages"))
					if err != nil {
						return err
					}
					return writeOutput(out, cmd.String("output"))
				},
			},
			{
				Name:  "version",
				Usage: "Print version information",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					fmt.Printf("pdfmerge version %s\n", Version)
					return nil
				},
			},
		},
	}
}

func newSession(cmd *cli.Command, logger *logrus.Logger) *session.Session {
	backend := pdf.NewPdfcpuBackend(pdf.PdfcpuOptions{
		StrictValidation: cmd.Bool("strict"),
		OptimizeOutput:   cmd.Bool("optimize"),
	})
	return session.New(backend, logger, session.Options{
		SplitSuffix: cmd.String("split-suffix"),
	})
}

func runServer(ctx context.Context, cmd *cli.Command, logger *logrus.Logger) error {
	config := &api.Config{
		Port:        cmd.String("port"),
		MaxFileSize: cmd.Int64("max-file-size"),
	}

	if os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	sess := newSession(cmd, logger)

	r := gin.New()
	r.Use(gin.Recovery(), api.RequestLogger(logger))
	r.MaxMultipartMemory = config.MaxFileSize

	api.SetupRoutes(r, config, sess, logger)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "pdfmerge",
		})
	})

	// Create HTTP server with timeout settings
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", config.Port),
		Handler:      r,
		ReadTimeout:  ServerReadTimeout,
		WriteTimeout: ServerWriteTimeout,
		IdleTimeout:  ServerIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"addr":          srv.Addr,
			"max_file_size": config.MaxFileSize,
		}).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), GracefulShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("Server exited gracefully")
	return nil
}

// addFiles loads files from disk into the session in argument order
func addFiles(sess *session.Session, paths []string) error {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		if !pdf.SniffPDF(data) {
			fmt.Fprintln(os.Stderr, color.YellowString("Skipped %s: not a PDF file", path))
			continue
		}
		if _, err := sess.AddFile(filepath.Base(path), data); err != nil {
			if errors.Is(err, files.ErrDuplicateFile) {
				fmt.Fprintln(os.Stderr, color.YellowString("Skipped %s: already added", path))
				continue
			}
			return err
		}
	}
	return nil
}

func writeOutput(out *pdf.OutputDocument, path string) error {
	if path == "" {
		path = out.Filename
	}
	if err := os.WriteFile(path, out.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Println(color.GreenString("Wrote %s (%d pages, %s)", path, out.Pages, files.FormatBytes(int64(len(out.Data)), 2)))
	return nil
}

func parseLogLevel(level string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
