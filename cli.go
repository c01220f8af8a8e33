package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "imageanalyzer",
		Short: "Describe uploaded images with a hosted vision model",
		Long: `imageanalyzer serves a small web page where a named user uploads an
image and a prompt, and shows the description returned by the model.

Running without a command starts the web server.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", os.Getenv("IMAGEANALYZER_CONFIG"), "path to a YAML config file")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), configPath)
		},
	})
	root.AddCommand(newDescribeCmd(&configPath))

	return root
}

func loadApp(ctx context.Context, configPath string) (*app, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger := newLogger(os.Stderr, cfg.SlogLevel())
	return newApp(ctx, cfg, logger)
}

func runServe(ctx context.Context, configPath string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := loadApp(ctx, configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	handler := NewServer(a.store, a.gate, a.analyzer, a.activity, a.logger, a.cfg.AnalyzeRatePerMinute)
	defer handler.Close()

	srv := &http.Server{
		Addr:    ":" + a.cfg.Port,
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server started", "url", "http://localhost:"+a.cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("server exited", "err", err)
			return err
		}
		return nil
	case <-ctx.Done():
		a.logger.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newDescribeCmd(configPath *string) *cobra.Command {
	var user, prompt string

	cmd := &cobra.Command{
		Use:   "describe FILE",
		Short: "Describe a PNG or JPEG file from the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := loadApp(ctx, *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			return runDescribe(ctx, a, user, prompt, args[0], cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&user, "user", "u", os.Getenv("USER"), "name recorded in the activity log")
	cmd.Flags().StringVarP(&prompt, "prompt", "p", "", "question about the image (default \""+DefaultPrompt+"\")")

	return cmd
}

// runDescribe is the terminal rendition of login, upload and analyze.
func runDescribe(ctx context.Context, a *app, user, prompt, path string, out io.Writer) error {
	sess, err := a.gate.SubmitName(ctx, user)
	if err != nil {
		return errors.New(msgMissingName)
	}
	defer a.gate.Logout(ctx, sess)

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, _, err := DecodeImage(f)
	if err != nil {
		a.logger.Debug("decode image", "path", path, "err", err)
		record(ctx, a.activity, sess.UserName, activityImageProcessing, false)
		return errors.New(msgImageProcessing)
	}

	text, err := a.analyzer.Analyze(ctx, sess.UserName, prompt, img)
	if err != nil {
		return errors.New(msgAnalysisFailed)
	}

	fmt.Fprintln(out, text)
	return nil
}
