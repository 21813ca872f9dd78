// Command flow is a CLI for inspecting and editing flow documents with the
// flow-toolkit core.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ha1tch/flow-toolkit/pkg/flowfile"
	"github.com/ha1tch/flow-toolkit/pkg/store"
)

var version = "0.3.0"

// app is the state shared by every command after flag parsing.
type app struct {
	configPath string
	logLevel   string

	cfg *flowfile.Config
	log *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		Bad.Fprintf(os.Stderr, "flow: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "flow",
		Short: "flow - node graph toolkit",
		Long: Brand.Sprint("flow") + " - inspect and edit node graph documents\n" +
			Subtle.Sprint("Edge paths, connection resolution, drag clamping and change lists"),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.ErrOrStderr())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	root.SetVersionTemplate("flow {{ .Version }}\n")
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default "+flowfile.DefaultConfigPath()+")")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override the configured log level")

	root.AddCommand(
		pathCmd(a),
		connectCmd(a),
		clampCmd(a),
		applyCmd(a),
		infoCmd(a),
		validateCmd(a),
		convertCmd(a),
		dotCmd(a),
		watchCmd(a),
		configCmd(a),
	)
	return root
}

// init loads the config and builds the logger.
func (a *app) init(logOut io.Writer) error {
	cfg, err := flowfile.LoadConfig(a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}

	log, err := newLogger(cfg.Log, logOut)
	if err != nil {
		return err
	}

	a.cfg, a.log = cfg, log
	return nil
}

// newLogger builds a console logger for development and a JSON logger
// otherwise, writing to w.
func newLogger(cfg flowfile.LogConfig, w io.Writer) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	var enc zapcore.Encoder
	if cfg.Development {
		enc = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	} else {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(w), level)
	opts := []zap.Option{zap.AddCaller()}
	if cfg.Development {
		opts = append(opts, zap.Development())
	}
	return zap.New(core, opts...), nil
}

// openStore loads the document at path into a new store.
func (a *app) openStore(path string, opts ...store.Option) (*store.Store, *flowfile.Document, error) {
	doc, err := flowfile.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	if err := flowfile.Validate(doc); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	opts = append([]store.Option{
		store.WithLogger(a.log.With(zap.String("doc", path))),
		store.WithConfig(a.cfg),
		store.WithDocument(doc),
	}, opts...)

	s := store.New(opts...)
	a.log.Debug("document loaded",
		zap.String("path", path),
		zap.Int("nodes", len(doc.Nodes)),
		zap.Int("edges", len(doc.Edges)))
	return s, doc, nil
}

// save writes the store's document to path, keeping the original viewport.
func (a *app) save(s *store.Store, src *flowfile.Document, path string) error {
	doc := s.Document()
	doc.Viewport = src.Viewport
	if err := flowfile.WriteFile(path, doc); err != nil {
		return err
	}
	a.log.Info("document written", zap.String("path", path))
	return nil
}
