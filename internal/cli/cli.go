// Package cli implements the bendchain command-line interface.
//
// Commands load a scene file, run it through the pipeline runner and print
// results with lipgloss styling. The main commands are:
//   - solve: place one bend after a predecessor from flags
//   - rig: link selected bends into a chain
//   - eval, animate: evaluate a scene once or over a frame range
//   - render: draw an evaluated scene as SVG, PNG, DOT or JSON
//   - tui: tune strengths and links interactively
//   - serve: run the HTTP API
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Logs go to
// stderr so they never mix with command output on stdout.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bendchain/internal/config"
	"github.com/matzehuels/bendchain/pkg/buildinfo"
	"github.com/matzehuels/bendchain/pkg/cache"
	sceneio "github.com/matzehuels/bendchain/pkg/io"
	"github.com/matzehuels/bendchain/pkg/observability"
	"github.com/matzehuels/bendchain/pkg/pipeline"
	"github.com/matzehuels/bendchain/pkg/scene"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "bendchain"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and the built-in
// configuration. The configuration file is read when a command runs.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level. At debug level the evaluation,
// cache and HTTP hooks also report to the logger.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level > log.DebugLevel {
		observability.Reset()
		return
	}
	hooks := observability.NewLogHooks(c.Logger)
	observability.SetEvalHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "bendchain places bend deformers along chains",
		Long:         `bendchain rigs bend deformers into chains: every bend after the first starts where its predecessor's curve ends and follows its tangent. Scenes are JSON, TOML or YAML documents.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/bendchain/config.toml)")

	// Register all subcommands
	root.AddCommand(c.solveCommand())
	root.AddCommand(c.rigCommand())
	root.AddCommand(c.evalCommand())
	root.AddCommand(c.animateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path)
	}
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(cache, nil, c.Logger)
	runner.EvalTTL = c.Config.Cache.TTL.Duration
	return runner, nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return cache.WithHooks(fc), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/bendchain/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Scene Helpers
// =============================================================================

// loadScene imports a scene file and logs its size.
func (c *CLI) loadScene(path string) (*scene.Scene, error) {
	s, err := sceneio.Import(path)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded scene", "path", path, "nodes", s.Len())
	return s, nil
}

// evaluate runs s through the pipeline's evaluation stage.
func (c *CLI) evaluate(ctx context.Context, s *scene.Scene, frame *float64, noCache bool) (*pipeline.Result, error) {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return nil, err
	}
	defer runner.Close()
	return runner.EvaluateWithCacheInfo(ctx, s, pipeline.Options{Frame: frame})
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// parseList splits a comma-separated list of node references.
func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// outputPath returns the path for one format of a multi-format output.
// Without a base the input's name is reused, never the input file itself.
func outputPath(base, input, format string, multi bool) string {
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
		if path := base + "." + format; path != input {
			return path
		}
		return base + ".out." + format
	}
	if !multi {
		return base
	}
	return strings.TrimSuffix(base, filepath.Ext(base)) + "." + format
}

// fmtVec formats a vector for display.
func fmtVec(v mgl64.Vec3) string {
	return fmt.Sprintf("(%.4g, %.4g, %.4g)", zero(v[0]), zero(v[1]), zero(v[2]))
}

// zero maps float noise around 0 to 0 so it does not print as -0.
func zero(v float64) float64 {
	if v > -1e-9 && v < 1e-9 {
		return 0
	}
	return v
}
