package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bendchain/pkg/cache"
	"github.com/matzehuels/bendchain/pkg/pipeline"
	"github.com/matzehuels/bendchain/pkg/server"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr    string // listen address
	redis   string // Redis address; empty uses the file cache
	redisDB int    // Redis database number
	prefix  string // cache key prefix for a shared Redis
	noCache bool   // disable caching
}

// serveCommand creates the serve command, which exposes the solver and the
// evaluate/render pipeline over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the solver over HTTP",
		Long: `Serve starts a JSON HTTP API:

  GET  /healthz       liveness probe
  POST /v1/solve      place one bend after a predecessor
  POST /v1/evaluate   evaluate a scene document
  POST /v1/render     evaluate and draw a scene

With --redis, evaluations and drawings are cached in Redis so several
servers can share them. Otherwise the local file cache is used.`,
		Example: `  bendchain serve
  bendchain serve --addr :9000 --redis localhost:6379`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc := c.Config.Server
			if !cmd.Flags().Changed("addr") {
				opts.addr = sc.Addr
			}
			if !cmd.Flags().Changed("redis") {
				opts.redis = sc.Redis
			}
			if !cmd.Flags().Changed("redis-db") {
				opts.redisDB = sc.RedisDB
			}
			if !cmd.Flags().Changed("key-prefix") {
				opts.prefix = sc.KeyPrefix
			}
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVar(&opts.redis, "redis", "", "Redis address for a shared cache")
	cmd.Flags().IntVar(&opts.redisDB, "redis-db", 0, "Redis database number")
	cmd.Flags().StringVar(&opts.prefix, "key-prefix", "", "cache key prefix")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	runner, err := c.serveRunner(ctx, opts)
	if err != nil {
		return err
	}
	defer runner.Close()

	srv := server.New(runner, server.WithLogger(c.Logger))
	printInfo("Listening on %s", StyleHighlight.Render(opts.addr))
	if err := srv.ListenAndServe(ctx, opts.addr); err != nil {
		return err
	}
	printSuccess("Server stopped")
	return nil
}

// serveRunner builds the server's pipeline runner. A Redis cache is scoped
// by the key prefix so several deployments can share one database.
func (c *CLI) serveRunner(ctx context.Context, opts serveOpts) (*pipeline.Runner, error) {
	if opts.noCache || opts.redis == "" {
		return c.newRunner(opts.noCache)
	}

	rc, err := cache.NewRedisCache(ctx, opts.redis, opts.redisDB)
	if err != nil {
		return nil, fmt.Errorf("connect redis %s: %w", opts.redis, err)
	}
	c.Logger.Info("using redis cache", "addr", opts.redis, "db", opts.redisDB, "prefix", opts.prefix)

	runner := pipeline.NewRunner(cache.WithHooks(rc), cache.NewScopedKeyer(nil, opts.prefix), c.Logger)
	runner.EvalTTL = c.Config.Cache.TTL.Duration
	return runner, nil
}
