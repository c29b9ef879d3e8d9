package cli

import (
	"context"
	"fmt"

	"github.com/bpmops/flowadmin/internal/bpm"
	"github.com/bpmops/flowadmin/internal/cache"
	"github.com/bpmops/flowadmin/internal/config"
	"github.com/bpmops/flowadmin/internal/logging"
)

// engineSource is the engine client with the process list served through the cache.
type engineSource struct {
	*bpm.Client

	processes *cache.Processes
}

// ListProcesses returns the deployed processes, from the cache when fresh.
func (s *engineSource) ListProcesses(ctx context.Context) ([]bpm.Process, error) {
	return s.processes.ListProcesses(ctx)
}

// newEngineSource validates cfg, creates the engine client and logs in when a
// username is configured.
func newEngineSource(ctx context.Context, cfg *config.Config) (*engineSource, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := logging.FromContext(ctx)

	client := bpm.New(cfg.Server.URL, bpm.WithLogger(*log), bpm.WithTimeout(cfg.Timeout()))
	if cfg.Server.Username != "" {
		if err := client.Login(ctx, cfg.Server.Username, cfg.Server.Password); err != nil {
			return nil, fmt.Errorf("logging in as %s: %w", cfg.Server.Username, err)
		}
	}

	store, err := cache.NewFileStore(cfg.CacheDir(), cfg.Cache.Enabled, cfg.CacheTTL())
	if err != nil {
		logger.Warn().Ctx(ctx).Err(err).Msg("process cache unavailable")
		store, _ = cache.NewFileStore("", false, 0)
	}

	return &engineSource{
		Client:    client,
		processes: cache.NewProcesses(client, store, cfg.Server.URL),
	}, nil
}
