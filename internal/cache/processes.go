package cache

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog"

	"github.com/bpmops/flowadmin/internal/bpm"
	"github.com/bpmops/flowadmin/internal/logging"
)

// ProcessLister lists deployed processes. *bpm.Client implements it.
type ProcessLister interface {
	ListProcesses(ctx context.Context) ([]bpm.Process, error)
}

// Processes serves the process list from the store and falls back to the engine.
type Processes struct {
	src   ProcessLister
	store *FileStore
	key   string
}

// NewProcesses caches the process list of the engine at baseURL.
func NewProcesses(src ProcessLister, store *FileStore, baseURL string) *Processes {
	return &Processes{src: src, store: store, key: Key("processes", baseURL)}
}

// ListProcesses returns the cached list when fresh and refreshes it otherwise. Cache
// failures are logged and never fail the call.
func (p *Processes) ListProcesses(ctx context.Context) ([]bpm.Process, error) {
	log := logging.ComponentLogger(*logging.FromContext(ctx), "cache")

	if cached, ok := p.lookup(&log); ok {
		return cached, nil
	}

	processes, err := p.src.ListProcesses(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(processes); err == nil {
		if err := p.store.Set(p.key, data); err != nil && !errors.Is(err, ErrCacheDisabled) {
			log.Warn().Err(err).Msg("caching process list failed")
		}
	}
	return processes, nil
}

// Invalidate drops the cached list.
func (p *Processes) Invalidate() error {
	err := p.store.Delete(p.key)
	if errors.Is(err, ErrCacheDisabled) {
		return nil
	}
	return err
}

func (p *Processes) lookup(log *zerolog.Logger) ([]bpm.Process, bool) {
	entry, err := p.store.Get(p.key)
	switch {
	case err == nil:
	case errors.Is(err, ErrCacheDisabled), errors.Is(err, ErrCacheNotFound), errors.Is(err, ErrCacheExpired):
		return nil, false
	default:
		log.Debug().Err(err).Msg("process cache unreadable")
		return nil, false
	}

	var processes []bpm.Process
	if err := json.Unmarshal(entry.Data, &processes); err != nil {
		log.Debug().Err(err).Msg("process cache corrupted")
		return nil, false
	}
	log.Debug().Int("count", len(processes)).Msg("process list served from cache")
	return processes, true
}
