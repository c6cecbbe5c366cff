// Package worker retries playlist saves that failed on the request path.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ewilliams-labs/pacer/internal/core/domain"
	"github.com/ewilliams-labs/pacer/internal/core/ports"
	"github.com/ewilliams-labs/pacer/internal/observability"
)

const defaultSaveTimeout = 5 * time.Second

// Pool manages background workers that save playlists.
type Pool struct {
	repo        ports.PlaylistRepository
	jobs        chan domain.Playlist
	wg          sync.WaitGroup
	stopOnce    sync.Once
	logger      *slog.Logger
	metrics     *observability.Metrics
	saveTimeout time.Duration
}

// NewPool creates a pool with a queue of queueSize playlists.
// metrics may be nil.
func NewPool(repo ports.PlaylistRepository, queueSize int, logger *slog.Logger, metrics *observability.Metrics) *Pool {
	if queueSize < 1 {
		queueSize = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pool{
		repo:        repo,
		jobs:        make(chan domain.Playlist, queueSize),
		logger:      logger,
		metrics:     metrics,
		saveTimeout: defaultSaveTimeout,
	}
}

// Start launches the worker goroutines.
func (p *Pool) Start(workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for pl := range p.jobs {
				p.save(pl)
			}
		}()
	}
}

// Stop closes the queue and waits for queued playlists to be saved.
// Submit must not be called after Stop.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		close(p.jobs)
	})
	p.wg.Wait()
}

// Submit queues a playlist without blocking. It reports false when the
// queue is full and the playlist was dropped.
func (p *Pool) Submit(pl domain.Playlist) bool {
	select {
	case p.jobs <- pl:
		return true
	default:
		p.logger.Warn("worker: queue full, dropping playlist", slog.String("playlist_id", pl.ID))
		p.metrics.PersistDropped()
		return false
	}
}

func (p *Pool) save(pl domain.Playlist) {
	ctx, cancel := context.WithTimeout(context.Background(), p.saveTimeout)
	defer cancel()

	if err := p.repo.Save(ctx, pl); err != nil {
		p.logger.Error("worker: save playlist failed",
			slog.String("playlist_id", pl.ID), slog.Any("error", err))
		return
	}
	p.logger.Debug("worker: playlist saved", slog.String("playlist_id", pl.ID))
}
