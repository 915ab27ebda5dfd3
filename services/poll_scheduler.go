package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

// PollScheduler drives live polling for one game: started, it fetches
// immediately and then on a fixed interval until stopped or until a final
// snapshot has been fully processed. A fetch still running when the ticker
// fires is allowed to overlap; the recorder's dedupe key is the correctness
// backstop, not this scheduler.
type PollScheduler struct {
	gameID   string
	sync     *GameSyncService
	interval time.Duration

	mu       sync.Mutex
	ticker   *time.Ticker
	stopChan chan struct{}
	polling  bool
}

// NewPollScheduler creates a scheduler for one game
func NewPollScheduler(gameID string, syncService *GameSyncService, interval time.Duration) *PollScheduler {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &PollScheduler{
		gameID:   gameID,
		sync:     syncService,
		interval: interval,
	}
}

// Start transitions idle -> polling: an immediate fetch, then the repeating
// interval. Starting an already polling scheduler is a no-op.
func (p *PollScheduler) Start() {
	p.mu.Lock()
	if p.polling {
		p.mu.Unlock()
		log.Printf("PollScheduler: Game %s already polling", p.gameID)
		return
	}
	p.polling = true
	p.ticker = time.NewTicker(p.interval)
	p.stopChan = make(chan struct{})
	stopChan := p.stopChan
	ticker := p.ticker
	p.mu.Unlock()

	log.Printf("PollScheduler: Game %s polling every %v", p.gameID, p.interval)

	go p.poll()

	go func() {
		for {
			select {
			case <-ticker.C:
				go p.poll() // overlap tolerated, see type comment
			case <-stopChan:
				return
			}
		}
	}()
}

// Stop transitions polling -> idle. An in-flight fetch completes and its
// result is still recorded; only new fetches stop.
func (p *PollScheduler) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.polling {
		return
	}
	p.polling = false
	p.ticker.Stop()
	close(p.stopChan)
	log.Printf("PollScheduler: Game %s polling stopped", p.gameID)
}

// IsPolling reports whether the scheduler is in the polling state
func (p *PollScheduler) IsPolling() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.polling
}

// poll runs one fetch-and-process cycle
func (p *PollScheduler) poll() {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	outcome, err := p.sync.SyncGame(ctx, p.gameID)
	if err != nil {
		// Unknown game ids will never resolve; stop burning polls on them.
		if errors.Is(err, ErrGameNotFound) {
			log.Printf("PollScheduler: Game %s unknown at provider, stopping", p.gameID)
			p.Stop()
			return
		}
		log.Printf("PollScheduler: Game %s poll failed, retrying next interval: %v", p.gameID, err)
		return
	}

	if outcome.Completed {
		log.Printf("PollScheduler: Game %s final processed, stopping", p.gameID)
		p.Stop()
	}
}

// PollManager owns one scheduler per game so handlers can start and stop
// polling by game id.
type PollManager struct {
	sync     *GameSyncService
	interval time.Duration

	mu         sync.Mutex
	schedulers map[string]*PollScheduler
}

// NewPollManager creates an empty scheduler registry
func NewPollManager(syncService *GameSyncService, interval time.Duration) *PollManager {
	return &PollManager{
		sync:       syncService,
		interval:   interval,
		schedulers: make(map[string]*PollScheduler),
	}
}

// StartPolling begins (or resumes) polling for a game
func (m *PollManager) StartPolling(gameID string) {
	m.mu.Lock()
	scheduler, ok := m.schedulers[gameID]
	if !ok {
		scheduler = NewPollScheduler(gameID, m.sync, m.interval)
		m.schedulers[gameID] = scheduler
	}
	m.mu.Unlock()

	scheduler.Start()
}

// StopPolling stops polling for a game; unknown ids are a no-op
func (m *PollManager) StopPolling(gameID string) {
	m.mu.Lock()
	scheduler := m.schedulers[gameID]
	m.mu.Unlock()

	if scheduler != nil {
		scheduler.Stop()
	}
}

// IsPolling reports whether a game currently has an active scheduler
func (m *PollManager) IsPolling(gameID string) bool {
	m.mu.Lock()
	scheduler := m.schedulers[gameID]
	m.mu.Unlock()

	return scheduler != nil && scheduler.IsPolling()
}

// StopAll stops every active scheduler, used during shutdown
func (m *PollManager) StopAll() {
	m.mu.Lock()
	schedulers := make([]*PollScheduler, 0, len(m.schedulers))
	for _, s := range m.schedulers {
		schedulers = append(schedulers, s)
	}
	m.mu.Unlock()

	for _, s := range schedulers {
		s.Stop()
	}
}
