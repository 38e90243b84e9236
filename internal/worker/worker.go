package worker

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Worker runs scheduled full syncs on a ticker. Manual syncs share the
// same running flag so only one batch runs at a time.
type Worker struct {
	Orchestrator *Orchestrator
	Store        *Store
	Ticker       *time.Ticker
	StopChan     chan bool
	mu           sync.Mutex
	running      bool
	active       bool
}

func NewWorker(o *Orchestrator, store *Store) *Worker {
	return &Worker{
		Orchestrator: o,
		Store:        store,
		StopChan:     make(chan bool),
	}
}

func (w *Worker) Start(interval time.Duration) {
	w.mu.Lock()
	if w.active {
		w.mu.Unlock()
		log.Println("Worker: Scheduler already active, use Restart to change interval")
		return
	}
	w.active = true
	w.mu.Unlock()

	w.Ticker = time.NewTicker(interval)
	go func() {
		defer func() {
			w.mu.Lock()
			w.active = false
			w.mu.Unlock()
		}()
		for {
			select {
			case <-w.Ticker.C:
				w.SyncAll(context.Background())
			case <-w.StopChan:
				w.Ticker.Stop()
				return
			}
		}
	}()
	log.Printf("Background worker started with interval: %v", interval)
}

func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.active {
		w.mu.Unlock()
		log.Println("Worker: Scheduler not active")
		return
	}
	w.mu.Unlock()

	w.StopChan <- true
	log.Println("Background worker stopped")
}

func (w *Worker) Restart(interval time.Duration) {
	w.mu.Lock()
	isActive := w.active
	w.mu.Unlock()

	if isActive {
		w.Stop()
		time.Sleep(100 * time.Millisecond)
	}
	w.Start(interval)
}

func (w *Worker) IsActive() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

// SyncAll runs one full batch unless a batch is already in flight.
func (w *Worker) SyncAll(ctx context.Context) (BatchSummary, bool) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		log.Println("Worker: Sync already in progress, skipping...")
		return BatchSummary{}, false
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	brands, err := w.Store.ListBrandHandles(ctx)
	if err != nil {
		log.Printf("Worker: Error loading brands: %v", err)
		return BatchSummary{}, false
	}

	log.Printf("Worker: Starting sync for %d brands...", len(brands))
	return w.Orchestrator.SyncAll(ctx, brands), true
}

// SyncSelected runs one batch over the given brands only, sharing the
// running flag with full batches.
func (w *Worker) SyncSelected(ctx context.Context, ids []uuid.UUID) (BatchSummary, bool) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		log.Println("Worker: Sync already in progress, skipping...")
		return BatchSummary{}, false
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	brands, err := w.Store.ListBrandHandlesByIDs(ctx, ids)
	if err != nil {
		log.Printf("Worker: Error loading brands: %v", err)
		return BatchSummary{}, false
	}

	log.Printf("Worker: Starting sync for %d selected brands...", len(brands))
	return w.Orchestrator.SyncAll(ctx, brands), true
}

// SyncBrand runs one brand through the orchestrator, sharing the
// running flag with full batches.
func (w *Worker) SyncBrand(ctx context.Context, brand BrandHandle) ([]SyncResult, bool) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		log.Println("Worker: Sync already in progress, skipping...")
		return nil, false
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	return w.Orchestrator.SyncBrand(ctx, brand), true
}

// IsSyncing reports whether a batch is currently in flight.
func (w *Worker) IsSyncing() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
