package jobs

import (
	"log"
	"time"

	"github.com/My-riad/jit-tdexn2-sub003/internal/models"
	"github.com/My-riad/jit-tdexn2-sub003/internal/storage"
)

// ExpiryJob periodically marks loads whose pickup window lapsed before a
// carrier took them as EXPIRED.
type ExpiryJob struct {
	store    storage.Store
	interval time.Duration
	stop     chan struct{}
	running  bool
}

// NewExpiryJob creates an expiry sweeper. A non-positive interval falls back
// to the 15 minute default.
func NewExpiryJob(store storage.Store, interval time.Duration) *ExpiryJob {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &ExpiryJob{
		store:    store,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start begins the periodic sweep
func (j *ExpiryJob) Start() {
	if j.running {
		log.Println("Expiry job already running")
		return
	}
	j.running = true
	log.Printf("Starting load expiry sweeper (every %v)", j.interval)

	go func() {
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				j.Sweep()
			case <-j.stop:
				return
			}
		}
	}()
}

// Stop halts the sweeper
func (j *ExpiryJob) Stop() {
	if !j.running {
		return
	}
	j.running = false
	close(j.stop)
	log.Println("Stopped load expiry sweeper")
}

// Sweep expires every load still waiting for a carrier whose pickup window
// has already closed. Errors on individual loads are logged and skipped so
// one bad row doesn't stall the rest.
func (j *ExpiryJob) Sweep() {
	loads, err := j.store.GetExpirableLoads(time.Now())
	if err != nil {
		log.Printf("Expiry sweep failed: %v", err)
		return
	}
	if len(loads) == 0 {
		return
	}

	expired := 0
	for _, load := range loads {
		if err := j.store.UpdateLoadStatus(load.LoadID, models.StatusExpired); err != nil {
			log.Printf("Failed to expire load %s: %v", load.LoadID, err)
			continue
		}
		expired++
	}
	log.Printf("Expired %d load(s) past their pickup window", expired)
}
