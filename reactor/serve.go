package reactor

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/ValentinKolb/tinyRedis/lib/common"
	"github.com/VictoriaMetrics/metrics"
)

// --------------------------------------------------------------------------
// Process-wide State
// --------------------------------------------------------------------------

// switcher is the run flag every reactor tests at the top of its loop.
// SIGINT/SIGTERM clear it.
var switcher atomic.Bool

// Stop clears the run flag; every reactor enters orderly shutdown at its next
// iteration.
func Stop() {
	switcher.Store(false)
}

// The slot table assigns each reactor a stable index used for CPU pinning.
// It is only touched at reactor construction and destruction.
var (
	slotMu    sync.Mutex
	slotTable []bool
)

func initSlotTable(size int) {
	slotMu.Lock()
	slotTable = make([]bool, size)
	slotMu.Unlock()
}

func acquireSlot() (int, error) {
	slotMu.Lock()
	defer slotMu.Unlock()

	for i, taken := range slotTable {
		if !taken {
			slotTable[i] = true
			return i, nil
		}
	}
	return 0, fmt.Errorf("no free slot: %d reactors already running", len(slotTable))
}

func releaseSlot(slot int) {
	slotMu.Lock()
	slotTable[slot] = false
	slotMu.Unlock()
}

// --------------------------------------------------------------------------
// Serve
// --------------------------------------------------------------------------

// Serve starts one reactor per worker on a shared listener and blocks until
// every reactor has drained after the run flag clears. All startup failures
// are fatal and returned before any worker runs.
func Serve(config *common.ServerConfig, handler Handler) error {
	listener, err := net.Listen("tcp", config.Endpoint)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", config.Endpoint, err)
	}

	installSignalHandler()
	if config.MetricsEndpoint != "" {
		serveMetrics(config.MetricsEndpoint)
	}

	return ServeListener(listener, config, handler)
}

// ServeListener is Serve for an already-bound listener.
func ServeListener(listener net.Listener, config *common.ServerConfig, handler Handler) error {
	workers := config.WorkerCount()
	initSlotTable(workers)
	switcher.Store(true)

	server := NewServer(listener)

	schedulers := make([]*Scheduler, 0, workers)
	for i := 0; i < workers; i++ {
		scheduler, err := NewScheduler(
			server,
			handler,
			config.QueueDepth/workers,
			config.BufferCount,
			config.BufferSize,
		)
		if err != nil {
			listener.Close()
			return err
		}
		schedulers = append(schedulers, scheduler)
	}

	Logger.Infof("serving on %s with %d workers", listener.Addr(), workers)

	var wg sync.WaitGroup
	for _, scheduler := range schedulers {
		wg.Add(1)
		go func(s *Scheduler) {
			defer wg.Done()
			s.Run()
		}(scheduler)
	}
	wg.Wait()

	Logger.Infof("all workers drained")
	return nil
}

// installSignalHandler clears the run flag on SIGINT/SIGTERM.
func installSignalHandler() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-ch
		Logger.Infof("received %s, shutting down", sig)
		Stop()
	}()
}

// serveMetrics exposes the VictoriaMetrics default set for scraping.
func serveMetrics(endpoint string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		metrics.WritePrometheus(w, true)
	})

	go func() {
		if err := http.ListenAndServe(endpoint, mux); err != nil {
			Logger.Warningf("metrics endpoint failed: %v", err)
		}
	}()
}
