package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/nearstore/blockcache/cache"
	"github.com/nearstore/blockcache/metrics/prom"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var benchFlags struct {
	capacity    int
	shards      int
	workers     int
	keySpace    int
	duration    time.Duration
	metricsAddr string
}

func init() {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run a synthetic concurrent workload against the cache",
		Long: `bench spins up a cache and hammers it from several goroutines
with a mix of inserts, lookups, releases and erases for a fixed duration,
then reports hit/miss/eviction counters.

Example:
  blockcachectl bench --capacity 10000 --shards 16 --workers 32 --duration 5s
  blockcachectl bench --metrics-addr :9090   # also serve Prometheus metrics`,
		RunE: runBench,
	}
	cmd.Flags().IntVar(&benchFlags.capacity, "capacity", 10_000, "total cache capacity (charge units)")
	cmd.Flags().IntVar(&benchFlags.shards, "shards", 0, "shard count (0 = auto)")
	cmd.Flags().IntVar(&benchFlags.workers, "workers", 16, "number of concurrent workers")
	cmd.Flags().IntVar(&benchFlags.keySpace, "keys", 50_000, "number of distinct keys")
	cmd.Flags().DurationVar(&benchFlags.duration, "duration", 3*time.Second, "how long to run")
	cmd.Flags().StringVar(&benchFlags.metricsAddr, "metrics-addr", "", "if set, serve /metrics on this address for the run's duration")
	rootCmd.AddCommand(cmd)
}

func runBench(cmd *cobra.Command, args []string) error {
	reg := prometheus.NewRegistry()
	adapter := prom.New(reg, "blockcachectl", "bench", nil)

	c := cache.New(cache.Options{
		Capacity: benchFlags.capacity,
		Shards:   benchFlags.shards,
		Metrics:  adapter,
	})

	var server *http.Server
	if benchFlags.metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		server = &http.Server{Addr: benchFlags.metricsAddr, Handler: mux}
		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("metrics server: %v", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
		}()
		fmt.Fprintf(os.Stderr, "serving metrics on %s\n", benchFlags.metricsAddr)
	}

	deadline := time.Now().Add(benchFlags.duration)
	var wg sync.WaitGroup
	for w := 0; w < benchFlags.workers; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rnd := rand.New(rand.NewSource(seed))
			for time.Now().Before(deadline) {
				key := []byte(fmt.Sprintf("k%d", rnd.Intn(benchFlags.keySpace)))
				switch rnd.Intn(10) {
				case 0, 1:
					h := c.Insert(key, rnd.Int(), 1, nil)
					c.Release(h)
				case 2:
					c.Erase(key)
				default:
					if h, ok := c.Lookup(key); ok {
						_ = c.Value(h)
						c.Release(h)
					}
				}
			}
		}(int64(w) * 104729)
	}
	wg.Wait()

	stats := c.Stats()
	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(stats)
	}
	fmt.Printf("entries=%d size=%d hits=%d misses=%d evictions=%d\n",
		stats.Count, stats.Size, stats.Hits, stats.Misses, stats.Evictions)
	return nil
}
