// Command exchange is the process bootstrap: it wires a Clock, an
// InstrumentRegistry, a Matcher and an output Sink together, then runs an
// Acceptor against a TCP listener until told to stop. This plays the role
// of the teacher's main.go/cmd/benchmark/main.go, generalized from a
// single hardcoded BTCUSDT instrument and an in-process order generator
// into a real TCP front door.
package main

import (
	"context"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"matchcore/internal/clock"
	"matchcore/internal/egress"
	"matchcore/internal/instrument"
	"matchcore/internal/matching"
	"matchcore/internal/metrics"
)

func main() {
	ordersAddr := flag.String("listen", ":9000", "address to accept client order connections on")
	metricsAddr := flag.String("metrics", ":9090", "address to serve /metrics and /depth on")
	flag.Parse()

	registry := instrument.New()
	clk := clock.New()
	sink := egress.NewStdout(os.Stdout)

	promReg := prometheus.NewRegistry()
	counters := metrics.NewCounters(promReg)

	matcher := matching.New(registry, clk, metrics.Wrap(sink, counters))

	listener, err := net.Listen("tcp", *ordersAddr)
	if err != nil {
		log.Fatalf("exchange: listen %s: %v", *ordersAddr, err)
	}
	acceptor := NewAcceptor(listener, matcher)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/depth", depthHandler(registry))
	metricsServer := &http.Server{Addr: *metricsAddr, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return acceptor.Run(groupCtx)
	})

	group.Go(func() error {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		listener.Close()
		return metricsServer.Shutdown(context.Background())
	})

	log.Printf("exchange: orders on %s, metrics/depth on %s", *ordersAddr, *metricsAddr)

	if err := group.Wait(); err != nil {
		log.Printf("exchange: exiting: %v", err)
	}
}
