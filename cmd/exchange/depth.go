package main

import (
	"fmt"
	"net/http"

	"matchcore/internal/instrument"
)

// depthHandler exposes a read-only market-depth snapshot for one
// instrument, supplementing the spec per original_source/engine.hpp's
// absence of any reporting surface — see SPEC_FULL.md's "Depth/snapshot
// read API" entry. It is pure read traffic against PriceTimeBook's
// already-existing read lock; it never touches a SideGate.
func depthHandler(registry *instrument.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		symbol := r.URL.Query().Get("instrument")
		if symbol == "" {
			http.Error(w, "missing instrument query parameter", http.StatusBadRequest)
			return
		}

		books := registry.Get(symbol)

		fmt.Fprintf(w, "instrument: %s\n", symbol)
		fmt.Fprintln(w, "bids:")
		for _, level := range books.Buy.Depth(10) {
			fmt.Fprintf(w, "  %d @ %d (%d orders)\n", level.Volume, level.Price, level.Orders)
		}
		fmt.Fprintln(w, "asks:")
		for _, level := range books.Sell.Depth(10) {
			fmt.Fprintf(w, "  %d @ %d (%d orders)\n", level.Volume, level.Price, level.Orders)
		}
	}
}
