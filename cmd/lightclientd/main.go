// Copyright 2025 Certen Protocol
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Command lightclientd wires the header-chain validator and withdrawal
// dispatcher into a long-running process: it loads configuration, exposes
// Prometheus metrics, and serves Advance/Execute over a minimal HTTP API so
// a host chain's relayer can submit headers and execution payloads.
package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"

	dbm "github.com/cometbft/cometbft-db"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/certen/bft-lightclient/pkg/assetledger"
	"github.com/certen/bft-lightclient/pkg/config"
	"github.com/certen/bft-lightclient/pkg/events"
	"github.com/certen/bft-lightclient/pkg/kvdb"
	"github.com/certen/bft-lightclient/pkg/lightclient"
	"github.com/certen/bft-lightclient/pkg/metrics"
	"github.com/certen/bft-lightclient/pkg/withdrawal"
	"github.com/certen/bft-lightclient/pkg/xcrypto"
)

func decodeHex(s string) ([]byte, error) {
	return hex.DecodeString(s)
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the engine's YAML configuration file")
	genesisPath := flag.String("genesis-header", "", "path to the raw genesis header bytes")
	listenAddr := flag.String("listen-addr", ":8090", "address to serve the Advance/Execute HTTP API on")
	metricsAddr := flag.String("metrics-addr", ":9090", "address to serve Prometheus metrics on")
	flag.Parse()

	logger := log.New(log.Writer(), "[lightclientd] ", log.LstdFlags)

	cfg, err := config.LoadEngineConfig(*configPath)
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Printf("loaded config for chain %q, quorum %d/%d", cfg.ChainName, cfg.Quorum.Numerator, cfg.Quorum.Denominator)

	if *genesisPath == "" {
		logger.Fatal("missing -genesis-header")
	}
	genesisBytes, err := os.ReadFile(*genesisPath)
	if err != nil {
		logger.Fatalf("failed to read genesis header: %v", err)
	}

	state, decErr := lightclient.New(genesisBytes)
	if decErr != nil {
		logger.Fatalf("failed to construct light-client state: %v", decErr)
	}
	logger.Printf("light-client state constructed at height %d", state.CurrentHeight())

	ledger := assetledger.New(kvdb.NewKVAdapter(dbm.NewMemDB()))
	seenTx := events.NewSeenTxTracker()

	var collectors *metrics.Collectors
	if cfg.MetricsEnabled {
		collectors = metrics.New(prometheus.DefaultRegisterer)
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			logger.Printf("serving Prometheus metrics on %s", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
				logger.Printf("metrics server stopped: %v", err)
			}
		}()
	}

	hooks := &logHooks{logger: logger}

	// Advance mutates State and Execute reads it while mutating the
	// AssetLedger; the withdrawal package (HostHooks) documents that the
	// engine never serializes these calls itself (spec.md §5). This single
	// mutex is the host-side serialization that contract assumes, covering
	// both entry points.
	var writeMu sync.Mutex

	mux := http.NewServeMux()
	mux.HandleFunc("/advance", newAdvanceHandler(logger, state, cfg, hooks, collectors, &writeMu))
	mux.HandleFunc("/execute", newExecuteHandler(logger, state, cfg, ledger, hooks, seenTx, collectors, &writeMu))

	logger.Printf("serving Advance/Execute API on %s", *listenAddr)
	if err := http.ListenAndServe(*listenAddr, mux); err != nil {
		logger.Fatalf("API server stopped: %v", err)
	}
}

// logHooks is the default HostHooks implementation: it logs every emitted
// event with a correlation ID rather than forwarding it to a message bus,
// leaving real event transport to whatever host embeds this engine.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) EmitEvent(evt withdrawal.Event) {
	correlationID := uuid.New()
	h.logger.Printf("[%s] event=%s attributes=%v", correlationID, evt.Type, evt.Attributes)
}

type advanceRequest struct {
	NewHeaderHex string `json:"newHeaderHex"`
	ProofHex     string `json:"proofHex"`
}

func newAdvanceHandler(logger *log.Logger, state *lightclient.State, cfg *config.EngineConfig, hooks withdrawal.HostHooks, collectors *metrics.Collectors, writeMu *sync.Mutex) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		correlationID := uuid.New()
		var req advanceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, fmt.Sprintf("[%s] invalid request body: %v", correlationID, err), http.StatusBadRequest)
			return
		}

		newHeaderBytes, headerBytesErr := decodeHex(req.NewHeaderHex)
		if headerBytesErr != nil {
			http.Error(w, fmt.Sprintf("[%s] invalid newHeaderHex: %v", correlationID, headerBytesErr), http.StatusBadRequest)
			return
		}
		proofBytes, proofBytesErr := decodeHex(req.ProofHex)
		if proofBytesErr != nil {
			http.Error(w, fmt.Sprintf("[%s] invalid proofHex: %v", correlationID, proofBytesErr), http.StatusBadRequest)
			return
		}

		writeMu.Lock()
		defer writeMu.Unlock()

		if err := lightclient.Advance(state, newHeaderBytes, proofBytes, cfg.Quorum.ToParams()); err != nil {
			collectors.ObserveAdvance(string(err.Kind), state.CurrentHeight())
			logger.Printf("[%s] Advance rejected: %v", correlationID, err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		collectors.ObserveAdvance("accepted", state.CurrentHeight())
		if hooks != nil {
			hooks.EmitEvent(events.UpdateLightClient(state.CurrentHeight(), state.LastHeader()))
		}
		logger.Printf("[%s] Advance accepted, new height %d", correlationID, state.CurrentHeight())
		fmt.Fprintf(w, `{"height":%d}`, state.CurrentHeight())
	}
}

type executeRequest struct {
	TransactionHex      string `json:"transactionHex"`
	ExecutionPayloadHex string `json:"executionPayloadHex"`
	BlockHeight         uint64 `json:"blockHeight"`
	MerkleProofHex      string `json:"merkleProofHex"`
}

func newExecuteHandler(
	logger *log.Logger,
	state *lightclient.State,
	cfg *config.EngineConfig,
	ledger withdrawal.AssetLedger,
	hooks withdrawal.HostHooks,
	seenTx *events.SeenTxTracker,
	collectors *metrics.Collectors,
	writeMu *sync.Mutex,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		correlationID := uuid.New()
		var req executeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, fmt.Sprintf("[%s] invalid request body: %v", correlationID, err), http.StatusBadRequest)
			return
		}

		transactionBytes, txErr := decodeHex(req.TransactionHex)
		if txErr != nil {
			http.Error(w, fmt.Sprintf("[%s] invalid transactionHex: %v", correlationID, txErr), http.StatusBadRequest)
			return
		}
		payloadBytes, payloadErr := decodeHex(req.ExecutionPayloadHex)
		if payloadErr != nil {
			http.Error(w, fmt.Sprintf("[%s] invalid executionPayloadHex: %v", correlationID, payloadErr), http.StatusBadRequest)
			return
		}
		proofBytes, proofErr := decodeHex(req.MerkleProofHex)
		if proofErr != nil {
			http.Error(w, fmt.Sprintf("[%s] invalid merkleProofHex: %v", correlationID, proofErr), http.StatusBadRequest)
			return
		}

		writeMu.Lock()
		defer writeMu.Unlock()

		executionHash := xcrypto.Keccak256(payloadBytes)
		if seenTx.Seen(executionHash) {
			collectors.ObserveExecute("already_executed")
			logger.Printf("[%s] Execute rejected: already executed", correlationID)
			http.Error(w, "execution payload already executed", http.StatusConflict)
			return
		}

		if err := withdrawal.Execute(state, transactionBytes, payloadBytes, req.BlockHeight, proofBytes, []byte(cfg.ChainName), ledger, hooks); err != nil {
			collectors.ObserveExecute(string(err.Kind))
			logger.Printf("[%s] Execute rejected: %v", correlationID, err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		seenTx.Mark(executionHash)
		collectors.ObserveExecute("accepted")
		logger.Printf("[%s] Execute accepted", correlationID)
		fmt.Fprintf(w, `{"status":"accepted"}`)
	}
}
