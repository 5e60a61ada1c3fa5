// (c) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/leveldb"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/hashing"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/contractvm/contractvm"
	"github.com/ava-labs/contractvm/host"
)

const (
	metricsPath = "/ext/metrics"

	shutdownTimeout = 5 * time.Second
)

func main() {
	v, err := getViper(os.Args[1:])
	if err != nil {
		fmt.Printf("couldn't get config: %s\n", err)
		os.Exit(1)
	}
	if v.GetBool(versionKey) {
		fmt.Printf("%s@%s\n", contractvm.Name, contractvm.Version)
		os.Exit(0)
	}
	cfg, err := buildConfig(v)
	if err != nil {
		fmt.Printf("couldn't build config: %s\n", err)
		os.Exit(1)
	}

	log.Root().SetHandler(log.LvlFilterHandler(cfg.LogLevel, log.StreamHandler(os.Stderr, logFormat(cfg.LogFormat))))

	if err := run(cfg); err != nil {
		log.Error("contract host stopped", "err", err)
		os.Exit(1)
	}
}

// node is a host served over HTTP together with the database it owns.
type node struct {
	server  *http.Server
	address contractvm.Identity
	db      database.Database
}

// openDB opens the leveldb database in [dir], or a fresh in-memory one when
// [dir] is empty.
func openDB(dir string) (database.Database, error) {
	if dir == "" {
		return memdb.New(), nil
	}
	db, err := leveldb.New(dir, nil, logging.NoLog{})
	if err != nil {
		return nil, fmt.Errorf("couldn't open database in %s: %w", dir, err)
	}
	return db, nil
}

// newNode wires a host for [cfg] behind an HTTP mux.
func newNode(cfg Config) (*node, error) {
	contract, err := contractvm.New(cfg.Contract)
	if err != nil {
		return nil, err
	}
	address := contractvm.Identity(hashing.ComputeHash160Array([]byte(cfg.ContractLabel)))

	db, err := openDB(cfg.DBDir)
	if err != nil {
		return nil, err
	}
	registry := prometheus.NewRegistry()
	h, err := host.New(db, address, contract, nil, registry)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	rpcHandler, err := host.NewHandler(h)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle(host.Endpoint, rpcHandler)
	mux.Handle(metricsPath, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	return &node{
		server: &http.Server{
			Addr:              net.JoinHostPort(cfg.HTTPHost, strconv.Itoa(int(cfg.HTTPPort))),
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		address: address,
		db:      db,
	}, nil
}

func run(cfg Config) error {
	n, err := newNode(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := n.db.Close(); err != nil {
			log.Warn("couldn't close database", "err", err)
		}
	}()
	server := n.server
	addr, err := contractvm.NewAddressCodec(cfg.Contract.HRP)
	if err != nil {
		return err
	}
	contractAddr, err := addr.Humanize(n.address)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 1)
	go func() {
		errs <- server.ListenAndServe()
	}()
	log.Info("serving contract", "name", contractvm.Name, "version", contractvm.Version, "address", contractAddr, "http", server.Addr+host.Endpoint, "db", cfg.DBDir)

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
