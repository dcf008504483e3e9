// Copyright (c) 2013-2015 The btcsuite developers
// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/mintastic/mintsdk/addrmap"
	"github.com/mintastic/mintsdk/codestore"
	"github.com/mintastic/mintsdk/engine"
	"github.com/mintastic/mintsdk/internal/log"
	"github.com/mintastic/mintsdk/journal"
	"github.com/mintastic/mintsdk/ledgerclient"
	"github.com/mintastic/mintsdk/metrics"
	"github.com/mintastic/mintsdk/signing"
)

const (
	showHelpMessage = "Specify -h to show available options"
	listCmdMessage  = "Specify -l to list available commands"
)

var ctrlLog = log.CtrlLog

// usage displays the general usage when the help flag is not displayed and
// and an invalid command was specified.
func usage(errorMessage string) {
	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	fmt.Fprintln(os.Stderr, errorMessage)
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintf(os.Stderr, "  %s [OPTIONS] <command> <args...>\n\n",
		appName)
	fmt.Fprintln(os.Stderr, showHelpMessage)
	fmt.Fprintln(os.Stderr, listCmdMessage)
}

// printResult writes result to standard output.  Objects and arrays are
// indented, strings are printed bare and operations without a result print
// nothing.
func printResult(result interface{}) error {
	if _, ok := result.(struct{}); ok {
		return nil
	}
	b, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format result: %w", err)
	}
	if s, ok := result.(string); ok {
		fmt.Println(s)
		return nil
	}
	if string(b) != "null" {
		fmt.Println(string(b))
	}
	return nil
}

// genKey prints a fresh private key and its account key descriptor.
func genKey() error {
	key, err := signing.GenerateKey()
	if err != nil {
		return err
	}
	privKey := hex.EncodeToString(key.Serialize())
	descriptor, err := signing.PublicKeyDescriptorHex(privKey)
	if err != nil {
		return err
	}
	return printResult(map[string]string{
		"privateKey": privKey,
		"publicKey":  hex.EncodeToString(key.PubKey().Serialize()),
		"descriptor": descriptor,
	})
}

func openJournal(cfg *config) (*journal.Journal, error) {
	return journal.Open(journal.Backend(cfg.JournalBackend), cfg.JournalDir)
}

// printJournal prints every journal record.
func printJournal(cfg *config) error {
	j, err := openJournal(cfg)
	if err != nil {
		return err
	}
	defer j.Close()

	records, err := j.List()
	if err != nil {
		return err
	}
	ctrlLog.Debugf("Read %d journal %s", len(records),
		log.PickNoun(uint64(len(records)), "record", "records"))
	return printResult(records)
}

// connConfig returns the ledger client configuration of cfg.
func connConfig(cfg *config, m metrics.Metrics) (*ledgerclient.ConnConfig, error) {
	connCfg := &ledgerclient.ConnConfig{
		Host:         cfg.RPCServer,
		Endpoint:     cfg.RPCEndpoint,
		DisableTLS:   cfg.NoTLS,
		Proxy:        cfg.Proxy,
		ProxyUser:    cfg.ProxyUser,
		ProxyPass:    cfg.ProxyPass,
		HTTPPostMode: !cfg.Websocket,
		Metrics:      m,
	}
	if !cfg.NoTLS && cfg.RPCCert != "" {
		pem, err := os.ReadFile(cfg.RPCCert)
		if err != nil {
			return nil, err
		}
		connCfg.Certificates = pem
	}
	return connCfg, nil
}

// newEngine wires the engine described by cfg.  The returned cleanup
// function releases the client and the journal.
func newEngine(cfg *config) (*engine.Engine, func(), error) {
	addrs, deployment, err := addrmap.LoadFile(cfg.Deployment)
	if err != nil {
		return nil, nil, err
	}
	serviceAddress := cfg.ServiceAddress
	if serviceAddress == "" {
		serviceAddress = deployment.ServiceAddress
	}
	if serviceAddress == "" {
		return nil, nil, errors.New("no service address configured")
	}

	// cleanup grows with every resource acquired below.
	cleanup := func() {}
	release := func(fn func()) {
		prev := cleanup
		cleanup = func() {
			fn()
			prev()
		}
	}

	var m metrics.Metrics
	if cfg.MetricsListen != "" {
		prom := metrics.NewPrometheus(nil)
		srv := &http.Server{Addr: cfg.MetricsListen, Handler: prom.Handler()}
		go func() {
			err := srv.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				ctrlLog.Errorf("Metrics server: %v", err)
			}
		}()
		release(func() { srv.Close() })
		m = prom
	}

	connCfg, err := connConfig(cfg, m)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	client, err := ledgerclient.New(connCfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	release(func() {
		client.Shutdown()
		client.WaitForShutdown()
	})

	engineCfg := &engine.Config{
		Ledger:         client,
		Code:           codestore.NewFSResolver(os.DirFS(cfg.CodeDir), addrs, nil),
		Addresses:      addrs,
		Keys:           cfg.keySource(),
		ServiceAddress: serviceAddress,
		Metrics:        m,
		PollInterval:   cfg.PollInterval,
	}
	if !cfg.NoJournal {
		j, err := openJournal(cfg)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		engineCfg.Journal = j
		release(func() {
			if err := j.Close(); err != nil {
				ctrlLog.Errorf("Unable to close journal: %v", err)
			}
		})
	}

	e, err := engine.New(engineCfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return e, cleanup, nil
}

func mintctlMain() error {
	cfg, args, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() {
		if log.LogRotator != nil {
			log.LogRotator.Close()
		}
	}()

	if len(args) < 1 {
		usage("No command specified")
		return errors.New("no command specified")
	}

	method, params := args[0], args[1:]
	switch method {
	case "genkey":
		return genKey()
	case "journal":
		return printJournal(cfg)
	}

	run, err := parseCommand(method, params)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if cmd, ok := commands[method]; ok {
			fmt.Fprintln(os.Stderr, "Usage:")
			fmt.Fprintf(os.Stderr, "  %s\n", cmd.usage(method))
		} else {
			fmt.Fprintln(os.Stderr, listCmdMessage)
		}
		return err
	}

	e, cleanup, err := newEngine(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	defer cleanup()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, cfg.Timeout)
	defer cancelTimeout()

	ctrlLog.Debugf("Running %s", method)
	result, err := run(ctx, e)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return printResult(result)
}

func main() {
	if err := mintctlMain(); err != nil {
		os.Exit(1)
	}
}
