// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package log owns the logging backend of mintctl and hands a subsystem
// logger to every library package.
package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/btcsuite/btclog"
	"github.com/jrick/logrotate/rotator"
	"github.com/mintastic/mintsdk/addrmap"
	"github.com/mintastic/mintsdk/auth"
	"github.com/mintastic/mintsdk/codestore"
	"github.com/mintastic/mintsdk/engine"
	"github.com/mintastic/mintsdk/journal"
	"github.com/mintastic/mintsdk/ledgerclient"
	"github.com/mintastic/mintsdk/mintastic"
	"github.com/mintastic/mintsdk/txn"
)

// logWriter implements an io.Writer that outputs to both standard error and
// the write-end pipe of an initialized log rotator.  Standard output is left
// to command results.
type logWriter struct{}

func (logWriter) Write(p []byte) (n int, err error) {
	os.Stderr.Write(p)
	if LogRotator != nil {
		LogRotator.Write(p)
	}
	return len(p), nil
}

// Loggers per subsystem.  A single backend logger is created and all subsystem
// loggers created from it will write to the backend.  When adding new
// subsystems, add the subsystem logger variable here and to the
// SubsystemLoggers map.
var (
	// backendLog is the logging backend used to create all subsystem loggers.
	backendLog = btclog.NewBackend(logWriter{})

	// LogRotator is one of the logging outputs.  It should be closed on
	// application shutdown.
	LogRotator *rotator.Rotator

	addrLog = backendLog.Logger("ADDR")
	codeLog = backendLog.Logger("CODE")
	authLog = backendLog.Logger("AUTH")
	ldgrLog = backendLog.Logger("LDGR")
	txnsLog = backendLog.Logger("TXNS")
	engnLog = backendLog.Logger("ENGN")
	jrnlLog = backendLog.Logger("JRNL")
	mntcLog = backendLog.Logger("MNTC")
	CtrlLog = backendLog.Logger("CTRL")
)

// Initialize package-global logger variables.
func init() {
	addrmap.UseLogger(addrLog)
	codestore.UseLogger(codeLog)
	auth.UseLogger(authLog)
	ledgerclient.UseLogger(ldgrLog)
	txn.UseLogger(txnsLog)
	engine.UseLogger(engnLog)
	journal.UseLogger(jrnlLog)
	mintastic.UseLogger(mntcLog)
}

// SubsystemLoggers maps each subsystem identifier to its associated logger.
var SubsystemLoggers = map[string]btclog.Logger{
	"ADDR": addrLog,
	"CODE": codeLog,
	"AUTH": authLog,
	"LDGR": ldgrLog,
	"TXNS": txnsLog,
	"ENGN": engnLog,
	"JRNL": jrnlLog,
	"MNTC": mntcLog,
	"CTRL": CtrlLog,
}

// InitLogRotator initializes the logging rotater to write logs to logFile and
// create roll files in the same directory.  It must be called before the
// package-global log rotater variables are used.
func InitLogRotator(logFile string) error {
	logDir, _ := filepath.Split(logFile)
	err := os.MkdirAll(logDir, 0700)
	if err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return fmt.Errorf("failed to create file rotator: %w", err)
	}

	LogRotator = r
	return nil
}

// SetLogLevel sets the logging level for provided subsystem.  Invalid
// subsystems are ignored.
func SetLogLevel(subsystemID string, logLevel string) {
	// Ignore invalid subsystems.
	logger, ok := SubsystemLoggers[subsystemID]
	if !ok {
		return
	}

	// Defaults to info if the log level is invalid.
	level, _ := btclog.LevelFromString(logLevel)
	logger.SetLevel(level)
}

// SetLogLevels sets the log level for all subsystem loggers to the passed
// level.
func SetLogLevels(logLevel string) {
	for subsystemID := range SubsystemLoggers {
		SetLogLevel(subsystemID, logLevel)
	}
}

// SupportedSubsystems returns a sorted slice of the supported subsystems for
// logging purposes.
func SupportedSubsystems() []string {
	subsystems := make([]string, 0, len(SubsystemLoggers))
	for subsysID := range SubsystemLoggers {
		subsystems = append(subsystems, subsysID)
	}

	sort.Strings(subsystems)
	return subsystems
}

// ValidLogLevel returns whether or not logLevel is a valid debug log level.
func ValidLogLevel(logLevel string) bool {
	_, ok := btclog.LevelFromString(logLevel)
	return ok
}

// PickNoun returns the singular or plural form of a noun depending
// on the count n.
func PickNoun(n uint64, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
