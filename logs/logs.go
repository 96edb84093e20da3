// Package logs is the per-subsystem logger registry shared by the ledger,
// network, miner, and wallet CLIs. It mirrors daglabs-btcd/logger's
// subsystem-tag registry, but is backed directly by the published
// github.com/btcsuite/btclog backend and github.com/jrick/logrotate
// rotator rather than an in-tree-only logging package.
package logs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/btcsuite/btclog"
	"github.com/jrick/logrotate/rotator"
)

// Subsystem tags. Add one here and to subsystemLoggers when a new package
// needs its own logger.
const (
	TagLedger  = "LEDG" // blockdag
	TagNetwork = "NETW" // network
	TagMiner   = "MINR" // miner
	TagWallet  = "WLLT" // wallet / CLIs
)

type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	os.Stdout.Write(p)
	if logRotator != nil {
		logRotator.Write(p)
	}
	return len(p), nil
}

var (
	backendLog = btclog.NewBackend(logWriter{})

	logRotator *rotator.Rotator

	ledgerLog  = backendLog.Logger(TagLedger)
	networkLog = backendLog.Logger(TagNetwork)
	minerLog   = backendLog.Logger(TagMiner)
	walletLog  = backendLog.Logger(TagWallet)

	subsystemLoggers = map[string]btclog.Logger{
		TagLedger:  ledgerLog,
		TagNetwork: networkLog,
		TagMiner:   minerLog,
		TagWallet:  walletLog,
	}
)

// InitLogRotator wires every subsystem logger's output to also roll into
// logFile, in addition to stdout. It must be called, if at all, before the
// loggers below are used from more than one goroutine.
func InitLogRotator(logFile string) error {
	logDir, _ := filepath.Split(logFile)
	if logDir != "" {
		if err := os.MkdirAll(logDir, 0700); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return fmt.Errorf("failed to create log rotator: %w", err)
	}
	logRotator = r
	return nil
}

// Ledger returns the blockdag package's logger.
func Ledger() btclog.Logger { return ledgerLog }

// Network returns the network package's logger.
func Network() btclog.Logger { return networkLog }

// Miner returns the miner package's logger.
func Miner() btclog.Logger { return minerLog }

// Wallet returns the wallet/CLI logger.
func Wallet() btclog.Logger { return walletLog }

// SetLevel sets the logging level for the named subsystem. Unknown
// subsystems are ignored.
func SetLevel(subsystemTag, levelName string) {
	logger, ok := subsystemLoggers[subsystemTag]
	if !ok {
		return
	}
	level, _ := btclog.LevelFromString(levelName)
	logger.SetLevel(level)
}

// SetLevels sets every subsystem logger to levelName.
func SetLevels(levelName string) {
	for tag := range subsystemLoggers {
		SetLevel(tag, levelName)
	}
}

// ParseAndSetDebugLevels parses a debug-level specifier, either a single
// level ("info") applied to every subsystem, or a comma-separated list of
// TAG=level pairs ("LEDG=debug,NETW=trace").
func ParseAndSetDebugLevels(debugLevel string) error {
	if !strings.Contains(debugLevel, ",") && !strings.Contains(debugLevel, "=") {
		if !validLevel(debugLevel) {
			return fmt.Errorf("invalid debug level %q", debugLevel)
		}
		SetLevels(debugLevel)
		return nil
	}

	for _, pair := range strings.Split(debugLevel, ",") {
		fields := strings.SplitN(pair, "=", 2)
		if len(fields) != 2 {
			return fmt.Errorf("invalid debug level pair %q", pair)
		}
		tag, level := fields[0], fields[1]
		if _, ok := subsystemLoggers[tag]; !ok {
			return fmt.Errorf("unknown subsystem %q, supported: %s", tag, strings.Join(SupportedSubsystems(), ", "))
		}
		if !validLevel(level) {
			return fmt.Errorf("invalid debug level %q", level)
		}
		SetLevel(tag, level)
	}
	return nil
}

// SupportedSubsystems returns a sorted slice of every registered subsystem
// tag.
func SupportedSubsystems() []string {
	tags := make([]string, 0, len(subsystemLoggers))
	for tag := range subsystemLoggers {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

func validLevel(level string) bool {
	switch level {
	case "trace", "debug", "info", "warn", "error", "critical":
		return true
	}
	return false
}
