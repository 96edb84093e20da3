// Package config parses the command-line flags shared by the node/miner
// daemon, mirroring daglabs-btcd/cmd/addsubnetwork's
// flags.NewParser(cfg, flags.PrintErrors|flags.HelpFlag) pattern.
package config

import (
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

const (
	// DefaultPort is the TCP port the node listens on when -port is
	// omitted.
	DefaultPort = 8080

	// DefaultSnapshotPath is the file the miner loads from and persists
	// to when -snapshot is omitted.
	DefaultSnapshotPath = "blockdag.json"

	// DefaultLogLevel is the log level applied to every subsystem when
	// -loglevel is omitted.
	DefaultLogLevel = "info"
)

// Config holds the flags common to the miner and node binaries.
type Config struct {
	Port         uint16   `short:"p" long:"port" description:"TCP port to listen on" default:"8080"`
	Peers        []string `long:"peer" description:"Address of a peer to dial on startup (repeatable)"`
	SnapshotPath string   `long:"snapshot" description:"Path to the BlockDAG snapshot file" default:"blockdag.json"`
	LogFile      string   `long:"logfile" description:"Path to the log file (rotated); empty disables file logging"`
	LogLevel     string   `long:"loglevel" description:"Log level for all subsystems: trace, debug, info, warn, error, critical" default:"info"`
	MinerAddress string   `long:"address" description:"Address (hex Ed25519 public key) that mined blocks' coinbase rewards are paid to" required:"true"`
}

// Parse parses os.Args into a Config.
func Parse() (*Config, error) {
	cfg := &Config{}
	parser := flags.NewParser(cfg, flags.PrintErrors|flags.HelpFlag)
	_, err := parser.Parse()
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse flags")
	}
	return cfg, nil
}
