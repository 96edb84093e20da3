// Command miner runs the mining loop against a fixed address: it loads (or
// initializes) the ledger, starts the network node, dials any configured
// peers, and mines continuously, persisting after every block.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/daglabs-fork/blockdagd/blockdag"
	"github.com/daglabs-fork/blockdagd/config"
	"github.com/daglabs-fork/blockdagd/logs"
	"github.com/daglabs-fork/blockdagd/miner"
	"github.com/daglabs-fork/blockdagd/network"
)

// mineInterval is the pause between mining attempts, matching the
// original's 1-second sleep between mining rounds.
const mineInterval = time.Second

func main() {
	cfg, err := config.Parse()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}

	if cfg.LogFile != "" {
		if err := logs.InitLogRotator(cfg.LogFile); err != nil {
			fmt.Fprintf(os.Stderr, "failed to init log rotator: %s\n", err)
			os.Exit(1)
		}
	}
	if err := logs.ParseAndSetDebugLevels(cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}

	dag := blockdag.LoadFromFileOrNew(cfg.SnapshotPath)

	node := network.NewNode(dag)
	listenAddr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	if err := node.Listen(listenAddr); err != nil {
		logs.Miner().Criticalf("failed to listen on %s: %s", listenAddr, err)
		os.Exit(1)
	}
	logs.Miner().Infof("listening on %s", listenAddr)

	for _, peerAddr := range cfg.Peers {
		peerAddr := peerAddr
		go func() {
			time.Sleep(time.Second)
			if err := node.DialPeer(peerAddr); err != nil {
				logs.Miner().Warnf("failed to dial peer %s: %s", peerAddr, err)
			}
		}()
	}

	m := miner.New(dag, cfg.MinerAddress, cfg.SnapshotPath, mineInterval)
	m.Run()
}
