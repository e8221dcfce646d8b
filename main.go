// Package main is the entrypoint of the leadpulse CLI.
package main

import (
	"github.com/huangsam/leadpulse/cmd"
	"github.com/huangsam/leadpulse/internal/contract"
	"github.com/huangsam/leadpulse/internal/iocache"
)

func main() {
	defer iocache.CloseCaching()
	defer contract.SyncLogger()

	cmd.SetCacheManager(iocache.Manager)
	if err := cmd.Execute(); err != nil {
		iocache.CloseCaching()
		contract.LogFatal("Error", err)
	}
}
