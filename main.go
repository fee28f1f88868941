// Package main is the entry point for the riskboard CLI.
package main

import (
	"github.com/huangsam/riskboard/cmd"
	"github.com/huangsam/riskboard/internal/contract"
	"github.com/huangsam/riskboard/internal/iocache"
)

func main() {
	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}
	iocache.CloseStore()
	if err != nil {
		contract.LogFatal("riskboard failed", err)
	}
}
