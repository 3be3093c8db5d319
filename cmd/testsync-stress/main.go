// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"golang.org/x/sync/errgroup"

	"go.amzn.com/testsync/testkit"

	log "github.com/sirupsen/logrus"
)

type options struct {
	Writers  int    `long:"writers" default:"8" description:"number of concurrent writer goroutines"`
	Writes   int    `long:"writes" default:"1000" description:"writes performed by each writer"`
	Rounds   int    `long:"rounds" default:"10" description:"number of stress rounds to run"`
	LogLevel string `long:"log-level" default:"info" description:"log level"`
}

// testsync-stress hammers one SafeAccessor per round with writers*writes
// concurrent writes and verifies that a concurrent gated read observes
// every one of them. It exists to exercise the fence outside of go test,
// for long soak runs under the race detector.
func main() {
	opts := getCLIArgs()
	setLogLevel(opts.LogLevel)

	for round := 1; round <= opts.Rounds; round++ {
		observed, elapsed := runRound(opts.Writers, opts.Writes)
		expected := opts.Writers * opts.Writes

		fields := log.Fields{
			"round":    round,
			"writers":  opts.Writers,
			"writes":   opts.Writes,
			"observed": observed,
			"elapsed":  elapsed,
		}
		if observed != expected {
			log.WithFields(fields).Error("gated read observed a partial count")
			os.Exit(1)
		}
		log.WithFields(fields).Info("round complete")
	}
}

func runRound(writers, writes int) (int, time.Duration) {
	count := 0
	access := testkit.AfterCompleting(writers * writes).
		WritingWith("count", func(value any) { count += value.(int) }).
		ReadingWith("count", func() any { return count })

	started := time.Now()

	var errg errgroup.Group
	for w := 0; w < writers; w++ {
		errg.Go(func() error {
			for i := 0; i < writes; i++ {
				if err := access.WriteUsing("count", 1); err != nil {
					return err
				}
			}
			return nil
		})
	}

	observed, err := testkit.Read[int](access, "count")
	if err != nil {
		log.WithError(err).Fatal("gated read failed")
	}
	if err := errg.Wait(); err != nil {
		log.WithError(err).Fatal("writer failed")
	}

	return observed, time.Since(started)
}

func getCLIArgs() options {
	var opts options
	parser := flags.NewParser(&opts, flags.IgnoreUnknown)
	if _, err := parser.ParseArgs(os.Args); err != nil {
		log.WithError(err).Fatal("Failed to parse command line arguments:", os.Args)
	}
	return opts
}

func setLogLevel(logLevel string) {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		log.WithError(err).Fatal("Failed to set log level. Valid log levels are:", log.AllLevels)
	}
	log.SetLevel(level)
}
