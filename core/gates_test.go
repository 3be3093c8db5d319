// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sync/errgroup"
)

func TestCompletesAfterExpectedHappenings(t *testing.T) {
	g := NewGate(2)
	g.Happened()
	assert.Equal(t, 1, g.Remaining())
	g.Happened()
	g.Completes()
	assert.Equal(t, 0, g.Remaining())
}

func TestCompletesImmediatelyWhenZeroExpected(t *testing.T) {
	g := NewGate(0)
	g.Completes()
	assert.Equal(t, 0, g.Remaining())
}

func TestNegativeCountTreatedAsZero(t *testing.T) {
	g := NewGate(-5)
	g.Completes()
	assert.Equal(t, 0, g.Remaining())
}

func TestHappenedOnOpenGateIsNoOp(t *testing.T) {
	g := NewGate(1)
	g.Happened()
	g.Happened()
	g.Happened()
	assert.Equal(t, 0, g.Remaining())
	g.Completes()
}

func TestCompletesReleasesSuspendedWaiter(t *testing.T) {
	g := NewGate(3)

	var errg errgroup.Group
	errg.Go(func() error {
		g.Completes()
		return nil
	})

	g.Happened()
	g.Happened()
	g.Happened()

	assert.NoError(t, errg.Wait())
	assert.Equal(t, 0, g.Remaining())
}

func TestCompletesReleasesAllWaiters(t *testing.T) {
	g := NewGate(1)

	var errg errgroup.Group
	for i := 0; i < 8; i++ {
		errg.Go(func() error {
			g.Completes()
			return nil
		})
	}

	g.Happened()

	assert.NoError(t, errg.Wait())
}

func TestCompletesRepeatedlyAfterOpen(t *testing.T) {
	g := NewGate(1)
	g.Happened()
	g.Completes()
	g.Completes()
	g.Completes()
}

func TestConcurrentHappenings(t *testing.T) {
	const happenings = 1000
	g := NewGate(happenings)

	var errg errgroup.Group
	for i := 0; i < happenings; i++ {
		errg.Go(func() error {
			g.Happened()
			return nil
		})
	}

	g.Completes()
	assert.NoError(t, errg.Wait())
	assert.Equal(t, 0, g.Remaining())
}

func BenchmarkCompletes(b *testing.B) {
	for n := 0; n < b.N; n++ {
		g := NewGate(1)
		go func() { g.Happened() }()
		g.Completes()
	}
}
