// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"sync"
)

// Gate is a one-shot countdown latch. It is constructed with the number of
// happenings expected before waiters may proceed; each Happened call counts
// one of them down. Once the count reaches zero the gate is open for good:
// every current and future Completes call returns without blocking.
type Gate interface {
	// Happened counts down one happening and, on reaching zero, awakes all
	// suspended waiters. Calling Happened on an open gate is a no-op.
	Happened()
	// Completes suspends thread execution until the expected number of
	// happenings has occurred. Returns immediately if the gate is open.
	Completes()
	// Remaining answers the residual happening count. Inspection only; by
	// the time the caller looks at it, it may already have changed.
	Remaining() int
}

type gateImpl struct {
	remaining     int
	gateCondition *sync.Cond
}

func (g *gateImpl) Happened() {
	g.gateCondition.L.Lock()
	defer g.gateCondition.L.Unlock()

	if g.remaining == 0 {
		return
	}

	g.remaining--

	if g.remaining == 0 {
		g.gateCondition.Broadcast()
	}
}

func (g *gateImpl) Completes() {
	g.gateCondition.L.Lock()
	defer g.gateCondition.L.Unlock()

	for g.remaining != 0 {
		g.gateCondition.Wait()
	}
}

func (g *gateImpl) Remaining() int {
	g.gateCondition.L.Lock()
	defer g.gateCondition.L.Unlock()
	return g.remaining
}

// NewGate returns a new gate expecting the given non-negative number of
// happenings. A negative count is treated as zero, yielding a gate that is
// already open.
func NewGate(happenings int) Gate {
	if happenings < 0 {
		happenings = 0
	}
	return &gateImpl{
		remaining:     happenings,
		gateCondition: sync.NewCond(&sync.Mutex{}),
	}
}
