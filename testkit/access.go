// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package testkit

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sync"
	"time"

	"go.amzn.com/testsync/core"
)

// ErrUnknownOperation means a read or write was attempted under a name that
// has no registration of the required shape.
var ErrUnknownOperation = errors.New("ErrUnknownOperation")

// ErrExpectationNotReached means ReadFromExpecting exhausted its retry
// budget without the read value matching the expected one.
var ErrExpectationNotReached = errors.New("ErrExpectationNotReached")

// retryInterval paces the ReadFromExpecting polling loop.
const retryInterval = 1 * time.Millisecond

// Operation shapes accepted by a SafeAccessor. Parameter and result types
// are erased; the typed helpers in typed.go recover them at the call site.
type (
	// ReadOp answers a value derived from shared state.
	ReadOp func() any
	// ReadParamOp answers a value derived from shared state and one input.
	ReadParamOp func(parameter any) any
	// WriteOp mutates shared state from one input.
	WriteOp func(value any)
	// WritePairOp mutates shared state from two inputs.
	WritePairOp func(value1, value2 any)
)

// SafeAccessor facilitates thread-safe access to shared data, both for
// writing and reading. The factory AfterCompleting determines how many
// WriteUsing calls must occur before ReadFrom may answer: given an accurate
// prediction, the accessor is a reliable fence around data shared between
// two or more threads.
//
// All registered operations on one accessor are serialized by a single
// lock, and the gate supplies the ordering edge between "N writes
// completed" and "readers may proceed". The lock alone only prevents
// overlap; only the gate guarantees a reader sees a specific number of
// prior writes. State mutated outside the registered operations is outside
// the accessor's protection.
type SafeAccessor struct {
	mutex      sync.Mutex
	reads      map[string]ReadOp
	paramReads map[string]ReadParamOp
	writes     map[string]WriteOp
	pairWrites map[string]WritePairOp
	gate       core.Gate
}

// AfterCompleting answers a new SafeAccessor whose blocking reads proceed
// only after WriteUsing has been employed the given number of times. The
// count is fixed for the accessor's lifetime: an under-predicted count lets
// a read race an in-flight write, an over-predicted one blocks the reader
// forever.
func AfterCompleting(happenings int) *SafeAccessor {
	return &SafeAccessor{
		reads:      make(map[string]ReadOp),
		paramReads: make(map[string]ReadParamOp),
		writes:     make(map[string]WriteOp),
		pairWrites: make(map[string]WritePairOp),
		gate:       core.NewGate(happenings),
	}
}

// Immediately answers a new SafeAccessor whose blocking reads never wait.
// Not recommended: with zero expected happenings a read may observe data
// mid-write, so the values seen by the reader can be inconsistent with
// those written. Retained for convenience; prefer AfterCompleting.
func Immediately() *SafeAccessor {
	return AfterCompleting(0)
}

// ReadingWith registers a no-argument read operation under name, replacing
// any prior registration. Answers the accessor for chaining. Registration
// is not synchronized; it belongs to the single-threaded setup phase before
// worker threads start.
func (a *SafeAccessor) ReadingWith(name string, read ReadOp) *SafeAccessor {
	a.reads[name] = read
	return a
}

// ReadingWithParam registers a one-argument read operation under name,
// replacing any prior registration. Answers the accessor for chaining.
func (a *SafeAccessor) ReadingWithParam(name string, read ReadParamOp) *SafeAccessor {
	a.paramReads[name] = read
	return a
}

// WritingWith registers a one-argument write operation under name,
// replacing any prior registration. Answers the accessor for chaining.
func (a *SafeAccessor) WritingWith(name string, write WriteOp) *SafeAccessor {
	a.writes[name] = write
	return a
}

// WritingWithPair registers a two-argument write operation under name,
// replacing any prior registration. Answers the accessor for chaining.
func (a *SafeAccessor) WritingWithPair(name string, write WritePairOp) *SafeAccessor {
	a.pairWrites[name] = write
	return a
}

// ReadFrom answers the value of the no-argument read operation registered
// under name, waiting first until the expected number of happenings has
// occurred. The result reflects at least that many completed writes.
func (a *SafeAccessor) ReadFrom(name string) (any, error) {
	read, found := a.reads[name]
	if !found {
		return nil, fmt.Errorf("%w: no read operation registered as %q", ErrUnknownOperation, name)
	}

	a.gate.Completes()

	a.mutex.Lock()
	defer a.mutex.Unlock()
	return read(), nil
}

// ReadFromUsing answers the value of the one-argument read operation
// registered under name applied to parameter, waiting first until the
// expected number of happenings has occurred.
func (a *SafeAccessor) ReadFromUsing(name string, parameter any) (any, error) {
	read, found := a.paramReads[name]
	if !found {
		return nil, fmt.Errorf("%w: no parameterized read operation registered as %q", ErrUnknownOperation, name)
	}

	a.gate.Completes()

	a.mutex.Lock()
	defer a.mutex.Unlock()
	return read(parameter), nil
}

// ReadFromNow answers the value of the no-argument read operation
// registered under name without waiting on the gate. Mutual exclusion is
// still honored, but no ordering relative to in-flight writes is promised;
// use it when readiness has been established by other means, such as a
// prior ReadFromExpecting.
func (a *SafeAccessor) ReadFromNow(name string) (any, error) {
	read, found := a.reads[name]
	if !found {
		return nil, fmt.Errorf("%w: no read operation registered as %q", ErrUnknownOperation, name)
	}

	a.mutex.Lock()
	defer a.mutex.Unlock()
	return read(), nil
}

// ReadFromExpecting answers the value of the no-argument read operation
// registered under name once it equals expected, waiting first on the gate
// and then polling under the lock with a short sleep between attempts. At
// most one retry budget may be given; it defaults to effectively unbounded.
// The budget bounds worst-case latency and converts a value that never
// arrives into ErrExpectationNotReached instead of a permanent block. This
// variant serves scenarios where the value reaching a target state is the
// completion signal, not a fixed count of writes.
func (a *SafeAccessor) ReadFromExpecting(name string, expected any, retries ...int) (any, error) {
	read, found := a.reads[name]
	if !found {
		return nil, fmt.Errorf("%w: no read operation registered as %q", ErrUnknownOperation, name)
	}

	budget := math.MaxInt
	if len(retries) > 0 {
		budget = retries[0]
	}

	a.gate.Completes()

	for attempt := 0; attempt < budget; attempt++ {
		a.mutex.Lock()
		value := read()
		a.mutex.Unlock()

		if reflect.DeepEqual(expected, value) {
			return value, nil
		}

		time.Sleep(retryInterval)
	}

	return nil, fmt.Errorf("%w: %q did not reach %v within %d attempts", ErrExpectationNotReached, name, expected, budget)
}

// WriteUsing invokes the one-argument write operation registered under name
// with value, then counts one happening against the gate. Both occur under
// the same locked section, so from any reader's perspective the mutation
// and its acknowledgement are one indivisible unit.
func (a *SafeAccessor) WriteUsing(name string, value any) error {
	write, found := a.writes[name]
	if !found {
		return fmt.Errorf("%w: no write operation registered as %q", ErrUnknownOperation, name)
	}

	a.mutex.Lock()
	defer a.mutex.Unlock()
	write(value)
	a.gate.Happened()
	return nil
}

// WriteUsingPair invokes the two-argument write operation registered under
// name with value1 and value2, then counts one happening against the gate,
// all under the same locked section.
func (a *SafeAccessor) WriteUsingPair(name string, value1, value2 any) error {
	write, found := a.pairWrites[name]
	if !found {
		return fmt.Errorf("%w: no pair write operation registered as %q", ErrUnknownOperation, name)
	}

	a.mutex.Lock()
	defer a.mutex.Unlock()
	write(value1, value2)
	a.gate.Happened()
	return nil
}

// Remaining answers the gate's residual happening count. Inspection only.
func (a *SafeAccessor) Remaining() int {
	return a.gate.Remaining()
}
