// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package testkit

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Address is the stable identity of a worker under test.
type Address struct {
	ID   uuid.UUID
	Name string
}

// NewAddress answers a new Address with a fresh unique id.
func NewAddress(name string) Address {
	return Address{ID: uuid.New(), Name: name}
}

func (a Address) String() string {
	return fmt.Sprintf("Address[%s:%s]", a.Name, a.ID)
}

// TestState is a queryable snapshot of a worker's internal state, exposed
// for test inspection only. The kit stores and hands back named values
// without interpreting them.
type TestState struct {
	mutex  sync.Mutex
	values map[string]any
}

// NewTestState answers an empty TestState.
func NewTestState() *TestState {
	return &TestState{values: make(map[string]any)}
}

// PutValue records value under name, replacing any prior value. Answers the
// state for chaining.
func (s *TestState) PutValue(name string, value any) *TestState {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.values[name] = value
	return s
}

// ValueOf answers the value recorded under name, or nil.
func (s *TestState) ValueOf(name string) any {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.values[name]
}

// TestStateView is implemented by workers willing to expose a snapshot of
// their internal state to tests.
type TestStateView interface {
	ViewTestState() *TestState
}

// WorkerHandle is the contract of the wrapper pairing a worker under test
// with its identity. The wrapper itself belongs to the runtime driving the
// workers; the kit only holds references for test bookkeeping.
type WorkerHandle interface {
	TestStateView
	Address() Address
}

// TestContext carries the access fixture handed to a worker under test, so
// that mutations performed on worker threads are routed through one
// SafeAccessor and become observable to the controlling thread.
type TestContext struct {
	// Access gates and serializes reads and writes for one scenario.
	Access *SafeAccessor

	initial int
}

// NewTestContext answers a TestContext whose accessor expects the given
// number of happenings.
func NewTestContext(happenings int) *TestContext {
	return &TestContext{
		Access:  AfterCompleting(happenings),
		initial: happenings,
	}
}

// InitialHappenings answers the expected count the context was constructed
// with.
func (c *TestContext) InitialHappenings() int {
	return c.initial
}

// AfterCompletingTimes replaces the context's accessor with a fresh one
// expecting the given number of happenings, for scenarios staged in
// several rounds. Registrations do not carry over. Answers the new
// accessor.
func (c *TestContext) AfterCompletingTimes(happenings int) *SafeAccessor {
	c.Access = AfterCompleting(happenings)
	return c.Access
}
