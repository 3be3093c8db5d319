// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package testkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAddressIsUnique(t *testing.T) {
	one := NewAddress("worker")
	two := NewAddress("worker")
	assert.NotEqual(t, one.ID, two.ID)
	assert.Contains(t, one.String(), "worker")
}

func TestTestStateHoldsNamedValues(t *testing.T) {
	state := NewTestState().
		PutValue("count", 5).
		PutValue("label", "idle")

	assert.Equal(t, 5, state.ValueOf("count"))
	assert.Equal(t, "idle", state.ValueOf("label"))
	assert.Nil(t, state.ValueOf("absent"))

	state.PutValue("count", 6)
	assert.Equal(t, 6, state.ValueOf("count"))
}

type stubWorker struct {
	address Address
	state   *TestState
}

func (w *stubWorker) Address() Address          { return w.address }
func (w *stubWorker) ViewTestState() *TestState { return w.state }

func TestWorkerHandleContract(t *testing.T) {
	worker := &stubWorker{
		address: NewAddress("stub"),
		state:   NewTestState().PutValue("started", true),
	}

	var handle WorkerHandle = worker
	assert.Equal(t, worker.address, handle.Address())
	assert.Equal(t, true, handle.ViewTestState().ValueOf("started"))
}

func TestTestContextRoutesWorkerMutations(t *testing.T) {
	context := NewTestContext(1)
	assert.Equal(t, 1, context.InitialHappenings())

	delivered := ""
	context.Access.
		WritingWith("message", func(value any) { delivered = value.(string) }).
		ReadingWith("message", func() any { return delivered })

	go context.Access.WriteUsing("message", "hello")

	message, err := Read[string](context.Access, "message")
	require.NoError(t, err)
	assert.Equal(t, "hello", message)
}

func TestTestContextStagesFreshAccessor(t *testing.T) {
	context := NewTestContext(1)
	first := context.Access

	second := context.AfterCompletingTimes(2)
	assert.Same(t, second, context.Access)
	assert.NotSame(t, first, second)
	assert.Equal(t, 2, second.Remaining())
	assert.Equal(t, 1, context.InitialHappenings())

	// registrations do not carry over
	_, err := second.ReadFromNow("anything")
	assert.ErrorIs(t, err, ErrUnknownOperation)
}
