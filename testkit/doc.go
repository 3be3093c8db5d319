// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

/*
Package testkit lets a controlling test thread deterministically observe
state that worker threads mutate concurrently, in runtimes where scheduling
order cannot be controlled by the observer.

# SafeAccessor

The central piece is the SafeAccessor: a registry of named read and write
operations, serialized by one lock and fenced by a countdown gate. The test
predicts how many writes will occur, registers operations, hands the
accessor to the code under test, and reads once the prediction is met:

	count := 0
	access := testkit.AfterCompleting(2).
		WritingWith("count", func(value any) { count += value.(int) }).
		ReadingWith("count", func() any { return count })

	// worker threads, as mutations occur:
	access.WriteUsing("count", 1)

	// controlling thread; blocks until both writes completed:
	total, err := testkit.Read[int](access, "count")

ReadFrom and its variants block inside the gate until the expected number
of WriteUsing calls has occurred, then answer under the lock. ReadFromNow
skips the gate. ReadFromExpecting polls for a target value with a bounded
retry budget, for scenarios where the value itself is the completion
signal.

The registries hold type-erased operations keyed by name. Names are case
sensitive and must match exactly between registration and use; reading or
writing an unregistered name answers ErrUnknownOperation. The generic
helpers Read, ReadUsing, ReadNow and ReadExpecting recover the concrete
types the caller registered with, answering ErrUnexpectedType on mismatch.

Only state reached through the registered operations is protected. An
accessor serves one scenario: create, register, run, discard.

# Workers

Address, TestState, TestStateView and WorkerHandle form the boundary to the
runtime hosting the workers: an identity, an opaque queryable state
snapshot, and the handle contract the runtime's worker wrapper satisfies.
TestContext bundles a SafeAccessor with the expected-happenings count so a
worker can be constructed around the scenario's fixture.
*/
package testkit
