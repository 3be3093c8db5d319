// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

/*
Package core provides the synchronization primitives that the test kit is
built on.

# Gates

Gate is a synchronization aid that allows one or more threads to wait until
a set of operations being performed in other threads completes.

A gate is constructed with the number of happenings expected before waiters
may walk through it. Worker threads report progress, the observing thread
awaits the gate condition:

[main] g := core.NewGate(2) // two happenings expected
[main] // start worker threads ...
[main] g.Completes()
[main] // blocked until both workers reported

[worker] g.Happened()
[worker] // not blocked

The gate is one-shot: once the count reaches zero it stays at zero, so late
and repeated Completes calls return immediately, and surplus Happened calls
have no effect. There is no reset and no built-in timeout; a gate whose
expected count is never reached blocks its waiters forever, which is the
caller's scenario-design error to fix.
*/
package core
