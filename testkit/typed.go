// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package testkit

import (
	"errors"
	"fmt"
)

// ErrUnexpectedType means a typed read helper was instantiated with a type
// that does not match what the registered operation answered. Matching the
// registration's types at the read site is the caller's responsibility.
var ErrUnexpectedType = errors.New("ErrUnexpectedType")

// Read answers the value of the no-argument read operation registered
// under name as a T. The registries hold type-erased operations, so the
// caller supplies the concrete type here, the way it supplied it at
// registration.
func Read[T any](access *SafeAccessor, name string) (T, error) {
	value, err := access.ReadFrom(name)
	return recoverTyped[T](name, value, err)
}

// ReadUsing answers the value of the one-argument read operation registered
// under name applied to parameter, as a T.
func ReadUsing[T any](access *SafeAccessor, name string, parameter any) (T, error) {
	value, err := access.ReadFromUsing(name, parameter)
	return recoverTyped[T](name, value, err)
}

// ReadNow answers the value of the no-argument read operation registered
// under name as a T, without waiting on the gate.
func ReadNow[T any](access *SafeAccessor, name string) (T, error) {
	value, err := access.ReadFromNow(name)
	return recoverTyped[T](name, value, err)
}

// ReadExpecting answers the value of the no-argument read operation
// registered under name once it equals expected, as a T.
func ReadExpecting[T any](access *SafeAccessor, name string, expected T, retries ...int) (T, error) {
	value, err := access.ReadFromExpecting(name, expected, retries...)
	return recoverTyped[T](name, value, err)
}

func recoverTyped[T any](name string, value any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if value == nil {
		// a nil result converts to any type's zero value
		return zero, nil
	}
	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %q answered %T", ErrUnexpectedType, name, value)
	}
	return typed, nil
}
