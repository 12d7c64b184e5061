// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package diag provides the diagnostics used across go-pmem: leveled
// logging, assertions and error reporting.
//
// Logging and assertions are only active when the module is built with the
// pmemdebug build tag. In release builds Enabled is a false constant and the
// calls compile down to nothing, so they are safe to leave on hot paths:
//
//	diag.Assertf(dst&63 == 0, "dst %#x not line aligned", dst)
//
// Error reporting is always active: ReportError wraps the error, remembers
// its message for LastError and returns it.
package diag

import (
	"fmt"
	"sync/atomic"
	"syscall"

	"github.com/pkg/errors"
)

// Reporter is the destination for diagnostics output.
type Reporter interface {
	// Logf records a message at the given verbosity level. depth is the
	// number of stack frames between the caller of the diag function and
	// Logf, for file:line attribution.
	Logf(depth, level int, format string, args ...any)

	// Fatalf records a message and terminates the process.
	Fatalf(depth int, format string, args ...any)
}

var reporter Reporter = KlogReporter{}

// SetReporter installs r as the diagnostics sink and returns the previous
// one. It should be called during program initialization, not concurrently
// with diagnostics output.
func SetReporter(r Reporter) Reporter {
	old := reporter
	reporter = r
	return old
}

// Logf records a leveled message. It is a no-op unless Enabled.
func Logf(level int, format string, args ...any) {
	if !Enabled {
		return
	}
	reporter.Logf(1, level, format, args...)
}

// Assert terminates the process if cond is false. It is a no-op unless
// Enabled.
func Assert(cond bool) {
	if Enabled && !cond {
		reporter.Fatalf(1, "assertion failure")
	}
}

// Assertf is Assert with a formatted message describing the failure.
func Assertf(cond bool, format string, args ...any) {
	if Enabled && !cond {
		reporter.Fatalf(1, "assertion failure: "+format, args...)
	}
}

// AssertEq terminates the process if lhs != rhs. It is a no-op unless
// Enabled.
func AssertEq[T comparable](lhs, rhs T) {
	if Enabled && lhs != rhs {
		reporter.Fatalf(1, "assertion failure: %v != %v", lhs, rhs)
	}
}

var lastError atomic.Pointer[string]

// ReportError records an error without changing control flow: it wraps err
// with the formatted message, remembers the result for LastError and returns
// it. When err is nil a new error is created from the message alone. If the
// cause is a syscall.Errno its number is appended to the recorded message.
func ReportError(err error, format string, args ...any) error {
	var wrapped error
	if err == nil {
		wrapped = errors.Errorf(format, args...)
	} else {
		wrapped = errors.Wrapf(err, format, args...)
	}

	msg := wrapped.Error()
	var errno syscall.Errno
	if errors.As(err, &errno) {
		msg = fmt.Sprintf("%s (errno %d)", msg, int(errno))
	}
	lastError.Store(&msg)

	if Enabled {
		reporter.Logf(1, 1, "%s", msg)
	}
	return wrapped
}

// LastError returns the message recorded by the most recent ReportError
// call in the process, or "" if none.
func LastError() string {
	if p := lastError.Load(); p != nil {
		return *p
	}
	return ""
}
