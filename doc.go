// Copyright 2007 - 2021 Codecraft, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS
// OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

// Package coro is a stackful, cooperative, single-threaded coroutine ring.
//
// A caller starts a ring with a batch of entry points and their argument
// lists. Coroutines run one at a time and voluntarily hand off control by
// calling [YieldNow]. The ring keeps strict round-robin order: whichever
// coroutine has been waiting longest runs next. When every coroutine has
// returned, [StartRing] returns to its caller.
//
// Only one ring may run per process at a time; starting a ring while one is
// already active returns [ErrNestedRing], and calling [YieldNow] outside of
// any ring panics.
//
// Arguments are passed as int64 words, mirroring the calling convention of
// the native implementation this package replaces: narrower integers must be
// widened by the caller, and floating-point values must be passed as their
// bit-equivalent integer and reinterpreted inside the coroutine.
package coro
