// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the display state of one translation workspace.
//
// A Session owns the input text, the selected options, the output buffer
// and the lifecycle phase of the current request. Starting a request resets
// the output; chunks are appended in arrival order; every exit path
// (complete, fail, cancel) clears the in-flight flag.
//
// # Key Types
//
//   - Session: mutable display state, safe for concurrent use
//   - Phase: Idle, InFlight, Done, Failed, Canceled
//   - Snapshot: a copy of the state for rendering
//
// # Usage
//
//	s := session.New()
//	s.SetInput(code)
//	id, err := s.Begin()
//	s.Append(id, chunk)
//	text, _ := s.Complete(id)
//
// Every mutation after Begin takes the request id. Calls carrying an id
// other than the current one are ignored, so late chunks from a canceled
// request can never leak into a newer one.
package session
