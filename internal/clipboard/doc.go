// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package clipboard copies finished translations to the user's clipboard.
//
// # Key Types
//
//   - Writer: anything that can take the full text
//   - System: native clipboard via atotto/clipboard, with an OSC 52
//     terminal escape (termenv) as fallback for SSH and headless sessions
//   - Memory: in-process clipboard for tests and --no-copy runs
//
// # Usage
//
//	cb := clipboard.NewSystem(os.Stdout)
//	if err := cb.WriteAll(text); err != nil {
//	    // show a warning, the text is still on screen
//	}
package clipboard
