// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package translate composes translation requests from user input.
//
// A Request is the immutable payload sent to the translation endpoint. It is
// built with Compose, which validates the input text before anything touches
// the network:
//
//	req, err := translate.Compose(input, translate.Options{
//	    InputLanguage:         "Python",
//	    OutputLanguage:        "Go",
//	    Mode:                  translate.ModeConvert,
//	    OutputNaturalLanguage: "English",
//	})
//	if errors.Is(err, translate.ErrValidation) {
//	    // show the message, do not send
//	}
//
// # Key Types
//
//   - Request: wire payload (JSON field names match the endpoint contract)
//   - Options: user-selected languages and mode
//   - Mode: finite set of request modes (convert, explain, optimize)
//   - ValidationError: empty or oversized input
package translate
