// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the coderhelper TUI.
//
// All colors use Lip Gloss AdaptiveColor so one palette serves light and
// dark terminals. The theme can be forced with the ui.theme setting.
//
// # Key Types
//
//   - Theme: every lipgloss.Style the workspace renders with
//   - LayoutMode: narrow, medium or wide, derived from the terminal width
//   - StatusIndicatorSet: ASCII markers paired with status colors
//
// # Usage
//
//	theme := styles.NewTheme(cfg.UI.Theme)
//	theme.SetSize(msg.Width, msg.Height)
//	if theme.GetLayoutMode() == styles.LayoutWide {
//		// input and output side by side
//	}
package styles
