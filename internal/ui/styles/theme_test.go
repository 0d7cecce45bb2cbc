// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
)

func TestNewThemeForcedModes(t *testing.T) {
	dark := NewTheme("dark")
	if !dark.IsDark || dark.Name != ThemeDark {
		t.Errorf("dark theme: IsDark=%v Name=%q", dark.IsDark, dark.Name)
	}
	if dark.GlamourStyle() != "dark" || dark.ChromaStyle() != "monokai" {
		t.Errorf("dark theme styles: %q %q", dark.GlamourStyle(), dark.ChromaStyle())
	}

	light := NewTheme(" LIGHT ")
	if light.IsDark || light.Name != ThemeLight {
		t.Errorf("light theme: IsDark=%v Name=%q", light.IsDark, light.Name)
	}
	if light.GlamourStyle() != "light" || light.ChromaStyle() != "github" {
		t.Errorf("light theme styles: %q %q", light.GlamourStyle(), light.ChromaStyle())
	}
}

func TestNewThemeUnknownFallsBackToAuto(t *testing.T) {
	if got := NewTheme("solarized").Name; got != ThemeAuto {
		t.Errorf("Name = %q, want %q", got, ThemeAuto)
	}
}

func TestLayoutMode(t *testing.T) {
	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutMedium},
		{99, LayoutMedium},
		{100, LayoutWide},
		{200, LayoutWide},
	}

	theme := NewTheme("dark")
	for _, tt := range tests {
		theme.SetSize(tt.width, 40)
		if got := theme.GetLayoutMode(); got != tt.want {
			t.Errorf("width %d: got %v, want %v", tt.width, got, tt.want)
		}
	}
}

func TestRenderStatusHelpersIncludeMarkers(t *testing.T) {
	tests := []struct {
		name   string
		render func(string) string
		marker string
	}{
		{"success", RenderSuccess, StatusIndicators.Success},
		{"error", RenderError, StatusIndicators.Error},
		{"warning", RenderWarning, StatusIndicators.Warning},
		{"info", RenderInfo, StatusIndicators.Info},
	}

	for _, tt := range tests {
		out := tt.render("copied")
		if !strings.Contains(out, tt.marker) || !strings.Contains(out, "copied") {
			t.Errorf("%s: %q missing marker or message", tt.name, out)
		}
	}
}
