package widgets

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestExternalRendersFields(t *testing.T) {
	out := External{
		Label:   "Staking",
		Title:   "Unbonding",
		Content: "Funds stay locked for the bonding duration.",
		Ext:     true,
	}.Render()
	for _, want := range []string{"Staking", "Unbonding", "Funds stay locked", extGlyph} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in card:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "╭") {
		t.Fatalf("expected rounded border, got:\n%s", out)
	}
}

func TestExternalWithoutExtHasNoGlyph(t *testing.T) {
	out := External{Label: "Pools", Title: "Join"}.Render()
	if strings.Contains(out, extGlyph) {
		t.Fatalf("unexpected link glyph:\n%s", out)
	}
}

func TestExternalDefaultSize(t *testing.T) {
	out := External{Label: "l", Title: "t", Content: strings.Repeat("word ", 60)}.Render()
	lines := strings.Split(out, "\n")
	if len(lines) != defaultExternalHeight {
		t.Fatalf("height = %d, want %d", len(lines), defaultExternalHeight)
	}
	for i, line := range lines {
		if w := ansi.StringWidth(line); w != defaultExternalWidth {
			t.Fatalf("line %d width = %d, want %d", i, w, defaultExternalWidth)
		}
	}
}

func TestExternalActionRequiredBorder(t *testing.T) {
	out := External{Label: "Nominate", Title: "Action", ActionRequired: true}.Render()
	if !strings.Contains(out, "┏") {
		t.Fatalf("expected action border, got:\n%s", out)
	}
}

func TestExternalClick(t *testing.T) {
	External{Title: "no handler"}.Click()

	clicks := 0
	External{Title: "x", OnClick: func() { clicks++ }}.Click()
	if clicks != 1 {
		t.Fatalf("clicks = %d, want 1", clicks)
	}
}

func TestModalKeepsBaseRows(t *testing.T) {
	rows := make([]string, 12)
	for i := range rows {
		rows[i] = strings.Repeat("x", 10) + "-row"
	}
	base := strings.Join(rows, "\n")
	out := Modal(base, "Update Bond", "body", 40, 12)
	lines := strings.Split(out, "\n")
	if len(lines) != 12 {
		t.Fatalf("line count = %d, want 12", len(lines))
	}
	if !strings.Contains(lines[0], "-row") || !strings.Contains(lines[11], "-row") {
		t.Fatalf("expected first and last base rows preserved:\n%s", out)
	}
	if !strings.Contains(out, "Update Bond") || !strings.Contains(out, "body") {
		t.Fatalf("expected modal content:\n%s", out)
	}
	for i, line := range lines {
		if w := ansi.StringWidth(line); w != 40 {
			t.Fatalf("line %d width = %d, want 40", i, w)
		}
	}
}

func TestPaneRender(t *testing.T) {
	out := Pane{Title: "Accounts", Content: "alice\nbob"}.Render(20, 5)
	lines := strings.Split(out, "\n")
	if len(lines) != 5 {
		t.Fatalf("line count = %d, want 5", len(lines))
	}
	if !strings.Contains(lines[0], "Accounts") {
		t.Fatalf("expected title in top edge, got %q", lines[0])
	}
	if !strings.Contains(lines[2], "bob") {
		t.Fatalf("expected content row, got %q", lines[2])
	}
	for i, line := range lines {
		if w := ansi.StringWidth(line); w != 20 {
			t.Fatalf("line %d width = %d, want 20", i, w)
		}
	}
}

func TestFooterSubmitLabel(t *testing.T) {
	if got := (Footer{}).SubmitLabel(); got != "Submit" {
		t.Fatalf("label = %q", got)
	}
	out := Footer{Submitting: true}.Render()
	if !strings.Contains(out, "Submitting") || !strings.Contains(out, "Back") {
		t.Fatalf("unexpected footer:\n%s", out)
	}
}
