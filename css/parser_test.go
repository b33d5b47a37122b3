package css_test

import (
	"testing"

	"go.uber.org/zap/zaptest"

	"tomdx/css"
)

func TestParseRules(t *testing.T) {
	p := css.NewParser(zaptest.NewLogger(t))

	sheet := p.Parse([]byte(`
/* overrides */
.text-lg { font-size: 18pt; }
.accent, .brand { color: #ff8800 }
.card { margin-top: 1cm; margin-top: 2cm; padding-left: 3%; }
`), "test")

	if len(sheet.Rules) != 3 {
		t.Fatalf("expected 3 rules, got %d", len(sheet.Rules))
	}
	if got := sheet.Rules[1].Selectors; len(got) != 2 || got[0] != ".accent" || got[1] != ".brand" {
		t.Errorf("unexpected selectors %q", got)
	}

	card := sheet.Rules[2].Declarations
	if len(card) != 2 {
		t.Fatalf("expected 2 declarations, got %d", len(card))
	}
	if card[0].Property != "margin-top" || card[0].Value != "2cm" {
		t.Errorf("expected last value to win in first position, got %+v", card[0])
	}
	if card[1].String() != "padding-left: 3%;" {
		t.Errorf("unexpected declaration %q", card[1].String())
	}
}

func TestClassOverrides(t *testing.T) {
	p := css.NewParser(zaptest.NewLogger(t))

	sheet := p.Parse([]byte(`
.text-lg { font-size: 18pt; }
.accent, .brand, p.lead { color: #ff8800; }
.multi { color: #000000; opacity: 0.5; }
div { opacity: 0.1; }
.hover:hover { opacity: 0.2; }
@media print { .print { display: none; } }
`))

	got := sheet.ClassOverrides()
	want := []css.ClassOverride{
		{Declaration: "font-size: 18pt;", Class: "text-lg"},
		{Declaration: "color: #ff8800;", Class: "accent"},
		{Declaration: "color: #ff8800;", Class: "brand"},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d overrides, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("override %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
	if len(sheet.Warnings) == 0 {
		t.Error("expected warning for skipped @media")
	}
}

func TestParseEmpty(t *testing.T) {
	sheet := css.NewParser(nil).Parse(nil)
	if len(sheet.Rules) != 0 || len(sheet.ClassOverrides()) != 0 {
		t.Errorf("expected empty stylesheet, got %+v", sheet)
	}
}
