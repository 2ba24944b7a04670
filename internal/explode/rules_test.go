package explode

import (
	"strings"
	"testing"
)

func TestClassifyName(t *testing.T) {
	tests := []struct {
		name string
		want Kind
	}{
		{"Glass_Bezel", KindBezel},
		{"glass_bezel_inner", KindBezel},
		{"BEZEL", KindBezel},
		{"Glass_Front", KindFront},
		{"glass front pane", KindFront},
		{"CoverGlass", KindFront},
		{"Display_OLED", KindDisplay},
		{"oled_panel", KindDisplay},
		{"display", KindDisplay},
		{"Body_Frame", KindBody},
		{"Frame_Top", KindBody},
		{"Camera_Lens", KindBody},
		{"", KindBody},
		{"ＤＩＳＰＬＡＹ", KindDisplay},
		{"Ｇｌａｓｓ＿Ｆｒｏｎｔ", KindFront},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyName(tt.name, DefaultRules); got != tt.want {
				t.Errorf("ClassifyName(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestRuleOrderMatters(t *testing.T) {
	// With front ahead of bezel the bezel loses its own sub-kind.
	reordered := []Rule{DefaultRules[1], DefaultRules[0], DefaultRules[2]}
	if got := ClassifyName("glass_front_bezel", reordered); got != KindFront {
		t.Errorf("expected first matching rule to win, got %v", got)
	}
	if got := ClassifyName("glass_front_bezel", DefaultRules); got != KindBezel {
		t.Errorf("expected bezel with default order, got %v", got)
	}
}

func TestKindLayer(t *testing.T) {
	tests := []struct {
		kind Kind
		want Layer
	}{
		{KindBezel, LayerGlass},
		{KindFront, LayerGlass},
		{KindDisplay, LayerDisplay},
		{KindBody, LayerBody},
	}
	for _, tt := range tests {
		if got := tt.kind.Layer(); got != tt.want {
			t.Errorf("%v.Layer() = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestParseLayer(t *testing.T) {
	tests := []struct {
		in   string
		want Layer
		ok   bool
	}{
		{"glass", LayerGlass, true},
		{"oled", LayerDisplay, true},
		{"Display", LayerDisplay, true},
		{"body", LayerBody, true},
		{"none", LayerNone, true},
		{"battery", LayerNone, false},
	}
	for _, tt := range tests {
		got, ok := ParseLayer(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseLayer(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
	for _, l := range Layers {
		if back, _ := ParseLayer(l.String()); back != l {
			t.Errorf("layer %v does not round-trip through its id", l)
		}
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Glass_Front", "glass_front"},
		{"ＯＬＥＤ", "oled"},
		{"ﬁlm", "film"},
		{"Straße", "strasse"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeName(tt.in); got != tt.want {
			t.Errorf("NormalizeName(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestNormalizeNameASCIIMatchesLower(t *testing.T) {
	for _, name := range []string{"Glass_Bezel", "DISPLAY_OLED", "Body Frame 01", "x-Y_z"} {
		if got, want := NormalizeName(name), strings.ToLower(name); got != want {
			t.Errorf("NormalizeName(%q): expected %q, got %q", name, want, got)
		}
	}
}
