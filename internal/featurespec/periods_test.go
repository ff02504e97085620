package featurespec

import (
	"reflect"
	"testing"
)

func TestParseTimePeriod_Base(t *testing.T) {
	tests := []string{"season", "none", "games_10", "games_close_5", "last_2", "anything"}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			period, err := ParseTimePeriod(input)
			if err != nil {
				t.Fatalf("ParseTimePeriod(%q) error = %v", input, err)
			}
			base, ok := period.(BasePeriod)
			if !ok {
				t.Fatalf("Expected BasePeriod, got %T", period)
			}
			if string(base) != input {
				t.Errorf("Expected %q, got %q", input, base)
			}
		})
	}
}

func TestParseTimePeriod_Blend(t *testing.T) {
	period, err := ParseTimePeriod("blend:season:0.7/games_10:0.3")
	if err != nil {
		t.Fatalf("ParseTimePeriod error = %v", err)
	}

	blend, ok := period.(BlendPeriod)
	if !ok {
		t.Fatalf("Expected BlendPeriod, got %T", period)
	}

	want := []BlendComponent{
		{Period: "season", Weight: 0.7},
		{Period: "games_10", Weight: 0.3},
	}
	if !reflect.DeepEqual(blend.Components, want) {
		t.Errorf("Components = %+v, want %+v", blend.Components, want)
	}

	if sum := blend.WeightSum(); sum != 1.0 {
		t.Errorf("WeightSum() = %f, want 1.0", sum)
	}
}

func TestParseTimePeriod_BlendErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty spec", "blend:"},
		{"pair without weight", "blend:season"},
		{"trailing colon", "blend:season:"},
		{"non-numeric weight", "blend:season:heavy"},
		{"empty component", "blend:season:0.5/"},
		{"missing period", "blend::0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTimePeriod(tt.input)
			if err == nil {
				t.Fatalf("ParseTimePeriod(%q) expected error, got nil", tt.input)
			}
			if _, ok := err.(*ParseError); !ok {
				t.Errorf("Expected *ParseError, got %T", err)
			}
		})
	}
}

func TestParseTimePeriod_Delta(t *testing.T) {
	period, err := ParseTimePeriod("delta:games_10-season")
	if err != nil {
		t.Fatalf("ParseTimePeriod error = %v", err)
	}

	delta, ok := period.(DeltaPeriod)
	if !ok {
		t.Fatalf("Expected DeltaPeriod, got %T", period)
	}

	if recent, ok := delta.Recent.(BasePeriod); !ok || string(recent) != "games_10" {
		t.Errorf("Recent = %v, want games_10", delta.Recent)
	}
	if string(delta.Baseline) != "season" {
		t.Errorf("Baseline = %q, want season", delta.Baseline)
	}
}

func TestParseTimePeriod_DeltaWithBlendRecent(t *testing.T) {
	// A blend is allowed on the recent side, exactly one nesting level.
	period, err := ParseTimePeriod("delta:blend:games_5:0.7/games_10:0.3-season")
	if err != nil {
		t.Fatalf("ParseTimePeriod error = %v", err)
	}

	delta, ok := period.(DeltaPeriod)
	if !ok {
		t.Fatalf("Expected DeltaPeriod, got %T", period)
	}

	blend, ok := delta.Recent.(BlendPeriod)
	if !ok {
		t.Fatalf("Expected blend on recent side, got %T", delta.Recent)
	}
	if len(blend.Components) != 2 {
		t.Errorf("Expected 2 blend components, got %d", len(blend.Components))
	}
	if string(delta.Baseline) != "season" {
		t.Errorf("Baseline = %q, want season", delta.Baseline)
	}
}

func TestParseTimePeriod_DeltaAsymmetry(t *testing.T) {
	// The mirror image, blend on the baseline side, must be rejected.
	_, err := ParseTimePeriod("delta:season-blend:games_5:0.7/games_10:0.3")
	if err == nil {
		t.Fatal("Expected error for blend baseline, got nil")
	}
	if _, ok := err.(*ParseError); !ok {
		t.Errorf("Expected *ParseError, got %T", err)
	}
}

func TestParseTimePeriod_DeltaErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing separator", "delta:games_10"},
		{"empty recent", "delta:-season"},
		{"empty baseline", "delta:games_10-"},
		{"nested delta recent", "delta:delta:games_5-games_10-season"},
		{"delta baseline", "delta:games_10-delta:season"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTimePeriod(tt.input)
			if err == nil {
				t.Fatalf("ParseTimePeriod(%q) expected error, got nil", tt.input)
			}
		})
	}
}

func TestParseTimePeriod_DeltaSplitsOnLastHyphen(t *testing.T) {
	// The blend on the recent side may contain hyphenated content; only
	// the final hyphen separates recent from baseline.
	period, err := ParseTimePeriod("delta:blend:games_5:0.6/games_10:0.4-season")
	if err != nil {
		t.Fatalf("ParseTimePeriod error = %v", err)
	}
	delta := period.(DeltaPeriod)
	if string(delta.Baseline) != "season" {
		t.Errorf("Baseline = %q, want season", delta.Baseline)
	}
}

func TestLeaves(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"base", "games_10", []string{"games_10"}},
		{"blend", "blend:season:0.7/games_10:0.3", []string{"season", "games_10"}},
		{"delta", "delta:games_10-season", []string{"games_10", "season"}},
		{
			"delta with blend",
			"delta:blend:games_5:0.6/games_10:0.4-season",
			[]string{"games_5", "games_10", "season"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			period, err := ParseTimePeriod(tt.input)
			if err != nil {
				t.Fatalf("ParseTimePeriod(%q) error = %v", tt.input, err)
			}
			if got := period.Leaves(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Leaves() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTimePeriodString(t *testing.T) {
	blend := BlendPeriod{Components: []BlendComponent{
		{Period: "season", Weight: 0.7},
		{Period: "games_10", Weight: 0.3},
	}}
	if got := blend.String(); got != "blend:season:0.7/games_10:0.3" {
		t.Errorf("BlendPeriod.String() = %q", got)
	}

	delta := DeltaPeriod{Recent: BasePeriod("games_10"), Baseline: "season"}
	if got := delta.String(); got != "delta:games_10-season" {
		t.Errorf("DeltaPeriod.String() = %q", got)
	}

	nested := DeltaPeriod{Recent: blend, Baseline: "season"}
	if got := nested.String(); got != "delta:blend:season:0.7/games_10:0.3-season" {
		t.Errorf("nested String() = %q", got)
	}
}

func TestIsComposite(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"season", false},
		{"games_10", false},
		{"blend:season:0.7/games_10:0.3", true},
		{"delta:games_10-season", true},
	}

	for _, tt := range tests {
		if got := IsComposite(tt.input); got != tt.want {
			t.Errorf("IsComposite(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
