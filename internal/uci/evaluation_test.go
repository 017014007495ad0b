package uci

import (
	"testing"
)

func TestFormatEvaluation(t *testing.T) {
	tests := []struct {
		name string
		eval *Evaluation
		want string
	}{
		{"positive centipawns", &Evaluation{Score: 123}, "+1.23"},
		{"negative centipawns", &Evaluation{Score: -45}, "-0.45"},
		{"zero", &Evaluation{Score: 0}, "+0.00"},
		{"large", &Evaluation{Score: 1250}, "+12.50"},
		{"small positive", &Evaluation{Score: 15}, "+0.15"},
		{"small negative", &Evaluation{Score: -8}, "-0.08"},
		{"exactly one pawn", &Evaluation{Score: 100}, "+1.00"},
		{"exactly minus one pawn", &Evaluation{Score: -100}, "-1.00"},
		{"very large negative", &Evaluation{Score: -9999}, "-99.99"},
		{"mate in one", &Evaluation{IsMate: true, MateIn: 1}, "+M1"},
		{"positive mate", &Evaluation{IsMate: true, MateIn: 3}, "+M3"},
		{"negative mate", &Evaluation{IsMate: true, MateIn: -5}, "-M5"},
		{"getting mated in many", &Evaluation{IsMate: true, MateIn: -20}, "-M20"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := FormatEvaluation(tt.eval)
			if got != tt.want {
				t.Errorf("FormatEvaluation() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseInfo(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		start Evaluation
		want  Evaluation
	}{
		{
			name: "depth",
			line: "info depth 20 seldepth 25 multipv 1 score cp 125 nodes 123456",
			want: Evaluation{Depth: 20, Score: 125},
		},
		{
			name: "mate score",
			line: "info depth 15 score mate 3 nodes 100000",
			want: Evaluation{Depth: 15, IsMate: true, MateIn: 3},
		},
		{
			name: "negative centipawns",
			line: "info depth 18 score cp -50 nodes 200000",
			want: Evaluation{Depth: 18, Score: -50},
		},
		{
			name: "negative mate",
			line: "info depth 20 score mate -3 nodes 300000",
			want: Evaluation{Depth: 20, IsMate: true, MateIn: -3},
		},
		{
			name:  "missing fields keep values",
			line:  "info nodes 100000 time 500",
			start: Evaluation{Depth: 10, Score: 50},
			want:  Evaluation{Depth: 10, Score: 50},
		},
		{
			name:  "empty line",
			line:  "",
			start: Evaluation{Depth: 10, Score: 25},
			want:  Evaluation{Depth: 10, Score: 25},
		},
		{
			name: "score at end of line",
			line: "info depth 10 score",
			want: Evaluation{Depth: 10},
		},
		{
			name: "depth at end of line",
			line: "info nodes 100000 depth",
			want: Evaluation{},
		},
		{
			name: "realistic line",
			line: "info depth 22 seldepth 31 multipv 1 score cp 35 nodes 2145678 nps 2500000 hashfull 456 tbhits 0 time 858 pv e2e4 e7e5 g1f3",
			want: Evaluation{Depth: 22, Score: 35},
		},
		{
			name:  "only depth updates",
			line:  "info depth 10",
			start: Evaluation{Depth: 5, Score: 100, BestMove: "e2e4"},
			want:  Evaluation{Depth: 10, Score: 100, BestMove: "e2e4"},
		},
		{
			name:  "centipawns clear an earlier mate",
			line:  "info depth 9 score cp 80",
			start: Evaluation{IsMate: true, MateIn: 4},
			want:  Evaluation{Depth: 9, Score: 80, MateIn: 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Engine{}
			eval := tt.start
			e.parseInfo(tt.line, &eval)
			if eval != tt.want {
				t.Errorf("parseInfo(%q) = %+v, want %+v", tt.line, eval, tt.want)
			}
		})
	}
}
