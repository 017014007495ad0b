package matching

import (
	"testing"

	"github.com/lgbarn/termchess/internal/errors"
	"github.com/lgbarn/termchess/internal/testutil"
)

func TestMaterialMatcher(t *testing.T) {
	const queenTrap = "4k3/8/8/8/8/8/3q4/4K3 w - - 0 1"

	tests := []struct {
		name    string
		pattern string
		exact   bool
		start   string
		tokens  []string
		want    bool
	}{
		{"full armies exact", "KQRRBBNNPPPPPPPP:kqrrbbnnpppppppp", true, "", []string{"e2e4"}, true},
		{"minimum queens", "Q:q", false, "", []string{"e2e4"}, true},
		{"lowercase on white's side", "qr:", false, "", []string{"e2e4"}, true},
		{"pawn down after the mate", "QRRBBNNPPPPPPPP:qrrbbnnppppppp", true, "", scholarsMate, true},
		{"pawn down never reached", "QRRBBNNPPPPPPPP:qrrbbnnppppppp", true, "", []string{"e2e4", "e7e5"}, false},
		{"bare kings after the capture", ":", true, queenTrap, []string{"e1d2"}, true},
		{"bare kings before the capture", ":", true, queenTrap, nil, false},
		{"white has no queen", "Q:", false, queenTrap, []string{"e1d2"}, false},
		{"empty minimum", "", false, queenTrap, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mm, err := NewMaterialMatcher(tt.pattern, tt.exact)
			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, mm.Match(playGame(t, tt.start, tt.tokens...)), tt.want)
		})
	}
}

func TestMaterialMatcher_Errors(t *testing.T) {
	for _, pattern := range []string{"Q:q:r", "X:k", "Q:q1"} {
		_, err := NewMaterialMatcher(pattern, false)
		testutil.AssertErrorIs(t, err, errors.ErrInvalidConfig, pattern)
	}
}

func TestMaterialMatcher_Name(t *testing.T) {
	mm, err := NewMaterialMatcher("QR:q", false)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, mm.Name(), "MaterialMatcher(QR:q)")
}
