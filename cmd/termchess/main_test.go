package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lgbarn/termchess/internal/chess"
	"github.com/lgbarn/termchess/internal/config"
	"github.com/lgbarn/termchess/internal/engine"
	"github.com/lgbarn/termchess/internal/errors"
	"github.com/lgbarn/termchess/internal/output"
	"github.com/lgbarn/termchess/internal/testutil"
)

// isolateConfig points the per-user config directory at an empty temp dir.
func isolateConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	return dir
}

func runArgs(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeLog(t *testing.T, dir, name string, tokens ...string) string {
	t.Helper()
	_, fens := testutil.MustPlay(t, tokens...)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(strings.Join(fens, "\n")+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func playConfig(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()
	o := &options{}
	fs := newFlagSet("termchess", io.Discard, playUsage)
	o.defineCommon(fs)
	o.definePlay(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Parse(%v): %v", args, err)
	}
	return loadConfig(fs, o)
}

func TestRun_Version(t *testing.T) {
	code, stdout, _ := runArgs(t, "", "version")
	testutil.AssertEqual(t, code, 0)
	testutil.AssertEqual(t, stdout, "termchess version "+programVersion+"\n")
}

func TestLoadConfig_Flags(t *testing.T) {
	isolateConfig(t)

	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, cfg *config.Config)
	}{
		{"defaults", nil, func(t *testing.T, cfg *config.Config) {
			testutil.AssertEqual(t, cfg.Engine.Path, "stockfish")
			testutil.AssertEqual(t, cfg.Engine.Depth, config.DefaultDepth)
			testutil.AssertEqual(t, cfg.Play.HumanColour, chess.White)
		}},
		{"colour", []string{"-colour", "black"}, func(t *testing.T, cfg *config.Config) {
			testutil.AssertEqual(t, cfg.Play.HumanColour, chess.Black)
		}},
		{"engine settings", []string{"-engine", "/opt/sf", "-depth", "15", "-skill", "5"}, func(t *testing.T, cfg *config.Config) {
			testutil.AssertEqual(t, cfg.Engine.Path, "/opt/sf")
			testutil.AssertEqual(t, cfg.Engine.Depth, 15)
			testutil.AssertEqual(t, cfg.Engine.SkillLevel, 5)
		}},
		{"no engine", []string{"-noengine"}, func(t *testing.T, cfg *config.Config) {
			testutil.AssertFalse(t, cfg.Engine.Enabled())
		}},
		{"start position", []string{"-fen", "4k3/8/8/8/8/8/8/4K3 w - - 0 1"}, func(t *testing.T, cfg *config.Config) {
			testutil.AssertEqual(t, cfg.Play.StartFEN, "4k3/8/8/8/8/8/8/4K3 w - - 0 1")
		}},
		{"debug and log", []string{"-debug", "-log", "game.log", "-data", "saves"}, func(t *testing.T, cfg *config.Config) {
			testutil.AssertTrue(t, cfg.Debug)
			testutil.AssertEqual(t, cfg.LogPath, "game.log")
			testutil.AssertEqual(t, cfg.DataDir, "saves")
		}},
		{"names", []string{"-white", "Ann", "-black", "Ben"}, func(t *testing.T, cfg *config.Config) {
			testutil.AssertEqual(t, cfg.Play.White, "Ann")
			testutil.AssertEqual(t, cfg.Play.Black, "Ben")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := playConfig(t, tt.args...)
			testutil.AssertNoError(t, err)
			if cfg != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	isolateConfig(t)

	tests := []struct {
		name string
		args []string
	}{
		{"depth too deep", []string{"-depth", "40"}},
		{"depth zero", []string{"-depth", "0"}},
		{"skill too high", []string{"-skill", "21"}},
		{"unknown colour", []string{"-colour", "green"}},
		{"missing config file", []string{"-config", "/nonexistent/termchess.json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := playConfig(t, tt.args...)
			testutil.AssertError(t, err)
		})
	}

	_, err := playConfig(t, "-depth", "31")
	testutil.AssertErrorIs(t, err, errors.ErrInvalidConfig)
}

func TestLoadConfig_FileThenFlags(t *testing.T) {
	dir := isolateConfig(t)
	path := filepath.Join(dir, "termchess.json")
	content := `{"engine_path": "/usr/games/stockfish", "depth": 12, "colour": "black", "white": "Ann"}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := playConfig(t, "-config", path)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, cfg.Engine.Path, "/usr/games/stockfish")
	testutil.AssertEqual(t, cfg.Engine.Depth, 12)
	testutil.AssertEqual(t, cfg.Play.HumanColour, chess.Black)
	testutil.AssertEqual(t, cfg.Play.White, "Ann")

	cfg, err = playConfig(t, "-config", path, "-depth", "4", "-colour", "white")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, cfg.Engine.Depth, 4)
	testutil.AssertEqual(t, cfg.Play.HumanColour, chess.White)
	testutil.AssertEqual(t, cfg.Engine.Path, "/usr/games/stockfish")
}

func TestLoadConfig_DefaultFile(t *testing.T) {
	dir := isolateConfig(t)
	path := config.DefaultFilePath()
	testutil.AssertTrue(t, strings.HasPrefix(path, dir), "%s not under %s", path, dir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(`{"skill_level": 3}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := playConfig(t)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, cfg.Engine.SkillLevel, 3)
}

func TestRun_BadFlags(t *testing.T) {
	isolateConfig(t)

	code, _, stderr := runArgs(t, "", "-nosuchflag")
	testutil.AssertEqual(t, code, 2)
	testutil.AssertContains(t, stderr, "Usage: termchess")

	code, _, _ = runArgs(t, "", "convert", "-h")
	testutil.AssertEqual(t, code, 0)

	code, _, stderr = runArgs(t, "", "-depth", "99")
	testutil.AssertEqual(t, code, 1)
	testutil.AssertContains(t, stderr, "Error:")
}

func TestRunReplay(t *testing.T) {
	isolateConfig(t)
	_, want := testutil.MustPlay(t, "e2e4", "e7e5", "g1f3")

	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{"arguments", "", []string{"replay", "1.", "e4", "e5", "2.", "Nf3"}},
		{"stdin movetext", "1. e4 e5 2. Nf3 *\n", []string{"replay"}},
		{"stdin PGN", "[Event \"x\"]\n[White \"a\"]\n\n1. e4 e5 2. Nf3 *\n", []string{"replay"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runArgs(t, tt.stdin, tt.args...)
			testutil.AssertEqual(t, code, 0, "stderr: %s", stderr)
			testutil.AssertEqual(t, strings.Split(strings.TrimSpace(stdout), "\n"), want)
		})
	}
}

func TestRunReplay_FromPosition(t *testing.T) {
	isolateConfig(t)
	start := "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1"

	code, stdout, _ := runArgs(t, "", "replay", "-fen", start, "e4", "Kd7")
	testutil.AssertEqual(t, code, 0)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	testutil.AssertEqual(t, len(lines), 3)
	testutil.AssertEqual(t, lines[0], start)
	testutil.AssertEqual(t, lines[2], "8/3k4/8/8/4P3/8/8/4K3 w - - 1 2")
}

func TestRunReplay_Errors(t *testing.T) {
	isolateConfig(t)

	code, _, stderr := runArgs(t, "", "replay", "e4", "e5", "Ke3")
	testutil.AssertEqual(t, code, 1)
	testutil.AssertContains(t, stderr, "Ke3")

	code, _, _ = runArgs(t, "", "replay", "-fen", "garbage", "e4")
	testutil.AssertEqual(t, code, 1)
}

func TestRunConvert(t *testing.T) {
	isolateConfig(t)
	in := t.TempDir()
	out := t.TempDir()
	first := writeLog(t, in, "first.fen", "e2e4", "e7e5", "g1f3")
	second := writeLog(t, in, "second.fen", "d2d4", "d7d5")

	code, _, stderr := runArgs(t, "", "convert", "-o", out, first, second)
	testutil.AssertEqual(t, code, 0, "stderr: %s", stderr)
	testutil.AssertContains(t, stderr, "2 game(s) written, 0 failed out of 2.")

	data, err := os.ReadFile(filepath.Join(out, "first.pgn"))
	testutil.AssertNoError(t, err)
	testutil.AssertContains(t, string(data), `[Event "first"]`)
	testutil.AssertContains(t, string(data), `[White "Player"]`)
	testutil.AssertContains(t, string(data), "1. e4 e5 2. Nf3 *")

	data, err = os.ReadFile(filepath.Join(out, "second.pgn"))
	testutil.AssertNoError(t, err)
	testutil.AssertContains(t, string(data), "1. d4 d5 *")
}

func TestRunConvert_NextToInput(t *testing.T) {
	isolateConfig(t)
	in := t.TempDir()
	path := writeLog(t, in, "game.txt", "e2e4")

	code, _, _ := runArgs(t, "", "convert", "-s", path)
	testutil.AssertEqual(t, code, 0)
	_, err := os.Stat(filepath.Join(in, "game.pgn"))
	testutil.AssertNoError(t, err)
}

func TestRunConvert_JSON(t *testing.T) {
	isolateConfig(t)
	in := t.TempDir()
	path := writeLog(t, in, "mate.fen", "f2f3", "e7e5", "g2g4", "d8h4")

	code, _, stderr := runArgs(t, "", "convert", "-J", "-s", path)
	testutil.AssertEqual(t, code, 0, "stderr: %s", stderr)

	data, err := os.ReadFile(filepath.Join(in, "mate.json"))
	testutil.AssertNoError(t, err)

	var doc struct {
		Games []output.JSONGame `json:"games"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("decoding %s: %v", data, err)
	}
	testutil.AssertEqual(t, len(doc.Games), 1)
	game := doc.Games[0]
	testutil.AssertEqual(t, game.Result, chess.BlackWins)
	testutil.AssertEqual(t, game.PlyCount, 4)
	testutil.AssertEqual(t, game.Moves[3].SAN, "Qh4#")
}

func TestRunConvert_Duplicates(t *testing.T) {
	isolateConfig(t)
	in := t.TempDir()
	out := t.TempDir()
	a := writeLog(t, in, "a.fen", "g1f3", "g8f6", "b1c3")
	b := writeLog(t, in, "b.fen", "b1c3", "g8f6", "g1f3")
	c := writeLog(t, in, "c.fen", "e2e4")

	code, _, stderr := runArgs(t, "", "convert", "-D", "-workers", "2", "-o", out, a, b, c)
	testutil.AssertEqual(t, code, 0, "stderr: %s", stderr)
	testutil.AssertContains(t, stderr, "2 game(s) written, 1 duplicate(s), 0 failed out of 3.")

	for name, want := range map[string]bool{"a.pgn": true, "b.pgn": false, "c.pgn": true} {
		_, err := os.Stat(filepath.Join(out, name))
		testutil.AssertEqual(t, err == nil, want, "%s exists", name)
	}
}

func TestRunConvert_Filters(t *testing.T) {
	isolateConfig(t)
	in := t.TempDir()
	mate := writeLog(t, in, "mate.fen", "f2f3", "e7e5", "g2g4", "d8h4")
	dance := writeLog(t, in, "dance.fen",
		"g1f3", "g8f6", "f3g1", "f6g8", "g1f3", "g8f6", "f3g1", "f6g8")
	short := writeLog(t, in, "short.fen", "e2e4")

	tests := []struct {
		name    string
		flags   []string
		want    []string
		summary string
	}{
		{"checkmate", []string{"-checkmate"}, []string{"mate.pgn"}, "1 game(s) written, 2 filtered, 0 failed out of 3."},
		{"repetition", []string{"-repetition"}, []string{"dance.pgn"}, "1 game(s) written, 2 filtered, 0 failed out of 3."},
		{"negated", []string{"-checkmate", "-n"}, []string{"dance.pgn", "short.pgn"}, "2 game(s) written, 1 filtered, 0 failed out of 3."},
		{"ply window", []string{"-minply", "2", "-maxply", "4"}, []string{"mate.pgn"}, "1 game(s) written, 2 filtered, 0 failed out of 3."},
		{"move sequence", []string{"-v", "1. e4"}, []string{"short.pgn"}, "1 game(s) written, 2 filtered, 0 failed out of 3."},
		{"either move sequence", []string{"-v", "e4", "-v", "Nf3 Nf6 Ng1"}, []string{"dance.pgn", "short.pgn"}, "2 game(s) written, 1 filtered, 0 failed out of 3."},
		{"tag criterion", []string{"-tag", "Result = 0-1"}, []string{"mate.pgn"}, "1 game(s) written, 2 filtered, 0 failed out of 3."},
		{"event is the file name", []string{"-tag", "Event ~ ^d"}, []string{"dance.pgn"}, "1 game(s) written, 2 filtered, 0 failed out of 3."},
		{"position pattern", []string{"-x", "*/*/*/*/??????Pq/*/*/*"}, []string{"mate.pgn"}, "1 game(s) written, 2 filtered, 0 failed out of 3."},
		{"exact material", []string{"-y", ":"}, nil, "0 game(s) written, 3 filtered, 0 failed out of 3."},
		{"minimum material", []string{"-z", "QRRBBNNPPPPPPPP:qrrbbnnpppppppp"}, []string{"dance.pgn", "mate.pgn", "short.pgn"}, "3 game(s) written, 0 filtered, 0 failed out of 3."},
		{"cql mate", []string{"-cql", "mate"}, []string{"mate.pgn"}, "1 game(s) written, 2 filtered, 0 failed out of 3."},
		{"cql piece", []string{"-cql", "(and btm (piece N f3))"}, []string{"dance.pgn"}, "1 game(s) written, 2 filtered, 0 failed out of 3."},
		{"cql with a tag criterion", []string{"-cql", "(piece P e4)", "-tag", "Event = short"}, []string{"short.pgn"}, "1 game(s) written, 2 filtered, 0 failed out of 3."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := t.TempDir()
			args := append([]string{"convert", "-o", out}, tt.flags...)
			args = append(args, mate, dance, short)

			code, _, stderr := runArgs(t, "", args...)
			testutil.AssertEqual(t, code, 0, "stderr: %s", stderr)
			testutil.AssertContains(t, stderr, tt.summary)

			entries, err := os.ReadDir(out)
			testutil.AssertNoError(t, err)
			var got []string
			for _, e := range entries {
				got = append(got, e.Name())
			}
			testutil.AssertEqual(t, got, tt.want)
		})
	}
}

func TestRunConvert_BadFilter(t *testing.T) {
	isolateConfig(t)
	log := writeLog(t, t.TempDir(), "a.fen", "e2e4")

	tests := []struct {
		name  string
		flags []string
	}{
		{"ply window", []string{"-minply", "9", "-maxply", "3"}},
		{"material", []string{"-z", "QX:"}},
		{"tag regex", []string{"-tag", "White ~ (x"}},
		{"position", []string{"-x", "8/8/8/8/8/8/8/8 w - - 0 1"}},
		{"criteria file", []string{"-t", filepath.Join(t.TempDir(), "missing.txt")}},
		{"cql syntax", []string{"-cql", "(and mate"}},
		{"cql argument", []string{"-cql", "piece e4 K"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"convert"}, tt.flags...)
			code, _, stderr := runArgs(t, "", append(args, log)...)
			testutil.AssertEqual(t, code, 1)
			testutil.AssertContains(t, stderr, "Error")
		})
	}
}

func TestRunConvert_CriteriaFile(t *testing.T) {
	isolateConfig(t)
	in := t.TempDir()
	out := t.TempDir()
	mate := writeLog(t, in, "mate.fen", "f2f3", "e7e5", "g2g4", "d8h4")
	short := writeLog(t, in, "short.fen", "e2e4")
	criteria := filepath.Join(in, "select.txt")
	if err := os.WriteFile(criteria, []byte("# fool's mate\nMoves g4 Qh4\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	code, _, stderr := runArgs(t, "", "convert", "-t", criteria, "-o", out, mate, short)
	testutil.AssertEqual(t, code, 0, "stderr: %s", stderr)
	testutil.AssertContains(t, stderr, "1 game(s) written, 1 filtered, 0 failed out of 2.")
	_, err := os.Stat(filepath.Join(out, "mate.pgn"))
	testutil.AssertNoError(t, err)
}

func TestRunConvert_Failures(t *testing.T) {
	isolateConfig(t)
	in := t.TempDir()
	good := writeLog(t, in, "good.fen", "e2e4")
	bad := filepath.Join(in, "bad.fen")
	if err := os.WriteFile(bad, []byte(engine.InitialFEN+"\n8/8/8/8/8/8/8/8 w - - 0 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	code, _, stderr := runArgs(t, "", "convert", good, bad, filepath.Join(in, "missing.fen"))
	testutil.AssertEqual(t, code, 1)
	testutil.AssertContains(t, stderr, "1 game(s) written, 2 failed out of 3.")

	code, _, stderr = runArgs(t, "", "convert")
	testutil.AssertEqual(t, code, 2)
	testutil.AssertContains(t, stderr, "no input files")
}

func TestRunDiagram(t *testing.T) {
	isolateConfig(t)

	code, stdout, stderr := runArgs(t, "", "diagram", "-highlight", "g1")
	testutil.AssertEqual(t, code, 0, "stderr: %s", stderr)
	testutil.AssertContains(t, stdout, "<svg")

	path := filepath.Join(t.TempDir(), "board.png")
	code, _, stderr = runArgs(t, "", "diagram", "-fen", "4k3/8/8/8/8/8/8/4K3 w - - 0 1", "-size", "16", "-o", path)
	testutil.AssertEqual(t, code, 0, "stderr: %s", stderr)
	data, err := os.ReadFile(path)
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, bytes.HasPrefix(data, []byte("\x89PNG")), "not a PNG")

	code, _, _ = runArgs(t, "", "diagram", "-highlight", "z9")
	testutil.AssertEqual(t, code, 2)
}

func TestApplyFlags_OnlyVisited(t *testing.T) {
	o := &options{}
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	o.defineCommon(fs)
	o.defineConvert(fs)
	if err := fs.Parse([]string{"-7", "-fencomments", "-w", "60"}); err != nil {
		t.Fatal(err)
	}

	cfg := config.NewConfig()
	cfg.Output.KeepResults = false
	testutil.AssertNoError(t, applyFlags(cfg, fs, o))
	testutil.AssertEqual(t, cfg.Output.TagFormat, config.SevenTagRoster)
	testutil.AssertTrue(t, cfg.Output.AddFENComments)
	testutil.AssertEqual(t, cfg.Output.MaxLineLength, uint(60))
	testutil.AssertFalse(t, cfg.Output.KeepResults, "unset -noresults must not override")
	testutil.AssertEqual(t, cfg.Output.Format, config.PGN)
}

func TestRunConvert_ECO(t *testing.T) {
	isolateConfig(t)
	in := t.TempDir()
	ecoFile := filepath.Join(in, "eco.pgn")
	if err := os.WriteFile(ecoFile, []byte("[ECO \"B20\"]\n[Opening \"Sicilian Defense\"]\n\n1. e4 c5 *\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	path := writeLog(t, in, "sicilian.fen", "e2e4", "c7c5", "g1f3")

	code, _, stderr := runArgs(t, "", "convert", "-s", "-e", ecoFile, path)
	testutil.AssertEqual(t, code, 0, "stderr: %s", stderr)
	data, err := os.ReadFile(filepath.Join(in, "sicilian.pgn"))
	testutil.AssertNoError(t, err)
	testutil.AssertContains(t, string(data), `[ECO "B20"]`)
	testutil.AssertContains(t, string(data), `[Opening "Sicilian Defense"]`)

	code, _, _ = runArgs(t, "", "convert", "-e", filepath.Join(in, "missing.pgn"), path)
	testutil.AssertEqual(t, code, 1)
}
