package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/smbl64/lox/internal/config"
)

func TestLoadSourceFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.lox")
	if err := os.WriteFile(path, []byte(`print "hi";`), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	source, err := loadSource(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source != `print "hi";` {
		t.Errorf("got %q", source)
	}
}

func TestLoadSourceMissingFileIsAnError(t *testing.T) {
	_, err := loadSource(filepath.Join(t.TempDir(), "missing.lox"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestScanAndParseReportsScanErrors(t *testing.T) {
	_, _, ok := scanAndParse("var x = @;")
	if ok {
		t.Fatal("expected scanAndParse to fail on an unexpected character")
	}
}

func TestScanAndParseReportsParseErrors(t *testing.T) {
	_, _, ok := scanAndParse("var ;")
	if ok {
		t.Fatal("expected scanAndParse to fail on a malformed declaration")
	}
}

func TestScanAndParseSucceeds(t *testing.T) {
	_, statements, ok := scanAndParse(`print "hi";`)
	if !ok {
		t.Fatal("expected scanAndParse to succeed")
	}
	if len(statements) != 1 {
		t.Fatalf("got %d statements, want 1", len(statements))
	}
}

func TestResolveProgramRejectsOutOfLoopBreakUnderStrictPolicy(t *testing.T) {
	_, statements, ok := scanAndParse("break;")
	if !ok {
		t.Fatal("unexpected scan/parse failure")
	}
	_, ok = resolveProgram(statements, config.BreakStrict, "break;")
	if ok {
		t.Fatal("expected resolveProgram to reject an out-of-loop break under the strict policy")
	}
}

func TestRunSourceExitCodes(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   int
	}{
		{"success", `print "ok";`, exitOK},
		{"scan error", "var x = @;", exitStaticErrors},
		{"parse error", "var ;", exitStaticErrors},
		{"runtime error", `print undefinedThing;`, exitRuntimeError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			got := runSource(tt.source, &buf, config.Default())
			if got != tt.want {
				t.Errorf("runSource(%q) = %d, want %d", tt.source, got, tt.want)
			}
		})
	}
}

// TestTestdataFixtures runs every .lox file under ../../../testdata end to
// end through loadSource and runSource, snapshotting its output — grounded
// in the teacher's fixture-directory test style (internal/interp's
// TestDWScriptFixtures), scaled down to this language's much smaller
// example set.
func TestTestdataFixtures(t *testing.T) {
	fixtures, err := filepath.Glob("../../../testdata/*.lox")
	if err != nil {
		t.Fatalf("failed to glob testdata fixtures: %v", err)
	}
	if len(fixtures) == 0 {
		t.Fatal("expected at least one .lox fixture under testdata/")
	}

	for _, path := range fixtures {
		name := filepath.Base(path)
		t.Run(name, func(t *testing.T) {
			source, err := loadSource(path)
			if err != nil {
				t.Fatalf("failed to load %s: %v", path, err)
			}
			var buf bytes.Buffer
			exitCode := runSource(source, &buf, config.Default())
			if exitCode != exitOK {
				t.Fatalf("%s: runSource returned exit code %d, want %d (output so far: %q)", name, exitCode, exitOK, buf.String())
			}
			snaps.MatchSnapshot(t, buf.String())
		})
	}
}

func TestRunSourceOutputSnapshots(t *testing.T) {
	programs := map[string]string{
		"fibonacci": `
fun fib(n) {
  if (n < 2) return n;
  return fib(n - 1) + fib(n - 2);
}
for (var i = 0; i < 8; i = i + 1) {
  print fib(i);
}`,
		"classes_and_inheritance": `
class Animal {
  speak() { print "..."; }
  describe() { this.speak(); }
}
class Dog < Animal {
  speak() { print "Woof"; }
}
Dog().describe();`,
		"closures": `
fun makeCounter() {
  var count = 0;
  fun increment() {
    count = count + 1;
    print count;
  }
  return increment;
}
var counter = makeCounter();
counter();
counter();`,
	}

	for name, source := range programs {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			exitCode := runSource(source, &buf, config.Default())
			if exitCode != exitOK {
				t.Fatalf("runSource returned exit code %d, want %d", exitCode, exitOK)
			}
			snaps.MatchSnapshot(t, buf.String())
		})
	}
}
