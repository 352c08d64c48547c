package interp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/smbl64/lox/internal/parser"
	"github.com/smbl64/lox/internal/resolver"
	"github.com/smbl64/lox/internal/scanner"
)

// run parses, resolves, and interprets source, failing the test on any
// scan/parse/resolve diagnostic, and returns the captured stdout together
// with whatever runtime error (if any) escaped Interpret.
func run(t *testing.T, source string) (string, *RuntimeError) {
	t.Helper()
	toks, scanErrs := scanner.ScanAll(source)
	if scanErrs.HasErrors() {
		t.Fatalf("unexpected scan errors: %v", scanErrs)
	}
	statements, parseErrs := parser.New(toks).Parse()
	if parseErrs.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", parseErrs)
	}
	depths, resolveErrs := resolver.Resolve(statements)
	if resolveErrs.HasErrors() {
		t.Fatalf("unexpected resolve errors: %v", resolveErrs)
	}

	var buf bytes.Buffer
	i := New(&buf)
	rerr := i.Interpret(statements, depths)
	return buf.String(), rerr
}

func TestClosureCapturesEnclosingVariable(t *testing.T) {
	out, rerr := run(t, `
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
counter();
counter();`)
	if rerr != nil {
		t.Fatalf("unexpected runtime error: %v", rerr)
	}
	if out != "1\n2\n3\n" {
		t.Errorf("got output %q, want %q", out, "1\n2\n3\n")
	}
}

func TestLexicalOverDynamicScoping(t *testing.T) {
	// The canonical example: `showA` must always print the global "global",
	// never the "block" binding that is merely active when it is called.
	out, rerr := run(t, `
var a = "global";
{
  fun showA() {
    print a;
  }
  showA();
  var a = "block";
  showA();
}`)
	if rerr != nil {
		t.Fatalf("unexpected runtime error: %v", rerr)
	}
	if out != "global\nglobal\n" {
		t.Errorf("got output %q, want %q", out, "global\nglobal\n")
	}
}

func TestThisBindingStableAcrossReassignment(t *testing.T) {
	out, rerr := run(t, `
class Thing {
  getCallback() {
    fun localFunction() {
      print this;
    }
    return localFunction;
  }
}
var callback = Thing().getCallback();
callback();`)
	if rerr != nil {
		t.Fatalf("unexpected runtime error: %v", rerr)
	}
	if out != "Thing instance\n" {
		t.Errorf("got output %q, want %q", out, "Thing instance\n")
	}
}

func TestInitializerAlwaysReturnsInstance(t *testing.T) {
	out, rerr := run(t, `
class Box {
  init(value) {
    this.value = value;
    return;
  }
}
var b = Box(42);
print b.value;`)
	if rerr != nil {
		t.Fatalf("unexpected runtime error: %v", rerr)
	}
	if out != "42\n" {
		t.Errorf("got output %q, want %q", out, "42\n")
	}
}

func TestSuperclassMethodDispatch(t *testing.T) {
	out, rerr := run(t, `
class Animal {
  speak() {
    print "...";
  }
  describe() {
    this.speak();
  }
}
class Dog < Animal {
  speak() {
    print "Woof";
  }
}
Dog().describe();`)
	if rerr != nil {
		t.Fatalf("unexpected runtime error: %v", rerr)
	}
	if out != "Woof\n" {
		t.Errorf("got output %q, want %q", out, "Woof\n")
	}
}

func TestSuperCallsParentMethodExplicitly(t *testing.T) {
	out, rerr := run(t, `
class Animal {
  speak() {
    print "...";
  }
}
class Dog < Animal {
  speak() {
    super.speak();
    print "Woof";
  }
}
Dog().speak();`)
	if rerr != nil {
		t.Fatalf("unexpected runtime error: %v", rerr)
	}
	if out != "...\nWoof\n" {
		t.Errorf("got output %q, want %q", out, "...\nWoof\n")
	}
}

func TestBreakExitsInnermostLoopOnly(t *testing.T) {
	out, rerr := run(t, `
for (var i = 0; i < 3; i = i + 1) {
  for (var j = 0; j < 3; j = j + 1) {
    if (j == 1) break;
    print j;
  }
  print i;
}`)
	if rerr != nil {
		t.Fatalf("unexpected runtime error: %v", rerr)
	}
	want := "0\n0\n0\n1\n0\n2\n"
	if out != want {
		t.Errorf("got output %q, want %q", out, want)
	}
}

func TestShortCircuitEvaluation(t *testing.T) {
	out, rerr := run(t, `
fun sideEffect(name, value) {
  print name;
  return value;
}
if (sideEffect("left", false) and sideEffect("right", true)) {}
if (sideEffect("left2", true) or sideEffect("right2", true)) {}`)
	if rerr != nil {
		t.Fatalf("unexpected runtime error: %v", rerr)
	}
	// "right"/"right2" must never print since the left side already
	// determined the result.
	if strings.Contains(out, "right") {
		t.Errorf("short-circuit failed, got output %q", out)
	}
	if out != "left\nleft2\n" {
		t.Errorf("got output %q, want %q", out, "left\nleft2\n")
	}
}

func TestEqualityRules(t *testing.T) {
	out, rerr := run(t, `
print 1 == 1;
print 1 == 2;
print "a" == "a";
print "a" == "b";
print nil == nil;
print 1 == "1";
print nil == false;`)
	if rerr != nil {
		t.Fatalf("unexpected runtime error: %v", rerr)
	}
	want := "true\nfalse\ntrue\nfalse\ntrue\nfalse\nfalse\n"
	if out != want {
		t.Errorf("got output %q, want %q", out, want)
	}
}

func TestArithmeticOnNonNumberIsARuntimeError(t *testing.T) {
	_, rerr := run(t, `print "a" - 1;`)
	if rerr == nil {
		t.Fatal("expected a runtime error")
	}
	if !strings.Contains(rerr.Message, "Operands must be numbers") {
		t.Errorf("got message %q", rerr.Message)
	}
}

func TestUndefinedVariableIsARuntimeError(t *testing.T) {
	_, rerr := run(t, `print undefinedThing;`)
	if rerr == nil {
		t.Fatal("expected a runtime error")
	}
	if !strings.Contains(rerr.Message, "Undefined variable") {
		t.Errorf("got message %q", rerr.Message)
	}
}

func TestFibonacciEndToEnd(t *testing.T) {
	out, rerr := run(t, `
fun fib(n) {
  if (n < 2) return n;
  return fib(n - 1) + fib(n - 2);
}
print fib(10);`)
	if rerr != nil {
		t.Fatalf("unexpected runtime error: %v", rerr)
	}
	if out != "55\n" {
		t.Errorf("got output %q, want %q", out, "55\n")
	}
}

func TestClassFieldsAndMethodsEndToEnd(t *testing.T) {
	out, rerr := run(t, `
class Counter {
  init() {
    this.count = 0;
  }
  increment() {
    this.count = this.count + 1;
    return this.count;
  }
}
var c = Counter();
print c.increment();
print c.increment();
print c.increment();`)
	if rerr != nil {
		t.Fatalf("unexpected runtime error: %v", rerr)
	}
	if out != "1\n2\n3\n" {
		t.Errorf("got output %q, want %q", out, "1\n2\n3\n")
	}
}

func TestNumberStringification(t *testing.T) {
	out, rerr := run(t, `
print 1;
print 1.5;
print 10 / 5;`)
	if rerr != nil {
		t.Fatalf("unexpected runtime error: %v", rerr)
	}
	if out != "1\n1.5\n2\n" {
		t.Errorf("got output %q, want %q", out, "1\n1.5\n2\n")
	}
}

func TestNativeClockIsCallableWithNoArguments(t *testing.T) {
	_, rerr := run(t, `
var t = clock();
print t > 0;`)
	if rerr != nil {
		t.Fatalf("unexpected runtime error: %v", rerr)
	}
}

func TestCallChecksCalleeBeforeEvaluatingArguments(t *testing.T) {
	_, rerr := run(t, `
var x = 3;
x(undefinedThing);`)
	if rerr == nil {
		t.Fatal("expected a runtime error")
	}
	if !strings.Contains(rerr.Message, "Can only call functions and classes") {
		t.Errorf("got message %q, want the non-callable-callee error (callee must be checked before arguments are evaluated)", rerr.Message)
	}
}

func TestCallChecksArityBeforeEvaluatingArguments(t *testing.T) {
	_, rerr := run(t, `
fun f() {}
f(undefinedThing);`)
	if rerr == nil {
		t.Fatal("expected a runtime error")
	}
	if !strings.Contains(rerr.Message, "Expected 0 arguments but got 1") {
		t.Errorf("got message %q, want an arity error (arity must be checked before arguments are evaluated)", rerr.Message)
	}
}

func TestPrintEvaluatesAndWritesEachExpressionImmediately(t *testing.T) {
	out, rerr := run(t, `
fun emitX() {
  print "X";
  return "1";
}
fun emitY() {
  print "Y";
  return "2";
}
print emitX(), emitY();`)
	if rerr != nil {
		t.Fatalf("unexpected runtime error: %v", rerr)
	}
	// Each argument's side-effecting print must land before the next
	// argument is even evaluated; batching all values before writing
	// would instead produce "X\nY\n12\n".
	want := "X\n1Y\n2\n"
	if out != want {
		t.Errorf("got output %q, want %q", out, want)
	}
}
