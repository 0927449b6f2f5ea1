package extractor

import (
	"strings"
	"sync"
	"testing"

	"github.com/mergegate/mergegate/domain"
)

const sampleSource = `import os
from services.user import UserService

class OrderHandler:
    def handle(self, order_id: int) -> dict:
        return {}

async def fetch_orders(limit: int = 10):
    pass

def _internal():
    pass
`

func TestExtractStructuralFacts(t *testing.T) {
	facts := ExtractString("orders.py", sampleSource)

	if facts.Confidence != domain.ConfidenceStructural {
		t.Fatalf("expected structural confidence, got %s", facts.Confidence)
	}

	if len(facts.Classes) != 1 || facts.Classes[0].Name != "OrderHandler" {
		t.Errorf("unexpected classes: %+v", facts.Classes)
	}

	if len(facts.Imports) != 2 {
		t.Fatalf("expected 2 imports, got %+v", facts.Imports)
	}
	if facts.Imports[0].Module != "os" {
		t.Errorf("expected first import os, got %s", facts.Imports[0].Module)
	}
	if facts.Imports[1].Module != "services.user" {
		t.Errorf("expected from-import module services.user, got %s", facts.Imports[1].Module)
	}

	names := make(map[string]Function)
	for _, fn := range facts.Functions {
		names[fn.Name] = fn
	}

	handle, ok := names["handle"]
	if !ok {
		t.Fatal("method handle not extracted")
	}
	if handle.Signature() != "(self, order_id: int) -> dict" {
		t.Errorf("unexpected signature: %s", handle.Signature())
	}

	fetch, ok := names["fetch_orders"]
	if !ok {
		t.Fatal("fetch_orders not extracted")
	}
	if !fetch.IsAsync {
		t.Error("fetch_orders should be async")
	}
	if len(fetch.Params) != 1 || fetch.Params[0].Default != "10" {
		t.Errorf("default parameter not captured: %+v", fetch.Params)
	}

	internal, ok := names["_internal"]
	if !ok {
		t.Fatal("_internal not extracted")
	}
	if internal.Public() {
		t.Error("_internal should not be public")
	}
}

func TestExtractFunctionBoundaries(t *testing.T) {
	source := `async def outer():
    x = 1
    y = 2
    return x + y
`
	facts := ExtractString("a.py", source)
	if len(facts.Functions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(facts.Functions))
	}
	fn := facts.Functions[0]
	if fn.Line != 1 {
		t.Errorf("expected start line 1, got %d", fn.Line)
	}
	if fn.EndLine < 4 {
		t.Errorf("expected end line >= 4, got %d", fn.EndLine)
	}
}

func TestExtractFallbackOnParseFailure(t *testing.T) {
	// Unclosed bracket forces an error tree
	source := "def broken(a: int, b=False) -> str:\n    return [\nclass Thing:\n    pass\nimport json\n"
	facts := ExtractString("broken.py", source)

	if facts.Confidence != domain.ConfidenceHeuristic {
		t.Fatalf("expected heuristic confidence, got %s", facts.Confidence)
	}

	fn := facts.FunctionByName("broken")
	if fn == nil {
		t.Fatal("fallback should recover the function name")
	}
	if fn.Returns != "str" {
		t.Errorf("expected return annotation str, got %q", fn.Returns)
	}
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %+v", fn.Params)
	}
	if fn.Params[0].Annotation != "int" || fn.Params[1].Default != "False" {
		t.Errorf("params not parsed: %+v", fn.Params)
	}
	if fn.EndLine != fn.Line+20 {
		t.Errorf("fallback end line should use the fixed span, got %d", fn.EndLine)
	}

	if len(facts.Classes) != 1 || facts.Classes[0].Name != "Thing" {
		t.Errorf("fallback should recover classes: %+v", facts.Classes)
	}
	if len(facts.Imports) != 1 || facts.Imports[0].Module != "json" {
		t.Errorf("fallback should recover imports: %+v", facts.Imports)
	}
}

func TestExtractNeverFails(t *testing.T) {
	inputs := []string{"", "\x00\x01\x02", "   \n\t\n", strings.Repeat("(", 500)}
	for _, input := range inputs {
		facts := ExtractString("junk.py", input)
		if facts == nil {
			t.Fatal("extraction must always return facts")
		}
	}
}

func TestExtractConcurrent(t *testing.T) {
	ext := NewExtractor()
	t.Cleanup(ext.Close)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				facts := ext.Extract("orders.py", []byte(sampleSource))
				if facts == nil || len(facts.Functions) != 3 {
					t.Errorf("unexpected facts under concurrency: %+v", facts)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestRequiredSignatureIgnoresOptionalParams(t *testing.T) {
	base := Function{Name: "f", Params: []Param{{Name: "a"}}}
	withOptional := Function{Name: "f", Params: []Param{{Name: "a"}, {Name: "b", Default: "False"}}}
	withRequired := Function{Name: "f", Params: []Param{{Name: "a"}, {Name: "b"}}}

	if base.RequiredSignature() != withOptional.RequiredSignature() {
		t.Error("adding an optional parameter should not change the required signature")
	}
	if base.RequiredSignature() == withRequired.RequiredSignature() {
		t.Error("adding a required parameter must change the required signature")
	}
}

func TestParseParamListNestedBrackets(t *testing.T) {
	params := parseParamList("items: Dict[str, int], default=(1, 2)")
	if len(params) != 2 {
		t.Fatalf("expected 2 params, got %+v", params)
	}
	if params[0].Annotation != "Dict[str, int]" {
		t.Errorf("nested annotation mangled: %+v", params[0])
	}
	if params[1].Default != "(1, 2)" {
		t.Errorf("nested default mangled: %+v", params[1])
	}
}
