// Package extractor derives function, class, and import facts from Python
// source text. The primary strategy is a tree-sitter structural parse;
// when the parse tree contains errors it falls back to line-scanning
// regexes that recover approximate facts. Extraction never fails: the
// caller always gets facts, tagged with the confidence they were derived
// at.
package extractor

import (
	"context"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/mergegate/mergegate/domain"
)

// Param is a single function parameter
type Param struct {
	Name       string
	Annotation string
	Default    string
}

// Function is a best-effort fact about one function definition
type Function struct {
	Name    string
	Line    int
	EndLine int
	Params  []Param
	Returns string
	IsAsync bool
}

// Public reports whether the function is part of the public surface
func (f Function) Public() bool {
	return !strings.HasPrefix(f.Name, "_")
}

// Signature renders the full signature string, e.g. "(a: int, b=False) -> str"
func (f Function) Signature() string {
	var sb strings.Builder
	sb.WriteString("(")
	for i, p := range f.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Name)
		if p.Annotation != "" {
			sb.WriteString(": ")
			sb.WriteString(p.Annotation)
		}
		if p.Default != "" {
			sb.WriteString("=")
			sb.WriteString(p.Default)
		}
	}
	sb.WriteString(")")
	if f.Returns != "" {
		sb.WriteString(" -> ")
		sb.WriteString(f.Returns)
	}
	return sb.String()
}

// RequiredSignature renders only the parameters without defaults plus the
// return annotation. Adding an optional parameter leaves this unchanged,
// so callers comparing signatures for compatibility use this form.
func (f Function) RequiredSignature() string {
	var sb strings.Builder
	sb.WriteString("(")
	first := true
	for _, p := range f.Params {
		if p.Default != "" {
			continue
		}
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(p.Name)
		if p.Annotation != "" {
			sb.WriteString(": ")
			sb.WriteString(p.Annotation)
		}
	}
	sb.WriteString(")")
	if f.Returns != "" {
		sb.WriteString(" -> ")
		sb.WriteString(f.Returns)
	}
	return sb.String()
}

// Class is a best-effort fact about one class definition
type Class struct {
	Name string
	Line int
}

// Public reports whether the class is part of the public surface
func (c Class) Public() bool {
	return !strings.HasPrefix(c.Name, "_")
}

// Import is a best-effort fact about one import statement
type Import struct {
	Module string
	Line   int
}

// FileFacts holds everything extracted from one file
type FileFacts struct {
	Path       string
	Functions  []Function
	Classes    []Class
	Imports    []Import
	Confidence domain.Confidence
}

// FunctionByName returns the first function with the given name, or nil
func (f *FileFacts) FunctionByName(name string) *Function {
	for i := range f.Functions {
		if f.Functions[i].Name == name {
			return &f.Functions[i]
		}
	}
	return nil
}

// Extractor wraps a tree-sitter parser configured for Python. The
// parser itself is not safe for concurrent use, so Extract serializes
// access to it; callers may share one Extractor across goroutines.
type Extractor struct {
	mu     sync.Mutex
	parser *sitter.Parser
}

// NewExtractor creates a new extractor
func NewExtractor() *Extractor {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	return &Extractor{parser: parser}
}

// Close frees the parser resources
func (e *Extractor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.parser != nil {
		e.parser.Close()
		e.parser = nil
	}
}

// Extract derives facts from source text. It never returns an error: a
// failed or error-ridden parse degrades to the regex fallback.
func (e *Extractor) Extract(path string, source []byte) *FileFacts {
	e.mu.Lock()
	tree, err := e.parser.ParseCtx(context.Background(), nil, source)
	e.mu.Unlock()
	if err != nil || tree == nil {
		return extractFallback(path, string(source))
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil || root.HasError() {
		return extractFallback(path, string(source))
	}

	facts := &FileFacts{Path: path, Confidence: domain.ConfidenceStructural}
	walk(root, source, facts)
	return facts
}

// ExtractString is a convenience wrapper that creates and closes an
// extractor for a single file
func ExtractString(path, content string) *FileFacts {
	e := NewExtractor()
	defer e.Close()
	return e.Extract(path, []byte(content))
}

// walk collects facts from the parse tree in source order
func walk(node *sitter.Node, source []byte, facts *FileFacts) {
	switch node.Type() {
	case "function_definition":
		facts.Functions = append(facts.Functions, buildFunction(node, source))
	case "class_definition":
		if name := node.ChildByFieldName("name"); name != nil {
			facts.Classes = append(facts.Classes, Class{
				Name: name.Content(source),
				Line: int(node.StartPoint().Row) + 1,
			})
		}
	case "import_statement":
		facts.Imports = append(facts.Imports, buildImports(node, source)...)
	case "import_from_statement":
		if module := node.ChildByFieldName("module_name"); module != nil {
			facts.Imports = append(facts.Imports, Import{
				Module: module.Content(source),
				Line:   int(node.StartPoint().Row) + 1,
			})
		}
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child != nil {
			walk(child, source, facts)
		}
	}
}

// buildFunction converts a function_definition node into a Function fact
func buildFunction(node *sitter.Node, source []byte) Function {
	fn := Function{
		Line:    int(node.StartPoint().Row) + 1,
		EndLine: int(node.EndPoint().Row) + 1,
	}

	if name := node.ChildByFieldName("name"); name != nil {
		fn.Name = name.Content(source)
	}
	if ret := node.ChildByFieldName("return_type"); ret != nil {
		fn.Returns = ret.Content(source)
	}

	// The async keyword is an anonymous leading token of the definition
	for i := 0; i < int(node.ChildCount()); i++ {
		if child := node.Child(i); child != nil && child.Type() == "async" {
			fn.IsAsync = true
			break
		}
	}

	if params := node.ChildByFieldName("parameters"); params != nil {
		for i := 0; i < int(params.NamedChildCount()); i++ {
			child := params.NamedChild(i)
			if child == nil {
				continue
			}
			if p, ok := buildParam(child, source); ok {
				fn.Params = append(fn.Params, p)
			}
		}
	}

	return fn
}

// buildParam converts a parameter node into a Param fact
func buildParam(node *sitter.Node, source []byte) (Param, bool) {
	switch node.Type() {
	case "identifier":
		return Param{Name: node.Content(source)}, true

	case "typed_parameter":
		p := Param{}
		// First named child is the parameter name (identifier or splat)
		if inner := node.NamedChild(0); inner != nil {
			p.Name = inner.Content(source)
		}
		if typ := node.ChildByFieldName("type"); typ != nil {
			p.Annotation = typ.Content(source)
		}
		return p, p.Name != ""

	case "default_parameter":
		p := Param{}
		if name := node.ChildByFieldName("name"); name != nil {
			p.Name = name.Content(source)
		}
		if value := node.ChildByFieldName("value"); value != nil {
			p.Default = value.Content(source)
		}
		return p, p.Name != ""

	case "typed_default_parameter":
		p := Param{}
		if name := node.ChildByFieldName("name"); name != nil {
			p.Name = name.Content(source)
		}
		if typ := node.ChildByFieldName("type"); typ != nil {
			p.Annotation = typ.Content(source)
		}
		if value := node.ChildByFieldName("value"); value != nil {
			p.Default = value.Content(source)
		}
		return p, p.Name != ""

	case "list_splat_pattern", "dictionary_splat_pattern":
		return Param{Name: node.Content(source)}, true
	}

	// Separators ("*", "/") and anything unrecognized are skipped
	return Param{}, false
}

// buildImports converts an import_statement into Import facts, one per
// imported module
func buildImports(node *sitter.Node, source []byte) []Import {
	line := int(node.StartPoint().Row) + 1
	var imports []Import

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "dotted_name":
			imports = append(imports, Import{Module: child.Content(source), Line: line})
		case "aliased_import":
			if name := child.ChildByFieldName("name"); name != nil {
				imports = append(imports, Import{Module: name.Content(source), Line: line})
			}
		}
	}

	return imports
}
