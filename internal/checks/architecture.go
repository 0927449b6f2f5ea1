package checks

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mergegate/mergegate/domain"
	"github.com/mergegate/mergegate/internal/config"
	"github.com/mergegate/mergegate/internal/constants"
	"github.com/mergegate/mergegate/internal/extractor"
)

// LayerSeparationCheck enforces the layered-architecture import rules
// declared in configuration
type LayerSeparationCheck struct {
	arch config.ArchitectureConfig
}

// NewLayerSeparationCheck creates a check bound to a layer hierarchy
func NewLayerSeparationCheck(arch config.ArchitectureConfig) *LayerSeparationCheck {
	return &LayerSeparationCheck{arch: arch}
}

// layerOf resolves the layer a file path belongs to, or nil when the
// path falls outside every configured layer
func (c *LayerSeparationCheck) layerOf(filePath string) *config.LayerDefinition {
	segments := strings.Split(filePath, "/")
	for i := range c.arch.Layers {
		layer := &c.arch.Layers[i]
		for _, layerPath := range layer.Paths {
			marker := strings.Trim(layerPath, "/")
			for _, seg := range segments {
				if seg == marker {
					return layer
				}
			}
		}
	}
	return nil
}

// layerOfModule resolves the layer an imported module belongs to by its
// dotted path
func (c *LayerSeparationCheck) layerOfModule(module string) *config.LayerDefinition {
	segments := strings.Split(module, ".")
	for i := range c.arch.Layers {
		layer := &c.arch.Layers[i]
		for _, layerPath := range layer.Paths {
			marker := strings.Trim(layerPath, "/")
			for _, seg := range segments {
				if seg == marker {
					return layer
				}
			}
		}
	}
	return nil
}

// Check reports imports that cross a prohibited layer boundary. Imports
// into layers the configuration does not know about are ignored.
func (c *LayerSeparationCheck) Check(facts *extractor.FileFacts) []domain.ArchitectureFinding {
	fileLayer := c.layerOf(facts.Path)
	if fileLayer == nil {
		return nil
	}

	prohibited := make(map[string]bool, len(fileLayer.Prohibited))
	for _, name := range fileLayer.Prohibited {
		prohibited[name] = true
	}

	var findings []domain.ArchitectureFinding
	for _, imp := range facts.Imports {
		importLayer := c.layerOfModule(imp.Module)
		if importLayer == nil || !prohibited[importLayer.Name] {
			continue
		}
		findings = append(findings, domain.ArchitectureFinding{
			CheckName:   constants.CheckLayerSeparation,
			Severity:    domain.SeverityMedium,
			FilePath:    facts.Path,
			LineNumber:  imp.Line,
			LineContent: "import " + imp.Module,
			Message: fmt.Sprintf("Layer violation: %s layer must not import from %s layer",
				fileLayer.Name, importLayer.Name),
			ViolatedRule: fmt.Sprintf("%s -> %s", fileLayer.Name, importLayer.Name),
			SuggestedFix: fmt.Sprintf("Route the call through an allowed layer (%s may use: %s)",
				fileLayer.Name, strings.Join(fileLayer.Allowed, ", ")),
		})
	}
	return findings
}

// routeDecoratorRe matches FastAPI-style route registrations
var routeDecoratorRe = regexp.MustCompile(`@(app|router)\.(get|post|put|delete|patch)\s*\(`)

// dependsRe matches dependency-injection parameter declarations
var dependsRe = regexp.MustCompile(`Depends\s*\(`)

// directInstantiationRe matches service or repository construction inside
// handler code
var directInstantiationRe = regexp.MustCompile(`=\s*\w*(Service|Repository)\s*\(`)

// DependencyInjectionCheck flags controller files that register routes
// but construct their dependencies directly instead of injecting them
type DependencyInjectionCheck struct {
	arch config.ArchitectureConfig
}

// NewDependencyInjectionCheck creates a check bound to a layer hierarchy
func NewDependencyInjectionCheck(arch config.ArchitectureConfig) *DependencyInjectionCheck {
	return &DependencyInjectionCheck{arch: arch}
}

// isControllerFile reports whether the path falls in the controller layer
func (c *DependencyInjectionCheck) isControllerFile(filePath string) bool {
	layer := c.arch.LayerByName("controller")
	if layer == nil {
		return false
	}
	segments := strings.Split(filePath, "/")
	for _, layerPath := range layer.Paths {
		marker := strings.Trim(layerPath, "/")
		for _, seg := range segments {
			if seg == marker {
				return true
			}
		}
	}
	return false
}

// Check reports at most one finding per file: a routed controller that
// never uses injection. The finding anchors on the first direct
// instantiation when one exists, otherwise on the first route decorator.
func (c *DependencyInjectionCheck) Check(filePath, content string) []domain.ArchitectureFinding {
	if !c.isControllerFile(filePath) {
		return nil
	}
	if !routeDecoratorRe.MatchString(content) || dependsRe.MatchString(content) {
		return nil
	}

	lineNumber := 0
	lineContent := ""
	for i, line := range splitLines(content) {
		if directInstantiationRe.MatchString(line) {
			lineNumber = i + 1
			lineContent = strings.TrimSpace(line)
			break
		}
		if lineNumber == 0 && routeDecoratorRe.MatchString(line) {
			lineNumber = i + 1
			lineContent = strings.TrimSpace(line)
		}
	}
	if lineNumber == 0 {
		return nil
	}

	return []domain.ArchitectureFinding{{
		CheckName:    constants.CheckDependencyInjection,
		Severity:     domain.SeverityMedium,
		FilePath:     filePath,
		LineNumber:   lineNumber,
		LineContent:  lineContent,
		Message:      "Route handlers should receive dependencies through Depends() injection",
		ViolatedRule: "dependency_injection",
		SuggestedFix: "Declare the dependency as a parameter: service: UserService = Depends(get_user_service)",
	}}
}

// syncLibrary pairs a blocking client library with its async replacement
type syncLibrary struct {
	name        string
	replacement string
}

// syncLibraries lists blocking client libraries in fixed scan order
var syncLibraries = []syncLibrary{
	{"requests", "httpx or aiohttp"},
	{"psycopg2", "asyncpg"},
	{"pymongo", "motor"},
	{"redis", "aioredis or redis.asyncio"},
}

// AsyncPatternsCheck flags blocking library calls inside async function
// bodies
type AsyncPatternsCheck struct{}

// Check scans each async function span for synchronous client usage
func (AsyncPatternsCheck) Check(facts *extractor.FileFacts, content string) []domain.ArchitectureFinding {
	var findings []domain.ArchitectureFinding
	lines := splitLines(content)

	for _, fn := range facts.Functions {
		if !fn.IsAsync {
			continue
		}
		start := fn.Line
		end := fn.EndLine
		if end > len(lines) {
			end = len(lines)
		}
		for lineIdx := start; lineIdx <= end; lineIdx++ {
			line := lines[lineIdx-1]
			if isBlankOrComment(line) {
				continue
			}
			for _, lib := range syncLibraries {
				if !strings.Contains(line, lib.name+".") {
					continue
				}
				findings = append(findings, domain.ArchitectureFinding{
					CheckName:   constants.CheckAsyncPatterns,
					Severity:    domain.SeverityMedium,
					FilePath:    facts.Path,
					LineNumber:  lineIdx,
					LineContent: strings.TrimSpace(line),
					Message: fmt.Sprintf("Blocking library '%s' used in async function '%s'. This stalls the event loop.",
						lib.name, fn.Name),
					ViolatedRule: "async_blocking_call",
					SuggestedFix: fmt.Sprintf("Replace %s with %s", lib.name, lib.replacement),
				})
			}
		}
	}

	return findings
}

// ArchitectureValidator runs all architecture checks plus circular
// dependency detection over a changeset
type ArchitectureValidator struct {
	layerCheck *LayerSeparationCheck
	diCheck    *DependencyInjectionCheck
	asyncCheck AsyncPatternsCheck
	extractor  *extractor.Extractor
}

// NewArchitectureValidator creates a validator bound to a layer hierarchy
func NewArchitectureValidator(arch config.ArchitectureConfig, ext *extractor.Extractor) *ArchitectureValidator {
	return &ArchitectureValidator{
		layerCheck: NewLayerSeparationCheck(arch),
		diCheck:    NewDependencyInjectionCheck(arch),
		extractor:  ext,
	}
}

// ValidateChangeset runs layer, injection, async, and cycle checks in
// deterministic path order
func (v *ArchitectureValidator) ValidateChangeset(cs *domain.Changeset) []domain.ArchitectureFinding {
	var all []domain.ArchitectureFinding

	for _, path := range cs.Paths() {
		content := cs.Files[path]
		facts := v.extractor.Extract(path, []byte(content))
		all = append(all, v.layerCheck.Check(facts)...)
		all = append(all, v.diCheck.Check(path, content)...)
		all = append(all, v.asyncCheck.Check(facts, content)...)
	}

	graph := BuildGraph(cs, v.extractor)
	all = append(all, DetectCycles(graph)...)
	return all
}
