// Package errs implements the error-reporting sink that every stage of the
// table-construction pipeline writes to instead of returning bare errors.
// It keeps a single place that knows how to attach a source position to a
// cause and pretty-print it, in the spirit of the source repository's
// error.SpecError, plus the typed error codes the grammar builder and table
// generator use to classify what went wrong.
package errs

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Code classifies a reported error so that callers (CLIs, test assertions,
// editor integrations) can act on the failure kind without parsing message
// text.
type Code string

const (
	CodeSyntax              Code = "SYNTAX"
	CodeUnterminatedLiteral Code = "UNTERMINATED_LITERAL"
	CodeUndefinedSymbol     Code = "UNDEFINED_SYMBOL"
	CodeSymbolKindConflict  Code = "SYMBOL_KIND_CONFLICT"
	CodeEmptyGrammar        Code = "EMPTY_GRAMMAR"
	CodeDuplicateProduction Code = "DUPLICATE_PRODUCTION"
	CodeParseTableConflict  Code = "PARSE_TABLE_CONFLICT"

	// CodeUnusedSymbol is informational, not fatal: HasErrors ignores it,
	// the way an unused-variable warning never blocks a build.
	CodeUnusedSymbol Code = "UNUSED_SYMBOL"
)

// isWarning reports whether code should never cause HasErrors to report
// true on its own.
func (c Code) isWarning() bool {
	return c == CodeUnusedSymbol
}

// ErrBuildFailed is returned by the grammar builder when Build's sink
// collected at least one error; the sink's Errors() carries the detail.
var ErrBuildFailed = errors.New("grammar build failed")

// Entry is one reported diagnostic: a position, a code, a human-readable
// message and the underlying cause, if any.
type Entry struct {
	Code    Code
	Line    int
	Column  int
	Message string
	Cause   error
}

func (e *Entry) Error() string {
	var b strings.Builder
	if e.Line != 0 {
		fmt.Fprintf(&b, "%v:%v: ", e.Line, e.Column)
	}
	fmt.Fprintf(&b, "%v: %v", e.Code, e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

// Sink is the error-reporting contract every pipeline stage depends on.
// report records a diagnostic without stopping the caller; callers that
// need to fail fast check HasErrors/Errors themselves after a phase
// completes. This mirrors the source's grammar builder, which keeps
// compiling after a semantic error so it can report as many problems as
// possible in one pass.
type Sink interface {
	Report(code Code, line, column int, format string, args ...interface{})
	ReportCause(code Code, line, column int, cause error, format string, args ...interface{})
	HasErrors() bool
	Errors() []*Entry
}

// Collector is the Sink implementation used throughout this module. It is
// not safe for concurrent use; the pipeline is single-threaded per grammar.
type Collector struct {
	entries []*Entry
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Report(code Code, line, column int, format string, args ...interface{}) {
	c.entries = append(c.entries, &Entry{
		Code:    code,
		Line:    line,
		Column:  column,
		Message: fmt.Sprintf(format, args...),
	})
}

// ReportCause is like Report but wraps an existing error (typically from
// github.com/pkg/errors) so a stack trace survives into test failure
// output and logs.
func (c *Collector) ReportCause(code Code, line, column int, cause error, format string, args ...interface{}) {
	c.entries = append(c.entries, &Entry{
		Code:    code,
		Line:    line,
		Column:  column,
		Message: fmt.Sprintf(format, args...),
		Cause:   errors.WithStack(cause),
	})
}

func (c *Collector) HasErrors() bool {
	for _, e := range c.entries {
		if !e.Code.isWarning() {
			return true
		}
	}
	return false
}

func (c *Collector) Errors() []*Entry {
	return c.entries
}

// Combined folds every collected entry into a single error via
// multierr, the way the pack's object-store locking path accumulates
// unlock failures across several resources into one returned error.
// It returns nil if the collector has nothing to report.
func (c *Collector) Combined() error {
	var err error
	for _, e := range c.entries {
		err = multierr.Append(err, e)
	}
	return err
}

// SourceError decorates a Collector entry with the originating file's text,
// the way the source's error.SpecError printed the offending grammar line
// under the message. Kept as a free function, not a Sink method, because
// only CLI-facing callers have a file path to read back from.
func SourceError(e *Entry, filePath string) string {
	var b strings.Builder
	b.WriteString(e.Error())
	if line := readLine(filePath, e.Line); line != "" {
		fmt.Fprintf(&b, "\n    %v", line)
	}
	return b.String()
}

func readLine(filePath string, row int) string {
	if filePath == "" || row <= 0 {
		return ""
	}

	f, err := os.Open(filePath)
	if err != nil {
		return ""
	}
	defer f.Close()

	i := 1
	s := bufio.NewScanner(f)
	for s.Scan() {
		if i == row {
			return s.Text()
		}
		i++
	}

	return ""
}
