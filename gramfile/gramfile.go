// Package gramfile loads a declarative YAML grammar description and
// drives it through grammar.GrammarBuilder (§4.1). It stands in for the
// external grammar source parser (§1/§6): this module's core never reads
// grammar text, and gramfile never builds item sets or tables — it only
// turns a document into the sequence of builder calls that produces a
// *grammar.Grammar.
package gramfile

import (
	"fmt"
	"io"

	"github.com/orithia/lalrgen/errs"
	"github.com/orithia/lalrgen/grammar"
	"github.com/orithia/lalrgen/grammar/symbol"
	"gopkg.in/yaml.v3"
)

// Document is the parsed shape of a .gram.yaml file.
type Document struct {
	Name        string            `yaml:"name"`
	Start       string            `yaml:"start"`
	Whitespace  []string          `yaml:"whitespace"`
	Precedence  []PrecedenceClass `yaml:"precedence"`
	Terminals   []TerminalDecl    `yaml:"terminals"`
	Productions []ProductionDecl  `yaml:"productions"`
}

// PrecedenceClass mirrors one DeclarePrecedenceClass call: all symbols
// listed share Assoc ("left", "right", or "none") and receive the next
// precedence level in the order the classes appear in the document.
type PrecedenceClass struct {
	Assoc   string   `yaml:"assoc"`
	Symbols []string `yaml:"symbols"`
}

// TerminalDecl names a terminal explicitly instead of leaving it to be
// inferred from a production's RHS, so its Kind and Pattern are under
// the author's control rather than guessed from quoting conventions.
type TerminalDecl struct {
	Name    string `yaml:"name"`
	Kind    string `yaml:"kind"` // "literal" or "regex"
	Pattern string `yaml:"pattern"`
}

// ProductionDecl is every alternative sharing one LHS non-terminal.
type ProductionDecl struct {
	LHS          string            `yaml:"lhs"`
	Alternatives []AlternativeDecl `yaml:"alternatives"`

	line int
}

// AlternativeDecl is one RHS symbol sequence plus its optional
// precedence override and semantic action name.
type AlternativeDecl struct {
	RHS        []string `yaml:"rhs"`
	Precedence string   `yaml:"precedence"`
	Action     string   `yaml:"action"`

	line int
}

// Load decodes a document and recovers the source line of every
// production and alternative from the underlying yaml.Node tree, so
// diagnostics raised while building the grammar can still point at a
// line in the original file even though decoding already flattened the
// document into plain structs.
func Load(r io.Reader) (*Document, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("gramfile: %w", err)
	}

	var doc Document
	if err := root.Decode(&doc); err != nil {
		return nil, fmt.Errorf("gramfile: %w", err)
	}

	doc.attachLines(&root)
	return &doc, nil
}

func (d *Document) attachLines(root *yaml.Node) {
	body := root
	if body.Kind == yaml.DocumentNode && len(body.Content) > 0 {
		body = body.Content[0]
	}
	prodsNode := mappingValue(body, "productions")
	if prodsNode == nil || prodsNode.Kind != yaml.SequenceNode {
		return
	}
	for i, prodNode := range prodsNode.Content {
		if i >= len(d.Productions) {
			break
		}
		d.Productions[i].line = prodNode.Line

		altsNode := mappingValue(prodNode, "alternatives")
		if altsNode == nil || altsNode.Kind != yaml.SequenceNode {
			continue
		}
		for j, altNode := range altsNode.Content {
			if j >= len(d.Productions[i].Alternatives) {
				break
			}
			d.Productions[i].Alternatives[j].line = altNode.Line
		}
	}
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

func assocOf(text string) symbol.Assoc {
	switch text {
	case "left":
		return symbol.AssocLeft
	case "right":
		return symbol.AssocRight
	default:
		return symbol.AssocNone
	}
}

// Build drives a fresh grammar.GrammarBuilder through the document and
// returns the resulting Grammar. It reports the same diagnostic codes a
// hand-written recursive-descent grammar parser would for the errors in
// its own jurisdiction (an RHS token naming neither a declared terminal
// nor any production's LHS is simply passed through as an identifier
// reference — grammar.Build is what ultimately reports it UNDEFINED_SYMBOL,
// since only it knows the full set of LHS symbols once every production
// has been read).
func (d *Document) Build(sink errs.Sink) (*grammar.Grammar, error) {
	b := grammar.NewGrammarBuilder(sink)
	b.SetIdentity(d.Name)
	for _, ws := range d.Whitespace {
		b.DeclareWhitespace(ws)
	}

	terminals := map[string]grammar.SymbolRef{}
	for _, t := range d.Terminals {
		pattern := t.Pattern
		if pattern == "" {
			pattern = t.Name
		}
		if t.Kind == "regex" {
			terminals[t.Name] = b.RegexRef(pattern)
		} else {
			terminals[t.Name] = b.LiteralRef(pattern)
		}
	}
	terminals["error"] = b.ErrorRef()

	for _, class := range d.Precedence {
		var refs []grammar.SymbolRef
		for _, name := range class.Symbols {
			ref, ok := terminals[name]
			if !ok {
				sink.Report(errs.CodeUndefinedSymbol, 0, 0, "precedence class references undeclared terminal %q", name)
				continue
			}
			refs = append(refs, ref)
		}
		b.DeclarePrecedenceClass(assocOf(class.Assoc), refs...)
	}

	for _, prod := range d.Productions {
		b.BeginProduction(prod.LHS, prod.line)
		for _, alt := range prod.Alternatives {
			for _, tok := range alt.RHS {
				if ref, ok := terminals[tok]; ok {
					b.AddRHSSymbol(ref, alt.line)
					continue
				}
				b.AddRHSSymbol(b.IdentifierRef(tok), alt.line)
			}
			if alt.Precedence != "" {
				if ref, ok := terminals[alt.Precedence]; ok {
					b.SetProductionPrecedence(ref)
				} else {
					sink.Report(errs.CodeUndefinedSymbol, alt.line, 0, "production precedence references undeclared terminal %q", alt.Precedence)
				}
			}
			if alt.Action != "" {
				b.SetAction(alt.Action, alt.line)
			}
			b.EndAlternative()
		}
		b.EndProduction()
	}

	return b.Build()
}
