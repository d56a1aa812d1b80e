package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/orithia/lalrgen/grammar"
	"github.com/orithia/lalrgen/report"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "show <report.json>",
		Short:   "Print a parsing table report in human-readable form",
		Example: `  lalrgen show expr-report.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runShow,
	}
	rootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	rep, err := readReport(args[0])
	if err != nil {
		return err
	}
	return writeReport(os.Stdout, rep)
}

func readReport(path string) (*report.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open the report %s: %w", path, err)
	}
	defer f.Close()

	d, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	rep := &report.Report{}
	if err := json.Unmarshal(d, rep); err != nil {
		return nil, err
	}
	return rep, nil
}

const reportTemplate = `# {{ .Name }}

{{ printConflictSummary . }}

# Terminals

{{ range .Terminals -}}
{{ printTerminal . }}
{{ end }}
# Productions

{{ range .Productions -}}
{{ printProduction . }}
{{ end }}
# States
{{ range .States }}
## State {{ .Number }}

{{ range .Kernel -}}
{{ printItem . }}
{{ end }}
{{ range .Shift -}}
{{ printShift . }}
{{ end -}}
{{ range .Reduce -}}
{{ printReduce . }}
{{ end -}}
{{ range .GoTo -}}
{{ printGoTo . }}
{{ end }}
{{ range .SRConflict -}}
{{ printSRConflict . }}
{{ end -}}
{{ range .RRConflict -}}
{{ printRRConflict . }}
{{ end -}}
{{ end }}`

func writeReport(w io.Writer, rep *report.Report) error {
	termName := func(sym int) string {
		return rep.Terminals[sym].Name
	}
	nonTermName := func(sym int) string {
		return rep.NonTerminals[sym].Name
	}
	termAssoc := func(sym int) string {
		switch rep.Terminals[sym].Associativity {
		case "l":
			return "left"
		case "r":
			return "right"
		default:
			return "no"
		}
	}
	prodAssoc := func(prod int) string {
		switch rep.Productions[prod].Associativity {
		case "l":
			return "left"
		case "r":
			return "right"
		default:
			return "no"
		}
	}

	fns := template.FuncMap{
		"printConflictSummary": func(rep *report.Report) string {
			var implicit, explicit int
			for _, s := range rep.States {
				for _, c := range s.SRConflict {
					if c.ResolvedBy == grammar.ResolvedByShift.Int() {
						implicit++
					} else {
						explicit++
					}
				}
				for _, c := range s.RRConflict {
					if c.ResolvedBy == grammar.ResolvedByProdOrder.Int() {
						implicit++
					} else {
						explicit++
					}
				}
			}

			var b strings.Builder
			switch {
			case implicit == 1:
				fmt.Fprintf(&b, "%v conflict occurred and was resolved implicitly.\n", implicit)
			case implicit > 1:
				fmt.Fprintf(&b, "%v conflicts occurred and were resolved implicitly.\n", implicit)
			}
			switch {
			case explicit == 1:
				fmt.Fprintf(&b, "%v conflict occurred and was resolved explicitly.\n", explicit)
			case explicit > 1:
				fmt.Fprintf(&b, "%v conflicts occurred and were resolved explicitly.\n", explicit)
			}
			if implicit == 0 && explicit == 0 {
				fmt.Fprint(&b, "No conflicts.")
			}
			return b.String()
		},
		"printTerminal": func(term *report.Terminal) string {
			prec := " -"
			if term.Precedence != 0 {
				prec = fmt.Sprintf("%2v", term.Precedence)
			}
			assoc := "-"
			if term.Associativity != "" {
				assoc = term.Associativity
			}
			return fmt.Sprintf("%4v %v %v %v", term.Number, prec, assoc, term.Name)
		},
		"printProduction": func(prod *report.Production) string {
			prec := " -"
			if prod.Precedence != 0 {
				prec = fmt.Sprintf("%2v", prod.Precedence)
			}
			assoc := "-"
			if prod.Associativity != "" {
				assoc = prod.Associativity
			}

			var b strings.Builder
			fmt.Fprintf(&b, "%v →", nonTermName(prod.LHS))
			if len(prod.RHS) > 0 {
				for _, e := range prod.RHS {
					if e > 0 {
						fmt.Fprintf(&b, " %v", termName(e))
					} else {
						fmt.Fprintf(&b, " %v", nonTermName(e*-1))
					}
				}
			} else {
				fmt.Fprint(&b, " ε")
			}
			return fmt.Sprintf("%4v %v %v %v", prod.Number, prec, assoc, b.String())
		},
		"printItem": func(item *report.Item) string {
			prod := rep.Productions[item.Production]

			var b strings.Builder
			fmt.Fprintf(&b, "%v →", nonTermName(prod.LHS))
			for i, e := range prod.RHS {
				if i == item.Dot {
					fmt.Fprint(&b, " ・")
				}
				if e > 0 {
					fmt.Fprintf(&b, " %v", termName(e))
				} else {
					fmt.Fprintf(&b, " %v", nonTermName(e*-1))
				}
			}
			if item.Dot >= len(prod.RHS) {
				fmt.Fprint(&b, " ・")
			}
			return fmt.Sprintf("%4v %v", prod.Number, b.String())
		},
		"printShift": func(tran *report.Transition) string {
			return fmt.Sprintf("shift  %4v on %v", tran.State, termName(tran.Symbol))
		},
		"printReduce": func(reduce *report.Reduce) string {
			var b strings.Builder
			fmt.Fprintf(&b, "%v", termName(reduce.LookAhead[0]))
			for _, a := range reduce.LookAhead[1:] {
				fmt.Fprintf(&b, ", %v", termName(a))
			}
			return fmt.Sprintf("reduce %4v on %v", reduce.Production, b.String())
		},
		"printGoTo": func(tran *report.Transition) string {
			return fmt.Sprintf("goto   %4v on %v", tran.State, nonTermName(tran.Symbol))
		},
		"printSRConflict": func(sr *report.SRConflict) string {
			var adopted string
			switch {
			case sr.AdoptedState != nil:
				adopted = fmt.Sprintf("shift %v", *sr.AdoptedState)
			case sr.AdoptedProduction != nil:
				adopted = fmt.Sprintf("reduce %v", *sr.AdoptedProduction)
			}

			var resolvedBy string
			switch sr.ResolvedBy {
			case grammar.ResolvedByPrec.Int():
				if sr.AdoptedState != nil {
					resolvedBy = fmt.Sprintf("symbol %v has higher precedence than production %v", termName(sr.Symbol), sr.Production)
				} else {
					resolvedBy = fmt.Sprintf("production %v has higher precedence than symbol %v", sr.Production, termName(sr.Symbol))
				}
			case grammar.ResolvedByAssoc.Int():
				if sr.AdoptedState != nil {
					resolvedBy = fmt.Sprintf("symbol %v and production %v share a precedence, and symbol %v is %v-associative", termName(sr.Symbol), sr.Production, termName(sr.Symbol), termAssoc(sr.Symbol))
				} else {
					resolvedBy = fmt.Sprintf("production %v and symbol %v share a precedence, and production %v is %v-associative", sr.Production, termName(sr.Symbol), sr.Production, prodAssoc(sr.Production))
				}
			case grammar.ResolvedByShift.Int():
				resolvedBy = fmt.Sprintf("symbol %v and production %v define no precedence (default rule)", termName(sr.Symbol), sr.Production)
			default:
				resolvedBy = "?"
			}
			return fmt.Sprintf("shift/reduce conflict (shift %v, reduce %v) on %v: %v adopted because %v", sr.State, sr.Production, termName(sr.Symbol), adopted, resolvedBy)
		},
		"printRRConflict": func(rr *report.RRConflict) string {
			var resolvedBy string
			switch rr.ResolvedBy {
			case grammar.ResolvedByProdOrder.Int():
				resolvedBy = fmt.Sprintf("production %v and %v define no precedence (default rule)", rr.Production1, rr.Production2)
			default:
				resolvedBy = "?"
			}
			return fmt.Sprintf("reduce/reduce conflict (%v, %v) on %v: reduce %v adopted because %v", rr.Production1, rr.Production2, termName(rr.Symbol), rr.AdoptedProduction, resolvedBy)
		},
	}

	tmpl, err := template.New("").Funcs(fns).Parse(reportTemplate)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, rep)
}
