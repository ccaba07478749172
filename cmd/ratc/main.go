/*
Copyright © 2022 Jeff Berkowitz (pdxjjb@gmail.com)

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU Affero General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU Affero General Public License for more details.

You should have received a copy of the GNU Affero General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

// Command ratc is the Rat24S compiler driver: it opens a source file,
// runs it through internal/lexer, internal/parser, and internal/codegen,
// and writes whichever of the token table, derivation log, or assembly
// listing the flags ask for (spec.md §6).
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pdxjjb/rat24s/internal/config"
	"github.com/pdxjjb/rat24s/internal/diag"
	"github.com/pdxjjb/rat24s/internal/lexer"
	"github.com/pdxjjb/rat24s/internal/parser"
	"github.com/pdxjjb/rat24s/internal/report"
	"github.com/pdxjjb/rat24s/internal/token"
)

var (
	outputPath string
	tokensOnly bool
	syntaxOnly bool
	assembly   bool
	verbose    bool
	configPath string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ratc <input>",
		Short: "Compile a Rat24S source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0])
		},
		SilenceUsage: true,
	}
	flags := cmd.Flags()
	flags.StringVarP(&outputPath, "output", "o", "", "write the report to PATH instead of stdout")
	flags.BoolVarP(&tokensOnly, "tokens", "t", false, "lexical analysis only: write the token table")
	flags.BoolVarP(&syntaxOnly, "syntax", "s", false, "parse only: write the derivation log, skip code generation")
	flags.BoolVarP(&assembly, "assembly", "a", false, "write the assembly listing (default when no other mode is given)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "stream derivation steps to stderr as they're parsed")
	flags.StringVar(&configPath, "config", "", "override the embedded reserved-word/operator table")
	return cmd
}

// run wires the pipeline for one source file, writing the output the
// flags select and the four status lines §6 requires.
func run(inputPath string) error {
	out := os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("ratc: creating %s: %w", outputPath, err)
		}
		defer f.Close()
		out = f
	}

	colorize := outputPath == "" && isatty.IsTerminal(os.Stdout.Fd())
	reporter := diag.NewReporter(os.Stdout, colorize)

	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			reporter.Error(err)
			reporter.CompilationFailed()
			return err
		}
	}

	if tokensOnly {
		return runTokensOnly(inputPath, cfg, out, reporter)
	}

	lx, err := lexer.NewFile(inputPath, cfg)
	if err != nil {
		reporter.Error(err)
		reporter.CompilationFailed()
		return err
	}
	defer lx.Close()

	// -a forces full code generation even alongside -s: "assembly" is the
	// default mode (spec.md §6, "-a|--assembly # default: full code
	// generation"), and an explicit -a wins over -s rather than being a
	// no-op next to it.
	skipCodeGen := syntaxOnly && !assembly

	sink := newSink()
	p := parser.New(lx, cfg, sink, !skipCodeGen)
	if err := p.Parse(); err != nil {
		reporter.Error(err)
		reporter.CompilationFailed()
		return err
	}

	if skipCodeGen {
		reporter.SyntaxOK()
		writeDerivationLog(out, sink)
		return nil
	}

	if outputPath != "" {
		// Writing to a file: use the raw "OPCODE[ operand]" stream spec.md
		// §6 fixes as the generator's output contract.
		report.Assembly(out, p.Instructions())
		fmt.Fprintln(out)
		report.SymbolTable(out, p.Symbols().Values())
	} else {
		// Writing to the terminal: the address-prefixed listing reads
		// better for a human, per report.AssemblyListing's own doc comment.
		report.AssemblyListing(out, p.Instructions())
	}
	reporter.CompilationSucceeded()
	return nil
}

// runTokensOnly re-lexes the file independently of the parser, since
// -t asks for the raw token stream even over input that wouldn't parse.
func runTokensOnly(inputPath string, cfg *config.Config, out *os.File, reporter *diag.Reporter) error {
	lx, err := lexer.NewFile(inputPath, cfg)
	if err != nil {
		reporter.Error(err)
		reporter.CompilationFailed()
		return err
	}
	defer lx.Close()

	var toks []token.Token
	for {
		tok := lx.Next()
		if tok.IsEOF() {
			break
		}
		toks = append(toks, tok)
	}
	report.Tokens(out, toks)
	reporter.SyntaxOK()
	return nil
}

func newSink() parser.Sink {
	if !verbose {
		return &parser.MemorySink{}
	}
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.DebugLevel)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return &parser.LogrusSink{Log: log}
}

func writeDerivationLog(out *os.File, sink parser.Sink) {
	mem, ok := sink.(*parser.MemorySink)
	if !ok {
		return
	}
	c := color.New(color.FgCyan)
	for _, e := range mem.Entries() {
		if out == os.Stdout && isatty.IsTerminal(os.Stdout.Fd()) {
			fmt.Fprintf(out, "%s %s %q\n", c.Sprint(e.Rule), e.Kind, e.Lexeme)
			continue
		}
		fmt.Fprintf(out, "%s %s %q\n", e.Rule, e.Kind, e.Lexeme)
	}
}
