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

package parser

import "github.com/sirupsen/logrus"

// Entry is one line of the parser's derivation log: the grammar rule
// being entered together with the current lookahead (spec.md §4.3,
// "the parser appends to a message log (derivation steps and current
// tokens) for diagnostics"). The shape mirrors the original Python
// syntax analyzer's per-production print statements (see SPEC_FULL.md
// supplemental feature 1).
type Entry struct {
	Rule   string
	Lexeme string
	Kind   string
}

// Sink is the pluggable derivation-log destination spec.md §9 calls for:
// "make it a pluggable sink (default: collect into an in-memory ordered
// sequence; optionally stream to stdout)".
type Sink interface {
	Record(e Entry)
}

// MemorySink collects entries in order; it is the default for tests and
// for -s/--syntax runs where the CLI wants the full log back to print.
type MemorySink struct {
	entries []Entry
}

func (m *MemorySink) Record(e Entry) { m.entries = append(m.entries, e) }

// Entries returns the recorded log in order.
func (m *MemorySink) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// LogrusSink streams each derivation step to a structured logrus logger,
// the default sink for cmd/ratc's -v/--verbose mode.
type LogrusSink struct {
	Log *logrus.Logger
}

func (l *LogrusSink) Record(e Entry) {
	l.Log.WithFields(logrus.Fields{
		"rule":   e.Rule,
		"lexeme": e.Lexeme,
		"kind":   e.Kind,
	}).Debug("derivation")
}

// NullSink discards every entry.
type NullSink struct{}

func (NullSink) Record(Entry) {}
