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

// Package config holds the fixed configuration data spec.md §1 treats as
// external to the hard core: the reserved-word table, the operator and
// separator character sets, and a handful of compiler options (symbol
// table base address and so on).
//
// A default table is embedded in the binary as YAML and parsed with
// gopkg.in/yaml.v3; --config PATH on the CLI (cmd/ratc) can override it
// with an alternate table of the same shape, e.g. for experimenting with
// a dialect without recompiling.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Operator describes one lexical operator, single- or two-character.
type Operator struct {
	Text string `yaml:"text"`
	Name string `yaml:"name"` // opcode/relop mnemonic, e.g. "GEQ"
}

// Config is the full set of fixed lexical/compiler tables.
type Config struct {
	ReservedWords []string   `yaml:"reserved_words"`
	Operators     []Operator `yaml:"operators"`
	Separators    string     `yaml:"separators"`
	SymbolBase    int        `yaml:"symbol_base"`
}

// Default returns the embedded configuration described in spec.md §4.2
// and §6: the fourteen reserved words, the `+ - * / = == != < > <= =>`
// operator set, and the `(){},;$` separators, with symbol addresses
// starting at 5000.
func Default() *Config {
	cfg, err := parse(defaultYAML)
	if err != nil {
		// The embedded default is part of the binary; a parse failure here
		// is a build-time defect, not a runtime condition callers recover
		// from.
		panic("config: embedded default.yaml is invalid: " + err.Error())
	}
	return cfg
}

// Load reads and parses an override configuration file. The result has
// the same shape as Default and replaces it entirely (no field merging).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return parse(data)
}

func parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing yaml: %w", err)
	}
	if cfg.SymbolBase == 0 {
		cfg.SymbolBase = 5000
	}
	return &cfg, nil
}

// IsReserved reports whether word is one of the reserved words.
func (c *Config) IsReserved(word string) bool {
	for _, w := range c.ReservedWords {
		if w == word {
			return true
		}
	}
	return false
}

// IsSeparator reports whether b is one of the fixed separator characters.
func (c *Config) IsSeparator(b byte) bool {
	for i := 0; i < len(c.Separators); i++ {
		if c.Separators[i] == b {
			return true
		}
	}
	return false
}

// IsOperatorStart reports whether b is the first character of any
// configured operator, one- or two-character alike (mirrors the original
// source's __get_stop_signs, which unions the separator set with the
// first character of every simple and compound operator).
func (c *Config) IsOperatorStart(b byte) bool {
	for _, o := range c.Operators {
		if len(o.Text) > 0 && o.Text[0] == b {
			return true
		}
	}
	return false
}

// MatchOperator returns the longest configured operator whose text is a
// prefix of the two-byte window (one or two characters); ok is false if
// neither the one- nor two-character form is a known operator.
func (c *Config) MatchOperator(first, second byte) (op Operator, twoChar bool, ok bool) {
	pair := string([]byte{first, second})
	for _, o := range c.Operators {
		if o.Text == pair {
			return o, true, true
		}
	}
	single := string(first)
	for _, o := range c.Operators {
		if o.Text == single {
			return o, false, true
		}
	}
	return Operator{}, false, false
}
