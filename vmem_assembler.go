// vmem_assembler.go - Symbolic vmem assembler for openVCB

/*
 ▒█████   ██▓███   ▓█████  ███▄    █  ██▒   █▓  ▄████▄   ▄▄▄▄
▒██▒  ██▒▓██░  ██▒ ▓█   ▀  ██ ▀█   █ ▓██░   █▒ ▒██▀ ▀█  ▓█████▄
▒██░  ██▒▓██░ ██▓▒ ▒███   ▓██  ▀█ ██▒ ▓██  █▒░ ▒▓█    ▄ ▒██▒ ▄██▒
▒██   ██░▒██▄█▓▒ ▒ ▒▓█  ▄ ▓██▒  ▐▌██▒  ▒██ █░░ ▒▓▓▄ ▄██▒▒██░█▀
░ ████▓▒░▒██▒ ░  ░ ░▒████▒▒██░   ▓██░   ▒▀█░   ▒ ▓███▀ ░░▓█  ▀█▓
░ ▒░▒░▒░ ▒▓▒░ ░  ░ ░░ ▒░ ░░ ▒░   ▒ ▒    ░ ▐░   ░ ░▒ ▒  ░░▒▓███▀▒
  ░ ▒ ▒░ ░▒ ░       ░ ░  ░░ ░░   ░ ▒░   ░ ░░     ░  ▒   ▒░▒   ░
░ ░ ░ ▒  ░░           ░      ░   ░ ░      ░░   ░         ░    ░
    ░ ░               ░  ░         ░       ░   ░ ░       ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/openVCB
License: GPLv3 or later

Assembly Syntax (line-oriented, whitespace-separated tokens):

  Comments:
    ; everything after a semicolon is ignored

  Labels:
    name:                 — record the current word offset under name

  Directives:
    .org <addr>           — move the write cursor

  Words:
    42                    — decimal literal
    0x2A  0b101010        — hex / binary literals, optional leading minus
    name                  — symbol reference, forward references allowed
*/

package main

import (
	"fmt"
	"strconv"
	"strings"
)

// vmemPatch records a forward symbol reference awaiting resolution.
type vmemPatch struct {
	addr   int
	symbol string
	line   int
}

// AssembleVmem assembles the project's Assembly text into the vmem buffer
// and rebuilds the symbol table. On error the message carries the offending
// line number and the vmem is left filled up to the failure point.
func (p *Project) AssembleVmem() error {
	if p.Vmem == nil {
		if p.VmemSize <= 0 {
			return fmt.Errorf("assemble: no vmem configured")
		}
		p.Vmem = make([]uint32, p.VmemSize)
	}
	p.AssemblySymbols = make(map[string]int64)

	var patches []vmemPatch
	cursor := 0

	write := func(v uint32, line int) error {
		if cursor < 0 || cursor >= len(p.Vmem) {
			return fmt.Errorf("assemble: line %d: write at %d outside vmem of %d words", line, cursor, len(p.Vmem))
		}
		p.Vmem[cursor] = v
		cursor++
		return nil
	}

	for ln, raw := range strings.Split(p.Assembly, "\n") {
		line := raw
		if i := strings.IndexByte(line, ';'); i >= 0 {
			line = line[:i]
		}
		toks := strings.Fields(line)
		for i := 0; i < len(toks); i++ {
			tok := toks[i]
			switch {
			case strings.HasSuffix(tok, ":"):
				name := tok[:len(tok)-1]
				if !isSymbolName(name) {
					return fmt.Errorf("assemble: line %d: bad label %q", ln+1, tok)
				}
				if _, dup := p.AssemblySymbols[name]; dup {
					return fmt.Errorf("assemble: line %d: duplicate label %q", ln+1, name)
				}
				p.AssemblySymbols[name] = int64(cursor)

			case tok == ".org":
				i++
				if i >= len(toks) {
					return fmt.Errorf("assemble: line %d: .org needs an address", ln+1)
				}
				v, err := parseWordLiteral(toks[i])
				if err != nil {
					return fmt.Errorf("assemble: line %d: bad .org address %q", ln+1, toks[i])
				}
				if v < 0 || int(v) > len(p.Vmem) {
					return fmt.Errorf("assemble: line %d: .org %d outside vmem of %d words", ln+1, v, len(p.Vmem))
				}
				cursor = int(v)

			default:
				if v, err := parseWordLiteral(tok); err == nil {
					if err := write(uint32(v), ln+1); err != nil {
						return err
					}
					break
				}
				if !isSymbolName(tok) {
					return fmt.Errorf("assemble: line %d: unrecognised token %q", ln+1, tok)
				}
				if v, ok := p.AssemblySymbols[tok]; ok {
					if err := write(uint32(v), ln+1); err != nil {
						return err
					}
					break
				}
				patches = append(patches, vmemPatch{addr: cursor, symbol: tok, line: ln + 1})
				if err := write(0, ln+1); err != nil {
					return err
				}
			}
		}
	}

	for _, pt := range patches {
		v, ok := p.AssemblySymbols[pt.symbol]
		if !ok {
			return fmt.Errorf("assemble: line %d: undefined symbol %q", pt.line, pt.symbol)
		}
		p.Vmem[pt.addr] = uint32(v)
	}
	return nil
}

// parseWordLiteral accepts decimal, 0x hex and 0b binary integers with an
// optional leading minus.
func parseWordLiteral(s string) (int64, error) {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var v uint64
	var err error
	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		v, err = strconv.ParseUint(s[2:], 16, 64)
	case strings.HasPrefix(s, "0b") || strings.HasPrefix(s, "0B"):
		v, err = strconv.ParseUint(s[2:], 2, 64)
	default:
		v, err = strconv.ParseUint(s, 10, 64)
	}
	if err != nil {
		return 0, err
	}
	if neg {
		return -int64(v), nil
	}
	return int64(v), nil
}

// isSymbolName accepts the usual identifier shape: a letter or underscore
// followed by letters, digits, underscores or dots.
func isSymbolName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case i > 0 && (c >= '0' && c <= '9' || c == '.'):
		default:
			return false
		}
	}
	return true
}
