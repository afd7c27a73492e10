// monitor.go - Interactive terminal monitor for openVCB

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
*/

// Single-key interactive monitor for poking at a compiled circuit from the
// terminal. Raw mode is handled the same way the engine's terminal host
// does it: enter raw, restore on exit, print with explicit \r\n.

package main

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// RunMonitor drives the project interactively until the user quits.
//
//	space  advance one tick        t  advance 16 ticks
//	r      advance 256 ticks       s  print status
//	v      dump vmem               q  quit
func RunMonitor(p *Project) error {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("monitor: failed to set raw mode: %w", err)
	}
	defer func() { _ = term.Restore(fd, oldState) }()

	printStatus := func() {
		fmt.Printf("tick %d  groups %d (%d wires)  queued %d\r\n",
			p.TickCount(), p.NumGroups, p.NumWireGroups, p.QueueLen())
	}

	fmt.Print("openVCB monitor: space/t/r tick, s status, v vmem, q quit\r\n")
	printStatus()

	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			return err
		}
		if n == 0 {
			continue
		}
		switch buf[0] {
		case ' ':
			events := p.Tick(1, 0)
			fmt.Printf("tick %d: %d events\r\n", p.TickCount(), events)
		case 't':
			events := p.Tick(16, 0)
			fmt.Printf("tick %d: %d events\r\n", p.TickCount(), events)
		case 'r':
			events := p.Tick(256, 0)
			fmt.Printf("tick %d: %d events\r\n", p.TickCount(), events)
		case 's':
			printStatus()
		case 'v':
			if p.Vmem == nil {
				fmt.Print("no vmem configured\r\n")
				break
			}
			for _, line := range splitLines(p.DumpVMemToText()) {
				fmt.Printf("%s\r\n", line)
			}
		case 'q', 3, 4: // q, ^C, ^D
			fmt.Print("\r\n")
			return nil
		}
	}
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
