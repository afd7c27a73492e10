// main.go - Main entry point for the openVCB simulator

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

package main

import (
	"fmt"
	"os"
	"strconv"

	"golang.design/x/clipboard"
)

func boilerPlate() {
	art := []string{
		" ▒█████   ██▓███   ▓█████  ███▄    █  ██▒   █▓  ▄████▄   ▄▄▄▄",
		"▒██▒  ██▒▓██░  ██▒ ▓█   ▀  ██ ▀█   █ ▓██░   █▒ ▒██▀ ▀█  ▓█████▄",
		"▒██░  ██▒▓██░ ██▓▒ ▒███   ▓██  ▀█ ██▒ ▓██  █▒░ ▒▓█    ▄ ▒██▒ ▄██▒",
		"▒██   ██░▒██▄█▓▒ ▒ ▒▓█  ▄ ▓██▒  ▐▌██▒  ▒██ █░░ ▒▓▓▄ ▄██▒▒██░█▀",
		"░ ████▓▒░▒██▒ ░  ░ ░▒████▒▒██░   ▓██░   ▒▀█░   ▒ ▓███▀ ░░▓█  ▀█▓",
		"░ ▒░▒░▒░ ▒▓▒░ ░  ░ ░░ ▒░ ░░ ▒░   ▒ ▒    ░ ▐░   ░ ░▒ ▒  ░░▒▓███▀▒",
		"  ░ ▒ ▒░ ░▒ ░       ░ ░  ░░ ░░   ░ ▒░   ░ ░░     ░  ▒   ▒░▒   ░",
		"░ ░ ░ ▒  ░░           ░      ░   ░ ░      ░░   ░         ░    ░",
		"    ░ ░               ░  ░         ░       ░   ░ ░       ░",
	}
	fmt.Println()
	for i, line := range art {
		fmt.Printf("\033[38;2;255;%d;147m%s\033[0m\n", 20+i*26, line)
	}
	fmt.Println("\nA pixel-based digital logic simulator.")
	fmt.Println("(c) 2024 - 2026 Zayn Otley")
	fmt.Println("https://github.com/IntuitionAmiga/openVCB")
	fmt.Println("License: GPLv3 or later")
	fmt.Println()
}

func usage() {
	fmt.Println("Usage: openvcb [options] <circuit.png|circuit.bmp|circuit.vcb>")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -paste           read a blueprint from the system clipboard instead of a file")
	fmt.Println("  -ticks N         advance N ticks after preprocessing (default 64)")
	fmt.Println("  -max-events N    stop once N events have been processed")
	fmt.Println("  -gorder          relabel groups for cache locality")
	fmt.Println("  -vmem N          allocate a vmem of N words")
	fmt.Println("  -asm FILE        assemble FILE into vmem before running")
	fmt.Println("  -script FILE     run a Lua testbench after preprocessing")
	fmt.Println("  -monitor         enter the interactive monitor instead of batch ticking")
	fmt.Println("  -dump-vmem       print the vmem contents after the run")
	os.Exit(1)
}

func main() {
	boilerPlate()

	var (
		circuitPath string
		asmPath     string
		scriptPath  string
		ticks       = 64
		maxEvents   int64
		vmemWords   int
		useGorder   bool
		usePaste    bool
		useMonitor  bool
		dumpVmem    bool
	)

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		arg := args[i]
		needValue := func() string {
			i++
			if i >= len(args) {
				fmt.Printf("Option %s needs a value\n", arg)
				usage()
			}
			return args[i]
		}
		switch arg {
		case "-paste":
			usePaste = true
		case "-gorder":
			useGorder = true
		case "-monitor":
			useMonitor = true
		case "-dump-vmem":
			dumpVmem = true
		case "-ticks":
			n, err := strconv.Atoi(needValue())
			if err != nil || n < 0 {
				usage()
			}
			ticks = n
		case "-max-events":
			n, err := strconv.ParseInt(needValue(), 10, 64)
			if err != nil || n < 0 {
				usage()
			}
			maxEvents = n
		case "-vmem":
			n, err := strconv.Atoi(needValue())
			if err != nil || n < 0 {
				usage()
			}
			vmemWords = n
		case "-asm":
			asmPath = needValue()
		case "-script":
			scriptPath = needValue()
		default:
			if len(arg) > 0 && arg[0] == '-' {
				fmt.Printf("Unknown option %s\n", arg)
				usage()
			}
			if circuitPath != "" {
				usage()
			}
			circuitPath = arg
		}
	}

	var project *Project
	var err error
	switch {
	case usePaste:
		if err := clipboard.Init(); err != nil {
			fmt.Printf("Clipboard unavailable: %v\n", err)
			os.Exit(1)
		}
		data := clipboard.Read(clipboard.FmtText)
		if len(data) == 0 {
			fmt.Println("Clipboard is empty")
			os.Exit(1)
		}
		project, err = NewProjectFromBlueprint(string(data))
	case circuitPath != "":
		project, err = ReadFromVCB(circuitPath)
	default:
		usage()
	}
	if err != nil {
		fmt.Printf("Error loading circuit: %v\n", err)
		os.Exit(1)
	}

	if vmemWords > 0 {
		project.VmemSize = vmemWords
	}

	if err := project.Preprocess(useGorder); err != nil {
		fmt.Printf("Error preprocessing circuit: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Compiled %dx%d circuit: %d groups (%d wires), %d edges\n",
		project.Width, project.Height, project.NumGroups, project.NumWireGroups, project.WriteMap.Nnz)

	if asmPath != "" {
		src, err := os.ReadFile(asmPath)
		if err != nil {
			fmt.Printf("Error reading assembly: %v\n", err)
			os.Exit(1)
		}
		project.Assembly = string(src)
		if err := project.AssembleVmem(); err != nil {
			fmt.Printf("Error assembling vmem: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Assembled %d symbols into vmem\n", len(project.AssemblySymbols))
	}

	if scriptPath != "" {
		if err := project.RunScript(scriptPath); err != nil {
			fmt.Printf("Testbench failed: %v\n", err)
			os.Exit(1)
		}
	}

	if useMonitor {
		if err := RunMonitor(project); err != nil {
			fmt.Printf("Monitor error: %v\n", err)
			os.Exit(1)
		}
	} else if ticks > 0 {
		events := project.Tick(ticks, maxEvents)
		fmt.Printf("Ran %d ticks, %d events\n", project.TickCount(), events)
	}

	if dumpVmem && project.Vmem != nil {
		fmt.Print(project.DumpVMemToText())
	}
}
