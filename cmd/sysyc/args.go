package main

import (
	"fmt"
	"strconv"
)

// Options is the parsed command line, spec.md §6's flag surface plus
// the --config/--emit-llvm extensions SPEC_FULL.md §6 adds.
type Options struct {
	Src        string
	Out        string
	DumpAST    bool
	DumpIR     bool
	OptLevel   int
	Verbose    bool
	EmitLLVM   bool
	ConfigPath string
	Target     string

	// OutExplicit/OptExplicit record whether -o/-O appeared on the
	// command line, so applyConfig only fills in a sysyc.toml default
	// when the flag was left unset — CLI flags always win.
	OutExplicit bool
	OptExplicit bool
}

// parseArgs walks args the way hhramberg-go-vslc/src/util/args.go's
// ParseArgs does: a single pass, switching on the current token and
// consuming a following value token for options that take one, rather
// than a flag-parsing library (spec.md's 8-flag surface doesn't
// justify pulling one in).
func parseArgs(args []string) (Options, error) {
	var opt Options
	opt.Out = ""
	for i := 0; i < len(args); i++ {
		switch a := args[i]; a {
		case "-h", "--help":
			printHelp()
			return opt, errHelp
		case "-v", "--verbose":
			opt.Verbose = true
		case "--dump-ast":
			opt.DumpAST = true
		case "--dump-ir":
			opt.DumpIR = true
		case "--emit-llvm":
			opt.EmitLLVM = true
		case "-o":
			if i+1 >= len(args) {
				return opt, fmt.Errorf("-o requires a path")
			}
			i++
			opt.Out = args[i]
			opt.OutExplicit = true
		case "-O":
			if i+1 >= len(args) {
				return opt, fmt.Errorf("-O requires a level")
			}
			i++
			lvl, err := strconv.Atoi(args[i])
			if err != nil || lvl < 0 || lvl > 3 {
				return opt, fmt.Errorf("invalid optimization level %q", args[i])
			}
			opt.OptLevel = lvl
			opt.OptExplicit = true
		case "--config":
			if i+1 >= len(args) {
				return opt, fmt.Errorf("--config requires a path")
			}
			i++
			opt.ConfigPath = args[i]
		default:
			if lvl, ok := parseOptFlag(a); ok {
				opt.OptLevel = lvl
				opt.OptExplicit = true
				continue
			}
			if len(a) > 0 && a[0] == '-' {
				return opt, fmt.Errorf("unrecognized flag %q", a)
			}
			if opt.Src != "" {
				return opt, fmt.Errorf("unexpected extra argument %q", a)
			}
			opt.Src = a
		}
	}
	if opt.Src == "" {
		return opt, fmt.Errorf("missing source file")
	}
	return opt, nil
}

// parseOptFlag recognizes -O<0-3>, a single token with the level
// appended, the form spec.md §6 names alongside the two-token "-O 2".
func parseOptFlag(a string) (int, bool) {
	if len(a) < 2 || a[0] != '-' || a[1] != 'O' {
		return 0, false
	}
	lvl, err := strconv.Atoi(a[2:])
	if err != nil || lvl < 0 || lvl > 3 {
		return 0, false
	}
	return lvl, true
}

var errHelp = fmt.Errorf("help requested")

func printHelp() {
	fmt.Println(`sysyc [options] <source.sy>

  -o <path>        output path (default: <source>.s)
  --dump-ast       write <source>.ast
  --dump-ir        write <source>.ll
  --emit-llvm      emit LLVM IR instead of RISC-V64 assembly
  -O<0|1|2|3>       optimization level (default 0)
  --config <path>  project file (default: sysyc.toml next to the source)
  -v, --verbose    progress messages to stdout
  -h, --help       this message`)
}
