package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sysyc/internal/ast"
	"sysyc/internal/backend/riscv"
	"sysyc/internal/config"
	"sysyc/internal/diag"
	"sysyc/internal/fold"
	"sysyc/internal/frontend"
	"sysyc/internal/irgen"
	"sysyc/internal/llvmgen"
	"sysyc/internal/util"
)

// main is spec.md §5's pipeline driver: read source, parse, fold, lower
// to IR, emit assembly (or, under --emit-llvm, LLVM IR). Grounded on
// hhramberg-go-vslc/src/main.go's sequential phase-by-phase error
// checking — each phase returns an error synchronously, and the first
// non-nil one aborts the whole compilation via diag.Fatal, since
// spec.md §7 mandates exactly one diagnostic per run, never recovery.
func main() {
	opt, err := parseArgs(os.Args[1:])
	if err != nil {
		if err == errHelp {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	applyConfig(&opt)
	if opt.Out == "" {
		opt.Out = util.OutputPath(opt.Src, ".s")
	}

	if opt.Verbose {
		diag.Info("reading %s", opt.Src)
	}
	src, err := util.ReadSource(opt.Src)
	if err != nil {
		diag.Fatal(err)
	}

	cu, err := frontend.Parse(src)
	if err != nil {
		diag.Fatal(err)
	}
	fold.CompUnit(cu)

	if opt.DumpAST {
		if err := writeAST(opt.Src, cu); err != nil {
			diag.Fatal(err)
		}
	}

	if opt.Verbose {
		diag.Info("lowering to IR")
	}
	mod, err := irgen.Emit(cu, moduleName(opt.Src))
	if err != nil {
		diag.Fatal(err)
	}

	if opt.DumpIR {
		if err := os.WriteFile(util.OutputPath(opt.Src, ".ll"), []byte(mod.String()), 0o644); err != nil {
			diag.Fatal(err)
		}
	}

	var out string
	if opt.EmitLLVM {
		if opt.Verbose {
			diag.Info("emitting LLVM IR")
		}
		out, err = llvmgen.Generate(mod)
	} else {
		if opt.Verbose {
			diag.Info("emitting RISC-V64 assembly")
		}
		out, err = riscv.Generate(mod)
	}
	if err != nil {
		diag.Fatal(err)
	}
	if opt.Target != "" {
		out = fmt.Sprintf("# target: %s\n%s", opt.Target, out)
	}

	if err := os.WriteFile(opt.Out, []byte(out), 0o644); err != nil {
		diag.Fatal(err)
	}
}

// applyConfig loads sysyc.toml (explicit via --config, or auto-discovered
// next to the source) and fills in whichever flags the user left unset.
// A missing file is not an error — the project file is optional.
func applyConfig(opt *Options) {
	var file *config.File
	var err error
	if opt.ConfigPath != "" {
		file, err = config.Load(opt.ConfigPath)
	} else {
		file, err = config.Discover(filepath.Dir(opt.Src))
	}
	if err != nil {
		diag.Fatal(err)
	}
	if file == nil {
		return
	}
	if !opt.OutExplicit && file.Output.Suffix != "" {
		opt.Out = util.OutputPath(opt.Src, file.Output.Suffix)
	}
	if !opt.OptExplicit && file.Optimize.Level != 0 {
		opt.OptLevel = file.Optimize.Level
	}
	opt.Target = file.Target.Triple
}

func writeAST(src string, cu *ast.CompUnit) error {
	f, err := os.Create(util.OutputPath(src, ".ast"))
	if err != nil {
		return err
	}
	defer f.Close()
	ast.Dump(f, cu)
	return nil
}

// moduleName derives the IR module's name from the source file's base
// name, stripping its extension the way util.OutputPath does.
func moduleName(src string) string {
	base := filepath.Base(src)
	if i := strings.LastIndex(base, "."); i >= 0 {
		base = base[:i]
	}
	return base
}
