// Command dxbc2dxil is a thin CLI wrapper over package dxbc2dxil's
// standalone Convert entry point.
//
// Usage:
//
//	dxbc2dxil [options] <input.dxbc>
//
// Examples:
//
//	dxbc2dxil -o shader.dxil shader.dxbc
//	dxbc2dxil -disableHashCheck -no-dxil-cleanup shader.dxbc
//
// The instruction decoder and bitcode serializer this command's
// conversion needs are external collaborators this module never
// implements (spec's own scope excludes both, the same way it excludes
// the CLI driver itself); a build that links real ones must set
// dxbc2dxil.Options.Decode/EmitBitcode before calling Convert. This
// command reports their absence as the ordinary conversion error it is.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/gogpu/dxbc2dxil/dxbc2dxil"
)

var (
	output           = flag.String("o", "", "output file (default: stdout)")
	disableHashCheck = flag.Bool("disableHashCheck", false, "accept a container whose integrity hash would not validate")
	noCleanup        = flag.Bool("no-dxil-cleanup", false, "skip the post-lowering IR cleanup pass")
	versionFlag      = flag.Bool("version", false, "print version")
)

func version() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}
	}
	return "dev"
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if *versionFlag {
		fmt.Printf("dxbc2dxil version %s\n", version())
		return
	}

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		usage()
		os.Exit(1)
	}
	inputPath := args[0]

	dxbc, err := os.ReadFile(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		os.Exit(1)
	}

	opts := dxbc2dxil.DefaultOptions()
	opts.DisableHashCheck = *disableHashCheck
	opts.NoDXILCleanup = *noCleanup

	result, err := dxbc2dxil.Convert(dxbc, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conversion error: %v\n", err)
		os.Exit(1)
	}

	if *output != "" {
		if err := os.WriteFile(*output, result.Container, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Successfully converted %s to %s (%d bytes)\n", inputPath, *output, len(result.Container))
		return
	}

	if _, err := os.Stdout.Write(result.Container); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: dxbc2dxil [options] <input.dxbc>\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  dxbc2dxil shader.dxbc                     Convert, write to stdout\n")
	fmt.Fprintf(os.Stderr, "  dxbc2dxil -o shader.dxil shader.dxbc      Convert to file\n")
	fmt.Fprintf(os.Stderr, "  dxbc2dxil -no-dxil-cleanup shader.dxbc    Skip the IR cleanup pass\n")
}
