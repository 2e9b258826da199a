// Command fusekernelc compiles an image-preprocessing op list into a
// standalone C (CPU) or CUDA (GPU) translation unit.
//
// Usage:
//
//	fusekernelc -input ops.json -target cpu -h 480 -w 640 -c 3 -o fused.cc
//	fusekernelc -input ops.json -target gpu -h 480 -w 640 -c 3 -o fused.cu
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/ajroetker/fusekernel"
	"github.com/ajroetker/fusekernel/ir"
	"github.com/ajroetker/fusekernel/lower"
)

var (
	inputFile   = flag.String("input", "", "op-list JSON file (required)")
	outputFile  = flag.String("o", "", "output file (default: stdout)")
	target      = flag.String("target", "cpu", "code generation target: cpu or gpu")
	srcHeight   = flag.Uint64("h", 0, "source image height (required)")
	srcWidth    = flag.Uint64("w", 0, "source image width (required)")
	srcChannels = flag.Uint64("c", 3, "source image channel count")
	elementType = flag.String("dtype", "uint8", "source element type: uint8 or float32")
	versionFlag = flag.Bool("version", false, "print version")
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
	flag.Parse()

	if *versionFlag {
		fmt.Println(version())
		return
	}

	if *inputFile == "" || *srcHeight == 0 || *srcWidth == 0 {
		fmt.Fprintf(os.Stderr, "Error: -input, -h, and -w are required\n\n")
		flag.Usage()
		os.Exit(1)
	}

	tgt, err := parseTarget(*target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	elemType, err := parseElementType(*elementType)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opListJSON, err := os.ReadFile(*inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: reading %s: %v\n", *inputFile, err)
		os.Exit(1)
	}

	src, err := fusekernel.Compile(opListJSON, tgt, fusekernel.Input{
		Height:      *srcHeight,
		Width:       *srcWidth,
		Channels:    *srcChannels,
		ElementType: elemType,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *outputFile == "" {
		fmt.Print(src)
		return
	}
	if err := os.WriteFile(*outputFile, []byte(src), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: writing %s: %v\n", *outputFile, err)
		os.Exit(1)
	}
}

func parseTarget(s string) (lower.Target, error) {
	switch s {
	case "cpu", "":
		return lower.CPU, nil
	case "gpu":
		return lower.GPU, nil
	default:
		return 0, fmt.Errorf("unrecognized -target %q (want cpu or gpu)", s)
	}
}

func parseElementType(s string) (ir.ScalarType, error) {
	switch s {
	case "uint8", "":
		return ir.TUInt8(), nil
	case "float32":
		return ir.TFloat32(), nil
	default:
		return ir.ScalarType{}, fmt.Errorf("unrecognized -dtype %q (want uint8 or float32)", s)
	}
}
