// Command mci_ipm_param_encode rewrites an IPM parameter file from one
// text encoding to another. Parameter records are plain text, so each
// record is transcoded whole.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"ipm_parser/internal/cli"
	"ipm_parser/internal/encoding"
	"ipm_parser/internal/mciipm"
)

func main() {
	fs := flag.NewFlagSet("mci_ipm_param_encode", flag.ExitOnError)
	var outFilename string
	fs.StringVar(&outFilename, "o", "", "output filename (default: input filename + .out)")
	fs.StringVar(&outFilename, "out-filename", "", "output filename (default: input filename + .out)")
	inEncoding := fs.String("in-encoding", "ascii", "input file encoding")
	outEncoding := fs.String("out-encoding", "cp500", "output file encoding")
	no1014 := fs.Bool("no1014blocking", false, "files are plain VBS, not 1014 blocked")
	version := fs.Bool("version", false, "print version and exit")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: mci_ipm_param_encode [options] in_filename\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[1:])

	if *version {
		fmt.Println(cli.VersionString("mci_ipm_param_encode"))
		return
	}
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(2)
	}
	inFilename := fs.Arg(0)
	if outFilename == "" {
		outFilename = inFilename + ".out"
	}

	inCodec, err := encoding.Lookup(*inEncoding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	outCodec, err := encoding.Lookup(*outEncoding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	inFile, err := os.Open(inFilename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open input: %v\n", err)
		os.Exit(1)
	}
	defer inFile.Close()

	outFile, err := os.Create(outFilename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output: %v\n", err)
		os.Exit(1)
	}
	defer outFile.Close()

	blocked := !*no1014
	reader := mciipm.NewVbsReader(inFile, blocked)
	writer := mciipm.NewVbsWriter(outFile, blocked)

	for {
		raw, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		text, err := inCodec.Decode(raw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		out, err := outCodec.Encode(text)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		if err := writer.Write(out); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
	}

	if err := writer.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
