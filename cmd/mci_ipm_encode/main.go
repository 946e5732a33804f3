// Command mci_ipm_encode rewrites an IPM clearing file from one text
// encoding to another. Text fields are transcoded; binary fields pass
// through unchanged.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"ipm_parser/internal/cli"
	"ipm_parser/internal/config"
	"ipm_parser/internal/mciipm"
)

func main() {
	fs := flag.NewFlagSet("mci_ipm_encode", flag.ExitOnError)
	var outFilename string
	fs.StringVar(&outFilename, "o", "", "output filename (default: input filename + .out)")
	fs.StringVar(&outFilename, "out-filename", "", "output filename (default: input filename + .out)")
	inEncoding := fs.String("in-encoding", "ascii", "input file encoding")
	outEncoding := fs.String("out-encoding", "cp500", "output file encoding")
	no1014 := fs.Bool("no1014blocking", false, "files are plain VBS, not 1014 blocked")
	configFile := fs.String("config-file", "", "JSON configuration file")
	version := fs.Bool("version", false, "print version and exit")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: mci_ipm_encode [options] in_filename\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[1:])

	if *version {
		fmt.Println(cli.VersionString("mci_ipm_encode"))
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

	cfg, err := config.Resolve(*configFile)
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
	reader := mciipm.NewIpmReader(inFile, mciipm.ReaderOptions{
		Encoding: *inEncoding,
		Blocked:  blocked,
		Config:   cfg,
	})
	writer := mciipm.NewIpmWriter(outFile, mciipm.WriterOptions{
		Encoding: *outEncoding,
		Blocked:  blocked,
		Config:   cfg,
	})

	for {
		rec, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		if err := writer.Write(rec); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
	}

	if err := writer.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
