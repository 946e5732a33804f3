// Command mci_ipm_to_csv converts an IPM clearing file to CSV. One row
// is written per record, with the columns selected by the configured
// output_data_elements list.
package main

import (
	"flag"
	"fmt"
	"os"

	"ipm_parser/internal/cli"
	"ipm_parser/internal/config"
	"ipm_parser/internal/mciipm"
	"ipm_parser/internal/outputter"
)

func main() {
	fs := flag.NewFlagSet("mci_ipm_to_csv", flag.ExitOnError)
	var outFilename string
	fs.StringVar(&outFilename, "o", "", "output filename (default: input filename + .csv)")
	fs.StringVar(&outFilename, "out-filename", "", "output filename (default: input filename + .csv)")
	inEncoding := fs.String("in-encoding", "ascii", "input file encoding")
	no1014 := fs.Bool("no1014blocking", false, "input is plain VBS, not 1014 blocked")
	configFile := fs.String("config-file", "", "JSON configuration file")
	version := fs.Bool("version", false, "print version and exit")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: mci_ipm_to_csv [options] in_filename\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[1:])

	if *version {
		fmt.Println(cli.VersionString("mci_ipm_to_csv"))
		return
	}
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(2)
	}
	inFilename := fs.Arg(0)
	if outFilename == "" {
		outFilename = inFilename + ".csv"
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

	reader := mciipm.NewIpmReader(inFile, mciipm.ReaderOptions{
		Encoding: *inEncoding,
		Blocked:  !*no1014,
		Config:   cfg,
		HexBin:   true,
	})
	if err := outputter.WriteCSV(outFile, reader, cfg.OutputDataElements); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
