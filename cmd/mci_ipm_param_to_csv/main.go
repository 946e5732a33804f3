// Command mci_ipm_param_to_csv extracts one table from an IPM parameter
// file and writes it as CSV.
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
	fs := flag.NewFlagSet("mci_ipm_param_to_csv", flag.ExitOnError)
	var outFilename string
	fs.StringVar(&outFilename, "o", "", "output filename (default: input filename + _<table_id>.csv)")
	fs.StringVar(&outFilename, "out-filename", "", "output filename (default: input filename + _<table_id>.csv)")
	inEncoding := fs.String("in-encoding", "", "input file encoding")
	no1014 := fs.Bool("no1014blocking", false, "input is plain VBS, not 1014 blocked")
	expanded := fs.Bool("expanded", false, "input uses the expanded parameter file layout")
	configFile := fs.String("config-file", "", "JSON configuration file")
	version := fs.Bool("version", false, "print version and exit")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: mci_ipm_param_to_csv [options] in_filename table_id\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[1:])

	if *version {
		fmt.Println(cli.VersionString("mci_ipm_param_to_csv"))
		return
	}
	if fs.NArg() != 2 {
		fs.Usage()
		os.Exit(2)
	}
	inFilename := fs.Arg(0)
	tableID := fs.Arg(1)
	if outFilename == "" {
		outFilename = inFilename + "_" + tableID + ".csv"
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

	reader, err := mciipm.NewIpmParamReader(inFile, tableID, mciipm.ParamReaderOptions{
		Encoding: *inEncoding,
		Blocked:  !*no1014,
		Expanded: *expanded,
		Config:   cfg,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	outFile, err := os.Create(outFilename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output: %v\n", err)
		os.Exit(1)
	}
	defer outFile.Close()

	if err := outputter.WriteRowsCSV(outFile, reader, reader.Columns()); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
