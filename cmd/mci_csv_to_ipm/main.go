// Command mci_csv_to_ipm builds an IPM clearing file from CSV input.
// Column headings name flat-record keys (MTI, DEn, PDSnnnn); columns
// that are not encodable message keys are ignored.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"

	"ipm_parser/internal/cli"
	"ipm_parser/internal/config"
	"ipm_parser/internal/iso8583"
	"ipm_parser/internal/mciipm"
)

func main() {
	fs := flag.NewFlagSet("mci_csv_to_ipm", flag.ExitOnError)
	var outFilename string
	fs.StringVar(&outFilename, "o", "", "output filename (default: input filename + .ipm)")
	fs.StringVar(&outFilename, "out-filename", "", "output filename (default: input filename + .ipm)")
	outEncoding := fs.String("out-encoding", "ascii", "output file encoding")
	no1014 := fs.Bool("no1014blocking", false, "write plain VBS, not 1014 blocked")
	configFile := fs.String("config-file", "", "JSON configuration file")
	version := fs.Bool("version", false, "print version and exit")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: mci_csv_to_ipm [options] in_filename\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[1:])

	if *version {
		fmt.Println(cli.VersionString("mci_csv_to_ipm"))
		return
	}
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(2)
	}
	inFilename := fs.Arg(0)
	if outFilename == "" {
		outFilename = inFilename + ".ipm"
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

	writer := mciipm.NewIpmWriter(outFile, mciipm.WriterOptions{
		Encoding: *outEncoding,
		Blocked:  !*no1014,
		Config:   cfg,
	})

	cr := csv.NewReader(inFile)
	header, err := cr.Read()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read CSV header: %v\n", err)
		os.Exit(1)
	}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read CSV row: %v\n", err)
			os.Exit(1)
		}
		rec := iso8583.Record{}
		for i, key := range header {
			if i < len(row) && row[i] != "" {
				rec[key] = iso8583.Text(row[i])
			}
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
