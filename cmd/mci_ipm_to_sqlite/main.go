// Command mci_ipm_to_sqlite loads an IPM clearing file into a local
// SQLite database for ad-hoc querying.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"ipm_parser/internal/cli"
	"ipm_parser/internal/config"
	"ipm_parser/internal/mciipm"
	"ipm_parser/internal/storage"
)

func main() {
	fs := flag.NewFlagSet("mci_ipm_to_sqlite", flag.ExitOnError)
	var outFilename string
	fs.StringVar(&outFilename, "o", "", "output database (default: input filename + .db)")
	fs.StringVar(&outFilename, "out-filename", "", "output database (default: input filename + .db)")
	inEncoding := fs.String("in-encoding", "ascii", "input file encoding")
	no1014 := fs.Bool("no1014blocking", false, "input is plain VBS, not 1014 blocked")
	configFile := fs.String("config-file", "", "JSON configuration file")
	version := fs.Bool("version", false, "print version and exit")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: mci_ipm_to_sqlite [options] in_filename\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[1:])

	if *version {
		fmt.Println(cli.VersionString("mci_ipm_to_sqlite"))
		return
	}
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(2)
	}
	inFilename := fs.Arg(0)
	if outFilename == "" {
		outFilename = inFilename + ".db"
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

	db, err := storage.Open(outFilename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	reader := mciipm.NewIpmReader(inFile, mciipm.ReaderOptions{
		Encoding: *inEncoding,
		Blocked:  !*no1014,
		Config:   cfg,
		HexBin:   true,
	})

	loaded := 0
	for {
		rec, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		if err := db.InsertRecord(rec); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		loaded++
	}
	fmt.Printf("loaded %d records into %s\n", loaded, outFilename)
}
