// smscan classifies and extracts SMS messages from a file or stdin,
// one message per line, and prints one JSON result per line.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/finbuddy/smsledger/internal/extract"
	"github.com/finbuddy/smsledger/internal/logger"
)

type scanResult struct {
	Message   string                     `json:"message"`
	Financial bool                       `json:"financial"`
	Record    *extract.TransactionRecord `json:"record,omitempty"`
}

func main() {
	var (
		file          = flag.String("file", "", "Path to a file with one SMS message per line (default: stdin)")
		onlyFinancial = flag.Bool("only-financial", false, "Suppress output for non-financial messages")
		logLevel      = flag.String("log-level", "warn", "Log level")
	)
	flag.Parse()

	log := logger.New("smscan", *logLevel)

	var in io.Reader = os.Stdin
	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			log.Fatal().Err(err).Str("file", *file).Msg("Failed to open input file")
		}
		defer f.Close()
		in = f
	}

	extractor := extract.NewExtractor()
	out := json.NewEncoder(os.Stdout)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var total, financial, extracted int
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		total++

		result := scanResult{Message: line, Financial: extract.IsFinancial(line)}
		if result.Financial {
			financial++
			if rec, ok := extractor.Extract(line); ok {
				extracted++
				result.Record = rec
			}
		}

		if *onlyFinancial && !result.Financial {
			continue
		}
		if err := out.Encode(result); err != nil {
			log.Fatal().Err(err).Msg("Failed to write result")
		}
	}
	if err := scanner.Err(); err != nil {
		log.Fatal().Err(err).Msg("Failed to read input")
	}

	fmt.Fprintf(os.Stderr, "scanned %d messages: %d financial, %d extracted\n", total, financial, extracted)
}
