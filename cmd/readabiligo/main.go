// Package main provides the command-line interface for readability.
// It allows extracting readable content from HTML files or standard input
// and outputting the results in various formats.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/inkwell-go/readability"
)

// OutputFormat represents the supported output formats for the extracted content.
type OutputFormat string

const (
	FormatJSON OutputFormat = "json"
	FormatHTML OutputFormat = "html"
	FormatText OutputFormat = "text"
)

func main() {
	inputFiles := flag.String("input", "", "Input HTML file path(s) (comma-separated, use '-' for stdin)")
	outputDir := flag.String("output-dir", "", "Output directory for batch processing (default: same as input)")
	outputFile := flag.String("output", "", "Output file path (default: stdout)")
	formatStr := flag.String("format", "json", "Output format: json, html, or text")
	baseURL := flag.String("base-url", "", "Base URL for resolving relative links and images")
	contentDigest := flag.Bool("digest", false, "Include a content digest in the JSON output")
	compact := flag.Bool("compact", false, "Output compact JSON without indentation")
	timeout := flag.Duration("timeout", 30*time.Second, "Timeout for extraction")
	showHelp := flag.Bool("help", false, "Show help information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "readability - Extract readable content from HTML\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -input article.html -output article.json\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -input article.html -format html -output article.html\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -input article1.html,article2.html -output-dir ./extracted\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  cat article.html | %s -input - > article.json\n", os.Args[0])
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	format := OutputFormat(strings.ToLower(*formatStr))
	if format != FormatJSON && format != FormatHTML && format != FormatText {
		fmt.Printf("Invalid output format: %s. Must be one of: json, html, text\n", *formatStr)
		os.Exit(1)
	}

	var inputs []string
	if *inputFiles == "" || *inputFiles == "-" {
		inputs = []string{"-"}
	} else {
		inputs = strings.Split(*inputFiles, ",")
	}

	opts := []readability.Option{readability.WithTimeout(*timeout)}
	if *contentDigest {
		opts = append(opts, readability.WithContentDigest(true))
	}
	if *baseURL != "" {
		opts = append(opts, readability.WithBaseURL(*baseURL))
	}
	parser := readability.New(opts...)

	for _, inputPath := range inputs {
		var input io.ReadCloser
		var outputPath string

		if inputPath == "-" {
			input = os.Stdin
			outputPath = *outputFile
		} else {
			file, err := os.Open(inputPath)
			if err != nil {
				fmt.Printf("Error opening input file %s: %v\n", inputPath, err)
				continue
			}
			defer file.Close()
			input = file

			if *outputDir != "" {
				if err := os.MkdirAll(*outputDir, 0755); err != nil {
					fmt.Printf("Error creating output directory: %v\n", err)
					os.Exit(1)
				}
				baseName := filepath.Base(inputPath)
				nameWithoutExt := strings.TrimSuffix(baseName, filepath.Ext(baseName))

				var outputExt string
				switch format {
				case FormatJSON:
					outputExt = ".json"
				case FormatHTML:
					outputExt = ".html"
				case FormatText:
					outputExt = ".txt"
				}
				outputPath = filepath.Join(*outputDir, nameWithoutExt+outputExt)
			} else if *outputFile != "" && len(inputs) == 1 {
				outputPath = *outputFile
			} else if *outputFile == "" {
				outputPath = ""
			} else {
				fmt.Println("Warning: Multiple input files with single output file specified. Using stdout.")
				outputPath = ""
			}
		}

		article, err := parser.ParseReader(input)
		if err != nil {
			fmt.Printf("Error extracting article from %s: %v\n", inputPath, err)
			continue
		}

		var outputData []byte
		switch format {
		case FormatJSON:
			if *compact {
				outputData, err = json.Marshal(article)
			} else {
				outputData, err = json.MarshalIndent(article, "", "  ")
			}
			if err != nil {
				fmt.Printf("Error converting article to JSON: %v\n", err)
				continue
			}
		case FormatHTML:
			outputData = []byte(article.Content)
		case FormatText:
			outputData = []byte(article.TextContent)
		}

		var output io.Writer = os.Stdout
		if outputPath != "" {
			file, err := os.Create(outputPath)
			if err != nil {
				fmt.Printf("Error creating output file %s: %v\n", outputPath, err)
				continue
			}
			defer file.Close()
			output = file
			fmt.Printf("Processed %s -> %s\n", inputPath, outputPath)
		}

		if _, err := output.Write(outputData); err != nil {
			fmt.Printf("Error writing output: %v\n", err)
			continue
		}
		if output == os.Stdout {
			fmt.Println()
		}
	}
}
