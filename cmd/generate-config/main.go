// Command generate-config writes an example configuration file holding every
// default value. Pass "-" to print it instead.
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/debemdeboas/recipe-archive/internal/config"
)

const header = `# Recipe Archive Configuration Example
# Copy this file to config.yaml and customize as needed.
# Environment variables override: HOST, PORT, LOG_LEVEL, WP_BASE_URL, WP_CACHE_ENABLED.

`

func main() {
	outputFile := "config.example.yaml"
	if len(os.Args) > 1 {
		outputFile = os.Args[1]
	}

	if outputFile == "-" {
		if err := writeExample(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error generating YAML: %v\n", err)
			os.Exit(1)
		}
		return
	}

	var buf bytes.Buffer
	if err := writeExample(&buf); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating YAML: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(outputFile, buf.Bytes(), 0644); err != nil {
		fmt.Fprintf(os.Stderr, config.ErrWriteConfigContentFmt+"\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generated example config: %s\n", outputFile)
}

// writeExample encodes the default configuration, which must itself be valid.
func writeExample(w io.Writer) error {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		return err
	}

	if _, err := io.WriteString(w, header); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}
