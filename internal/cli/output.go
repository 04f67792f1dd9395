package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/glabrego/fotoflix-cli/internal/unsplash"
)

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func validateFormat(format string) error {
	if !isValidFormat(format) {
		return fmt.Errorf("invalid format %q: must be one of %v", format, ValidFormats)
	}
	return nil
}

// OutputFormatter writes command results as text, JSON or YAML.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// Photos prints photos. JSON output is the API objects as received.
func (f *OutputFormatter) Photos(photos []unsplash.Photo) error {
	if photos == nil {
		photos = []unsplash.Photo{}
	}
	switch f.Format {
	case "json":
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(photos)
	case "yaml":
		enc := yaml.NewEncoder(f.Writer)
		enc.SetIndent(2)
		if err := enc.Encode(photos); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}

	if len(photos) == 0 {
		_, err := fmt.Fprintln(f.Writer, "No photos.")
		return err
	}
	tw := tabwriter.NewWriter(f.Writer, 0, 4, 2, ' ', 0)
	for _, p := range photos {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", p.ID, oneLine(p.Title()), p.Author(), p.Likes, p.Links.HTML)
	}
	return tw.Flush()
}

// Line prints a single value; structured formats wrap it under key.
func (f *OutputFormatter) Line(key, value string) error {
	switch f.Format {
	case "json":
		return json.NewEncoder(f.Writer).Encode(map[string]string{key: value})
	case "yaml":
		out, err := yaml.Marshal(map[string]string{key: value})
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		_, err = f.Writer.Write(out)
		return err
	}
	_, err := fmt.Fprintln(f.Writer, value)
	return err
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
