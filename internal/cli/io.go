package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	errs "github.com/matzehuels/bddview/pkg/errors"
	"github.com/matzehuels/bddview/pkg/pipeline"
)

// stdin is read when neither an argument nor --file names the input.
var stdin io.Reader = os.Stdin

// readInput returns the node list from args, the file, or stdin, in that
// order. A single trailing newline is dropped so `echo ... | bddview render`
// and a typed argument draw the same thing.
func readInput(args []string, file string) (string, error) {
	switch {
	case len(args) > 0:
		return strings.Join(args, ""), nil
	case file != "":
		if err := errs.ValidatePath(file); err != nil {
			return "", err
		}
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read input %s: %w", file, err)
		}
		return trimNewline(string(data)), nil
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return trimNewline(string(data)), nil
	}
}

func trimNewline(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}

// nopCloser wraps a Writer with a no-op Close method.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns a writer for path, or stdout when path is "-".
func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	if err := errs.ValidatePath(path); err != nil {
		return nil, err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}

// basePath derives the base output path. A known format extension on output
// is stripped so "-o out.svg -f svg,png" writes out.svg and out.png.
func basePath(output, fallback string) string {
	if output == "" {
		return fallback
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPaths maps each format to the file it is written to. A single format
// goes to output verbatim when given.
func outputPaths(formats []string, output, fallback string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, fallback)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// writeArtifacts writes every artifact to its path and returns the paths in
// format order.
func writeArtifacts(artifacts map[string][]byte, paths map[string]string) ([]string, error) {
	formats := make([]string, 0, len(paths))
	for f := range paths {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	var written []string
	for _, f := range formats {
		data, ok := artifacts[f]
		if !ok {
			return written, fmt.Errorf("no %s output was produced", f)
		}
		if err := writeFile(paths[f], data); err != nil {
			return written, err
		}
		written = append(written, paths[f])
	}
	return written, nil
}

func writeFile(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return out.Close()
}
