package util

import (
	"os"
	"strings"
)

// ReadSource reads the whole contents of path into memory. Grounded on
// hhramberg-go-vslc/src/util/io.go's ReadSource, simplified: the source
// is read once, in full, at the start of the pipeline (spec.md §5) and
// there is no channel-based streaming reader to match, since the
// teacher's lexer consumed its input via a goroutine-fed channel that
// this compiler's recursive-descent frontend has no need for.
func ReadSource(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// OutputPath derives the default output path for a given suffix (".s",
// ".ast", ".ll") from the source path, replacing its extension.
func OutputPath(src, suffix string) string {
	base := src
	if i := strings.LastIndex(base, "."); i > strings.LastIndex(base, "/") {
		base = base[:i]
	}
	return base + suffix
}
