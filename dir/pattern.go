// Package dir provides API for reading and writing tiles as individual image
// files, with paths like "/tiles/{i}.png" where {i} is the tile index.
package dir

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/eak1mov/go-tileedit/imgcodec"
)

var ErrInvalidPattern = errors.New("tileedit: invalid file pattern")

const placeholder = "{i}"

// validatePattern checks the placeholder and returns the image format named
// by the file extension.
func validatePattern(pattern string) (imgcodec.Format, error) {
	if !strings.Contains(pattern, placeholder) {
		return 0, fmt.Errorf("%w: placeholder %v not found", ErrInvalidPattern, placeholder)
	}
	format, err := imgcodec.FormatFromPath(pattern)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}
	return format, nil
}

func formatPattern(pattern string, index int) string {
	return strings.ReplaceAll(pattern, placeholder, strconv.Itoa(index))
}

func patternRegexp(pattern string) (*regexp.Regexp, error) {
	quoted := regexp.QuoteMeta(pattern)
	quoted = strings.ReplaceAll(quoted, regexp.QuoteMeta(placeholder), `(?P<i>\d+)`)
	pathRegexp, err := regexp.Compile("^" + quoted + "$")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}
	return pathRegexp, nil
}
