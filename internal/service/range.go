package service

import (
	"strconv"
	"strings"

	"github.com/filebridge/filebridge/internal/errors"
)

// NegotiateRange parses a Range header against a known total size and
// returns the validated byte window [from, until]. An absent header means
// the full object. Only the single-range "bytes=<from>-<until>" form is
// supported; multi-range requests are malformed.
func NegotiateRange(header string, size int64) (from, until int64, err error) {
	if header == "" {
		return 0, size - 1, nil
	}

	value, ok := strings.CutPrefix(header, "bytes=")
	if !ok || strings.Contains(value, ",") {
		return 0, 0, errors.ErrMalformedRange
	}

	fromStr, untilStr, ok := strings.Cut(value, "-")
	if !ok {
		return 0, 0, errors.ErrMalformedRange
	}

	from, err = strconv.ParseInt(strings.TrimSpace(fromStr), 10, 64)
	if err != nil {
		return 0, 0, errors.ErrMalformedRange
	}

	if strings.TrimSpace(untilStr) == "" {
		until = size - 1
	} else {
		until, err = strconv.ParseInt(strings.TrimSpace(untilStr), 10, 64)
		if err != nil {
			return 0, 0, errors.ErrMalformedRange
		}
	}

	if until > size-1 || from < 0 || until < from {
		return 0, 0, &errors.RangeNotSatisfiableError{TotalSize: size}
	}

	return from, until, nil
}
