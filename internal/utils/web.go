package utils

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/filebridge/filebridge/internal/errors"
)

// WriteErrorAndStatusCode maps the core error taxonomy onto HTTP statuses.
// Raw upstream detail never reaches the response body.
func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	var withCode *errors.ErrorWithStatusCode
	if stderrors.As(err, &withCode) {
		http.Error(w, withCode.Message, withCode.StatusCode)
		return
	}

	var notSatisfiable *errors.RangeNotSatisfiableError
	if stderrors.As(err, &notSatisfiable) {
		w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", notSatisfiable.TotalSize))
		http.Error(w, "Requested range not satisfiable", http.StatusRequestedRangeNotSatisfiable)
		return
	}

	switch {
	case stderrors.Is(err, errors.ErrMalformedRange), stderrors.Is(err, errors.ErrMalformedToken):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case stderrors.Is(err, errors.ErrInvalidFingerprint), stderrors.Is(err, errors.ErrObjectNotFound):
		// one answer for "gone" and "tampered": don't confirm the coordinate exists
		http.Error(w, "Not found", http.StatusNotFound)
	case stderrors.Is(err, errors.ErrUpstreamUnavailable):
		http.Error(w, "Upstream unavailable", http.StatusBadGateway)
	default:
		// default error is 500
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func DecodeValidate(r io.ReadCloser, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		log.Printf("%s", err.Error())
		return &errors.ErrorWithStatusCode{Message: "Body is invalid json", StatusCode: 400}
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(body); err != nil {
		log.Printf("%s", err.Error())
		return &errors.ErrorWithStatusCode{Message: "Required fields missing", StatusCode: 400}
	}
	return nil
}
