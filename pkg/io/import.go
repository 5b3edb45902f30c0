package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/netergm/pkg/compare"
	"github.com/matzehuels/netergm/pkg/errors"
)

// ReadReport decodes a report written by [WriteReport]. It rejects reports
// with results that lack coefficients or repeat a model name.
func ReadReport(r io.Reader) (*compare.Report, error) {
	var rep compare.Report
	if err := json.NewDecoder(r).Decode(&rep); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode report")
	}

	seen := make(map[string]bool, len(rep.Results))
	for _, res := range rep.Results {
		if res.Model == "" || len(res.Coefficients) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "report result without model name or coefficients")
		}
		if seen[res.Model] {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "model %q appears twice", res.Model)
		}
		seen[res.Model] = true
	}
	return &rep, nil
}

// ImportReport reads the report at path.
func ImportReport(path string) (*compare.Report, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "%s does not exist", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadReport(f)
}
