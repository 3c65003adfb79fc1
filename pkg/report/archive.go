package report

import (
	"encoding/json"

	"github.com/klauspost/compress/zstd"

	"github.com/vulndetective/vulndetective/pkg/errors"
)

// Archive serializes the report to JSON and compresses it with zstd, for
// storage or transfer of large scan results.
func (r *Report) Archive() ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, errors.Wrap(err, "report.Archive")
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, errors.E(errors.KindInternal, "report.Archive", "create encoder", err)
	}
	defer enc.Close()

	return enc.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}

// DecodeArchive decompresses and decodes a report produced by Archive.
func DecodeArchive(data []byte) (*Report, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, errors.E(errors.KindInternal, "report.DecodeArchive", "create decoder", err)
	}
	defer dec.Close()

	raw, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, errors.E(errors.KindInvalidInput, "report.DecodeArchive", "decompress", err)
	}

	var r Report
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, errors.E(errors.KindInvalidInput, "report.DecodeArchive", "decode json", err)
	}
	return &r, nil
}
