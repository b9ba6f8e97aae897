package sofa

import (
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/cwbudde/algo-hrtf/hrtf"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Loader opens a measurement dataset by name.
type Loader interface {
	Load(name string) (*Dataset, error)
}

// LoaderFunc adapts a function to [Loader].
type LoaderFunc func(name string) (*Dataset, error)

// Load calls f(name).
func (f LoaderFunc) Load(name string) (*Dataset, error) { return f(name) }

// JSONLoader reads datasets stored as JSON dumps of SOFA files, one object
// with the fields of [Dataset].
type JSONLoader struct{}

// Load opens and decodes the file at name.
func (JSONLoader) Load(name string) (*Dataset, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	d, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return d, nil
}

// Decode reads one JSON dataset from r. When M is absent it is derived from
// the number of source positions.
func Decode(r io.Reader) (*Dataset, error) {
	var d Dataset
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("%w: %v", hrtf.ErrFormat, err)
	}

	if d.Measurements == 0 {
		d.Measurements = len(d.SourcePosition.Values) / 3
	}

	return &d, nil
}

// Encode writes d to w in the format read by [Decode].
func Encode(w io.Writer, d *Dataset) error {
	return json.NewEncoder(w).Encode(d)
}
