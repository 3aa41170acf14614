package fetcher

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/rotisserie/eris"
)

// errNotArray marks a well-formed document whose top level is not an array.
var errNotArray = errors.New("top-level value is not an array")

// DecodeArray decodes a JSON array of T from r. The first token must be '[':
// null, objects, scalars and empty input are rejected, as is any syntax
// error inside the array. An empty array yields an empty, non-nil slice.
func DecodeArray[T any](r io.Reader) ([]T, error) {
	decoder := json.NewDecoder(r)

	tok, err := decoder.Token()
	if err != nil {
		if err == io.EOF {
			return nil, eris.Wrap(errNotArray, "json: empty body")
		}
		return nil, eris.Wrap(err, "json: read opening token")
	}

	delim, ok := tok.(json.Delim)
	if !ok || delim != '[' {
		return nil, eris.Wrapf(errNotArray, "json: expected '[', got %v", tok)
	}

	items := make([]T, 0)
	for decoder.More() {
		var item T
		if err := decoder.Decode(&item); err != nil {
			return nil, eris.Wrap(err, "json: decode element")
		}
		items = append(items, item)
	}

	if _, err := decoder.Token(); err != nil {
		return nil, eris.Wrap(err, "json: read closing token")
	}

	return items, nil
}
