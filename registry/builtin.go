package registry

import (
	_ "embed"
)

//go:embed stix21.json
var stix21 []byte

// Builtin returns a fresh registry preloaded with the embedded STIX 2.1
// specification document. Each call returns an independent registry, so
// callers may layer their own documents on top without interfering with
// one another.
func Builtin() (*Registry, error) {
	r := New()
	if err := r.LoadJSON(stix21); err != nil {
		return nil, err
	}
	return r, nil
}
