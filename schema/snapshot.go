package schema

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Load decodes a YAML snapshot.
//
//	tables:
//	  - name: comments
//	    columns:
//	      - name: id
//	      - name: post_id
//	    foreign_keys:
//	      - columns: [post_id]
//	        referenced_table: posts
func Load(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return NewSnapshot(), nil
		}
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	s.normalize()
	return &s, nil
}

// LoadFile reads a YAML snapshot from path.
func LoadFile(path string) (*Snapshot, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Load(f)
}

// Save encodes the snapshot as YAML.
func (s *Snapshot) Save(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return enc.Close() //nolint:wrapcheck // flush only
}

// SaveFile writes the snapshot to path.
func (s *Snapshot) SaveFile(path string) error {
	f, err := os.Create(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if err := s.Save(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close() //nolint:wrapcheck // thin wrapper
}
