package book

import (
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Handle points at materialized resource bytes on disk. The zero Handle is
// the "unavailable" sentinel: a reference that could not be resolved or
// materialized. Unresolvable images degrade to placeholders, they never
// abort navigation.
type Handle struct {
	Path      string
	MediaType string
}

// Available reports whether the handle points at usable bytes.
func (h Handle) Available() bool {
	return h.Path != ""
}

// Resolver maps references found in chapter markup to entries of a book's
// resource table and materializes the matched bytes to readable files.
type Resolver struct {
	source Source
	dir    string
}

// NewResolver creates a resolver materializing into a fresh temp directory.
func NewResolver(source Source) (*Resolver, error) {
	dir, err := os.MkdirTemp("", "creb-")
	if err != nil {
		return nil, err
	}
	return &Resolver{source: source, dir: dir}, nil
}

// Resolve maps ref to a resource and materializes it. chapterLocation is
// the path of the chapter the reference appeared in, or "" when unknown.
//
// Packages frequently key their resource tables relative to a manifest
// root that differs from the chapter-relative form used in markup, so a
// failed direct lookup falls back to a suffix scan over the table. The
// scan visits canonical paths in lexical order, making multi-match
// resolution deterministic.
func (r *Resolver) Resolve(ref, chapterLocation string) Handle {
	if ref == "" {
		return Handle{}
	}

	key := ref
	if chapterLocation != "" {
		key = path.Clean(path.Join(path.Dir(chapterLocation), ref))
	}

	table := r.source.Resources()
	res, ok := table[key]
	if !ok {
		res, ok = suffixScan(table, key, ref)
	}
	if !ok {
		return Handle{}
	}

	data, err := r.source.ResourceBytes(res.StoredPath)
	if err != nil {
		return Handle{}
	}

	// The materialized file is named after the reference's final segment,
	// not the resolved key's.
	dest := filepath.Join(r.dir, path.Base(ref))
	if err := os.WriteFile(dest, data, 0644); err != nil {
		return Handle{}
	}

	return Handle{Path: dest, MediaType: res.MediaType}
}

// suffixScan accepts the first resource whose stored path ends with the
// canonical key or the original reference.
func suffixScan(table Table, key, ref string) (Resource, bool) {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		res := table[k]
		if strings.HasSuffix(res.StoredPath, key) || strings.HasSuffix(res.StoredPath, ref) {
			return res, true
		}
	}
	return Resource{}, false
}

// Close removes the materialized files.
func (r *Resolver) Close() error {
	return os.RemoveAll(r.dir)
}
