// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package codestore resolves operation names such as transactions/nft/mint to
// the on-chain code they run, with contract placeholders already bound to a
// deployment.
package codestore

import (
	"fmt"
	"io/fs"
	"path"

	"github.com/mintastic/mintsdk/addrmap"
)

// CodeExtension is the file extension of code templates.
const CodeExtension = ".cdc"

// Resolver returns the resolved code of an operation.
type Resolver interface {
	Code(name string) (string, error)
}

// FSResolver reads code templates from a file system.  Each template is read
// once; later lookups are served from the cache.
type FSResolver struct {
	fsys  fs.FS
	addrs *addrmap.AddressMap
	cache *Cache
}

// NewFSResolver returns a resolver reading <name>.cdc files from fsys.  A nil
// cache is replaced by a new, empty one.
func NewFSResolver(fsys fs.FS, addrs *addrmap.AddressMap, cache *Cache) *FSResolver {
	if cache == nil {
		cache = NewCache()
	}
	return &FSResolver{fsys: fsys, addrs: addrs, cache: cache}
}

// Code returns the resolved code for name.
//
// Two goroutines resolving the same uncached name may both read the file.
// Both compute the same text, so whichever stores last wins harmlessly.
func (r *FSResolver) Code(name string) (string, error) {
	if code, ok := r.cache.Lookup(name); ok {
		return code, nil
	}

	file := path.Clean(name) + CodeExtension
	raw, err := fs.ReadFile(r.fsys, file)
	if err != nil {
		return "", Error{
			ErrorCode:   ErrReadCode,
			Description: fmt.Sprintf("unable to read code %q", file),
			Err:         err,
		}
	}

	code := r.addrs.Apply(string(raw))
	r.cache.Store(name, code)
	log.Debugf("Resolved code %s (%d bytes)", name, len(code))
	return code, nil
}

// PreloadedResolver serves code from a fixed set of templates resolved once
// at construction.  It is used where no file system is available, for
// instance with templates compiled into the binary.
type PreloadedResolver struct {
	cache *Cache
}

// NewPreloadedResolver resolves every template of codes against addrs.
func NewPreloadedResolver(codes map[string]string, addrs *addrmap.AddressMap) *PreloadedResolver {
	cache := NewCache()
	for name, code := range addrs.ApplyAll(codes) {
		cache.Store(name, code)
	}
	return &PreloadedResolver{cache: cache}
}

// Code returns the resolved code for name.
func (r *PreloadedResolver) Code(name string) (string, error) {
	code, ok := r.cache.Lookup(name)
	if !ok {
		return "", Error{
			ErrorCode:   ErrCodeNotFound,
			Description: fmt.Sprintf("no code with name '%s' found.", name),
		}
	}
	return code, nil
}

// LoadAll reads every code template below root in fsys and returns them
// keyed by operation name.  It is the usual way to build the input of
// NewPreloadedResolver from an embedded file system.
func LoadAll(fsys fs.FS, root string) (map[string]string, error) {
	codes := make(map[string]string)
	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != CodeExtension {
			return nil
		}
		raw, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		name := p[:len(p)-len(CodeExtension)]
		if root != "." {
			name = name[len(path.Clean(root))+1:]
		}
		codes[name] = string(raw)
		return nil
	})
	if err != nil {
		return nil, Error{
			ErrorCode:   ErrReadCode,
			Description: "unable to load code templates",
			Err:         err,
		}
	}
	return codes, nil
}

// Ensure the resolvers satisfy the Resolver interface.
var (
	_ Resolver = (*FSResolver)(nil)
	_ Resolver = (*PreloadedResolver)(nil)
)
