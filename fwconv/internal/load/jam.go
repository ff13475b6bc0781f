// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package load

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/embeddedgo/fwtools/fwconv/internal/image"
)

// JAM loads all HEX files listed in the manifest into the same image, in
// order. Every non-blank line of the manifest is a file name. Relative names
// that do not exist are also looked up in the directory of the manifest. The
// first file that fails to load stops the whole manifest.
func JAM(manifest string, m *image.Memory, opts *Options) ([]*Result, error) {
	log := opts.logger()
	names, err := readManifest(manifest)
	if err != nil {
		return nil, err
	}
	results := make([]*Result, 0, len(names))
	for _, name := range names {
		name = lookup(name, filepath.Dir(manifest))
		log.Infof("Process file:%s", name)
		res, err := File(name, m, opts)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func readManifest(name string) ([]string, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableInput, err)
	}
	defer f.Close()
	var names []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if s := strings.TrimSpace(sc.Text()); s != "" {
			names = append(names, s)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnreadableInput, name, err)
	}
	return names, nil
}

func lookup(name, dir string) string {
	if filepath.IsAbs(name) || dir == "." {
		return name
	}
	_, err := os.Stat(name)
	if !errors.Is(err, fs.ErrNotExist) {
		return name
	}
	alt := filepath.Join(dir, name)
	if _, err := os.Stat(alt); err == nil {
		return alt
	}
	return name
}
