// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import "testing"

func TestTools(t *testing.T) {
	for _, name := range []string{"conv", "bin", "hex", "jam", "scan"} {
		tool, ok := tools[name]
		if !ok {
			t.Errorf("%s: no such command", name)
			continue
		}
		if tool.descr == "" || tool.main == nil {
			t.Errorf("%s: incomplete entry", name)
		}
	}
}
