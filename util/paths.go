// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"os"
	"path/filepath"

	"github.com/bridgewatch/solvencyd/fault"
)

// EnsureAbsolute - ensure the path is absolute
// if not, prepend the directory to make absolute path
func EnsureAbsolute(directory string, filePath string) string {
	if !filepath.IsAbs(filePath) {
		filePath = filepath.Join(directory, filePath)
	}
	return filepath.Clean(filePath)
}

// EnsureFileExists - check if file exists
func EnsureFileExists(name string) bool {
	_, err := os.Stat(name)
	return nil == err
}

// EnsureDirectory - create a private directory if it does not exist
//
// an existing file of the same name is an error
func EnsureDirectory(name string) error {
	err := os.MkdirAll(name, 0700)
	if nil != err {
		return err
	}
	info, err := os.Stat(name)
	if nil != err {
		return err
	}
	if !info.IsDir() {
		return fault.NotADirectory
	}
	return nil
}
