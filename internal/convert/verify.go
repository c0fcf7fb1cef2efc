// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ErrVerify marks an output whose content does not match its extension.
var ErrVerify = errors.New("output verification failed")

// verifyOutput sniffs path and checks that the detected type's extension
// matches the path's own.
func verifyOutput(path string) error {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return fmt.Errorf("%w: reading %s: %v", ErrVerify, path, err)
	}
	want := strings.ToLower(filepath.Ext(path))
	if want == ".jpeg" {
		want = ".jpg"
	}
	if mt.Extension() != want {
		return fmt.Errorf("%w: %s has content type %s", ErrVerify, path, mt.String())
	}
	return nil
}
