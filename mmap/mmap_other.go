//go:build !unix

package mmap

import "errors"

func mapAnon(int) ([]byte, error) {
	return nil, errors.ErrUnsupported
}

func unmap([]byte) error {
	return errors.ErrUnsupported
}
