package linestream

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"hash"
	"io"
	"os"
)

// ErrUnknownAlgorithm is returned by ChecksumHex for an unrecognized
// algorithm name.
var ErrUnknownAlgorithm = errors.New("unknown checksum algorithm")

// Checksum feeds a byte range of the file at path into h and returns h.
// A nil h defaults to SHA-1. Hashing starts at offset; length limits the
// number of bytes hashed, with a negative length meaning the rest of the
// file. An offset or length past the end of the file degrades gracefully to
// hashing whatever bytes remain, possibly none.
func Checksum(path string, h hash.Hash, length, offset int64) (hash.Hash, error) {
	if h == nil {
		h = sha1.New()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if offset > 0 {
		if _, err := f.Seek(offset, io.SeekStart); err != nil {
			return nil, err
		}
	}

	var r io.Reader = f
	if length >= 0 {
		r = io.LimitReader(f, length)
	}

	if _, err := io.Copy(h, r); err != nil {
		return nil, err
	}

	return h, nil
}

// ChecksumHex is Checksum with the algorithm chosen by name ("md5",
// "sha1", "sha256", "sha512"; empty means "sha1"), returning the digest in
// hexadecimal.
func ChecksumHex(path, algo string, length, offset int64) (string, error) {
	h, err := newHash(algo)
	if err != nil {
		return "", err
	}

	if _, err := Checksum(path, h, length, offset); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

func newHash(algo string) (hash.Hash, error) {
	switch algo {
	case "", "sha1":
		return sha1.New(), nil
	case "md5":
		return md5.New(), nil
	case "sha256":
		return sha256.New(), nil
	case "sha512":
		return sha512.New(), nil
	}

	return nil, ErrUnknownAlgorithm
}
