package migration

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

// compareChunk is the read size used when comparing file contents.
const compareChunk = 32 * 1024

// SameContent reports whether the files at a and b hold identical bytes.
// Files of different sizes are unequal without reading them; otherwise both
// are streamed and compared chunk by chunk. Timestamps are never consulted.
func SameContent(a, b string) (bool, error) {
	infoA, err := os.Stat(a)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", a, err)
	}
	infoB, err := os.Stat(b)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", b, err)
	}
	if infoA.Size() != infoB.Size() {
		return false, nil
	}

	fa, err := os.Open(a)
	if err != nil {
		return false, fmt.Errorf("opening %s: %w", a, err)
	}
	defer fa.Close()

	fb, err := os.Open(b)
	if err != nil {
		return false, fmt.Errorf("opening %s: %w", b, err)
	}
	defer fb.Close()

	return sameReader(fa, fb)
}

func sameReader(a, b io.Reader) (bool, error) {
	bufA := make([]byte, compareChunk)
	bufB := make([]byte, compareChunk)

	for {
		nA, errA := io.ReadFull(a, bufA)
		nB, errB := io.ReadFull(b, bufB)

		if !bytes.Equal(bufA[:nA], bufB[:nB]) {
			return false, nil
		}

		doneA := isEOF(errA)
		doneB := isEOF(errB)
		if errA != nil && !doneA {
			return false, errA
		}
		if errB != nil && !doneB {
			return false, errB
		}
		if doneA || doneB {
			return doneA == doneB, nil
		}
	}
}

func isEOF(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}
