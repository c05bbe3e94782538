package bytecode

import (
	"fmt"

	"github.com/zeebo/xxh3"
)

// Fingerprint returns a 64-bit hash of the executable content of a code unit:
// its name, instructions and constants. Source text and filename are not
// included, so the same program compiled from differently formatted source
// has the same fingerprint.
func Fingerprint(code *Code) (uint64, error) {
	state, err := newCodeState(code, false)
	if err != nil {
		return 0, err
	}
	data, err := encMode.Marshal(state)
	if err != nil {
		return 0, err
	}
	return xxh3.Hash(data), nil
}

// FingerprintString returns the fingerprint formatted as 16 hex digits.
func FingerprintString(code *Code) (string, error) {
	fp, err := Fingerprint(code)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", fp), nil
}
