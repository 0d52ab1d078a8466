// Package gpg provides detached-signature verification for checked
// artifacts. It isolates the ProtonMail go-crypto dependency behind a small
// adapter.
package gpg

import (
	"bytes"
	"fmt"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp"
)

const armorHeader = "-----BEGIN PGP"

// Verifier checks detached signatures against a locally configured keyring.
type Verifier struct {
	keyring openpgp.EntityList
}

// NewVerifier creates an empty verifier; import a keyring before verifying.
func NewVerifier() *Verifier {
	return &Verifier{}
}

// ImportKeyringFile loads keys from an armored or binary keyring file.
func (v *Verifier) ImportKeyringFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read keyring %s: %w", path, err)
	}

	var keys openpgp.EntityList
	if bytes.HasPrefix(data, []byte(armorHeader)) {
		keys, err = openpgp.ReadArmoredKeyRing(bytes.NewReader(data))
	} else {
		keys, err = openpgp.ReadKeyRing(bytes.NewReader(data))
	}
	if err != nil {
		return fmt.Errorf("failed to parse keyring %s: %w", path, err)
	}
	if len(keys) == 0 {
		return fmt.Errorf("no keys found in keyring %s", path)
	}

	v.keyring = append(v.keyring, keys...)
	return nil
}

// KeyCount returns the number of imported keys.
func (v *Verifier) KeyCount() int {
	return len(v.keyring)
}

// VerifyDetached verifies that sigPath is a valid detached signature of
// dataPath by one of the imported keys.
func (v *Verifier) VerifyDetached(dataPath, sigPath string) error {
	if len(v.keyring) == 0 {
		return fmt.Errorf("no keys imported, cannot verify %s", dataPath)
	}

	sigData, err := os.ReadFile(sigPath)
	if err != nil {
		return fmt.Errorf("failed to read signature %s: %w", sigPath, err)
	}

	data, err := os.Open(dataPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", dataPath, err)
	}
	defer data.Close()

	if bytes.HasPrefix(sigData, []byte(armorHeader)) {
		_, err = openpgp.CheckArmoredDetachedSignature(v.keyring, data, bytes.NewReader(sigData), nil)
	} else {
		_, err = openpgp.CheckDetachedSignature(v.keyring, data, bytes.NewReader(sigData), nil)
	}
	if err != nil {
		return fmt.Errorf("signature verification failed for %s: %w", dataPath, err)
	}
	return nil
}
