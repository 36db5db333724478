// Package eth implements the minimal cryptography the engine needs: EIP-191
// personal-sign hashing, secp256k1 public-key recovery, and address
// canonicalization. It deliberately avoids chain-aware dependencies; there
// are no network calls and no node client anywhere in this package.
package eth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

const personalPrefix = "\x19Ethereum Signed Message:\n"

// signatureLength is r (32) + s (32) + v (1).
const signatureLength = 65

var (
	// ErrInvalidAddress is returned for strings that are not hex addresses.
	ErrInvalidAddress = errors.New("invalid ethereum address")

	// ErrMalformedSignature is returned for signatures with the wrong length,
	// encoding, or recovery id.
	ErrMalformedSignature = errors.New("malformed signature")

	// ErrSignerMismatch is returned when a well-formed signature recovers a
	// different address than claimed.
	ErrSignerMismatch = errors.New("recovered signer does not match claimed address")
)

// ChecksumAddress normalizes an address to its EIP-55 checksummed form.
func ChecksumAddress(address string) (string, error) {
	if !common.IsHexAddress(address) {
		return "", ErrInvalidAddress
	}
	return common.HexToAddress(address).Hex(), nil
}

// PersonalHash applies the EIP-191 personal-sign encoding and hashes the
// result: keccak256("\x19Ethereum Signed Message:\n" + len(msg) + msg). The
// prefix is what distinguishes login payloads from transaction payloads.
func PersonalHash(message string) []byte {
	data := fmt.Sprintf("%s%d%s", personalPrefix, len(message), message)
	return crypto.Keccak256([]byte(data))
}

// RecoverSigner recovers the signer address from a personal-sign signature
// over message. Wallets emit v as 27/28; go-ethereum expects 0/1, so both
// conventions are accepted.
func RecoverSigner(message string, signature []byte) (common.Address, error) {
	if len(signature) != signatureLength {
		return common.Address{}, fmt.Errorf("%w: expected %d bytes, got %d",
			ErrMalformedSignature, signatureLength, len(signature))
	}

	sig := make([]byte, signatureLength)
	copy(sig, signature)
	if sig[64] >= 27 {
		sig[64] -= 27
	}
	if sig[64] > 1 {
		return common.Address{}, fmt.Errorf("%w: invalid recovery id %d",
			ErrMalformedSignature, signature[64])
	}

	pub, err := crypto.SigToPub(PersonalHash(message), sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", ErrMalformedSignature, err)
	}

	return crypto.PubkeyToAddress(*pub), nil
}

// VerifyPersonalSignature checks that the hex-encoded signature over message
// was produced by the claimed address. Comparison is case-insensitive after
// canonicalization.
func VerifyPersonalSignature(message, signatureHex, claimedAddress string) error {
	claimed, err := ChecksumAddress(claimedAddress)
	if err != nil {
		return err
	}

	sig, err := hexutil.Decode(signatureHex)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedSignature, err)
	}

	recovered, err := RecoverSigner(message, sig)
	if err != nil {
		return err
	}

	if !strings.EqualFold(recovered.Hex(), claimed) {
		return ErrSignerMismatch
	}
	return nil
}
