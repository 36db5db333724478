package eth

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func TestChecksumAddress(t *testing.T) {
	got, err := ChecksumAddress("0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266")
	require.NoError(t, err)
	require.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", got)

	// Same address in uppercase canonicalizes identically.
	upper, err := ChecksumAddress("0xF39FD6E51AAD88F6F4CE6AB8827279CFFFB92266")
	require.NoError(t, err)
	require.Equal(t, got, upper)
}

func TestChecksumAddressRejectsMalformed(t *testing.T) {
	for _, addr := range []string{"", "0x1234", "not-an-address", "0xZZZd6e51aad88F6F4ce6aB8827279cffFb92266"} {
		_, err := ChecksumAddress(addr)
		require.ErrorIs(t, err, ErrInvalidAddress, "address %q", addr)
	}
}

func TestRecoverSignerRoundTrip(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	addr := crypto.PubkeyToAddress(key.PublicKey)

	msg := "Sign in to the CSEC08 Research Portal"
	sig, err := crypto.Sign(PersonalHash(msg), key)
	require.NoError(t, err)

	recovered, err := RecoverSigner(msg, sig)
	require.NoError(t, err)
	require.Equal(t, addr, recovered)

	// Wallets report v as 27/28 rather than 0/1.
	walletSig := make([]byte, len(sig))
	copy(walletSig, sig)
	walletSig[64] += 27

	recovered, err = RecoverSigner(msg, walletSig)
	require.NoError(t, err)
	require.Equal(t, addr, recovered)
}

func TestVerifyPersonalSignature(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	addr := crypto.PubkeyToAddress(key.PublicKey)

	msg := "challenge payload"
	sig, err := crypto.Sign(PersonalHash(msg), key)
	require.NoError(t, err)
	sig[64] += 27

	err = VerifyPersonalSignature(msg, hexutil.Encode(sig), addr.Hex())
	require.NoError(t, err)

	// Case-insensitive comparison after canonicalization.
	err = VerifyPersonalSignature(msg, hexutil.Encode(sig), strings.ToLower(addr.Hex()))
	require.NoError(t, err)
}

func TestVerifyPersonalSignatureMismatch(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	other, err := crypto.GenerateKey()
	require.NoError(t, err)
	otherAddr := crypto.PubkeyToAddress(other.PublicKey)

	msg := "challenge payload"
	sig, err := crypto.Sign(PersonalHash(msg), key)
	require.NoError(t, err)
	sig[64] += 27

	err = VerifyPersonalSignature(msg, hexutil.Encode(sig), otherAddr.Hex())
	require.ErrorIs(t, err, ErrSignerMismatch)
}

func TestVerifyPersonalSignatureMalformed(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	addr := crypto.PubkeyToAddress(key.PublicKey).Hex()

	// Not hex at all.
	err = VerifyPersonalSignature("msg", "zz", addr)
	require.ErrorIs(t, err, ErrMalformedSignature)

	// Wrong length.
	err = VerifyPersonalSignature("msg", "0x0102", addr)
	require.ErrorIs(t, err, ErrMalformedSignature)

	// Invalid recovery id.
	sig, err := crypto.Sign(PersonalHash("msg"), key)
	require.NoError(t, err)
	sig[64] = 9
	err = VerifyPersonalSignature("msg", hexutil.Encode(sig), addr)
	require.ErrorIs(t, err, ErrMalformedSignature)
}
