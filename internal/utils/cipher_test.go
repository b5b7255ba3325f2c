// internal/utils/cipher_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCipherRoundTrip(t *testing.T) {
	cipher, err := NewAESCipher("some-secret")
	require.NoError(t, err)

	ciphertext, err := cipher.Encrypt("user:password@service")
	require.NoError(t, err)
	assert.NotEqual(t, "user:password@service", ciphertext)
	assert.NotContains(t, ciphertext, "password")

	plaintext, err := cipher.Decrypt(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, "user:password@service", plaintext)
}

func TestCipherNonceMakesOutputDiffer(t *testing.T) {
	cipher, err := NewAESCipher("some-secret")
	require.NoError(t, err)

	first, err := cipher.Encrypt("same input")
	require.NoError(t, err)
	second, err := cipher.Encrypt("same input")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestCipherWrongKeyFails(t *testing.T) {
	encrypter, err := NewAESCipher("secret-a")
	require.NoError(t, err)
	decrypter, err := NewAESCipher("secret-b")
	require.NoError(t, err)

	ciphertext, err := encrypter.Encrypt("payload")
	require.NoError(t, err)

	_, err = decrypter.Decrypt(ciphertext)
	assert.Error(t, err)
}

func TestCipherRejectsGarbage(t *testing.T) {
	cipher, err := NewAESCipher("some-secret")
	require.NoError(t, err)

	_, err = cipher.Decrypt("not base64 at all!!")
	assert.Error(t, err)

	_, err = cipher.Decrypt("c2hvcnQ=") // valid base64, shorter than a nonce
	assert.Error(t, err)
}
