package codec

import (
	"encoding/base64"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestNew_ShortSecret(t *testing.T) {
	_, err := New([]byte("short"))
	var cerr *Error
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "init", cerr.Op)
}

func TestRoundTrip_SixDigitCodes(t *testing.T) {
	c, err := New(testSecret)
	require.NoError(t, err)

	for code := 100000; code <= 999999; code += 7919 {
		s := strconv.Itoa(code)
		enc, err := c.Encrypt(s)
		require.NoError(t, err)
		assert.NotContains(t, enc, s)

		dec, err := c.Decrypt(enc)
		require.NoError(t, err)
		assert.Equal(t, s, dec)
	}
	for _, s := range []string{"100000", "999999"} {
		enc, err := c.Encrypt(s)
		require.NoError(t, err)
		dec, err := c.Decrypt(enc)
		require.NoError(t, err)
		assert.Equal(t, s, dec)
	}
}

func TestEncrypt_NonceMakesOutputsDiffer(t *testing.T) {
	c, err := New(testSecret)
	require.NoError(t, err)
	a, _ := c.Encrypt("123456")
	b, _ := c.Encrypt("123456")
	assert.NotEqual(t, a, b)
}

func TestDecrypt_WrongKey(t *testing.T) {
	c1, _ := New(testSecret)
	c2, _ := New([]byte("another-secret-of-enough-length"))

	enc, err := c1.Encrypt("654321")
	require.NoError(t, err)

	_, err = c2.Decrypt(enc)
	var cerr *Error
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "decrypt", cerr.Op)
}

func TestDecrypt_Malformed(t *testing.T) {
	c, _ := New(testSecret)

	cases := map[string]string{
		"not base64": "%%%",
		"too short":  base64.StdEncoding.EncodeToString([]byte("abc")),
		"tampered":   base64.StdEncoding.EncodeToString(make([]byte, 40)),
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := c.Decrypt(in)
			var cerr *Error
			assert.True(t, errors.As(err, &cerr))
		})
	}
}
