package auth

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHMACHash(t *testing.T) {
	h := NewHMAC("secret-hmac-key")

	token, err := MakeRememberToken()
	assert.NoError(t, err)

	want := h.Hash(token)
	assert.NotEmpty(t, want)
	assert.NotEqual(t, want, h.Hash(token+"x"))

	// Hashing the same token from many goroutines must always yield the
	// same digest; a shared HMAC is hit concurrently by every request
	// carrying a remember cookie.
	var wg sync.WaitGroup
	got := make([]string, 8)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				got[i] = h.Hash(token)
			}
		}(i)
	}
	wg.Wait()
	for _, g := range got {
		assert.Equal(t, want, g)
	}
}

func TestNBytes(t *testing.T) {
	token, err := MakeRememberToken()
	assert.NoError(t, err)

	n, err := NBytes(token)
	assert.NoError(t, err)
	assert.Equal(t, RememberTokenBytes, n)

	_, err = NBytes("not base64 at all!!!")
	assert.Error(t, err)
}
