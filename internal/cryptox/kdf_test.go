package cryptox

import (
	"bytes"
	"encoding/hex"
	"math"
	"sync"
	"testing"

	"github.com/dmitrijs2005/credkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerive_KnownVectors(t *testing.T) {
	tests := []struct {
		name       string
		alg        Algorithm
		password   string
		salt       string
		iterations int
		keyLen     int
		want       string
	}{
		{
			name: "sha256 c=1", alg: PBKDF2SHA256, password: "password", salt: "salt", iterations: 1, keyLen: 32,
			want: "120fb6cffcf8b32c43e7225256c4f837a86548c92ccc35480805987cb70be17b",
		},
		{
			name: "sha256 c=2", alg: PBKDF2SHA256, password: "password", salt: "salt", iterations: 2, keyLen: 32,
			want: "ae4d0c95af6b46d32d0adff928f06dd02a303f8ef3c251dfd6e2d85a95474c43",
		},
		{
			name: "sha256 c=4096", alg: PBKDF2SHA256, password: "password", salt: "salt", iterations: 4096, keyLen: 32,
			want: "c5e478d59288c841aa530db6845c4c8d962893a001ce4e11a4963873aa98134a",
		},
		{
			name: "sha256 rfc7914", alg: PBKDF2SHA256, password: "passwd", salt: "salt", iterations: 1, keyLen: 64,
			want: "55ac046e56e3089fec1691c22544b605f94185216dde0465e68b9d57c20dacbc" +
				"49ca9cccf179b645991664b39d77ef317c71b845b1e30bd509112041d3a19783",
		},
		{
			name: "sha512 c=1", alg: PBKDF2SHA512, password: "password", salt: "salt", iterations: 1, keyLen: 64,
			want: "867f70cf1ade02cff3752599a3a53dc4af34c7a669815ae5d513554e1c8cf252" +
				"c02d470a285a0501bad999bfe943c08f050235d7d68b1da55e63f73b60a57fce",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := derive(tt.alg, []byte(tt.password), []byte(tt.salt), tt.iterations, tt.keyLen)
			assert.Equal(t, tt.want, hex.EncodeToString(got))
		})
	}
}

func TestDerive_Deterministic(t *testing.T) {
	password := []byte("secret-password")
	salt := []byte("fixed-salt-16byt")

	key1, err := Derive(password, salt, MinPBKDF2Iterations)
	require.NoError(t, err)
	key2, err := Derive(password, salt, MinPBKDF2Iterations)
	require.NoError(t, err)

	assert.Len(t, key1, DefaultKeyLength)
	if !bytes.Equal(key1, key2) {
		t.Errorf("expected same result for same inputs, got different")
	}
}

func TestDerive_DifferentInputs(t *testing.T) {
	salt := []byte("fixed-salt-16byt")

	k1, err := Derive([]byte("pass1"), salt, MinPBKDF2Iterations)
	require.NoError(t, err)
	k2, err := Derive([]byte("pass2"), salt, MinPBKDF2Iterations)
	require.NoError(t, err)
	assert.NotEqual(t, k1, k2, "single character difference must change the key")

	k3, err := Derive([]byte("pass1"), []byte("other-salt-16byt"), MinPBKDF2Iterations)
	require.NoError(t, err)
	assert.NotEqual(t, k1, k3, "different salts must give different keys")
}

func TestDerive_BelowFloor(t *testing.T) {
	_, err := Derive([]byte("pw"), []byte("fixed-salt-16byt"), MinPBKDF2Iterations-1)
	require.ErrorIs(t, err, common.ErrConfiguration)

	_, err = Derive([]byte("pw"), []byte("fixed-salt-16byt"), 0)
	require.ErrorIs(t, err, common.ErrConfiguration)
}

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Params)
		wantErr bool
	}{
		{name: "defaults", mutate: func(p *Params) {}},
		{name: "sha512", mutate: func(p *Params) { p.Algorithm = PBKDF2SHA512 }},
		{name: "argon2id", mutate: func(p *Params) { p.Algorithm = Argon2ID; p.Iterations = DefaultArgon2Iterations }},
		{name: "argon2id zero passes", mutate: func(p *Params) { p.Algorithm = Argon2ID; p.Iterations = 0 }, wantErr: true},
		{name: "unknown algorithm", mutate: func(p *Params) { p.Algorithm = "md5" }, wantErr: true},
		{name: "empty algorithm", mutate: func(p *Params) { p.Algorithm = "" }, wantErr: true},
		{name: "iterations below floor", mutate: func(p *Params) { p.Iterations = 99_999 }, wantErr: true},
		{name: "short salt", mutate: func(p *Params) { p.SaltLength = 8 }, wantErr: true},
		{name: "short key", mutate: func(p *Params) { p.KeyLength = 8 }, wantErr: true},
		{name: "longest key", mutate: func(p *Params) { p.KeyLength = MaxKeyLength }},
		{name: "overlong key", mutate: func(p *Params) { p.KeyLength = MaxKeyLength + 1 }, wantErr: true},
		{name: "huge key", mutate: func(p *Params) { p.KeyLength = math.MaxUint32 + 1 }, wantErr: true},
		{name: "argon2id max passes", mutate: func(p *Params) { p.Algorithm = Argon2ID; p.Iterations = math.MaxUint32 }},
		{name: "argon2id passes wrap to zero", mutate: func(p *Params) { p.Algorithm = Argon2ID; p.Iterations = math.MaxUint32 + 1 }, wantErr: true},
		{name: "argon2id passes wrap to one", mutate: func(p *Params) { p.Algorithm = Argon2ID; p.Iterations = math.MaxUint32 + 2 }, wantErr: true},
		{name: "pbkdf2 beyond uint32", mutate: func(p *Params) { p.Iterations = math.MaxUint32 + 2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, common.ErrConfiguration)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestDeriveKey_Argon2IDPassesOutOfRange(t *testing.T) {
	salt := []byte("0123456789abcdef")
	for _, iterations := range []int{math.MaxUint32 + 1, math.MaxUint32 + 2} {
		p := Params{Algorithm: Argon2ID, Iterations: iterations, SaltLength: 16, KeyLength: 32}

		var key []byte
		var err error
		require.NotPanics(t, func() { key, err = DeriveKey(p, []byte("pw"), salt) })
		require.ErrorIs(t, err, common.ErrConfiguration)
		assert.Nil(t, key)
	}
}

func TestDeriveKey_Argon2ID(t *testing.T) {
	p := Params{Algorithm: Argon2ID, Iterations: 1, SaltLength: 16, KeyLength: 32}
	salt := []byte("fixed-salt-16byt")

	k1, err := DeriveKey(p, []byte("secret"), salt)
	require.NoError(t, err)
	k2, err := DeriveKey(p, []byte("secret"), salt)
	require.NoError(t, err)

	assert.Len(t, k1, 32)
	assert.Equal(t, k1, k2)

	pbkdf, err := Derive([]byte("secret"), salt, MinPBKDF2Iterations)
	require.NoError(t, err)
	assert.NotEqual(t, pbkdf, k1)
}

func TestDeriveKey_KeyLength(t *testing.T) {
	p := DefaultParams()
	p.KeyLength = 48

	k, err := DeriveKey(p, []byte("secret"), []byte("fixed-salt-16byt"))
	require.NoError(t, err)
	assert.Len(t, k, 48)
}

func TestGenerateSalt_Unique(t *testing.T) {
	const n = 10_000
	seen := make(map[string]struct{}, n)

	for i := 0; i < n; i++ {
		s, err := GenerateSalt()
		require.NoError(t, err)
		require.Len(t, s, DefaultSaltLength)

		if _, dup := seen[string(s)]; dup {
			t.Fatalf("duplicate salt after %d calls", i)
		}
		seen[string(s)] = struct{}{}
	}
}

func TestNewSalt(t *testing.T) {
	s, err := NewSalt(32)
	require.NoError(t, err)
	assert.Len(t, s, 32)

	_, err = NewSalt(MinSaltLength - 1)
	require.ErrorIs(t, err, common.ErrConfiguration)
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal([]byte{1, 2, 3}, []byte{1, 2, 3}))
	assert.False(t, Equal([]byte{1, 2, 3}, []byte{1, 2, 4}))
	assert.False(t, Equal([]byte{1, 2, 3}, []byte{1, 2}))
	assert.True(t, Equal(nil, []byte{}))
}

func TestDerive_Concurrent(t *testing.T) {
	salt := []byte("fixed-salt-16byt")
	want, err := Derive([]byte("shared"), salt, MinPBKDF2Iterations)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([][]byte, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			k, err := Derive([]byte("shared"), salt, MinPBKDF2Iterations)
			if err == nil {
				results[i] = k
			}
		}(i)
	}
	wg.Wait()

	for i, k := range results {
		assert.Equal(t, want, k, "goroutine %d", i)
	}
}
