// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package service

import (
	"strings"
	"testing"
	"time"

	httpx "github.com/go-arcade/arcade-admin/pkg/http"
	"github.com/go-arcade/arcade-admin/pkg/http/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestCred(t *testing.T) *CredentialService {
	t.Helper()
	cred, err := NewCredentialService(testAuth())
	require.NoError(t, err)
	return cred
}

func TestNewCredentialService_RequiresSecret(t *testing.T) {
	_, err := NewCredentialService(httpx.Auth{})
	assert.Error(t, err)

	_, err = NewCredentialService(httpx.Auth{Secret: testSecret, BcryptCost: bcrypt.MaxCost + 1})
	assert.Error(t, err)
}

func TestCredentialService_Passwords(t *testing.T) {
	cred := newTestCred(t)

	digest, err := cred.HashPassword("abc123")
	require.NoError(t, err)
	assert.NotEqual(t, "abc123", digest)
	assert.True(t, cred.VerifyPassword("abc123", digest))
	assert.False(t, cred.VerifyPassword("abc124", digest))
	assert.False(t, cred.NeedsRehash(digest))

	other, err := cred.HashPassword("abc123")
	require.NoError(t, err)
	assert.NotEqual(t, digest, other, "digests are salted")

	t.Run("legacy md5", func(t *testing.T) {
		legacy := "E10ADC3949BA59ABBE56E057F20F883E"
		assert.True(t, cred.VerifyPassword("123456", legacy))
		assert.True(t, cred.VerifyPassword("123456", strings.ToLower(legacy)))
		assert.False(t, cred.VerifyPassword("1234567", legacy))
		assert.True(t, cred.NeedsRehash(legacy))
	})

	t.Run("garbage digest", func(t *testing.T) {
		assert.False(t, cred.VerifyPassword("123456", "not-a-digest"))
		assert.True(t, cred.NeedsRehash("not-a-digest"))
	})

	t.Run("cost upgrade", func(t *testing.T) {
		strong, err := NewCredentialService(httpx.Auth{Secret: testSecret, BcryptCost: bcrypt.MinCost + 1})
		require.NoError(t, err)
		assert.True(t, strong.NeedsRehash(digest))
		assert.True(t, strong.VerifyPassword("abc123", digest))
	})
}

func TestCredentialService_VerifyAbsentRunsFullCompare(t *testing.T) {
	cred := newTestCred(t)
	cost, err := bcrypt.Cost([]byte(cred.dummyDigest))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)

	var compared [][]byte
	cred.compare = func(digest, plaintext []byte) error {
		compared = append(compared, digest)
		return bcrypt.CompareHashAndPassword(digest, plaintext)
	}
	assert.False(t, cred.VerifyAbsent("arcade-absent-account"))
	require.Len(t, compared, 1)
	assert.Equal(t, cred.dummyDigest, string(compared[0]))
}

func TestCredentialService_DefaultDigest(t *testing.T) {
	cred := newTestCred(t)
	digest, err := cred.DefaultDigest()
	require.NoError(t, err)
	assert.True(t, cred.VerifyPassword("123456", digest))

	auth := testAuth()
	auth.DefaultPasswordDigest = "E10ADC3949BA59ABBE56E057F20F883E"
	fixed, err := NewCredentialService(auth)
	require.NoError(t, err)
	digest, err = fixed.DefaultDigest()
	require.NoError(t, err)
	assert.Equal(t, auth.DefaultPasswordDigest, digest)
}

func TestCredentialService_Tokens(t *testing.T) {
	cred := newTestCred(t)

	token, err := cred.IssueToken(7, "bob", []string{"User", "Admin"})
	require.NoError(t, err)
	assert.True(t, cred.ValidateToken(token))

	claims, err := cred.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "7", claims.Subject)
	assert.Equal(t, "bob", claims.Name)
	assert.Equal(t, []string{"User", "Admin"}, claims.Roles)
	assert.Equal(t, "AdminSystem", claims.Issuer)
	assert.Equal(t, []string{"AdminSystemAPI"}, []string(claims.Audience))
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, 120*time.Minute, claims.ExpiresAt.Sub(claims.IssuedAt.Time))

	userId, ok := cred.ExtractUserId(token)
	assert.True(t, ok)
	assert.EqualValues(t, 7, userId)

	t.Run("expired", func(t *testing.T) {
		later := cred.WithClock(func() time.Time { return time.Now().Add(121 * time.Minute) })
		assert.False(t, later.ValidateToken(token))
		_, err := later.ParseToken(token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("altered signature", func(t *testing.T) {
		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		sig := []byte(parts[2])
		if sig[0] == 'A' {
			sig[0] = 'B'
		} else {
			sig[0] = 'A'
		}
		assert.False(t, cred.ValidateToken(parts[0]+"."+parts[1]+"."+string(sig)))
	})

	t.Run("wrong issuer or audience", func(t *testing.T) {
		auth := testAuth()
		auth.Issuer = "Other"
		other, err := NewCredentialService(auth)
		require.NoError(t, err)
		assert.False(t, other.ValidateToken(token))

		auth = testAuth()
		auth.Audience = "OtherAPI"
		other, err = NewCredentialService(auth)
		require.NoError(t, err)
		assert.False(t, other.ValidateToken(token))
	})

	t.Run("wrong secret", func(t *testing.T) {
		auth := testAuth()
		auth.Secret = "another-secret-key-with-enough-length"
		other, err := NewCredentialService(auth)
		require.NoError(t, err)
		assert.False(t, other.ValidateToken(token))
		// 不校验签名
		id, ok := other.ExtractUserId(token)
		assert.True(t, ok)
		assert.EqualValues(t, 7, id)
	})

	t.Run("garbage", func(t *testing.T) {
		assert.False(t, cred.ValidateToken("garbage"))
		_, ok := cred.ExtractUserId("garbage")
		assert.False(t, ok)
	})
}
