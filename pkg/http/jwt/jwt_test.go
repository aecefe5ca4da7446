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

package jwt

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testOpts = Options{
	Secret:   []byte("AdminSystem_JWT_Secret_Key_2024_Very_Long_Secret_Key_For_Security"),
	Issuer:   "AdminSystem",
	Audience: "AdminSystemAPI",
	TTL:      120 * time.Minute,
}

func TestGenAndParseToken(t *testing.T) {
	token, err := GenToken(testOpts, 42, "alice", []string{"Admin", "User"})
	require.NoError(t, err)

	claims, err := ParseToken(token, testOpts)
	require.NoError(t, err)
	uid, ok := claims.UserId()
	assert.True(t, ok)
	assert.Equal(t, uint64(42), uid)
	assert.Equal(t, "alice", claims.Name)
	assert.Equal(t, []string{"Admin", "User"}, claims.Roles)
	assert.Equal(t, "AdminSystem", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, 120*time.Minute, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestParseToken_Rejects(t *testing.T) {
	base := time.Now()
	token, err := GenToken(testOpts, 1, "admin", nil)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		opts    func(Options) Options
		expired bool
	}{
		{
			name:    "expired",
			token:   token,
			opts:    func(o Options) Options { o.Now = func() time.Time { return base.Add(121 * time.Minute) }; return o },
			expired: true,
		},
		{
			name:  "wrong secret",
			token: token,
			opts:  func(o Options) Options { o.Secret = []byte("another-secret-another-secret-xx"); return o },
		},
		{
			name:  "wrong issuer",
			token: token,
			opts:  func(o Options) Options { o.Issuer = "Other"; return o },
		},
		{
			name:  "wrong audience",
			token: token,
			opts:  func(o Options) Options { o.Audience = "OtherAPI"; return o },
		},
		{
			name:  "altered signature",
			token: token[:strings.LastIndex(token, ".")+1] + "AAAA" + token[strings.LastIndex(token, ".")+5:],
			opts:  func(o Options) Options { return o },
		},
		{
			name:  "garbage",
			token: "not-a-token",
			opts:  func(o Options) Options { return o },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseToken(tt.token, tt.opts(testOpts))
			require.Error(t, err)
			if tt.expired {
				assert.ErrorIs(t, err, ErrTokenExpired)
			} else {
				assert.ErrorIs(t, err, ErrInvalidToken)
			}
		})
	}
}

func TestParseToken_WithinTTL(t *testing.T) {
	token, err := GenToken(testOpts, 5, "bob", []string{"User"})
	require.NoError(t, err)

	opts := testOpts
	opts.Now = func() time.Time { return time.Now().Add(119 * time.Minute) }
	_, err = ParseToken(token, opts)
	assert.NoError(t, err)
}

func TestParseUnverified(t *testing.T) {
	token, err := GenToken(testOpts, 9, "carol", nil)
	require.NoError(t, err)

	other := testOpts
	other.Secret = []byte("some-other-secret-some-other-secret")
	_, err = ParseToken(token, other)
	require.Error(t, err)

	claims, err := ParseUnverified(token)
	require.NoError(t, err)
	uid, ok := claims.UserId()
	assert.True(t, ok)
	assert.Equal(t, uint64(9), uid)

	_, err = ParseUnverified("a.b")
	assert.Error(t, err)
}
