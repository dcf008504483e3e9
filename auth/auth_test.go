// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package auth

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mintastic/mintsdk/ledgerjson"
	"github.com/mintastic/mintsdk/signing"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"pgregory.net/rapid"
)

const (
	testPrivKey = "11c5dfdeb0ff03a7a73ef39788563b62c89adea67bbb21ab95e5f710bd1d40b7"
	testAddress = "0xf8d6e0586b0a20c7"
)

func testAccount(seq uint64) *ledgerjson.Account {
	return &ledgerjson.Account{
		Address: testAddress,
		Keys: []ledgerjson.AccountKey{
			{Index: 0, SequenceNumber: seq, Weight: 1000},
			{Index: 1, SequenceNumber: 3, Weight: 1000, Revoked: true},
		},
	}
}

// TestErrorCodeStringer tests the stringized output for the ErrorCode type.
func TestErrorCodeStringer(t *testing.T) {
	tests := []struct {
		in   ErrorCode
		want string
	}{
		{ErrInvalidAddress, "ErrInvalidAddress"},
		{ErrAccountUnavailable, "ErrAccountUnavailable"},
		{ErrProposerSequenceUnavailable, "ErrProposerSequenceUnavailable"},
		{ErrKeyUnavailable, "ErrKeyUnavailable"},
		{0xffff, "Unknown ErrorCode (65535)"},
	}
	require.Equal(t, int(numErrorCodes), len(tests)-1)
	for _, test := range tests {
		require.Equal(t, test.want, test.in.String())
	}
}

// TestAuthorizeNeverQueriesAccount ensures the payer and authorizer roles
// are filled without touching the account source, and that the key is read
// on every signature.
func TestAuthorizeNeverQueriesAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	accounts := NewMockAccountSource(ctrl)
	keys := NewMockKeySource(ctrl)
	keys.EXPECT().PrivateKey().Return(testPrivKey, nil).Times(2)

	provider := &Custodial{Accounts: accounts, Keys: keys, ServiceAddress: testAddress}
	authz := provider.Authz("", 0)

	privKey, err := signing.PrivKeyFromHex(testPrivKey)
	require.NoError(t, err)

	for _, role := range []Role{RolePayer, RoleAuthorizer} {
		a, err := authz.Authorize(context.Background(), role)
		require.NoError(t, err)
		require.Equal(t, testAddress, a.Address)
		require.EqualValues(t, 0, a.KeyIndex)

		msg := []byte("payload for " + role.String())
		sig, err := a.Sign(msg)
		require.NoError(t, err)
		require.Len(t, sig, signing.SignatureLen)
		require.True(t, signing.Verify(privKey.PubKey(), msg, sig))
	}
}

// TestAuthorizeUnknownKey ensures a payer key index the account may not
// have is passed through unchecked.
func TestAuthorizeUnknownKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := &Custodial{
		Accounts:       NewMockAccountSource(ctrl),
		Keys:           StaticKeySource(testPrivKey),
		ServiceAddress: testAddress,
	}

	a, err := provider.Authz("", 7).Authorize(context.Background(), RolePayer)
	require.NoError(t, err)
	require.EqualValues(t, 7, a.KeyIndex)
}

// TestProposeQueriesSequence ensures the proposer reads the sequence number
// of its key exactly once per call.
func TestProposeQueriesSequence(t *testing.T) {
	ctrl := gomock.NewController(t)
	accounts := NewMockAccountSource(ctrl)
	accounts.EXPECT().GetAccount(gomock.Any(), testAddress).
		Return(testAccount(42), nil).Times(1)

	provider := &Custodial{
		Accounts: accounts,
		Keys:     StaticKeySource(testPrivKey),
	}
	pk, err := provider.Authz("F8D6E0586B0A20C7", 0).Propose(context.Background())
	require.NoError(t, err)
	require.Equal(t, testAddress, pk.Address)
	require.EqualValues(t, 42, pk.SequenceNumber)

	sig, err := pk.Sign([]byte("envelope"))
	require.NoError(t, err)
	require.Len(t, sig, signing.SignatureLen)
}

// TestProposeFailsFast ensures every failure to obtain the sequence number
// is reported as ErrProposerSequenceUnavailable.
func TestProposeFailsFast(t *testing.T) {
	lookupErr := errors.New("connection refused")

	tests := []struct {
		name     string
		keyIndex uint32
		account  *ledgerjson.Account
		err      error
	}{
		{"lookup failure", 0, nil, lookupErr},
		{"missing key", 7, testAccount(1), nil},
		{"revoked key", 1, testAccount(1), nil},
	}

	for _, test := range tests {
		ctrl := gomock.NewController(t)
		accounts := NewMockAccountSource(ctrl)
		accounts.EXPECT().GetAccount(gomock.Any(), testAddress).
			Return(test.account, test.err)

		provider := &Custodial{Accounts: accounts, Keys: StaticKeySource(testPrivKey)}
		pk, err := provider.Authz(testAddress, test.keyIndex).Propose(context.Background())
		require.Nil(t, pk, test.name)
		require.True(t, IsErrorCode(err, ErrProposerSequenceUnavailable), test.name)
		if test.err != nil {
			require.ErrorIs(t, err, lookupErr, test.name)
		}
	}

	provider := &Custodial{Keys: StaticKeySource(testPrivKey)}
	_, err := provider.Authz(testAddress, 0).Propose(context.Background())
	require.True(t, IsErrorCode(err, ErrProposerSequenceUnavailable))
}

// TestInvalidAddress ensures malformed addresses fail before any lookup.
func TestInvalidAddress(t *testing.T) {
	ctrl := gomock.NewController(t)
	accounts := NewMockAccountSource(ctrl)
	provider := &Custodial{Accounts: accounts, Keys: StaticKeySource(testPrivKey)}

	for _, addr := range []string{"", "0xzz", "0x0102030405060708090a"} {
		authz := provider.Authz(addr, 0)

		_, err := authz.Authorize(context.Background(), RolePayer)
		require.True(t, IsErrorCode(err, ErrInvalidAddress), addr)

		_, err = authz.Propose(context.Background())
		require.True(t, IsErrorCode(err, ErrInvalidAddress), addr)
	}
}

// TestKeySources tests reading keys from the environment and from files.
func TestKeySources(t *testing.T) {
	t.Setenv("MINTSDK_TEST_KEY", " "+testPrivKey+"\n")
	key, err := EnvKeySource("MINTSDK_TEST_KEY").PrivateKey()
	require.NoError(t, err)
	require.Equal(t, testPrivKey, key)

	key, err = EnvKeySource("MINTSDK_TEST_KEY_UNSET").PrivateKey()
	require.NoError(t, err)
	require.Empty(t, key)

	path := filepath.Join(t.TempDir(), "key")
	require.NoError(t, os.WriteFile(path, []byte(testPrivKey+"\n"), 0600))
	key, err = FileKeySource(path).PrivateKey()
	require.NoError(t, err)
	require.Equal(t, testPrivKey, key)

	_, err = FileKeySource(path + ".missing").PrivateKey()
	require.True(t, IsErrorCode(err, ErrKeyUnavailable))
	require.ErrorIs(t, err, os.ErrNotExist)

	calls := 0
	src := KeySourceFunc(func() (string, error) {
		calls++
		return testPrivKey, nil
	})
	_, err = src.PrivateKey()
	require.NoError(t, err)
	require.Equal(t, 1, calls)
}

// TestMissingKey ensures signing without a key fails with the signing
// error rather than producing a signature.
func TestMissingKey(t *testing.T) {
	provider := &Custodial{
		Keys:           EnvKeySource("MINTSDK_TEST_KEY_UNSET"),
		ServiceAddress: testAddress,
	}
	a, err := provider.Authz("", 0).Authorize(context.Background(), RoleAuthorizer)
	require.NoError(t, err)

	_, err = a.Sign([]byte("msg"))
	require.True(t, signing.IsErrorCode(err, signing.ErrInvalidKey))
	require.EqualError(t, err, "private key must not be null")
}

// TestDelegated ensures the wallet is used as is.
func TestDelegated(t *testing.T) {
	ctrl := gomock.NewController(t)
	wallet := NewMockAuthorizer(ctrl)
	want := &Authorization{Address: testAddress}
	wallet.EXPECT().Authorize(gomock.Any(), RolePayer).Return(want, nil)

	provider := &Delegated{Wallet: wallet}
	got, err := provider.Authz("0x01", 3).Authorize(context.Background(), RolePayer)
	require.NoError(t, err)
	require.Same(t, want, got)
}

// TestSequenceQueriesFollowRoles checks that for any mix of role requests
// the account source is queried once per proposer request and never
// otherwise.
func TestSequenceQueriesFollowRoles(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		requests := rapid.SliceOf(rapid.IntRange(0, 2)).Draw(rt, "requests")

		queries := 0
		accounts := accountSourceFunc(func(context.Context, string) (*ledgerjson.Account, error) {
			queries++
			return testAccount(uint64(queries)), nil
		})
		authz := (&Custodial{Accounts: accounts, Keys: StaticKeySource(testPrivKey)}).
			Authz(testAddress, 0)

		proposals := 0
		for _, r := range requests {
			switch r {
			case 0:
				pk, err := authz.Propose(context.Background())
				if err != nil {
					rt.Fatalf("propose: %v", err)
				}
				proposals++
				if pk.SequenceNumber != uint64(proposals) {
					rt.Fatalf("stale sequence %d, want %d",
						pk.SequenceNumber, proposals)
				}
			case 1:
				_, err := authz.Authorize(context.Background(), RolePayer)
				if err != nil {
					rt.Fatalf("payer: %v", err)
				}
			case 2:
				_, err := authz.Authorize(context.Background(), RoleAuthorizer)
				if err != nil {
					rt.Fatalf("authorizer: %v", err)
				}
			}
		}
		if queries != proposals {
			rt.Fatalf("%d account queries for %d proposals", queries,
				proposals)
		}
	})
}

type accountSourceFunc func(context.Context, string) (*ledgerjson.Account, error)

func (f accountSourceFunc) GetAccount(ctx context.Context, addr string) (*ledgerjson.Account, error) {
	return f(ctx, addr)
}
