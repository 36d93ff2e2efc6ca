package domns

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/everFinance/domns/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connectedDomns(t *testing.T) (*Domns, *fakeAuthority, *fakeRegistry) {
	auth := newFakeAuthority(alice, schema.MumbaiChainId)
	auth.authorized = true
	reg := newFakeRegistry(aliceAddr)
	reg.seed("alice", "hi", aliceAddr)
	reg.seed("bob", "yo", bobAddr)
	d := newTestDomns(t, auth, reg)
	d.Start(context.Background())
	return d, auth, reg
}

func hasName(records []schema.DomainRecord, name string) bool {
	for _, r := range records {
		if r.Name == name {
			return true
		}
	}
	return false
}

func TestNew_UnknownRequiredChain(t *testing.T) {
	_, err := New(nil, newFakeRegistry(aliceAddr), &schema.Config{RequiredChain: "0x539"})
	assert.ErrorIs(t, err, schema.ErrUnknownChain)

	_, err = New(nil, newFakeRegistry(aliceAddr), &schema.Config{Contract: "nope"})
	assert.Error(t, err)
}

func TestDomns_StartLoadsListing(t *testing.T) {
	d, _, _ := connectedDomns(t)

	v := d.View()
	assert.Equal(t, schema.PanelMintForm, v.Panel)
	assert.True(t, v.WalletConnected)
	assert.True(t, v.OnRequiredNetwork)
	assert.True(t, v.ShowListing)
	require.Len(t, v.Listing, 2)
	assert.Equal(t, "alice.dom", v.Listing[0].FullName)
}

func TestDomns_Connect(t *testing.T) {
	auth := newFakeAuthority(alice, schema.MumbaiChainId)
	reg := newFakeRegistry(aliceAddr)
	reg.seed("alice", "hi", aliceAddr)
	d := newTestDomns(t, auth, reg)
	d.Start(context.Background())

	v := d.View()
	assert.Equal(t, schema.PanelConnectWallet, v.Panel)
	assert.Empty(t, v.Listing)

	d.Connect(context.Background())
	v = d.View()
	assert.Equal(t, schema.PanelMintForm, v.Panel)
	assert.Len(t, v.Listing, 1)
}

func TestDomns_WithoutWallet(t *testing.T) {
	d := newTestDomns(t, nil, newFakeRegistry(aliceAddr))
	d.Start(context.Background())

	v := d.View()
	assert.False(t, v.WalletInstalled)
	assert.Equal(t, schema.PanelConnectWallet, v.Panel)

	err := d.SwitchNetwork(context.Background())
	assert.ErrorIs(t, err, schema.ErrWalletMissing)
	assert.Equal(t, schema.NoticeInstallWallet, d.View().Notice)

	_, err = d.MintDomain(context.Background())
	assert.ErrorIs(t, err, schema.ErrWalletMissing)
}

func TestDomns_MintDomain(t *testing.T) {
	d, _, reg := connectedDomns(t)
	d.SetDomainInput("moris")
	d.SetRecordInput("Am I a moris or a dom??")

	res, err := d.MintDomain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, schema.StateRecordSet, res.State)
	assert.Equal(t, "100000000000000000", reg.values[0].String())

	v := d.View()
	assert.Equal(t, "", v.Domain)
	assert.Equal(t, "", v.Record)
	assert.Equal(t, "", v.Notice)
	assert.True(t, strings.HasPrefix(v.LastTxUrl, "https://mumbai.polygonscan.com/tx/0x"))

	// listing catches up after the refresh delay
	require.Eventually(t, func() bool {
		return hasName(d.Records(), "moris")
	}, time.Second, 5*time.Millisecond)
}

func TestDomns_MintTooShort(t *testing.T) {
	d, _, reg := connectedDomns(t)
	d.SetDomainInput("ab")

	_, err := d.MintDomain(context.Background())
	assert.ErrorIs(t, err, schema.ErrNameTooShort)
	assert.Empty(t, reg.Calls())
	assert.Equal(t, schema.NoticeNameTooShort, d.View().Notice)

	d.DismissNotice()
	assert.Equal(t, "", d.View().Notice)
	assert.Equal(t, "ab", d.View().Domain)
}

func TestDomns_MintFailedStatus(t *testing.T) {
	d, _, reg := connectedDomns(t)
	reg.failStatus = true
	d.SetDomainInput("moris")
	d.SetRecordInput("rec")

	_, err := d.MintDomain(context.Background())
	assert.ErrorIs(t, err, schema.ErrTxFailed)
	assert.Equal(t, []string{"register:moris"}, reg.Calls())

	v := d.View()
	assert.Equal(t, schema.NoticeTxFailed, v.Notice)
	assert.Equal(t, "moris", v.Domain)
	assert.Equal(t, "rec", v.Record)
}

func TestDomns_MintRecordFailure(t *testing.T) {
	d, _, reg := connectedDomns(t)
	reg.setRecordErr = schema.ErrUserRejected
	d.SetDomainInput("moris")
	d.SetRecordInput("rec")

	res, err := d.MintDomain(context.Background())
	assert.ErrorIs(t, err, schema.ErrSetRecordFailed)
	assert.Equal(t, schema.StateRegistered, res.State)

	v := d.View()
	assert.Equal(t, "", v.Notice)
	assert.Equal(t, "moris", v.Domain)

	require.NoError(t, d.Refresh(context.Background()))
	for _, r := range d.Records() {
		if r.Name == "moris" {
			assert.Equal(t, "", r.Record)
			return
		}
	}
	t.Fatal("moris missing from listing")
}

func TestDomns_MintRequiresNetwork(t *testing.T) {
	auth := newFakeAuthority(alice, "0x1")
	auth.authorized = true
	reg := newFakeRegistry(aliceAddr)
	d := newTestDomns(t, auth, reg)
	d.Start(context.Background())

	assert.Equal(t, schema.PanelSwitchNetwork, d.View().Panel)
	d.SetDomainInput("moris")
	_, err := d.MintDomain(context.Background())
	assert.ErrorIs(t, err, schema.ErrWrongNetwork)
	assert.Empty(t, reg.Calls())
}

func TestDomns_SwitchNetworkReloads(t *testing.T) {
	auth := newFakeAuthority(alice, "0x1")
	auth.authorized = true
	reg := newFakeRegistry(aliceAddr)
	reg.seed("alice", "hi", aliceAddr)
	d := newTestDomns(t, auth, reg)
	d.Start(context.Background())

	require.NoError(t, d.SwitchNetwork(context.Background()))
	require.Eventually(t, func() bool {
		v := d.View()
		return v.Panel == schema.PanelMintForm && len(v.Listing) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Len(t, auth.added, 1)
}

func TestDomns_ChainChangeResetsState(t *testing.T) {
	d, auth, _ := connectedDomns(t)
	require.NoError(t, d.StartEdit("alice"))
	d.SetRecordInput("draft")
	require.Len(t, d.View().Listing, 2)

	auth.known["0x1"] = true
	require.NoError(t, auth.SwitchChain(context.Background(), "0x1"))
	require.Eventually(t, func() bool {
		return d.View().ActiveNetworkLabel == "Mainnet"
	}, time.Second, 5*time.Millisecond)

	v := d.View()
	assert.Equal(t, schema.PanelSwitchNetwork, v.Panel)
	assert.False(t, v.Editing)
	assert.Equal(t, "", v.Domain)
	assert.Equal(t, "", v.Record)
	assert.Empty(t, v.Listing)
	assert.True(t, v.WalletConnected)

	// and again on the way back
	require.NoError(t, auth.SwitchChain(context.Background(), schema.MumbaiChainId))
	require.Eventually(t, func() bool {
		v := d.View()
		return v.OnRequiredNetwork && len(v.Listing) == 2
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, auth.subs)
}

func TestDomns_ReloadDiscardsPendingMint(t *testing.T) {
	d, _, reg := connectedDomns(t)
	reg.block = make(chan struct{})
	d.SetDomainInput("moris")
	d.SetRecordInput("rec")

	done := make(chan error, 1)
	go func() {
		_, err := d.MintDomain(context.Background())
		done <- err
	}()
	require.Eventually(t, func() bool { return d.View().Loading }, time.Second, 5*time.Millisecond)

	d.Reload(context.Background())
	assert.False(t, d.View().Loading)

	close(reg.block)
	require.NoError(t, <-done)
	v := d.View()
	assert.Equal(t, "", v.LastTxUrl)
	assert.Equal(t, "", v.Notice)
}

func TestDomns_UpdateDomain(t *testing.T) {
	d, _, reg := connectedDomns(t)
	require.NoError(t, d.StartEdit("alice"))
	v := d.View()
	assert.True(t, v.Editing)
	assert.Equal(t, "alice", v.Domain)

	d.SetRecordInput("hello again")
	require.NoError(t, d.UpdateDomain(context.Background()))
	assert.Equal(t, []string{"setRecord:alice"}, reg.Calls())

	v = d.View()
	assert.Equal(t, "", v.Domain)
	assert.Equal(t, "", v.Record)
	assert.True(t, v.Editing)
	assert.Equal(t, "hello again", v.Listing[0].Record)
	assert.Len(t, v.Listing, 2)

	d.CancelEdit()
	assert.False(t, d.View().Editing)
}

func TestDomns_UpdateDomainEmptyInput(t *testing.T) {
	d, _, reg := connectedDomns(t)
	d.SetDomainInput("alice")
	require.NoError(t, d.UpdateDomain(context.Background()))
	assert.Empty(t, reg.Calls())
}

func TestDomns_UpdateDomainSwallowsErrors(t *testing.T) {
	d, _, reg := connectedDomns(t)
	reg.setRecordErr = schema.ErrUserRejected
	d.SetDomainInput("alice")
	d.SetRecordInput("rec")

	assert.NoError(t, d.UpdateDomain(context.Background()))
	v := d.View()
	assert.Equal(t, "", v.Notice)
	assert.Equal(t, "alice", v.Domain)
	assert.Equal(t, "rec", v.Record)
}

func TestDomns_StartEdit(t *testing.T) {
	d, _, _ := connectedDomns(t)
	assert.ErrorIs(t, d.StartEdit("bob"), schema.ErrNotOwner)
	assert.ErrorIs(t, d.StartEdit("carol"), schema.ErrNotExist)
	assert.False(t, d.View().Editing)
}

func TestDomns_RefreshCachesListing(t *testing.T) {
	d, _, _ := connectedDomns(t)
	by, err := d.cache.Cache.Get(schema.ListingCacheKey)
	require.NoError(t, err)
	assert.Contains(t, string(by), `"name":"alice"`)
}
