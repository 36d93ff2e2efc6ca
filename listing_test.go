package domns

import (
	"context"
	"testing"

	"github.com/everFinance/domns/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListing_Refresh(t *testing.T) {
	reg := newFakeRegistry(aliceAddr)
	reg.seed("alice", "hi", aliceAddr)
	reg.seed("bob", "yo", bobAddr)
	l := NewListing(reg)

	require.NoError(t, l.Refresh(context.Background()))
	assert.Equal(t, []schema.DomainRecord{
		{Id: 0, Name: "alice", Record: "hi", Owner: aliceAddr},
		{Id: 1, Name: "bob", Record: "yo", Owner: bobAddr},
	}, l.Records())
}

func TestListing_Empty(t *testing.T) {
	l := NewListing(newFakeRegistry(aliceAddr))
	require.NoError(t, l.Refresh(context.Background()))
	assert.NotNil(t, l.Records())
	assert.Len(t, l.Records(), 0)
}

func TestListing_ReadFailureKeepsPrevious(t *testing.T) {
	reg := newFakeRegistry(aliceAddr)
	reg.seed("alice", "hi", aliceAddr)
	l := NewListing(reg)
	require.NoError(t, l.Refresh(context.Background()))
	before := l.Records()

	reg.seed("bob", "yo", bobAddr)
	reg.readErrName = "bob"
	err := l.Refresh(context.Background())
	assert.ErrorIs(t, err, schema.ErrReadFailed)
	assert.Equal(t, schema.ReadFailure, schema.KindOf(err))
	assert.Equal(t, before, l.Records())
}

func TestListing_ManyNamesKeepOrder(t *testing.T) {
	reg := newFakeRegistry(aliceAddr)
	names := []string{"aaa", "bbb", "ccc", "ddd", "eee", "fff", "ggg", "hhh"}
	for _, n := range names {
		reg.seed(n, n+"-record", bobAddr)
	}
	records, err := NewListing(reg).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, len(names))
	for i, r := range records {
		assert.Equal(t, i, r.Id)
		assert.Equal(t, names[i], r.Name)
		assert.Equal(t, names[i]+"-record", r.Record)
		assert.Equal(t, bobAddr, r.Owner)
	}
}

func TestListing_RecordsIsACopy(t *testing.T) {
	reg := newFakeRegistry(aliceAddr)
	reg.seed("alice", "hi", aliceAddr)
	l := NewListing(reg)
	require.NoError(t, l.Refresh(context.Background()))

	got := l.Records()
	got[0].Record = "changed"
	assert.Equal(t, "hi", l.Records()[0].Record)

	l.Reset()
	assert.Empty(t, l.Records())
}
