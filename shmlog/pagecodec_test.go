package shmlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlignedSize(t *testing.T) {
	cases := []struct {
		in, want uint32
	}{
		{0, 0},
		{1, 4},
		{3, 4},
		{4, 4},
		{5, 8},
		{64, 64},
		{65, 68},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, AlignedSize(c.in), "AlignedSize(%d)", c.in)
	}
}

func TestPageHeaderRoundTrip(t *testing.T) {
	want := PageHeader{Code: PageCode, Activity: ActivityInProgress, PackingCount: 1234, PageID: 0}
	buf := make([]byte, PageHeaderSize)
	PutPageHeader(buf, want)
	got := GetPageHeader(buf)
	require.Equal(t, want, got)
}

func TestUnitHeaderRoundTrip(t *testing.T) {
	want := UnitHeader{PackingCount: 7, FuncID: TraceST}
	buf := make([]byte, UnitHeaderSize)
	PutUnitHeader(buf, want)
	got := GetUnitHeader(buf)
	require.Equal(t, want, got)
}

func TestPageHeaderSizeMatchesLayout(t *testing.T) {
	require.Equal(t, 8, PageHeaderSize)
	require.Equal(t, 4, UnitHeaderSize)
}
