package leeloo

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpRoundTrip(t *testing.T) {
	ref := listOf(0, 1, 5, 8, 1, 4, 8, 8, 9, 14, 19, 20)
	ref.Aggregate()

	var buf bytes.Buffer
	n, err := ref.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(16), n)

	list := NewIntervalListU32()
	list.AddRange(1000, 2000)
	read, err := list.ReadFrom(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(16), read)
	assert.True(t, ref.Equal(list))
}

func TestDumpLayout(t *testing.T) {
	l := NewList[uint16]()
	l.AddRange(1, 258)

	var buf bytes.Buffer
	_, err := l.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x00, 0x02, 0x01}, buf.Bytes())
}

func TestDumpFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.bin")

	ref := NewList[uint64]()
	ref.AddRange(0, 1<<40)
	ref.AddRange(1<<50, 1<<51)
	ref.Aggregate()
	require.NoError(t, ref.DumpFile(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(32), info.Size())

	list := NewList[uint64]()
	require.NoError(t, list.ReadFile(path))
	assert.True(t, ref.Equal(list))

	err = list.ReadFile(filepath.Join(t.TempDir(), "missing.bin"))
	assert.Error(t, err)
}

func TestDumpCompressed(t *testing.T) {
	// small values in 64 bit words leave long zero runs to compress
	ref := NewList[uint64]()
	for i := uint64(0); i < 1000; i++ {
		ref.AddRange(i*16, i*16+1)
	}
	ref.Aggregate()

	var raw bytes.Buffer
	_, err := ref.WriteTo(&raw)
	require.NoError(t, err)
	require.Equal(t, 16000, raw.Len())

	var buf bytes.Buffer
	require.NoError(t, ref.WriteCompressed(&buf))
	assert.Less(t, buf.Len(), raw.Len())

	list := NewList[uint64]()
	require.NoError(t, list.ReadCompressed(&buf))
	assert.True(t, ref.Equal(list))
}

func TestReadInvalidDump(t *testing.T) {
	list := NewIntervalListU32()

	_, err := list.ReadFrom(bytes.NewReader([]byte{1, 2, 3, 4, 5}))
	require.Error(t, err)
	assert.True(t, ErrInvalidDumpSize.Is(err))

	bad := []byte{
		0, 0, 0, 0, 9, 0, 0, 0,
		10, 0, 0, 0, 2, 0, 0, 0,
	}
	_, err = list.ReadFrom(bytes.NewReader(bad))
	require.Error(t, err)
	assert.True(t, ErrInvalidDumpInterval.Is(err))

	// a single value interval is valid
	_, err = list.ReadFrom(bytes.NewReader([]byte{7, 0, 0, 0, 7, 0, 0, 0}))
	require.NoError(t, err)
	assert.Equal(t, ivs(7, 7), list.Intervals())
}

func TestReadFileWrapsKind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.bin")
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3}, 0o600))

	err := NewIntervalListU32().ReadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid dump size")
}
