package telegram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitDigestShortPassesThrough(t *testing.T) {
	digest := "- VP Operations\nScore: 92\nsummary\nhttps://x/1\n\n"
	chunks := splitDigest(digest, maxMessageLen)
	require.Len(t, chunks, 1)
	assert.Equal(t, strings.TrimSpace(digest), chunks[0])
}

func TestSplitDigestEmpty(t *testing.T) {
	assert.Nil(t, splitDigest("", maxMessageLen))
	assert.Nil(t, splitDigest("  \n\n ", maxMessageLen))
}

func TestSplitDigestBreaksOnEntryBoundaries(t *testing.T) {
	entryA := "- Role A\nScore: 90\n" + strings.Repeat("a", 40)
	entryB := "- Role B\nScore: 80\n" + strings.Repeat("b", 40)
	entryC := "- Role C\nScore: 75\n" + strings.Repeat("c", 40)
	digest := entryA + "\n\n" + entryB + "\n\n" + entryC + "\n\n"

	chunks := splitDigest(digest, 130)
	require.Len(t, chunks, 2)
	assert.Equal(t, entryA+"\n\n"+entryB, chunks[0])
	assert.Equal(t, entryC, chunks[1])
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 130)
	}
}

func TestSplitDigestHardCutsOversizedEntry(t *testing.T) {
	entry := strings.Repeat("x", 250)
	chunks := splitDigest(entry+"\n\n", 100)
	require.Len(t, chunks, 3)
	assert.Equal(t, 100, len(chunks[0]))
	assert.Equal(t, 100, len(chunks[1]))
	assert.Equal(t, 50, len(chunks[2]))
}
