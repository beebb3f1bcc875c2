package indexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunkFile_Empty(t *testing.T) {
	assert.Nil(t, chunkFile(""))
}

func TestChunkFile_SmallFileIsOneChunk(t *testing.T) {
	content := "line one\nline two\nline three"
	chunks := chunkFile(content)
	assert.Len(t, chunks, 1)
	assert.Equal(t, 1, chunks[0].StartLine)
	assert.Equal(t, 3, chunks[0].EndLine)
}

func TestChunkFile_RespectsMaxCharsAndOverlap(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 200; i++ {
		sb.WriteString("x a line of moderate length that repeats itself\n")
	}
	chunks := chunkFile(sb.String())

	assert.Greater(t, len(chunks), 1)
	assert.LessOrEqual(t, len(chunks), chunkMaxPerFile)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c.Text), chunkMaxChars+chunkOverlapChars+2)
	}
}

func TestChunkFile_NeverDropsContent(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 2000; i++ {
		sb.WriteString("a very long repeated line used to overflow the chunk budget\n")
	}
	content := sb.String()
	chunks := chunkFile(content)

	assert.LessOrEqual(t, len(chunks), chunkMaxPerFile)

	var combined strings.Builder
	for _, c := range chunks {
		combined.WriteString(c.Text)
	}
	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		assert.Contains(t, combined.String(), line)
	}
}

func TestChunkFile_CapsAtMaxChunksPerFile(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 5000; i++ {
		sb.WriteString("short\n")
	}
	chunks := chunkFile(sb.String())
	assert.LessOrEqual(t, len(chunks), chunkMaxPerFile)
}
