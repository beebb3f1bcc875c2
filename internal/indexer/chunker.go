package indexer

import "strings"

// chunkMaxChars, chunkOverlapChars and chunkMaxPerFile parameterize the
// line-aware chunker: chunks never split a line in the middle, overlap
// carries trailing context into the next chunk, and the final chunk absorbs
// any remainder rather than dropping it.
const (
	chunkMaxChars     = 1800
	chunkOverlapChars = 220
	chunkMaxPerFile   = 20
)

// textChunk is one line-aligned slice of a file's content.
type textChunk struct {
	Text      string
	StartLine int // 1-based, inclusive
	EndLine   int // 1-based, inclusive
}

// chunkFile splits content into at most chunkMaxPerFile chunks of at most
// chunkMaxChars characters, each chunk's first chunkOverlapChars duplicated
// from the tail of the previous one. If the natural chunk boundaries would
// produce more than chunkMaxPerFile chunks, the remainder of the file is
// appended to the last chunk instead of being dropped.
func chunkFile(content string) []textChunk {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")

	type lineSpan struct {
		text      string
		lineNo    int
		startByte int
	}
	var spans []lineSpan
	offset := 0
	for i, l := range lines {
		spans = append(spans, lineSpan{text: l, lineNo: i + 1, startByte: offset})
		offset += len(l) + 1
	}

	var chunks []textChunk
	var sb strings.Builder
	startLine := 1
	lastLine := 1

	flush := func(endLine int) {
		if sb.Len() == 0 {
			return
		}
		chunks = append(chunks, textChunk{Text: sb.String(), StartLine: startLine, EndLine: endLine})
	}

	carryOverlap := func(fullText string) string {
		if len(fullText) <= chunkOverlapChars {
			return fullText
		}
		return fullText[len(fullText)-chunkOverlapChars:]
	}

	for _, s := range spans {
		if len(chunks) >= chunkMaxPerFile-1 {
			// Budget exhausted: everything remaining joins the current chunk
			// so content is never dropped.
			if sb.Len() > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(s.text)
			lastLine = s.lineNo
			continue
		}
		candidateLen := sb.Len()
		if candidateLen > 0 {
			candidateLen++ // for the joining newline
		}
		candidateLen += len(s.text)

		if candidateLen > chunkMaxChars && sb.Len() > 0 {
			flush(lastLine)
			overlap := carryOverlap(sb.String())
			sb.Reset()
			if overlap != "" {
				sb.WriteString(overlap)
				sb.WriteByte('\n')
			}
			startLine = s.lineNo
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(s.text)
		lastLine = s.lineNo
	}
	flush(lastLine)

	return chunks
}
