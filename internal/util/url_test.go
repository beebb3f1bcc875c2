package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePullRequestURL(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantOwner string
		wantRepo  string
		wantID    int
		wantErr   bool
	}{
		{
			name:      "valid https url",
			url:       "https://github.com/sevigo/grepiku/pull/123",
			wantOwner: "sevigo",
			wantRepo:  "grepiku",
			wantID:    123,
		},
		{
			name:      "url without scheme",
			url:       "github.com/sevigo/grepiku/pull/456",
			wantOwner: "sevigo",
			wantRepo:  "grepiku",
			wantID:    456,
		},
		{
			name:      "trailing slash",
			url:       "https://github.com/sevigo/grepiku/pull/789/",
			wantOwner: "sevigo",
			wantRepo:  "grepiku",
			wantID:    789,
		},
		{
			name:    "non-numeric pr number",
			url:     "https://github.com/sevigo/grepiku/pull/abc",
			wantErr: true,
		},
		{
			name:    "not a pull request url",
			url:     "https://github.com/sevigo/grepiku/issues/123",
			wantErr: true,
		},
		{
			name:    "trailing path segment",
			url:     "https://github.com/sevigo/grepiku/pull/123/files",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, id, err := ParsePullRequestURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantOwner, owner)
			assert.Equal(t, tt.wantRepo, repo)
			assert.Equal(t, tt.wantID, id)
		})
	}
}
