package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo_String(t *testing.T) {
	dev := Info{Version: "dev", CommitHash: "abc1234def", BuildTime: "unknown"}
	assert.Equal(t, "erbench dev (commit abc1234def, built unknown)", dev.String())

	tagged := Info{Version: "v0.3.0", CommitHash: "abc1234def", BuildTime: "2026-01-02"}
	assert.Equal(t, "erbench v0.3.0 (commit abc1234def, built 2026-01-02)", tagged.String())
}

func TestGet(t *testing.T) {
	info := Get()
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
}
