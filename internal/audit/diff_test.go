package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDiffHunks(t *testing.T) {
	diff := `diff --git a/main.go b/main.go
index 1234567..89abcde 100644
--- a/main.go
+++ b/main.go
@@ -10,5 +10,7 @@ func main() {
 	old line
+	new line
@@ -42 +44 @@ func helper() {
-	removed
+	added
`
	hunks := parseDiffHunks(diff)
	assert.Equal(t, []hunk{{start: 10, count: 5}, {start: 42, count: 1}}, hunks)
}

func TestParseDiffHunksEmpty(t *testing.T) {
	assert.Empty(t, parseDiffHunks(""))
	assert.Empty(t, parseDiffHunks("no hunks here"))
}

func TestParseDiffHunksIgnoresBodyLines(t *testing.T) {
	// A hunk marker appearing inside diff content must not match.
	diff := "@@ -1,3 +1,3 @@\n+some text with @@ -99,1 + inside\n"
	hunks := parseDiffHunks(diff)
	assert.Equal(t, []hunk{{start: 1, count: 3}}, hunks)
}

func TestHunkContains(t *testing.T) {
	h := hunk{start: 10, count: 5}
	assert.True(t, h.contains(10))
	assert.True(t, h.contains(12))
	assert.True(t, h.contains(15))
	assert.False(t, h.contains(9))
	assert.False(t, h.contains(16))
}
