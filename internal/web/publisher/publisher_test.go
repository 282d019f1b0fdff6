package publisher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-webrouter/pkg/interfaces"
)

// newTestPublisher 构造带内容文件的临时目录发布器
func newTestPublisher(t *testing.T, files map[string]string) *LocalPublisher {
	t.Helper()

	root := t.TempDir()
	for path, content := range files {
		full := filepath.Join(root, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}

	pub, err := New("ocean-forest-moon-star", root)
	require.NoError(t, err)
	return pub
}

func TestNew_RequiresExistingDirectory(t *testing.T) {
	_, err := New("ocean-forest-moon-star", filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestGetRawContent(t *testing.T) {
	pub := newTestPublisher(t, map[string]string{
		"home.md":       "# Welcome",
		"docs/guide.md": "guide body",
	})

	data, err := pub.GetRawContent(context.Background(), "home.md")
	require.NoError(t, err)
	assert.Equal(t, "# Welcome", string(data))

	data, err = pub.GetRawContent(context.Background(), "docs/guide.md")
	require.NoError(t, err)
	assert.Equal(t, "guide body", string(data))
}

func TestGetRawContent_Missing(t *testing.T) {
	pub := newTestPublisher(t, nil)

	_, err := pub.GetRawContent(context.Background(), "nope.md")
	assert.ErrorIs(t, err, interfaces.ErrContentMissing)
}

func TestGetRawContent_RejectsEscape(t *testing.T) {
	pub := newTestPublisher(t, map[string]string{"home.md": "safe"})

	// 逃逸根目录的路径被拒绝
	_, err := pub.GetRawContent(context.Background(), "../../etc/passwd")
	assert.Error(t, err)
}

func TestRender_MarkdownHeadings(t *testing.T) {
	pub := newTestPublisher(t, nil)

	html, err := pub.Render(context.Background(), "home.md",
		[]byte("# Welcome\n\n## Projects\n\nplain text"))
	require.NoError(t, err)

	assert.Contains(t, html, "<h1")
	assert.Contains(t, html, "Welcome")
	assert.Contains(t, html, "<h2")
	assert.Contains(t, html, "Projects")
}

func TestRecordPageView_AppendsLog(t *testing.T) {
	pub := newTestPublisher(t, nil)

	require.NoError(t, pub.RecordPageView(context.Background(), "home.md", "visitor-1"))
	require.NoError(t, pub.RecordPageView(context.Background(), "about.md", "visitor-2"))

	data, err := os.ReadFile(filepath.Join(pub.root, ".pageviews.log"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "home.md\tvisitor-1")
	assert.Contains(t, lines[1], "about.md\tvisitor-2")
}

func TestFactory_PerIdentityRoot(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "a-a-a-a"), 0o755))

	factory := Factory(base)

	_, err := factory.CreatePublisher("a-a-a-a", "m1")
	assert.NoError(t, err)

	// 目录不存在的身份无法构造发布器
	_, err = factory.CreatePublisher("b-b-b-b", "m1")
	assert.Error(t, err)
}
