package router

import (
	"errors"
	"testing"

	"github.com/dep2p/go-webrouter/pkg/types"
)

// ============================================================================
//                              SplitRequest 测试
// ============================================================================

func TestSplitRequest(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		token    string
		rawPath  string
		wantErr  bool
	}{
		{"仅身份", "ocean-forest-moon-star", "ocean-forest-moon-star", "", false},
		{"身份加路径", "ocean-forest-moon-star/docs/guide.md", "ocean-forest-moon-star", "docs/guide.md", false},
		{"前导斜杠", "/ocean-forest-moon-star/about", "ocean-forest-moon-star", "about", false},
		{"完整 URL", "http://localhost:8080/ocean-forest-moon-star/about", "ocean-forest-moon-star", "about", false},
		{"URL 仅 host", "http://localhost:8080", "", "", true},
		{"空串", "", "", "", true},
		{"仅斜杠", "/", "", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			token, rawPath, err := SplitRequest(tc.input)
			if tc.wantErr {
				if !errors.Is(err, types.ErrInvalidURL) {
					t.Errorf("SplitRequest(%q) error = %v, want ErrInvalidURL", tc.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SplitRequest(%q) error: %v", tc.input, err)
			}
			if token != tc.token || rawPath != tc.rawPath {
				t.Errorf("SplitRequest(%q) = (%q, %q), want (%q, %q)",
					tc.input, token, rawPath, tc.token, tc.rawPath)
			}
		})
	}
}

// ============================================================================
//                              Resolve 测试
// ============================================================================

func TestPathResolver_Resolve(t *testing.T) {
	r := NewPathResolver("")

	cases := []struct {
		name    string
		rawPath string
		want    string
		isHome  bool
	}{
		{"空路径", "", "home.md", true},
		{"仅斜杠", "/", "home.md", true},
		{"入口页本身", "home.md", "home.md", true},
		{"无扩展名", "about", "about.md", false},
		{"已带扩展名", "about.md", "about.md", false},
		{"非 md 扩展名", "style.css", "style.css", false},
		{"子目录文件", "docs/guide", "docs/guide.md", false},
		{"目录形式", "docs/", "docs/home.md", false},
		{"前导斜杠", "/about", "about.md", false},
		{"目录中同名文件", "docs/home.md", "docs/home.md", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, isHome := r.Resolve(tc.rawPath)
			if got != tc.want || isHome != tc.isHome {
				t.Errorf("Resolve(%q) = (%q, %v), want (%q, %v)",
					tc.rawPath, got, isHome, tc.want, tc.isHome)
			}
		})
	}
}

func TestPathResolver_ResolveIdempotent(t *testing.T) {
	r := NewPathResolver("")

	for _, input := range []string{"", "about", "docs/guide", "home.md"} {
		first, _ := r.Resolve(input)
		second, _ := r.Resolve(first)
		if first != second {
			t.Errorf("Resolve 应幂等: Resolve(%q)=%q, Resolve(%q)=%q",
				input, first, first, second)
		}
	}
}

func TestPathResolver_CustomEntryPoint(t *testing.T) {
	r := NewPathResolver("index.md")

	got, isHome := r.Resolve("")
	if got != "index.md" || !isHome {
		t.Errorf("Resolve(\"\") = (%q, %v), want (index.md, true)", got, isHome)
	}

	// 默认入口页名在自定义入口下不再特殊
	got, isHome = r.Resolve("home.md")
	if got != "home.md" || isHome {
		t.Errorf("Resolve(home.md) = (%q, %v), want (home.md, false)", got, isHome)
	}
}
