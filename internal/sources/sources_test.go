package sources

import (
	"strings"
	"testing"

	"github.com/colmyee/mediawire/internal/types"
)

func TestDefaults(t *testing.T) {
	profiles := Defaults()
	if len(profiles) != 3 {
		t.Fatalf("expected 3 profiles, got %d", len(profiles))
	}
	order := []string{"qbitai", "xinzhiyuan", "jiqizhixin"}
	for i, name := range order {
		if profiles[i].Name != name {
			t.Errorf("profiles[%d].Name = %q, want %q", i, profiles[i].Name, name)
		}
	}

	jqzx := ByName(profiles, "jiqizhixin")
	if jqzx == nil {
		t.Fatal("jiqizhixin profile missing")
	}
	if !jqzx.SitemapFallback {
		t.Error("jiqizhixin should allow sitemap fallback")
	}
	if jqzx.MinBodyChars != 200 {
		t.Errorf("jiqizhixin MinBodyChars = %d, want 200", jqzx.MinBodyChars)
	}
	if ByName(profiles, "unknown") != nil {
		t.Error("ByName for unknown source should return nil")
	}
}

func TestScrapeFallbackQbitai(t *testing.T) {
	p := ByName(Defaults(), "qbitai")
	entry := "https://www.qbitai.com/"

	markup := `
		<a href="https:\/\/www.qbitai.com\/2024\/05\/123456.html">story</a>
		<a href="/2024/05/234567.html">another</a>
		<a href="https://www.qbitai.com/2024/05/123456.html">duplicate</a>
		<a href="/tag/llm">tag page</a>
		<a href="/tags/robotics">tags page</a>
	`
	got := p.ScrapeFallback(entry, markup)
	want := []string{
		"https://www.qbitai.com/2024/05/123456.html",
		"https://www.qbitai.com/2024/05/234567.html",
	}
	if len(got) != len(want) {
		t.Fatalf("got %d candidates %v, want %d", len(got), got, len(want))
	}
	for i, c := range got {
		if c.URL != want[i] {
			t.Errorf("candidate[%d].URL = %q, want %q", i, c.URL, want[i])
		}
		if c.Title != types.PlaceholderTitle {
			t.Errorf("candidate[%d].Title = %q, want placeholder", i, c.Title)
		}
	}
}

func TestScrapeFallbackJiqizhixin(t *testing.T) {
	p := ByName(Defaults(), "jiqizhixin")
	entry := "https://www.jiqizhixin.com/"

	markup := `<a href="/articles/2024-05-03-4">a</a>` +
		`<a href="https://www.jiqizhixin.com/articles/2024-05-02-9">b</a>` +
		`<a href="/articles/x">short tail</a>`
	got := p.ScrapeFallback(entry, markup)
	for _, c := range got {
		if !strings.Contains(c.URL, "/articles/") {
			t.Errorf("unexpected candidate %q", c.URL)
		}
		if strings.HasSuffix(c.URL, "/articles/x") {
			t.Errorf("short tail %q should have been filtered", c.URL)
		}
	}
	if len(got) != 2 {
		t.Fatalf("got %d candidates %v, want 2", len(got), got)
	}
}

func TestScrapeFallbackEmpty(t *testing.T) {
	p := ByName(Defaults(), "qbitai")
	if got := p.ScrapeFallback("https://www.qbitai.com/", ""); got != nil {
		t.Errorf("empty markup should yield nil, got %v", got)
	}
	if got := p.ScrapeFallback("https://www.qbitai.com/", "<html>no links</html>"); got != nil {
		t.Errorf("linkless markup should yield nil, got %v", got)
	}
}

func TestRejectTitle(t *testing.T) {
	p := ByName(Defaults(), "jiqizhixin")
	cases := []struct {
		title string
		want  bool
	}{
		{"文章库", true},
		{"机器之心 文章库 列表", true},
		{"找不到您请求的页面", true},
		{"Error 404", true},
		{"一篇正常的文章标题", false},
	}
	for _, c := range cases {
		if got := p.RejectTitle(c.title); got != c.want {
			t.Errorf("RejectTitle(%q) = %v, want %v", c.title, got, c.want)
		}
	}

	// Sources without a denylist reject nothing.
	q := ByName(Defaults(), "qbitai")
	if q.RejectTitle("404") {
		t.Error("qbitai has no denylist, RejectTitle should be false")
	}
}

func TestRejectBody(t *testing.T) {
	p := ByName(Defaults(), "jiqizhixin")
	if !p.RejectBody(strings.Repeat("字", 199)) {
		t.Error("199 runes should be rejected")
	}
	if p.RejectBody(strings.Repeat("字", 200)) {
		t.Error("200 runes should pass")
	}

	q := ByName(Defaults(), "qbitai")
	if q.RejectBody("x") {
		t.Error("zero MinBodyChars disables the check")
	}
}
