package fetcher

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/brotli"

	"github.com/colmyee/mediawire/internal/config"
	"github.com/colmyee/mediawire/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func testHTTPConfig() *config.HTTPConfig {
	return &config.HTTPConfig{
		Timeout:     5 * time.Second,
		UserAgent:   "test-agent",
		MaxBodySize: 1 << 20,
	}
}

func TestHTTPClientGet(t *testing.T) {
	t.Run("plain body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("User-Agent"); got != "test-agent" {
				t.Errorf("User-Agent = %q", got)
			}
			w.Write([]byte("hello"))
		}))
		defer srv.Close()

		c := NewHTTPClient(testHTTPConfig(), testLogger)
		body, err := c.Get(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if string(body) != "hello" {
			t.Errorf("body = %q", body)
		}
	})

	t.Run("gzip encoding", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Encoding", "gzip")
			zw := gzip.NewWriter(w)
			zw.Write([]byte("<urlset></urlset>"))
			zw.Close()
		}))
		defer srv.Close()

		c := NewHTTPClient(testHTTPConfig(), testLogger)
		body, err := c.Get(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if string(body) != "<urlset></urlset>" {
			t.Errorf("body = %q", body)
		}
	})

	t.Run("brotli encoding", func(t *testing.T) {
		var buf bytes.Buffer
		bw := brotli.NewWriter(&buf)
		bw.Write([]byte("compressed sitemap"))
		bw.Close()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Encoding", "br")
			w.Write(buf.Bytes())
		}))
		defer srv.Close()

		c := NewHTTPClient(testHTTPConfig(), testLogger)
		body, err := c.Get(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if string(body) != "compressed sitemap" {
			t.Errorf("body = %q", body)
		}
	})

	t.Run("non 2xx status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer srv.Close()

		c := NewHTTPClient(testHTTPConfig(), testLogger)
		_, err := c.Get(context.Background(), srv.URL)
		if err == nil {
			t.Fatal("expected error for 404")
		}
		var fe *types.FetchError
		if !errors.As(err, &fe) {
			t.Fatalf("error type = %T", err)
		}
		if fe.StatusCode != http.StatusNotFound {
			t.Errorf("StatusCode = %d", fe.StatusCode)
		}
	})

	t.Run("body size cap", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write(bytes.Repeat([]byte("x"), 100))
		}))
		defer srv.Close()

		cfg := testHTTPConfig()
		cfg.MaxBodySize = 10
		c := NewHTTPClient(cfg, testLogger)
		body, err := c.Get(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if len(body) != 10 {
			t.Errorf("body length = %d, want capped at 10", len(body))
		}
	})
}

func TestBuildResult(t *testing.T) {
	html := `<html><head><title> 文章标题 | 站点 </title></head><body>
		<nav>导航</nav>
		<p>正文第一段。</p>
		<script>var x = 1;</script>
		<a href="/2024/05/111.html">内部文章</a>
		<a href="https://www.site.com/2024/05/222.html">内部绝对</a>
		<a href="https://other.com/x">外部</a>
		<a href="mailto:a@b.com">邮件</a>
		<footer>页脚</footer>
	</body></html>`

	res := buildResult(html, "https://site.com/list")
	if !res.Success {
		t.Fatal("Success = false")
	}
	if res.Title != "文章标题 | 站点" {
		t.Errorf("Title = %q", res.Title)
	}
	if !strings.Contains(res.Text, "正文第一段。") {
		t.Errorf("Text missing body copy: %q", res.Text)
	}
	if strings.Contains(res.Text, "var x") || strings.Contains(res.Text, "导航") || strings.Contains(res.Text, "页脚") {
		t.Errorf("boilerplate leaked into Text: %q", res.Text)
	}
	if len(res.Links) != 2 {
		t.Fatalf("Links = %+v, want the two internal links", res.Links)
	}
	if res.Links[0].Href != "/2024/05/111.html" || res.Links[0].Text != "内部文章" {
		t.Errorf("Links[0] = %+v", res.Links[0])
	}
	if res.Links[1].Href != "https://www.site.com/2024/05/222.html" {
		t.Errorf("Links[1] = %+v", res.Links[1])
	}
	if res.HTML != html {
		t.Error("raw HTML must be preserved for the fallback scraper")
	}
}

func TestInternalLinks(t *testing.T) {
	html := `<html><body>
		<a href="">empty</a>
		<a href="tel:123">phone</a>
		<a href="https://www.site.com/a">same host www</a>
		<a href="https://site.com/b">same host bare</a>
		<a href="https://evil.com/c">other host</a>
		<a href="/relative">relative</a>
	</body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}

	links := internalLinks(doc, "https://www.site.com/")
	want := []string{"https://www.site.com/a", "https://site.com/b", "/relative"}
	if len(links) != len(want) {
		t.Fatalf("links = %+v, want %v", links, want)
	}
	for i, w := range want {
		if links[i].Href != w {
			t.Errorf("links[%d].Href = %q, want %q", i, links[i].Href, w)
		}
	}
}

func TestHostOf(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"https://www.site.com/path", "site.com"},
		{"http://SITE.com?q=1", "site.com"},
		{"https://sub.site.com/#frag", "sub.site.com"},
		{"no-scheme/path", "no-scheme"},
	}
	for _, c := range cases {
		if got := hostOf(c.in); got != c.want {
			t.Errorf("hostOf(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
