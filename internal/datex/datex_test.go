package datex

import (
	"testing"
	"time"
)

func TestExtract(t *testing.T) {
	cases := []struct {
		name string
		text string
		url  string
		want string
	}{
		{"cjk markers", "发布于 2024年5月3日", "", "2024-05-03"},
		{"dashed", "posted 2024-05-03 10:00", "", "2024-05-03"},
		{"slashed", "2024/5/3", "", "2024-05-03"},
		{"url fallback", "no date here", "https://site.com/2023/01/02/post", "2023-01-02"},
		{"text wins over url", "更新 2024年5月3日", "https://site.com/2023/01/02/post", "2024-05-03"},
		{"neither", "nothing", "https://site.com/articles/abc", ""},
		{"zero padding", "2024年5月3日", "", "2024-05-03"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Extract(c.text, c.url); got != c.want {
				t.Errorf("Extract(%q, %q) = %q, want %q", c.text, c.url, got, c.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want string // "" means nil expected
	}{
		{"2024-05-03", "2024-05-03"},
		{"2024-5-3", "2024-05-03"},
		{"2024/05/03", "2024-05-03"},
		{"2024年5月3日", "2024-05-03"},
		{"2024-05-03 12:30", "2024-05-03"},
		{"2024-05-03 12:30:45", "2024-05-03"},
		{"", ""},
		{"not a date", ""},
		{"2024", ""},
	}
	for _, c := range cases {
		got := Parse(c.in)
		if c.want == "" {
			if got != nil {
				t.Errorf("Parse(%q) = %v, want nil", c.in, got)
			}
			continue
		}
		if got == nil {
			t.Errorf("Parse(%q) = nil, want %s", c.in, c.want)
			continue
		}
		if got.Format("2006-01-02") != c.want {
			t.Errorf("Parse(%q) = %s, want %s", c.in, got.Format("2006-01-02"), c.want)
		}
	}
}

func TestIsRecent(t *testing.T) {
	now := time.Now()
	old := now.AddDate(0, 0, -30)
	fresh := now.AddDate(0, 0, -1)

	cases := []struct {
		name string
		t    *time.Time
		days int
		want bool
	}{
		{"nil with window", nil, 5, false},
		{"nil no window", nil, 0, true},
		{"old outside window", &old, 7, false},
		{"fresh inside window", &fresh, 7, true},
		{"old but no window", &old, 0, true},
		{"negative window disables", &old, -1, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := IsRecent(c.t, c.days); got != c.want {
				t.Errorf("IsRecent(%v, %d) = %v, want %v", c.t, c.days, got, c.want)
			}
		})
	}
}
