package githost

import (
	"strings"
	"testing"
)

func TestResolveRepoName(t *testing.T) {
	tests := []struct {
		name   string
		taskID string
		want   string
	}{
		{name: "spaces and underscores", taskID: "Sales Dashboard_v2", want: "sales-dashboard-v2"},
		{name: "already clean", taskID: "demo", want: "demo"},
		{name: "uppercase", taskID: "DEMO", want: "demo"},
		{name: "dots kept", taskID: "site.v1", want: "site.v1"},
		{name: "invalid characters dropped", taskID: "a!b@c#1$", want: "abc1"},
		{name: "unicode dropped", taskID: "café", want: "caf"},
		{name: "empty", taskID: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveRepoName(tt.taskID); got != tt.want {
				t.Errorf("ResolveRepoName(%q) = %q, want %q", tt.taskID, got, tt.want)
			}
		})
	}
}

func TestResolveRepoNameIdempotent(t *testing.T) {
	first := ResolveRepoName("Sales Dashboard_v2")
	second := ResolveRepoName(first)

	if first != second {
		t.Errorf("ResolveRepoName is not idempotent: %q -> %q", first, second)
	}
}

func TestResolveRepoNameCharset(t *testing.T) {
	out := ResolveRepoName("Weird  Task!! (final)_v3.5 ~draft~")

	for _, r := range out {
		valid := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '.'
		if !valid {
			t.Errorf("output %q contains invalid character %q", out, r)
		}
	}
}

func TestDescribeRepo(t *testing.T) {
	t.Run("control characters stripped", func(t *testing.T) {
		desc := describeRepo("line one\nline two\ttabbed")

		if strings.ContainsAny(desc, "\n\t") {
			t.Errorf("description contains control characters: %q", desc)
		}
		if !strings.HasPrefix(desc, "Auto-generated web application: ") {
			t.Errorf("unexpected description prefix: %q", desc)
		}
	})

	t.Run("long brief truncated", func(t *testing.T) {
		desc := describeRepo(strings.Repeat("x", 500))

		want := "Auto-generated web application: " + strings.Repeat("x", 100) + "..."
		if desc != want {
			t.Errorf("describeRepo length handling wrong: got %d chars", len(desc))
		}
	})
}

func TestTitleFromRepoName(t *testing.T) {
	if got := titleFromRepoName("sales-dashboard-v2"); got != "Sales Dashboard V2" {
		t.Errorf("titleFromRepoName = %q", got)
	}
}
