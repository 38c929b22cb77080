package generator

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/ShayCichocki/pagesmith/pkg/models"
)

func TestValidateDocument(t *testing.T) {
	validDoc := `<!DOCTYPE html>
<html>
<head><title>Demo</title></head>
<body><h1>Hello</h1></body>
</html>`

	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{name: "complete document", doc: validDoc},
		{name: "empty", doc: "", wantErr: true},
		{name: "too short", doc: "<html></html>", wantErr: true},
		{name: "missing head", doc: strings.Replace(validDoc, "<head>", "<hd>", 1), wantErr: true},
		{name: "missing body", doc: strings.Replace(validDoc, "<body>", "<div>", 1), wantErr: true},
		{name: "missing closing html", doc: strings.Replace(validDoc, "</html>", "", 1), wantErr: true},
		{name: "uppercase tags accepted", doc: strings.ToUpper(validDoc)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument(tt.doc)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDocument) {
					t.Errorf("expected ErrInvalidDocument, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("expected valid document, got %v", err)
			}
		})
	}
}

func TestStripFences(t *testing.T) {
	doc := "<html><head></head><body></body></html>"

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "bare document untouched", in: doc, want: doc},
		{name: "plain fences", in: "```\n" + doc + "\n```", want: doc},
		{name: "html fences", in: "```html\n" + doc + "\n```", want: doc},
		{name: "missing closing fence", in: "```html\n" + doc, want: doc},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripFences(tt.in); got != tt.want {
				t.Errorf("stripFences() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildPromptIncludesBrief(t *testing.T) {
	prompt := buildPrompt("Build a pomodoro timer", nil)

	if !strings.Contains(prompt, "Build a pomodoro timer") {
		t.Error("prompt should contain the brief")
	}

	if strings.Contains(prompt, "ATTACHMENTS") {
		t.Error("prompt without attachments should not have an attachments section")
	}
}

func TestRenderAttachments(t *testing.T) {
	csvData := base64.StdEncoding.EncodeToString([]byte("a,b\n1,2\n"))
	pngData := base64.StdEncoding.EncodeToString(make([]byte, 256))

	t.Run("text data uri inlined", func(t *testing.T) {
		out := renderAttachments([]models.Attachment{
			{Name: "data.csv", URL: "data:text/csv;base64," + csvData},
		})

		if !strings.Contains(out, "File: data.csv") {
			t.Error("expected file name in output")
		}
		if !strings.Contains(out, "a,b\n1,2") {
			t.Error("expected decoded CSV content in output")
		}
	})

	t.Run("binary data uri summarized", func(t *testing.T) {
		out := renderAttachments([]models.Attachment{
			{Name: "logo.png", URL: "data:image/png;base64," + pngData},
		})

		if !strings.Contains(out, "Binary file: image/png (256 bytes)") {
			t.Errorf("expected binary summary, got %q", out)
		}
		if strings.Contains(out, pngData) {
			t.Error("binary payload should be truncated, not inlined")
		}
	})

	t.Run("plain url passed through", func(t *testing.T) {
		out := renderAttachments([]models.Attachment{
			{Name: "report.pdf", URL: "https://example.com/report.pdf"},
		})

		if !strings.Contains(out, "URL: https://example.com/report.pdf") {
			t.Errorf("expected URL pass-through, got %q", out)
		}
	})

	t.Run("malformed base64 reported in place", func(t *testing.T) {
		out := renderAttachments([]models.Attachment{
			{Name: "broken.txt", URL: "data:text/plain;base64,!!!not-base64!!!"},
			{Name: "ok.txt", URL: "data:text/plain;base64," + csvData},
		})

		if !strings.Contains(out, "Error processing attachment") {
			t.Error("expected per-attachment error for malformed payload")
		}
		if !strings.Contains(out, "File: ok.txt") {
			t.Error("a malformed attachment must not drop later attachments")
		}
	})

	t.Run("unnamed attachment", func(t *testing.T) {
		out := renderAttachments([]models.Attachment{{URL: "https://example.com/x"}})

		if !strings.Contains(out, "File: unknown") {
			t.Errorf("expected fallback name, got %q", out)
		}
	})
}
