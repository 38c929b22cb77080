package generator

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/ShayCichocki/pagesmith/pkg/models"
)

// systemPrompt frames every synthesis call.
const systemPrompt = "You are an expert web developer who creates complete, functional web applications."

const promptTemplate = `You are an expert web developer. Generate a complete, self-contained HTML file based on the following requirements.

PROJECT BRIEF:
%s

%s

REQUIREMENTS:
1. Create a single HTML file that includes ALL necessary code
2. Include CSS within <style> tags in the <head> section
3. Include JavaScript within <script> tags (can be in <head> or before </body>)
4. The application must be fully functional and self-contained
5. Handle any provided attachments appropriately (decode base64 data if needed)
6. Use modern web standards and best practices
7. Make the interface responsive and user-friendly
8. Include proper error handling in JavaScript
9. Add appropriate comments in the code

IMPORTANT GUIDELINES:
- The HTML file must work when opened directly in a browser
- Do not use external dependencies unless absolutely necessary
- If external libraries are needed, use CDN links
- Ensure the code is clean, well-structured, and documented
- Handle edge cases and provide user feedback
- Make the interface intuitive and accessible

Generate ONLY the complete HTML file content. Do not include any explanations or additional text outside the HTML.`

// buildPrompt assembles the user prompt from the brief and any attachments.
func buildPrompt(brief string, attachments []models.Attachment) string {
	return fmt.Sprintf(promptTemplate, brief, renderAttachments(attachments))
}

// renderAttachments formats attachments for inclusion in the prompt. Text
// payloads carried as base64 data URIs are decoded inline; binary payloads
// are summarized. A malformed attachment is reported in place rather than
// failing the whole prompt.
func renderAttachments(attachments []models.Attachment) string {
	if len(attachments) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\n\nATTACHMENTS:\n")

	for _, att := range attachments {
		name := att.Name
		if name == "" {
			name = "unknown"
		}
		fmt.Fprintf(&sb, "\nFile: %s\n", name)

		if !strings.HasPrefix(att.URL, "data:") {
			fmt.Fprintf(&sb, "URL: %s\n", att.URL)
			continue
		}

		renderDataURI(&sb, name, att.URL)
	}

	return sb.String()
}

// renderDataURI expands a data:<mime>;base64,<payload> URI into the prompt.
func renderDataURI(sb *strings.Builder, name, uri string) {
	header, payload, ok := strings.Cut(uri, ",")
	if !ok {
		fmt.Fprintf(sb, "Error processing attachment: malformed data URI\n")
		return
	}

	mime, _, _ := strings.Cut(strings.TrimPrefix(header, "data:"), ";")

	if !strings.Contains(header, "base64") {
		fmt.Fprintf(sb, "Data URI: %s\n", uri)
		return
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		fmt.Fprintf(sb, "Error processing attachment: %v\n", err)
		return
	}

	if isTextAttachment(mime, name) {
		fmt.Fprintf(sb, "Content:\n%s\n", string(decoded))
		return
	}

	fmt.Fprintf(sb, "Binary file: %s (%d bytes)\n", mime, len(decoded))
	fmt.Fprintf(sb, "Data URI: %s...\n", truncate(uri, 100))
}

// isTextAttachment reports whether an attachment should be inlined as text.
func isTextAttachment(mime, name string) bool {
	if strings.HasPrefix(mime, "text/") {
		return true
	}
	for _, ext := range []string{".txt", ".csv", ".md"} {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
