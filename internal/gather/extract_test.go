package gather

import (
	"strings"
	"testing"
)

func block(n int) string {
	return strings.Repeat("garlic supplementation lowered systolic pressure ", n)
}

func TestExtractContent_DropsBoilerplate(t *testing.T) {
	page := `<html><body>
		<nav>Home About Contact</nav>
		<script>trackVisit();</script>
		<article>` + block(10) + `</article>
		<footer>Copyright</footer>
	</body></html>`

	content := ExtractContent(page)
	if content == "" {
		t.Fatal("Expected content, got empty string")
	}
	if strings.Contains(content, "trackVisit") {
		t.Error("Script content leaked into extraction")
	}
	if strings.Contains(content, "Home About Contact") {
		t.Error("Navigation content leaked into extraction")
	}
	if strings.Contains(content, "Copyright") {
		t.Error("Footer content leaked into extraction")
	}
	if !strings.Contains(content, "garlic supplementation") {
		t.Error("Article body missing from extraction")
	}
}

func TestExtractContent_SkipsShortBlocks(t *testing.T) {
	page := `<html><body>
		<div>short teaser</div>
		<section>` + block(10) + `</section>
	</body></html>`

	content := ExtractContent(page)
	if strings.Contains(content, "short teaser") {
		t.Error("Expected block under the length floor to be skipped")
	}
	if !strings.Contains(content, "garlic supplementation") {
		t.Error("Expected long section to be kept")
	}
}

func TestExtractContent_CollapsesWhitespace(t *testing.T) {
	page := "<html><body><article>" + block(5) + "\n\n\t  " + block(5) + "</article></body></html>"

	content := ExtractContent(page)
	if strings.Contains(content, "  ") || strings.Contains(content, "\n") {
		t.Error("Expected whitespace runs collapsed to single spaces")
	}
}

func TestExtractContent_CapsLength(t *testing.T) {
	page := "<html><body><article>" + block(1000) + "</article></body></html>"

	content := ExtractContent(page)
	if len(content) > maxContentChars {
		t.Errorf("Content length %d exceeds cap %d", len(content), maxContentChars)
	}
}

func TestExtractContent_EmptyForChromeOnlyPage(t *testing.T) {
	page := `<html><body><nav>links</nav><div>tiny</div></body></html>`

	if content := ExtractContent(page); content != "" {
		t.Errorf("Expected empty content, got %q", content)
	}
}
