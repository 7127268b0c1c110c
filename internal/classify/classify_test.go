package classify

import "testing"

func defaultOpts() LanguageDetectOptions {
	return LanguageDetectOptions{
		ShouldDetectLanguage: true,
		MinLinesRequired:     3,
		EnabledLanguages:     languageNames,
	}
}

func TestClassifyPlainText(t *testing.T) {
	c := Classify("just a normal sentence", defaultOpts(), nil)
	if !c.IsText || c.IsCode || c.IsLink {
		t.Errorf("got %+v, want plain text", c)
	}
}

func TestClassifyGoCode(t *testing.T) {
	snippet := "package main\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println(\"hi\")\n}\n"
	c := Classify(snippet, defaultOpts(), nil)
	if !c.IsCode {
		t.Fatalf("expected code detection, got %+v", c)
	}
	if c.DetectedLanguage != "go" {
		t.Errorf("DetectedLanguage = %q, want go", c.DetectedLanguage)
	}
	if c.IsText {
		t.Errorf("IsText should be false for code")
	}
}

func TestClassifyLinkAndVideo(t *testing.T) {
	c := Classify("see https://youtu.be/abc and https://example.com", defaultOpts(), nil)
	if !c.IsLink {
		t.Fatalf("expected link detection, got %+v", c)
	}
	if !c.IsVideo {
		t.Errorf("expected video detection for youtu.be link")
	}
	if len(c.Links) != 2 {
		t.Errorf("len(Links) = %d, want 2", len(c.Links))
	}
}

func TestClassifyJSON(t *testing.T) {
	c := Classify(`{"a": 1, "b": [1,2,3]}`, defaultOpts(), nil)
	if !c.IsJSON {
		t.Fatalf("expected is_json, got %+v", c)
	}
	if c.DetectedLanguage != "json" {
		t.Errorf("DetectedLanguage = %q, want json", c.DetectedLanguage)
	}
	if c.ValueForStorage == `{"a": 1, "b": [1,2,3]}` {
		t.Errorf("expected pretty-printed form, got unchanged input")
	}
}

func TestClassifyImageData(t *testing.T) {
	c := Classify("data:image/png;base64,iVBORw0KGgo=", defaultOpts(), nil)
	if !c.IsImageData {
		t.Errorf("expected is_image_data true")
	}
}

func TestClassifyMaskedWords(t *testing.T) {
	c := Classify("my api_key=xyz here", defaultOpts(), []string{"api_key"})
	if !c.HasMaskedWords {
		t.Errorf("expected HasMaskedWords true")
	}
}

func TestClassifyShebangShortcut(t *testing.T) {
	snippet := "#!/usr/bin/env python3\nprint('hi')\nprint('there')\nprint('again')\n"
	c := Classify(snippet, defaultOpts(), nil)
	if c.DetectedLanguage != "python" {
		t.Errorf("DetectedLanguage = %q, want python (shebang shortcut)", c.DetectedLanguage)
	}
}

func TestClassifyDoesNotDetectLanguageBelowMinLines(t *testing.T) {
	opts := defaultOpts()
	opts.MinLinesRequired = 10
	c := Classify("func main() {}\n", opts, nil)
	if c.IsCode {
		t.Errorf("should not classify as code below min_lines_required")
	}
}
