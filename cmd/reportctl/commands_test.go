package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	models "quizdash/internal/domain/models/report"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

const stored = `[{"id":"a","title":"Intro","content":"<p>Hi {{student_name}} and {{student_name}}</p>"},{"id":"b","title":"Score","content":"<p onclick=\"x()\">{{score}}</p>"}]`

func TestDecode_Legacy(t *testing.T) {
	out, err := run(t, "<p>legacy</p>", "decode", "-")
	if err != nil {
		t.Fatal(err)
	}
	var sections []models.Section
	if err := json.Unmarshal([]byte(out), &sections); err != nil {
		t.Fatal(err)
	}
	if len(sections) != 1 || sections[0].Title != models.LegacySectionTitle || sections[0].Content != "<p>legacy</p>" {
		t.Errorf("decoded = %+v", sections)
	}
}

func TestValidate(t *testing.T) {
	out, err := run(t, stored, "validate", "-")
	if !errors.Is(err, errInvalidContent) {
		t.Fatalf("expected errInvalidContent, got %v", err)
	}
	if !strings.Contains(out, "ok      Intro") || !strings.Contains(out, "invalid Score") {
		t.Errorf("output:\n%s", out)
	}
}

func TestSanitize(t *testing.T) {
	out, err := run(t, stored, "sanitize", "-")
	if err != nil {
		t.Fatal(err)
	}
	sections := models.DecodeSections(strings.TrimSpace(out))
	if len(sections) != 2 || strings.Contains(sections[1].Content, "onclick") {
		t.Errorf("sanitized = %+v", sections)
	}
}

func TestRender_FirstMatchAndReplaceAll(t *testing.T) {
	vars := writeFile(t, "vars.yaml", "student_name: Ada\nscore: \"9\"\n")

	out, err := run(t, stored, "render", "-", "--vars", vars)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "<h2>Intro</h2><p>Hi Ada and {{student_name}}</p>") {
		t.Errorf("first-match render:\n%s", out)
	}
	if strings.Contains(out, "onclick") || !strings.Contains(out, "<p>9</p>") {
		t.Errorf("render must sanitize content:\n%s", out)
	}

	out, err = run(t, stored, "render", "-", "--vars", vars, "--replace-all")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Hi Ada and Ada") {
		t.Errorf("replace-all render:\n%s", out)
	}
}

func TestRender_Context(t *testing.T) {
	ctxFile := writeFile(t, "ctx.json", `{"student_name":"Grace","score":7,"max_score":10}`)

	out, err := run(t, stored, "render", "-", "--context", ctxFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Hi Grace") || !strings.Contains(out, "<p>7</p>") {
		t.Errorf("output:\n%s", out)
	}
}

func TestImportExport(t *testing.T) {
	md := "# Weekly\n\n## Summary\n\nHello **{{student_name}}**\n"

	out, err := run(t, md, "import-md", "-")
	if err != nil {
		t.Fatal(err)
	}
	sections := models.DecodeSections(strings.TrimSpace(out))
	if len(sections) != 1 || sections[0].Title != "Summary" {
		t.Fatalf("imported = %+v", sections)
	}

	out, err = run(t, strings.TrimSpace(out), "export", "-", "--name", "Weekly")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "# Weekly\n") || !strings.Contains(out, "## Summary") {
		t.Errorf("exported:\n%s", out)
	}
}

func TestVariables(t *testing.T) {
	out, err := run(t, "", "variables")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "{{student_name}}") {
		t.Errorf("output:\n%s", out)
	}
}
