package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/reoring/valirator/internal/config"
)

func testApp(stdin string) (*app, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	cfg := config.Config{LogLevel: "debug", LogFormat: "text", Output: "json"}
	return newApp(cfg, strings.NewReader(stdin), &out, &errOut), &out, &errOut
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

type decodedReport struct {
	Valid      bool           `json:"valid"`
	Errors     map[string]any `json:"errors"`
	FirstError *struct {
		Key   string `json:"key"`
		Value any    `json:"value"`
	} `json:"firstError"`
	Issues []struct {
		Path string `json:"path"`
		Rule string `json:"rule"`
	} `json:"issues"`
}

func TestRun_Usage(t *testing.T) {
	a, _, errOut := testApp("")
	assert.Equal(t, exitUsage, a.run(context.Background(), nil))
	assert.Contains(t, errOut.String(), "Usage:")
	assert.Equal(t, exitUsage, a.run(context.Background(), []string{"bogus"}))
}

func TestInspect_JSONFile(t *testing.T) {
	p := writeFile(t, "res.json", `{"age":false,"name":{"required":true,"pattern":true}}`)
	a, out, _ := testApp("")
	code := a.run(context.Background(), []string{"inspect", "-exclude", "age", p})
	assert.Equal(t, exitInvalid, code)

	var rep decodedReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &rep))
	assert.False(t, rep.Valid)
	assert.Equal(t, map[string]any{"name": map[string]any{"required": true, "pattern": true}}, rep.Errors)
	require.NotNil(t, rep.FirstError)
	assert.Equal(t, "name", rep.FirstError.Key)
	require.Len(t, rep.Issues, 2)
	assert.Equal(t, "/name", rep.Issues[0].Path)
	assert.Equal(t, "required", rep.Issues[0].Rule)
}

func TestInspect_FirstFromStdin(t *testing.T) {
	a, out, _ := testApp(`{"name":{"required":false,"pattern":true}}`)
	code := a.run(context.Background(), []string{"inspect", "-first", "-"})
	assert.Equal(t, exitInvalid, code)

	var rep decodedReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &rep))
	assert.Equal(t, map[string]any{"name": map[string]any{"required": false}}, rep.Errors)
}

func TestInspect_ValidYAMLToYAML(t *testing.T) {
	p := writeFile(t, "res.yaml", "name:\n  required: false\n")
	a, out, _ := testApp("")
	code := a.run(context.Background(), []string{"inspect", "-o", "yaml", p})
	assert.Equal(t, exitOK, code)

	var rep map[string]any
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &rep))
	assert.Equal(t, true, rep["valid"])
	assert.Equal(t, map[string]any{}, rep["errors"])
}

func TestInspect_InvalidLeaf(t *testing.T) {
	p := writeFile(t, "res.json", `{"name":{"required":1}}`)
	a, _, errOut := testApp("")
	assert.Equal(t, exitUsage, a.run(context.Background(), []string{"inspect", p}))
	assert.Contains(t, errOut.String(), "load result")
}

func TestInspect_TrailingObject(t *testing.T) {
	a, out, errOut := testApp(`{"a":false} {"b":true}`)
	assert.Equal(t, exitUsage, a.run(context.Background(), []string{"inspect", "-"}))
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "trailing data")
}

func TestInspect_MissingFile(t *testing.T) {
	a, _, _ := testApp("")
	assert.Equal(t, exitUsage, a.run(context.Background(), []string{"inspect", filepath.Join(t.TempDir(), "nope.json")}))
}

func TestCheck(t *testing.T) {
	p := writeFile(t, "doc.yaml", "name: alice\nemail: null\n")
	a, out, errOut := testApp("")
	code := a.run(context.Background(), []string{"check", "-require", "name, email,age", p})
	assert.Equal(t, exitInvalid, code)

	var rep decodedReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &rep))
	assert.False(t, rep.Valid)
	assert.Equal(t, map[string]any{
		"name":  map[string]any{"required": false},
		"email": map[string]any{"required": true},
		"age":   map[string]any{"required": true},
	}, rep.Errors)
	require.Len(t, rep.Issues, 2)
	assert.Equal(t, "/email", rep.Issues[0].Path)
	assert.Contains(t, errOut.String(), "rule failed")
}

func TestCheck_ValidJSON(t *testing.T) {
	p := writeFile(t, "doc.json", `{"name":"alice"}`)
	a, _, _ := testApp("")
	assert.Equal(t, exitOK, a.run(context.Background(), []string{"check", "-require", "name", p}))
}

func TestCheck_RequiresFlag(t *testing.T) {
	p := writeFile(t, "doc.json", `{}`)
	a, _, _ := testApp("")
	assert.Equal(t, exitUsage, a.run(context.Background(), []string{"check", p}))
}

func TestRequiredRule(t *testing.T) {
	ok, err := requiredRule(nil, true)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = requiredRule(nil, false)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = requiredRule("123", true)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = requiredRule("x", "yes")
	assert.Error(t, err)
}

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitCSV(" a, ,b "))
	assert.Nil(t, splitCSV(""))
}
