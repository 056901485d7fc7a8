package main

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func noText(io.Writer) error { return nil }

func TestRender_YAMLIsBlockStyle(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rows := []map[string]string{{"name": "Dan Brooks"}}
	require.NoError(t, render(&buf, formatYAML, rows, noText))
	assert.Equal(t, "- name: Dan Brooks\n", buf.String())
	assert.NotContains(t, buf.String(), "{")
}

func TestRender_YAMLKeepsScalarTypes(t *testing.T) {
	t.Parallel()

	v := struct {
		Name  string   `json:"name"`
		Code  string   `json:"code"`
		Flag  string   `json:"flag"`
		Count int      `json:"count"`
		Tags  []string `json:"tags"`
	}{Name: "PEO Ships", Code: "0042", Flag: "true", Count: 3, Tags: []string{"Ships", "C4I"}}

	var buf bytes.Buffer
	require.NoError(t, render(&buf, formatYAML, v, noText))
	assert.Contains(t, buf.String(), "name: PEO Ships\n")
	assert.Contains(t, buf.String(), "tags:\n  - Ships\n  - C4I\n")
	assert.NotContains(t, buf.String(), "[")

	var back struct {
		Name  string   `yaml:"name"`
		Code  string   `yaml:"code"`
		Flag  string   `yaml:"flag"`
		Count int      `yaml:"count"`
		Tags  []string `yaml:"tags"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, "0042", back.Code)
	assert.Equal(t, "true", back.Flag)
	assert.Equal(t, 3, back.Count)
	assert.Equal(t, []string{"Ships", "C4I"}, back.Tags)
}

func TestParseOutputFormat(t *testing.T) {
	t.Parallel()

	f, err := parseOutputFormat(" YAML ")
	require.NoError(t, err)
	assert.Equal(t, formatYAML, f)

	f, err = parseOutputFormat("")
	require.NoError(t, err)
	assert.Equal(t, formatText, f)

	_, err = parseOutputFormat("xml")
	require.Error(t, err)
	assert.Equal(t, exitUsage, exitCode(err))
}
