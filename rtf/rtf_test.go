package rtf

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/pdfconv/model"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain text", "plain text"},
		{`a\b{c}`, `a\\b\{c\}`},
		{"tab\there", `tab\tab here`},
		{"bell\x07gone", "bellgone"},
		{"café", `caf\'e9`},
		{"€5", `\'805`},
		{"“quoted”", `\'93quoted\'94`},
		{"Ω", `\u937?`},
		{"日本", `\u26085?\u26412?`},
		{"😀", `\u-10179?\u-8704?`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Escape(tt.in))
		})
	}
}

func TestWrite(t *testing.T) {
	doc := model.NewDocument()
	doc.Metadata.Title = "Report {draft}"
	p1 := model.NewPage(1)
	p1.Add(model.NewText("Hello", 40, 800), model.NewText("World", 40, 782))
	p1.Add(model.NewImage([]byte{1}, 10, 500, 10, 10))
	p2 := model.NewPage(2)
	p2.Add(model.NewText("Second", 40, 800))
	doc.AddPage(p1)
	doc.AddPage(p2)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, doc))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, `{\rtf1\ansi`))
	assert.True(t, strings.HasSuffix(out, "}\n"))
	assert.Contains(t, out, `{\info{\title Report \{draft\}}}`)
	assert.Contains(t, out, "Hello\\line\nWorld\\line\n\\page\nSecond\\line\n}")
	assert.Equal(t, 1, strings.Count(out, `\page`))
	assert.Equal(t, strings.Count(out, "{")-strings.Count(out, `\{`), strings.Count(out, "}")-strings.Count(out, `\}`), "groups balanced")
}

func TestWriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, model.NewDocument()))
	out := buf.String()
	assert.NotContains(t, out, `\info`)
	assert.NotContains(t, out, `\line`)
	assert.NotContains(t, out, `\page`)
	assert.True(t, strings.HasPrefix(out, `{\rtf1`))
	assert.True(t, strings.HasSuffix(out, "}\n"))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("no space") }

func TestWriteSinkFailure(t *testing.T) {
	assert.Error(t, Write(failingWriter{}, model.NewDocument()))
}
