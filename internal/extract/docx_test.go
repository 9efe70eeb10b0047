package extract

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeDocx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body + `</w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDocxText(t *testing.T) {
	data := makeDocx(t,
		`<w:p><w:r><w:t>Ramesh Shah</w:t></w:r><w:r><w:tab/><w:t>9825012345</w:t></w:r></w:p>`+
			`<w:p><w:r><w:t xml:space="preserve">Kokila </w:t><w:t>Shah</w:t></w:r></w:p>`)

	text, err := DocxText(data)
	require.NoError(t, err)
	assert.Equal(t, "Ramesh Shah\t9825012345\nKokila Shah", text)
}

func TestDocxTextRejectsOtherFiles(t *testing.T) {
	_, err := DocxText([]byte("not a zip"))
	assert.ErrorIs(t, err, ErrInvalidDocument)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, _ = zw.Create("other.txt")
	require.NoError(t, zw.Close())
	_, err = DocxText(buf.Bytes())
	assert.ErrorIs(t, err, ErrInvalidDocument)
}
