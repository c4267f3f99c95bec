package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractor_PlainText(t *testing.T) {
	e := NewExtractor()

	text, err := e.Extract("text/plain", []byte("five years of Go experience"))
	assert.NoError(t, err)
	assert.Equal(t, "five years of Go experience", text)

	// Charset parameters on the media type are ignored.
	text, err = e.Extract("text/plain; charset=utf-8", []byte("hello"))
	assert.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestExtractor_Errors(t *testing.T) {
	e := NewExtractor()

	tests := []struct {
		name        string
		contentType string
		content     []byte
		wantErr     error
		wantErrMsg  string
	}{
		{
			name:        "unsupported type",
			contentType: "image/png",
			content:     []byte{0x89, 0x50},
			wantErrMsg:  "unsupported file type",
		},
		{
			name:        "blank text file",
			contentType: TypeText,
			content:     []byte("   \n\t "),
			wantErr:     ErrNoText,
		},
		{
			name:        "corrupt pdf",
			contentType: TypePDF,
			content:     []byte("not a pdf at all"),
			wantErrMsg:  "read pdf",
		},
		{
			name:        "corrupt docx",
			contentType: TypeDOCX,
			content:     []byte("not a zip archive"),
			wantErrMsg:  "parse docx",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Extract(tt.contentType, tt.content)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErrMsg)
		})
	}
}

func TestExtractor_Supports(t *testing.T) {
	e := NewExtractor()

	assert.True(t, e.Supports(TypePDF))
	assert.True(t, e.Supports(TypeDOCX))
	assert.True(t, e.Supports("text/plain; charset=utf-8"))
	assert.False(t, e.Supports("image/png"))
	assert.False(t, e.Supports(""))
}

func TestContentTypeFor(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		declared string
		want     string
	}{
		{name: "declared type wins", filename: "cv.bin", declared: "application/pdf", want: TypePDF},
		{name: "octet-stream falls back to extension", filename: "cv.pdf", declared: "application/octet-stream", want: TypePDF},
		{name: "missing type falls back to extension", filename: "cv.DOCX", declared: "", want: TypeDOCX},
		{name: "txt extension", filename: "notes.txt", declared: "", want: TypeText},
		{name: "unknown extension keeps declared", filename: "cv.bin", declared: "application/octet-stream", want: "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ContentTypeFor(tt.filename, tt.declared))
		})
	}
}
