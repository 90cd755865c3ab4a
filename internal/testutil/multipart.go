// Package testutil holds helpers shared by handler and service tests.
package testutil

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

// File is one file part of a multipart form.
type File struct {
	Field   string
	Name    string
	Content []byte
}

// FileHeader parses a single-file multipart body and returns its header,
// the same value gin hands to handlers via c.FormFile.
func FileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	body, contentType := MultipartBody(t, nil, File{Field: "file", Name: name, Content: content})

	_, params, _ := strings.Cut(contentType, "boundary=")
	form, err := multipart.NewReader(body, params).ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("read multipart form: %v", err)
	}
	return form.File["file"][0]
}

// MultipartBody encodes fields and files as multipart/form-data.
func MultipartBody(t *testing.T, fields url.Values, files ...File) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, values := range fields {
		for _, v := range values {
			if err := w.WriteField(key, v); err != nil {
				t.Fatalf("write field %s: %v", key, err)
			}
		}
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.Field, f.Name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(f.Content); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

// PostMultipart builds a multipart POST request.
func PostMultipart(t *testing.T, path string, fields url.Values, files ...File) *http.Request {
	t.Helper()
	body, contentType := MultipartBody(t, fields, files...)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	return req
}

// PostForm builds an url-encoded POST request.
func PostForm(path string, fields url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(fields.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}
