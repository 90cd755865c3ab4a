// Package web holds the HTML templates and the helpers that render them.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"

	"companysite/internal/session"
)

// Messages shared by several pages.
const (
	MsgDataUnavailable = "Could not connect to the database. Please try again later."
	MsgLoginRequired   = "Please log in to continue."
	MsgForbidden       = "You do not have permission to view that page."
)

//go:embed templates/*.html
var templateFS embed.FS

// markdown renders untrusted text: raw HTML in the source is dropped.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(
		goldmarkhtml.WithHardWraps(),
	),
)

// Markdown converts source to HTML for service descriptions.
func Markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

// Install parses the embedded templates and attaches them to engine.
// uploadURL maps a stored object key to its public address.
func Install(engine *gin.Engine, uploadURL func(string) string) error {
	tpl, err := Templates(uploadURL)
	if err != nil {
		return err
	}
	engine.SetHTMLTemplate(tpl)
	return nil
}

func Templates(uploadURL func(string) string) (*template.Template, error) {
	if uploadURL == nil {
		uploadURL = func(key string) string { return "/static/uploads/" + key }
	}
	tpl, err := template.New("").Funcs(funcs(uploadURL)).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tpl, nil
}

func funcs(uploadURL func(string) string) template.FuncMap {
	return template.FuncMap{
		"markdown":  Markdown,
		"hasPrefix": strings.HasPrefix,
		"upload": func(key any) string {
			switch v := key.(type) {
			case string:
				if v == "" {
					return ""
				}
				return uploadURL(v)
			case *string:
				if v == nil || *v == "" {
					return ""
				}
				return uploadURL(*v)
			default:
				return ""
			}
		},
		"date": func(t any) string {
			switch v := t.(type) {
			case time.Time:
				return v.UTC().Format("2006-01-02")
			case *time.Time:
				if v == nil {
					return ""
				}
				return v.UTC().Format("2006-01-02")
			default:
				return ""
			}
		},
		"datetime": func(t time.Time) string {
			return t.UTC().Format("2006-01-02 15:04")
		},
		"deref": func(v any) string {
			switch p := v.(type) {
			case *string:
				if p == nil {
					return ""
				}
				return *p
			case *int64:
				if p == nil {
					return ""
				}
				return fmt.Sprint(*p)
			default:
				return fmt.Sprint(v)
			}
		},
		"mask": func(secret string) string {
			if secret == "" {
				return ""
			}
			return strings.Repeat("•", 8)
		},
		"label": func(s any) string {
			return strings.ReplaceAll(fmt.Sprint(s), "_", " ")
		},
	}
}

// Render writes a full page. Every page gets the current identity, pending
// flash messages and the CSRF form field.
func Render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Identity"] = session.Current(c)
	data["Flashes"] = session.Flashes(c)
	data["CSRFField"] = csrf.TemplateField(c.Request)
	data["Path"] = c.Request.URL.Path
	data["Year"] = time.Now().Year()
	c.HTML(status, name, data)
}
