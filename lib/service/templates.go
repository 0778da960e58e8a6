// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"bytes"
	"embed"
	"encoding/xml"
	"strings"
	"text/template"
)

//go:embed templates/systemd.service.tmpl templates/nssm.bat.tmpl templates/launchd.plist.tmpl
var templateFiles embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"xml":   xmlEscape,
	"batch": batchQuote,
}).ParseFS(templateFiles, "templates/*.tmpl"))

func render(name string, data any) (string, error) {
	var out bytes.Buffer
	if err := templates.ExecuteTemplate(&out, name, data); err != nil {
		return "", err
	}
	return out.String(), nil
}

func xmlEscape(value string) (string, error) {
	var out strings.Builder
	if err := xml.EscapeText(&out, []byte(value)); err != nil {
		return "", err
	}
	return out.String(), nil
}

// batchQuote wraps value in double quotes for a cmd.exe command line.
// Inside quotes cmd treats & | < > ^ literally; '%' still expands and
// is doubled. Credential values never contain '"' (the credential
// package rejects them).
func batchQuote(value string) string {
	return `"` + strings.ReplaceAll(value, "%", "%%") + `"`
}

// systemdQuote quotes an ExecStart word when it contains whitespace.
func systemdQuote(word string) string {
	if !strings.ContainsAny(word, " \t") {
		return word
	}
	return `"` + strings.ReplaceAll(word, `"`, `\"`) + `"`
}
