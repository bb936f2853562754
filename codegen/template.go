package codegen

import "text/template"

var fileTemplate = template.Must(template.New("file").Parse(`// Code generated by goaper. DO NOT EDIT.
// Modules: {{.Modules}}

package {{.Package}}

import (
	"fmt"

	"{{.AperImport}}"
)

{{if .Values}}
const (
{{- range .Values}}
	{{.Name}} = {{.Value}}
{{- end}}
)
{{end}}
{{- range .Types}}
{{if eq .Template "scalar"}}{{template "scalar" .}}
{{- else if eq .Template "null"}}{{template "null" .}}
{{- else if eq .Template "enumerated"}}{{template "enumerated" .}}
{{- else if eq .Template "choice"}}{{template "choice" .}}
{{- end}}
{{- end}}

func choiceAdditions(c *aper.Cursor) error {
	return &aper.Error{Pos: c.Pos(), Message: aper.ErrChoiceAdditions.Error(), Err: aper.ErrChoiceAdditions}
}

func codecError(c *aper.Cursor, format string, args ...any) error {
	return &aper.Error{Pos: c.Pos(), Message: fmt.Sprintf(format, args...)}
}
{{define "scalar"}}
// {{.Comment}}
type {{.Name}} {{.Base}}
{{if .Consts}}
const (
{{- range .Consts}}
	{{.Name}} {{.Type}} = {{.Value}}
{{- end}}
)
{{end}}
func (v {{.Name}}) EncodeAPER(c *aper.Cursor) error {
	return {{.Encode}}
}

func (v *{{.Name}}) DecodeAPER(c *aper.Cursor) error {
	x, err := {{.Decode}}
	if err != nil {
		return err
	}
	*v = {{.Name}}(x)
	return nil
}
{{end}}
{{define "null"}}
// {{.Comment}}
type {{.Name}} struct{}

func (v {{.Name}}) EncodeAPER(c *aper.Cursor) error {
	return aper.EncodeNull(c)
}

func (v *{{.Name}}) DecodeAPER(c *aper.Cursor) error {
	return aper.DecodeNull(c)
}
{{end}}
{{define "enumerated"}}
// {{.Comment}}
type {{.Name}} int

const (
{{- range .Consts}}
	{{.Name}} {{.Type}} = {{.Value}}
{{- end}}
)

func (v {{.Name}}) EncodeAPER(c *aper.Cursor) error {
	switch v {
{{- range .Cases}}
	case {{.Const}}:
		return aper.EncodeEnumerated(c, {{.Index}}, {{$.RootCount}}, {{$.Extensible}}, {{.Extended}})
{{- end}}
	}
	return codecError(c, "unknown {{.Name}} value %d", int(v))
}

func (v *{{.Name}}) DecodeAPER(c *aper.Cursor) error {
	idx, extended, err := aper.DecodeEnumerated(c, {{.RootCount}}, {{.Extensible}})
	if err != nil {
		return err
	}
	switch {
{{- range .Cases}}
	case {{if .Extended}}extended{{else}}!extended{{end}} && idx == {{.Index}}:
		*v = {{.Const}}
{{- end}}
	default:
		return codecError(c, "unknown {{.Name}} index %d", idx)
	}
	return nil
}
{{end}}
{{define "choice"}}
// {{.Comment}}
type {{.Name}} struct {
	Present int
{{- range .Alts}}
	{{.Field}} *{{.Type}}
{{- end}}
}

const (
	{{.Nothing}} = iota
{{- range .Alts}}
	{{.Present}}
{{- end}}
)

func (v *{{.Name}}) EncodeAPER(c *aper.Cursor) error {
	switch v.Present {
{{- range .Alts}}
	case {{.Present}}:
{{- if .Extended}}
		return choiceAdditions(c)
{{- else}}
		if v.{{.Field}} == nil {
			return codecError(c, "{{$.Name}} alternative {{.ASN1}} is not set")
		}
		if err := aper.EncodeChoiceIdx(c, {{$.Lower}}, {{$.Upper}}, {{$.Extensible}}, {{.Key}}, false); err != nil {
			return err
		}
		return v.{{.Field}}.EncodeAPER(c)
{{- end}}
{{- end}}
	}
	return codecError(c, "Index %d is not a valid Choice Index", v.Present-1)
}

func (v *{{.Name}}) DecodeAPER(c *aper.Cursor) error {
	idx, extended, err := aper.DecodeChoiceIdx(c, {{.Lower}}, {{.Upper}}, {{.Extensible}})
	if err != nil {
		return err
	}
	if extended {
		return choiceAdditions(c)
	}
	switch idx {
{{- range .Alts}}
{{- if not .Extended}}
	case {{.Key}}:
		v.Present = {{.Present}}
		v.{{.Field}} = new({{.Type}})
		return v.{{.Field}}.DecodeAPER(c)
{{- end}}
{{- end}}
	}
	return codecError(c, "Index %d is not a valid Choice Index", idx)
}
{{end}}`))
