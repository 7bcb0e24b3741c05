package gen

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"strconv"
	"text/template"

	"github.com/mickamy/ormassoc/assoc"
	"github.com/mickamy/ormassoc/internal/naming"
)

// RenderOption controls the output of Render.
type RenderOption struct {
	Package string // output package name (required)
	// Command is recorded in the generated header, e.g. "ormassoc gen".
	Command string
}

type fileTemplateData struct {
	Package string
	Command string
	Tables  []tableTemplateData
}

type tableTemplateData struct {
	Name  string
	Var   string
	Specs []assoc.Spec
}

var funcMap = template.FuncMap{
	"quote": strconv.Quote,
}

var fileTmpl = template.Must(template.New("gen").Funcs(funcMap).Parse(fileTemplate))

// Render generates a Go source file declaring tables' associations. The
// returned bytes are formatted by gofmt.
func Render(tables []Table, opt RenderOption) ([]byte, error) {
	if opt.Package == "" {
		return nil, errors.New("package name is required")
	}
	if opt.Command == "" {
		opt.Command = "ormassoc"
	}

	data := fileTemplateData{Package: opt.Package, Command: opt.Command}
	seen := make(map[string]bool, len(tables))
	for _, t := range tables {
		name := varName(t.Name, seen)
		seen[name] = true
		data.Tables = append(data.Tables, tableTemplateData{Name: t.Name, Var: name, Specs: t.Specs})
	}

	var buf bytes.Buffer
	if err := fileTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format source: %w\n%s", err, buf.String())
	}
	return src, nil
}

// varName returns "<Class>Associations" for table, falling back to the
// camel-cased table name when two tables classify alike.
func varName(table string, seen map[string]bool) string {
	name := naming.Inflector{}.Classify(table) + "Associations"
	if seen[name] {
		name = naming.SnakeToCamel(table) + "Associations"
	}
	for i := 2; seen[name]; i++ {
		name = naming.SnakeToCamel(table) + strconv.Itoa(i) + "Associations"
	}
	return name
}

const fileTemplate = `// Code generated by {{.Command}}. DO NOT EDIT.

package {{.Package}}

import (
	"fmt"

	"github.com/mickamy/ormassoc/assoc"
	"github.com/mickamy/ormassoc/orm"
)
{{range .Tables}}
// {{.Var}} lists the associations discovered for the {{.Name}} table.
var {{.Var}} = []assoc.Spec{
	{{- range .Specs}}
	{
		Kind:       assoc.{{.Kind.Ident}},
		Name:       {{quote .Name}},
		ClassName:  {{quote .ClassName}},
		Table:      {{quote .Table}},
		ForeignKey: {{quote .ForeignKey}},
		{{- if .JoinTable}}
		JoinTable:  {{quote .JoinTable}},
		{{- end}}
		{{- if .AssociationForeignKey}}
		AssociationForeignKey: {{quote .AssociationForeignKey}},
		{{- end}}
		{{- if .OrderBy}}
		OrderBy:    {{quote .OrderBy}},
		{{- end}}
	},
	{{- end}}
}
{{end}}
// Associations maps table names to their associations.
var Associations = map[string][]assoc.Spec{
	{{- range .Tables}}
	{{quote .Name}}: {{.Var}},
	{{- end}}
}

// associationTables lists the keys of Associations in registration order.
var associationTables = []string{
	{{- range .Tables}}
	{{quote .Name}},
	{{- end}}
}

// RegisterAssociations registers every association on the models of r.
func RegisterAssociations(r *orm.Registry) error {
	for _, table := range associationTables {
		m := r.Model(table)
		for _, spec := range Associations[table] {
			if err := m.Register(spec); err != nil {
				return fmt.Errorf("register %s associations: %w", table, err)
			}
		}
	}
	return nil
}
`
