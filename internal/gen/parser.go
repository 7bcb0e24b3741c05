package gen

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"reflect"
	"strconv"
	"strings"

	"github.com/mickamy/ormassoc/internal/naming"
)

// ModelInfo holds parsed metadata for one model struct.
type ModelInfo struct {
	Name    string // Go struct name, e.g. "Post"
	Package string // Package name, e.g. "model"
	// Table comes from a TableName method returning a string literal, or
	// is inferred from Name: "LineItem" → "line_items".
	Table string
	// Accessors are the snake_case names the struct already answers to:
	// its exported fields and its methods.
	Accessors []string
}

// Parse reads the Go file at path and returns a ModelInfo for every struct
// with at least one exported field.
func Parse(filePath string) ([]*ModelInfo, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filePath, nil, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse file: %w", err)
	}

	pkg := file.Name.Name
	var infos []*ModelInfo
	byName := make(map[string]*ModelInfo)

	ast.Inspect(file, func(n ast.Node) bool {
		ts, ok := n.(*ast.TypeSpec)
		if !ok {
			return true
		}

		st, ok := ts.Type.(*ast.StructType)
		if !ok {
			return true
		}

		accessors := parseStructFields(st)
		if len(accessors) == 0 {
			return true
		}

		info := &ModelInfo{
			Name:      ts.Name.Name,
			Package:   pkg,
			Table:     naming.Inflector{}.Plural(naming.CamelToSnake(ts.Name.Name)),
			Accessors: accessors,
		}
		infos = append(infos, info)
		byName[info.Name] = info
		return true
	})

	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv == nil || len(fn.Recv.List) != 1 {
			continue
		}
		info, ok := byName[receiverName(fn.Recv.List[0].Type)]
		if !ok {
			continue
		}
		if fn.Name.Name == "TableName" {
			if table, ok := literalReturn(fn); ok {
				info.Table = table
			}
			continue
		}
		info.Accessors = append(info.Accessors, naming.CamelToSnake(fn.Name.Name))
	}

	return infos, nil
}

// parseStructFields returns the accessor name of every exported field.
// A db tag names the column; untagged and db:"-" fields keep their own
// name.
func parseStructFields(st *ast.StructType) []string {
	accessors := make([]string, 0, len(st.Fields.List))
	for _, field := range st.Fields.List {
		for _, name := range field.Names {
			if !name.IsExported() {
				continue
			}
			accessors = append(accessors, fieldAccessor(name.Name, field.Tag))
		}
	}
	return accessors
}

func fieldAccessor(name string, tag *ast.BasicLit) string {
	if tag != nil {
		st := reflect.StructTag(strings.Trim(tag.Value, "`"))
		if dbTag, ok := st.Lookup("db"); ok {
			if column, _, _ := strings.Cut(dbTag, ","); column != "" && column != "-" {
				return column
			}
		}
	}
	return naming.CamelToSnake(name)
}

func receiverName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return receiverName(t.X)
	default:
		return ""
	}
}

// literalReturn matches `func (T) TableName() string { return "..." }`.
func literalReturn(fn *ast.FuncDecl) (string, bool) {
	if fn.Body == nil || len(fn.Body.List) != 1 {
		return "", false
	}
	ret, ok := fn.Body.List[0].(*ast.ReturnStmt)
	if !ok || len(ret.Results) != 1 {
		return "", false
	}
	lit, ok := ret.Results[0].(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", false
	}
	s, err := strconv.Unquote(lit.Value)
	if err != nil {
		return "", false
	}
	return s, true
}
