package instrument

import (
	"go/ast"
	"go/token"
	"strconv"
	"strings"
)

// importAlias returns the name under which the file refers to ImportPath:
// its existing alias, the package name for a plain import, or a free name
// when the file does not import it yet.
func importAlias(fset *token.FileSet, file *ast.File) (string, error) {
	for _, imp := range file.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil || path != ImportPath {
			continue
		}

		if imp.Name == nil {
			return DefaultAlias, nil
		}

		switch imp.Name.Name {
		case "_", ".":
			return "", NewErrorWithSuggestion(fset, imp.Pos(),
				"cannot instrument through a "+imp.Name.Name+" import of "+ImportPath,
				"Import the package by name, e.g. import prof \""+ImportPath+"\"")
		default:
			return imp.Name.Name, nil
		}
	}

	return freeAlias(usedNames(file)), nil
}

// freeAlias picks DefaultAlias, FallbackAlias, then FallbackAlias with a
// numeric suffix, whichever is not in used.
func freeAlias(used map[string]bool) string {
	if !used[DefaultAlias] {
		return DefaultAlias
	}

	alias := FallbackAlias
	for i := 2; used[alias]; i++ {
		alias = FallbackAlias + strconv.Itoa(i)
	}
	return alias
}

// usedNames collects every name a new import could collide with or be
// shadowed by: import names (the last path element for plain imports) and
// every identifier in the file except the package clause.
func usedNames(file *ast.File) map[string]bool {
	used := make(map[string]bool)

	for _, imp := range file.Imports {
		if imp.Name != nil {
			used[imp.Name.Name] = true
			continue
		}
		if path, err := strconv.Unquote(imp.Path.Value); err == nil {
			used[pathBase(path)] = true
		}
	}

	ast.Inspect(file, func(n ast.Node) bool {
		if id, ok := n.(*ast.Ident); ok && id != file.Name {
			used[id.Name] = true
		}
		return true
	})

	return used
}

// pathBase returns the last element of an import path.
func pathBase(path string) string {
	return path[strings.LastIndexByte(path, '/')+1:]
}

// injectImport adds ImportPath to the file unless it is already imported.
// The new import joins the first import declaration, or a new one is created
// after the package clause.
func injectImport(file *ast.File, alias string) {
	for _, imp := range file.Imports {
		if path, err := strconv.Unquote(imp.Path.Value); err == nil && path == ImportPath {
			return
		}
	}

	spec := &ast.ImportSpec{
		Path: &ast.BasicLit{Kind: token.STRING, Value: strconv.Quote(ImportPath)},
	}
	if alias != DefaultAlias {
		spec.Name = ast.NewIdent(alias)
	}

	var decl *ast.GenDecl
	for _, d := range file.Decls {
		if gd, ok := d.(*ast.GenDecl); ok && gd.Tok == token.IMPORT {
			decl = gd
			break
		}
	}

	if decl == nil {
		decl = &ast.GenDecl{Tok: token.IMPORT}
		file.Decls = append([]ast.Decl{decl}, file.Decls...)
	}

	// go/printer parenthesizes any import declaration holding more than
	// one import.
	decl.Specs = append(decl.Specs, spec)

	file.Imports = append(file.Imports, spec)
}
