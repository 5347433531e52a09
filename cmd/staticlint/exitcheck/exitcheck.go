// Package exitcheck содержит пользовательский анализатор, который запрещает
// прямое завершение процесса (os.Exit, log.Fatal*) в функции main пакета main:
// такие вызовы обходят defer и ломают корректное закрытие пула соединений.
package exitcheck

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/analysis"
)

// Analyzer запрещает os.Exit и log.Fatal* в функции main.
var Analyzer = &analysis.Analyzer{
	Name: "exitcheck",
	Doc:  "запрещает os.Exit и log.Fatal* в функции main пакета main",
	Run:  run,
}

// NewAnalyzer возвращает анализатор exitcheck.
func NewAnalyzer() *analysis.Analyzer {
	return Analyzer
}

var banned = map[string]bool{
	"os.Exit":     true,
	"log.Fatal":   true,
	"log.Fatalf":  true,
	"log.Fatalln": true,
}

func run(pass *analysis.Pass) (interface{}, error) {
	if pass.Pkg.Name() != "main" {
		return nil, nil
	}

	for _, file := range pass.Files {
		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Name.Name != "main" || fn.Recv != nil {
				continue
			}

			ast.Inspect(fn.Body, func(n ast.Node) bool {
				call, ok := n.(*ast.CallExpr)
				if !ok {
					return true
				}

				sel, ok := call.Fun.(*ast.SelectorExpr)
				if !ok {
					return true
				}

				obj := pass.TypesInfo.Uses[sel.Sel]
				if fnObj, ok := obj.(*types.Func); ok && banned[fnObj.FullName()] {
					pass.Reportf(call.Pos(), "вызов %s в функции main запрещён", fnObj.FullName())
				}
				return true
			})
		}
	}
	return nil, nil
}
