// cmd/stepsgen/main.go
package main

import (
	"errors"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/sghaida/steplib/steps"
)

const defaultStepsImport = "github.com/sghaida/steplib/steps"

var errNoProviders = errors.New("no step library constructors found")

// options are the command-line settings of one run.
type options struct {
	Dir         string
	Out         string
	StepsImport string
}

// taggedField is a struct field carrying a `steps` tag.
type taggedField struct {
	Struct string
	Field  string
	Tag    string

	// TypeName is the identifier of the field type, without the star.
	TypeName string
	Pointer  bool
}

// constructor is a parameterless New<Type> function.
type constructor struct {
	Name     string
	Result   string // identifier of the result type, without the star
	Pointer  bool
	Fallible bool
}

// packageInfo is what stepsgen learns from one package directory.
type packageInfo struct {
	Name         string
	Fields       []taggedField
	Constructors map[string]constructor
}

// Provider is one registration in the generated init.
type Provider struct {
	Type        string
	Constructor string
	Pointer     bool
	Fallible    bool
}

type templateData struct {
	Package     string
	StepsImport string
	Providers   []Provider
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	opts := options{}

	cmd := &cobra.Command{
		Use:   "stepsgen",
		Short: "Generate steps.Provide registrations for step library constructors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, n, err := generate(opts)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(stdout, "stepsgen: wrote %d provider(s) to %s\n", n, path)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVar(&opts.Dir, "dir", ".", "package directory to scan")
	cmd.Flags().StringVar(&opts.Out, "out", "steps_providers.gen.go", "output file, relative to --dir unless absolute")
	cmd.Flags().StringVar(&opts.StepsImport, "steps-import", defaultStepsImport, "import path of the steps package")
	return cmd
}

// run executes the generator and returns an exit code.
// It exists separately from main to allow unit testing without os.Exit.
func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(stderr, "stepsgen:", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// generate scans opts.Dir and writes the provider file. It returns the output
// path and the number of providers written.
func generate(opts options) (string, int, error) {
	if strings.TrimSpace(opts.Dir) == "" || strings.TrimSpace(opts.Out) == "" {
		return "", 0, errors.New("--dir and --out must not be empty")
	}

	info, err := scanPackage(opts.Dir)
	if err != nil {
		return "", 0, err
	}
	if err := validateTags(info.Fields); err != nil {
		return "", 0, err
	}

	providers := resolveProviders(info)
	if len(providers) == 0 {
		return "", 0, fmt.Errorf("%w in %s", errNoProviders, opts.Dir)
	}

	src, err := render(templateData{
		Package:     info.Name,
		StepsImport: opts.StepsImport,
		Providers:   providers,
	})
	if err != nil {
		return "", 0, err
	}

	outPath := opts.Out
	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(opts.Dir, outPath)
	}
	if err := writeFileAtomic(filepath.Clean(outPath), src, 0o644); err != nil {
		return "", 0, fmt.Errorf("write %s: %w", outPath, err)
	}
	return outPath, len(providers), nil
}

// scanPackage parses the non-test, non-generated Go files of dir.
func scanPackage(dir string) (packageInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return packageInfo{}, err
	}

	info := packageInfo{Constructors: map[string]constructor{}}
	fileSet := token.NewFileSet()

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() ||
			!strings.HasSuffix(name, ".go") ||
			strings.HasSuffix(name, "_test.go") ||
			strings.HasSuffix(name, ".gen.go") {
			continue
		}

		file, err := parser.ParseFile(fileSet, filepath.Join(dir, name), nil, parser.SkipObjectResolution)
		if err != nil {
			return packageInfo{}, fmt.Errorf("parse %s: %w", name, err)
		}

		if info.Name == "" {
			info.Name = file.Name.Name
		} else if info.Name != file.Name.Name {
			return packageInfo{}, fmt.Errorf("%s: package %s, expected %s", name, file.Name.Name, info.Name)
		}

		collectTaggedFields(file, &info)
		collectConstructors(file, &info)
	}

	if info.Name == "" {
		return packageInfo{}, fmt.Errorf("no Go files in %s", dir)
	}
	return info, nil
}

func collectTaggedFields(file *ast.File, info *packageInfo) {
	ast.Inspect(file, func(n ast.Node) bool {
		spec, ok := n.(*ast.TypeSpec)
		if !ok {
			return true
		}
		st, ok := spec.Type.(*ast.StructType)
		if !ok || st.Fields == nil {
			return true
		}

		for _, field := range st.Fields.List {
			if field.Tag == nil {
				continue
			}
			raw, err := strconv.Unquote(field.Tag.Value)
			if err != nil {
				continue
			}
			tag, ok := reflect.StructTag(raw).Lookup(steps.TagName)
			if !ok || tag == "-" {
				continue
			}

			typeName, pointer, ok := localTypeName(field.Type)
			if !ok {
				continue
			}
			for _, fieldName := range fieldNames(field) {
				info.Fields = append(info.Fields, taggedField{
					Struct:   spec.Name.Name,
					Field:    fieldName,
					Tag:      tag,
					TypeName: typeName,
					Pointer:  pointer,
				})
			}
		}
		return true
	})
}

func fieldNames(field *ast.Field) []string {
	if len(field.Names) == 0 {
		// embedded
		if name, _, ok := localTypeName(field.Type); ok {
			return []string{name}
		}
		return nil
	}
	names := make([]string, 0, len(field.Names))
	for _, n := range field.Names {
		names = append(names, n.Name)
	}
	return names
}

// localTypeName recognises T and *T where T is declared in the package.
func localTypeName(expr ast.Expr) (name string, pointer bool, ok bool) {
	if star, isStar := expr.(*ast.StarExpr); isStar {
		expr = star.X
		pointer = true
	}
	ident, isIdent := expr.(*ast.Ident)
	if !isIdent {
		return "", false, false
	}
	return ident.Name, pointer, true
}

func collectConstructors(file *ast.File, info *packageInfo) {
	errorType := func(expr ast.Expr) bool {
		ident, ok := expr.(*ast.Ident)
		return ok && ident.Name == "error"
	}

	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv != nil || fn.Name == nil || !strings.HasPrefix(fn.Name.Name, "New") {
			continue
		}
		if fn.Type.TypeParams != nil && len(fn.Type.TypeParams.List) > 0 {
			continue
		}
		if fn.Type.Params != nil && len(fn.Type.Params.List) > 0 {
			continue
		}

		results := fn.Type.Results
		if results == nil || len(results.List) == 0 || len(results.List) > 2 {
			continue
		}
		// (a, b T) style groups would hide the arity; only unnamed results count.
		if len(results.List[0].Names) > 0 {
			continue
		}

		typeName, pointer, ok := localTypeName(results.List[0].Type)
		if !ok || fn.Name.Name != "New"+typeName {
			continue
		}

		fallible := false
		if len(results.List) == 2 {
			if !errorType(results.List[1].Type) {
				continue
			}
			fallible = true
		}

		info.Constructors[fn.Name.Name] = constructor{
			Name:     fn.Name.Name,
			Result:   typeName,
			Pointer:  pointer,
			Fallible: fallible,
		}
	}
}

// validateTags rejects markers the runtime would reject.
func validateTags(fields []taggedField) error {
	var errs []error
	for _, f := range fields {
		if _, err := steps.ParseMarker(f.Tag); err != nil {
			errs = append(errs, fmt.Errorf("%s.%s: %w", f.Struct, f.Field, err))
		}
	}
	return errors.Join(errs...)
}

// resolveProviders matches tagged field types with constructors. Output is
// sorted by type name and has one entry per type.
func resolveProviders(info packageInfo) []Provider {
	seen := map[string]struct{}{}
	var providers []Provider

	for _, f := range info.Fields {
		ctor, ok := info.Constructors["New"+f.TypeName]
		if !ok || ctor.Pointer != f.Pointer {
			continue
		}
		typeExpr := f.TypeName
		if f.Pointer {
			typeExpr = "*" + typeExpr
		}
		if _, dup := seen[typeExpr]; dup {
			continue
		}
		seen[typeExpr] = struct{}{}

		providers = append(providers, Provider{
			Type:        f.TypeName,
			Constructor: ctor.Name,
			Pointer:     ctor.Pointer,
			Fallible:    ctor.Fallible,
		})
	}

	sort.Slice(providers, func(i, j int) bool { return providers[i].Type < providers[j].Type })
	return providers
}

func render(data templateData) ([]byte, error) {
	var out strings.Builder
	if err := genTemplate.Execute(&out, data); err != nil {
		return nil, err
	}
	src, err := format.Source([]byte(out.String()))
	if err != nil {
		return nil, fmt.Errorf("format generated code: %w", err)
	}
	return src, nil
}

var genTemplate = template.Must(
	template.New("stepsgen").Parse(`// Code generated by stepsgen; DO NOT EDIT.

package {{.Package}}

import steps "{{.StepsImport}}"

func init() {
{{- range .Providers}}
{{- if .Pointer}}
{{- if .Fallible}}
	steps.ProvideE({{.Constructor}})
{{- else}}
	steps.Provide({{.Constructor}})
{{- end}}
{{- else}}
{{- if .Fallible}}
	steps.ProvideAs({{.Constructor}})
{{- else}}
	steps.ProvideAs(func() ({{.Type}}, error) { return {{.Constructor}}(), nil })
{{- end}}
{{- end}}
{{- end}}
}
`),
)

// tempFile abstracts an os.File for testability.
type tempFile interface {
	Name() string
	Write([]byte) (int, error)
	Close() error
}

// File operation hooks, overridden in tests.
var (
	createTempFile = func(dir, pattern string) (tempFile, error) { return os.CreateTemp(dir, pattern) }
	chmodFile      = os.Chmod
	renameFile     = os.Rename
	removeFile     = os.Remove
)

// writeFileAtomic writes to a temporary file in the target directory and
// renames it over targetPath, so readers never observe partial writes.
func writeFileAtomic(targetPath string, data []byte, perm os.FileMode) (err error) {
	tmpFile, err := createTempFile(filepath.Dir(targetPath), filepath.Base(targetPath)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if err != nil {
			_ = removeFile(tmpPath)
		}
	}()

	if _, err = tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err = tmpFile.Close(); err != nil {
		return err
	}
	if err = chmodFile(tmpPath, perm); err != nil {
		return err
	}
	return renameFile(tmpPath, targetPath)
}
