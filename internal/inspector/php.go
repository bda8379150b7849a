package inspector

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/php"

	"github.com/toyz/decorgen/internal/errors"
	"github.com/toyz/decorgen/internal/models"
	"github.com/toyz/decorgen/internal/phpexpr"
	"github.com/toyz/decorgen/internal/utils"
	"github.com/toyz/decorgen/internal/utils/fileops"
)

// PHPInspector extracts type declarations from PHP source with tree-sitter
type PHPInspector struct {
	fileOps *fileops.FileOps
	cache   *utils.FileCache[[]*models.SourceType]
	logger  *zerolog.Logger
}

// NewPHPInspector creates an inspector; a nil logger discards output
func NewPHPInspector(fileOps *fileops.FileOps, logger *zerolog.Logger) *PHPInspector {
	if fileOps == nil {
		fileOps = fileops.NewFileOps()
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &PHPInspector{
		fileOps: fileOps,
		cache:   utils.NewFileCache[[]*models.SourceType](),
		logger:  logger,
	}
}

// InspectFile parses a PHP file, reusing the previous result while the file is unchanged
func (p *PHPInspector) InspectFile(ctx context.Context, path string) ([]*models.SourceType, error) {
	key, err := p.fileOps.PathValidator().AbsolutePath(path)
	if err != nil {
		return nil, err
	}
	if types, ok := p.cache.Load(key); ok {
		return types, nil
	}

	src, err := p.fileOps.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}

	types, err := p.InspectSource(ctx, path, src)
	if err != nil {
		return nil, err
	}

	if err := p.cache.Store(key, types); err != nil {
		p.logger.Debug().Err(err).Str("file", path).Msg("parse result not cached")
	}
	return types, nil
}

// InspectSource parses PHP source text and returns every class, interface,
// trait and enum it declares
func (p *PHPInspector) InspectSource(ctx context.Context, filename string, src []byte) ([]*models.SourceType, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(php.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, errors.WrapParseError(filepath.Base(filename), err)
	}

	root := tree.RootNode()
	if root.HasError() {
		return nil, syntaxError(filename, root, src)
	}

	f := &phpFile{
		name:   filename,
		src:    src,
		enums:  make(map[string]bool),
		logger: p.logger,
	}
	f.walk(root, &phpexpr.NameResolver{IsEnum: f.isEnum})

	types := make([]*models.SourceType, 0, len(f.decls))
	for _, d := range f.decls {
		types = append(types, f.buildType(d))
	}
	return types, nil
}

func syntaxError(filename string, root *sitter.Node, src []byte) error {
	bad := firstError(root)
	if bad == nil {
		bad = root
	}
	point := bad.StartPoint()
	snippet := strings.TrimSpace(bad.Content(src))
	if len(snippet) > 40 {
		snippet = snippet[:40] + "..."
	}
	return errors.Newf(errors.SyntaxErrorCode, "PHP syntax error near '%s'", snippet).
		WithLocation(errors.SourceLocation{
			File:   filename,
			Line:   int(point.Row) + 1,
			Column: int(point.Column) + 1,
		}).
		WithSuggestions("Check that the file is valid PHP 7 or PHP 8 source")
}

func firstError(n *sitter.Node) *sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil || !child.HasError() && !child.IsMissing() {
			continue
		}
		if bad := firstError(child); bad != nil {
			return bad
		}
	}
	return nil
}

// phpFile carries the state of one parsed file
type phpFile struct {
	name   string
	src    []byte
	decls  []*declaration
	enums  map[string]bool
	logger *zerolog.Logger
}

// declaration is a type declaration waiting to be built once every
// declaration of the file is known
type declaration struct {
	node     *sitter.Node
	fqn      string
	kind     models.TypeKind
	resolver *phpexpr.NameResolver
}

func (f *phpFile) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(f.src)
}

func (f *phpFile) walk(n *sitter.Node, r *phpexpr.NameResolver) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "namespace_definition":
			ns := models.NormalizeName(f.text(child.ChildByFieldName("name")))
			scoped := &phpexpr.NameResolver{Namespace: ns, IsEnum: f.isEnum}
			if body := child.ChildByFieldName("body"); body != nil {
				f.walk(body, scoped)
				continue
			}
			// unbraced namespaces apply to the rest of the file
			r = scoped
		case "namespace_use_declaration":
			f.addUses(child, r)
		case "class_declaration", "interface_declaration", "trait_declaration", "enum_declaration":
			f.declare(child, r)
		}
	}
}

func (f *phpFile) isEnum(fqn string) bool {
	return f.enums[models.NameKey(fqn)]
}

func (f *phpFile) declare(n *sitter.Node, r *phpexpr.NameResolver) {
	name := f.text(n.ChildByFieldName("name"))
	if name == "" {
		return
	}
	fqn := name
	if r.Namespace != "" {
		fqn = r.Namespace + `\` + name
	}

	kind := models.ParseTypeKind(strings.TrimSuffix(n.Type(), "_declaration"))
	if kind == models.KindEnum {
		f.enums[models.NameKey(fqn)] = true
	}
	f.decls = append(f.decls, &declaration{node: n, fqn: fqn, kind: kind, resolver: r})
}

// addUses registers class imports. Function and constant imports are ignored.
func (f *phpFile) addUses(n *sitter.Node, r *phpexpr.NameResolver) {
	if hasKindToken(n) {
		return
	}
	prefix := ""
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "namespace_use_clause":
			f.addUseClause(child, "", r)
		case "namespace_name":
			prefix = f.text(child)
		case "namespace_use_group":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				if clause := child.NamedChild(j); clause.Type() == "namespace_use_group_clause" && !hasKindToken(clause) {
					f.addUseClause(clause, prefix, r)
				}
			}
		}
	}
}

// addUseClause registers a single "Name" or "Name as Alias" clause, joined to
// the group prefix when there is one
func (f *phpFile) addUseClause(n *sitter.Node, prefix string, r *phpexpr.NameResolver) {
	var name, alias string
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "name", "qualified_name", "namespace_name":
			name = f.text(child)
		case "namespace_aliasing_clause":
			alias = f.text(firstNamedChild(child, "name"))
		}
	}
	if name == "" {
		return
	}
	if prefix != "" {
		name = strings.TrimSuffix(prefix, `\`) + `\` + name
	}
	r.AddUse(name, alias)
}

// hasKindToken reports whether a use statement or group clause imports
// functions or constants
func hasKindToken(n *sitter.Node) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.IsNamed() {
			continue
		}
		switch strings.ToLower(child.Type()) {
		case "function", "const":
			return true
		}
	}
	return false
}

func firstNamedChild(n *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if child := n.NamedChild(i); child.Type() == typ {
			return child
		}
	}
	return nil
}
