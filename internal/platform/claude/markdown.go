package claude

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/thoreinstein/loadout/internal/errors"
	"github.com/thoreinstein/loadout/internal/tool"
	"github.com/thoreinstein/loadout/pkg/fileutil"
	"github.com/thoreinstein/loadout/pkg/frontmatter"
)

// markdownMeta is the frontmatter the adapter models for skills, commands,
// and prompts. Everything else in the block rides along untouched because
// toggles use field surgery, never a parse/format round trip.
type markdownMeta struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Disabled    bool   `yaml:"disabled"`
}

// readMarkdown lists the Markdown-backed tools of typ at scope. Skills are
// directory bundles (<dir>/<name>/SKILL.md); commands and prompts are flat
// .md files. A missing directory yields an empty list.
func (a *Adapter) readMarkdown(typ tool.Type, scope tool.Scope) ([]*tool.Entity, error) {
	dir := a.markdownDir(typ, scope)
	if dir == "" {
		return nil, nil
	}

	dirents, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "listing %s", dir)
	}

	var entities []*tool.Entity
	for _, de := range dirents {
		var name, path string
		isDir := false
		switch {
		case typ == tool.TypeSkill && de.IsDir():
			name = de.Name()
			path = filepath.Join(dir, name, "SKILL.md")
			isDir = true
		case typ != tool.TypeSkill && !de.IsDir() && strings.HasSuffix(de.Name(), ".md"):
			name = strings.TrimSuffix(de.Name(), ".md")
			path = filepath.Join(dir, de.Name())
		default:
			continue
		}

		ent, err := a.readMarkdownFile(typ, scope, name, path, isDir)
		if err != nil {
			return nil, err
		}
		if ent != nil {
			entities = append(entities, ent)
		}
	}

	sort.Slice(entities, func(i, j int) bool {
		return entities[i].Name < entities[j].Name
	})
	return entities, nil
}

func (a *Adapter) readMarkdownFile(typ tool.Type, scope tool.Scope, name, path string, isDir bool) (*tool.Entity, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			// A skill directory without SKILL.md is not a skill.
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	defer f.Close()

	var meta markdownMeta
	if err := frontmatter.ParseHeader(f, &meta); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	if meta.Name == "" {
		meta.Name = name
	}

	status := tool.StatusEnabled
	if meta.Disabled {
		status = tool.StatusDisabled
	}

	ent := &tool.Entity{
		ID:          "claude:" + string(typ) + ":" + scope.String() + ":" + name,
		Type:        typ,
		Name:        meta.Name,
		Description: meta.Description,
		Scope:       scope,
		Status:      status,
		Path:        path,
		IsDir:       isDir,
	}
	if isDir {
		ent.Dir = filepath.Dir(path)
	}
	return ent, nil
}

// writeMarkdown creates or replaces the tool's source file. Full content
// in metadata wins; otherwise a minimal frontmatter document is generated
// from the entity's fields.
func (a *Adapter) writeMarkdown(t *tool.Entity, scope tool.Scope) error {
	if t.Name == "" {
		return errors.Newf("claude: %s name required", t.Type)
	}
	path := a.markdownPath(t.Type, scope, t.Name)
	if path == "" {
		return errors.Newf("claude: no workspace set for %s scope", scope)
	}

	var content []byte
	if raw, ok := t.Metadata["content"].(string); ok && raw != "" {
		content = []byte(raw)
	} else {
		body, _ := t.Metadata["instructions"].(string)
		var err error
		content, err = frontmatter.Format(markdownMeta{
			Name:        t.Name,
			Description: t.Description,
		}, body)
		if err != nil {
			return errors.Wrapf(err, "formatting %s", t.Name)
		}
	}

	return a.engine.WriteText(path, content)
}

// removeMarkdown deletes the tool's source. Skill bundles go wholesale;
// flat files are backed up first so the removal is recoverable.
func (a *Adapter) removeMarkdown(t *tool.Entity) error {
	path := t.Path
	if path == "" {
		path = a.markdownPath(t.Type, t.Scope, t.Name)
	}
	if path == "" {
		return errors.Newf("claude: cannot locate %s %q", t.Type, t.Name)
	}

	if t.Type == tool.TypeSkill {
		return errors.Wrapf(os.RemoveAll(filepath.Dir(path)), "removing skill %q", t.Name)
	}

	if err := a.engine.Backups().Backup(path); err != nil {
		return errors.Wrapf(err, "backing up %s", path)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "removing %s %q", t.Type, t.Name)
	}
	return nil
}

// toggleMarkdown flips the disabled frontmatter field with line-level
// surgery, so the rest of the file survives byte for byte. Enabling
// removes the field instead of writing disabled: false.
func (a *Adapter) toggleMarkdown(t *tool.Entity, enabled bool) error {
	path := t.Path
	if path == "" {
		path = a.markdownPath(t.Type, t.Scope, t.Name)
	}
	if path == "" {
		return errors.Newf("claude: cannot locate %s %q", t.Type, t.Name)
	}

	content, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return errors.Wrapf(err, "reading %s", path)
	}

	var updated []byte
	if enabled {
		updated, err = frontmatter.RemoveField(content, "disabled")
	} else {
		updated, err = frontmatter.SetField(content, "disabled", true)
	}
	if err != nil {
		return errors.Wrapf(err, "updating %s", path)
	}
	if bytes.Equal(updated, content) {
		return nil
	}

	return a.engine.WriteText(path, updated)
}
