package tui

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/opmodel/abinspect/internal/bundle"
	"github.com/opmodel/abinspect/internal/output"
	"github.com/opmodel/abinspect/internal/registry"
	"github.com/opmodel/abinspect/internal/tree"
)

// renderDetail draws the detail pane for row. a is the row's live artifact
// or nil; it is resolved by the caller for this frame only.
func renderDetail(t theme, row *tree.Row, e *registry.Entry, a *bundle.Artifact) string {
	if row == nil {
		return t.muted.Render("Select a bundle to inspect it.")
	}

	var b strings.Builder
	b.WriteString(t.title.Render(row.Path.Name()))
	b.WriteString("\n")
	b.WriteString(t.muted.Render(row.Path.String()))
	b.WriteString("\n\n")

	field := func(name, value string) {
		b.WriteString(t.label.Render(name))
		b.WriteString(value)
		b.WriteString("\n")
	}

	field("State", t.state(row.State).Render(row.State.String()))

	if a == nil {
		switch {
		case e != nil && e.Failed():
			if err := e.Handle.Err(); err != nil {
				field("Error", err.Error())
			}
		case row.LastPercent >= 0:
			field("Progress", fmt.Sprintf("%d%%", row.LastPercent))
		}
		return b.String()
	}

	field("Size", output.FormatBytes(a.Size))
	field("Digest", a.Digest)
	if a.Header.Known() {
		field("Format", fmt.Sprintf("%s v%d", a.Header.Signature, a.Header.FormatVersion))
		field("Engine", a.Header.EngineVersion)
	} else {
		field("Format", t.muted.Render("unrecognized"))
	}
	field("Loaded", a.LoadedAt.Format("15:04:05"))

	m := a.Manifest
	if m == nil {
		if a.ManifestErr != "" {
			field("Manifest", a.ManifestErr)
		}
		return b.String()
	}

	field("CRC", strconv.FormatUint(uint64(m.CRC), 10))
	if h := m.Hashes.AssetFileHash.Hash; h != "" {
		field("Asset hash", h)
	}
	if h := m.Hashes.TypeTreeHash.Hash; h != "" {
		field("Type hash", h)
	}
	if len(m.ClassTypes) > 0 {
		classes := make([]string, 0, len(m.ClassTypes))
		for _, c := range m.ClassTypes {
			classes = append(classes, strconv.Itoa(c.Class))
		}
		field("Class types", strings.Join(classes, ", "))
	}

	list := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		b.WriteString("\n")
		b.WriteString(t.title.Render(fmt.Sprintf("%s (%d)", title, len(items))))
		b.WriteString("\n")
		for _, item := range items {
			b.WriteString("  ")
			b.WriteString(t.noun.Render(item))
			b.WriteString("\n")
		}
	}
	if len(m.Assets) > 0 {
		b.WriteString("\n")
		b.WriteString(t.title.Render(fmt.Sprintf("Assets (%d)", len(m.Assets))))
		b.WriteString("\n")
		b.WriteString(output.RenderPathTree(m.Assets))
	}
	list("Dependencies", m.Dependencies)

	if m.IsRoot() {
		names := make([]string, 0, len(m.Index.Infos))
		for _, info := range m.Index.Infos {
			names = append(names, info.Name)
		}
		slices.Sort(names)
		list("Bundles", names)
	}

	return b.String()
}
