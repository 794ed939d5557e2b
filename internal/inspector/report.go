package inspector

import (
	"github.com/opmodel/abinspect/internal/output"
	"github.com/opmodel/abinspect/internal/registry"
	"github.com/opmodel/abinspect/internal/tree"
)

// BundleReport summarises one bundle for non-interactive output.
type BundleReport struct {
	Name          string   `json:"name"`
	Path          string   `json:"path"`
	State         string   `json:"state"`
	Progress      int      `json:"progress"`
	Size          int64    `json:"size,omitempty"`
	Digest        string   `json:"digest,omitempty"`
	Signature     string   `json:"signature,omitempty"`
	EngineVersion string   `json:"engineVersion,omitempty"`
	CRC           uint32   `json:"crc,omitempty"`
	Assets        int      `json:"assets"`
	Dependencies  []string `json:"dependencies,omitempty"`
	Error         string   `json:"error,omitempty"`
}

// Report is the state of every bundle in the watched directory.
type Report struct {
	Dir     string         `json:"dir"`
	Loaded  int            `json:"loaded"`
	Failed  int            `json:"failed"`
	Loading int            `json:"loading"`
	Bundles []BundleReport `json:"bundles"`
}

// Report builds a report from the registry's current state, in row order.
func (s *Session) Report() Report {
	r := Report{Dir: s.dir, Bundles: []BundleReport{}}
	for _, row := range s.proj.Rows() {
		e, ok := s.reg.Get(row.Path)
		if !ok {
			continue
		}
		b := bundleReport(e)
		switch b.State {
		case output.StateLoaded:
			r.Loaded++
		case output.StateFailed:
			r.Failed++
		default:
			r.Loading++
		}
		r.Bundles = append(r.Bundles, b)
	}
	return r
}

func bundleReport(e *registry.Entry) BundleReport {
	b := BundleReport{
		Name:  e.Path.Name(),
		Path:  e.Path.String(),
		State: output.StateLoading,
	}
	h := e.Handle
	if !h.Done() {
		b.Progress = tree.Percent(h.Progress())
		return b
	}

	b.Progress = 100
	a := e.Artifact()
	if a == nil {
		b.State = output.StateFailed
		if err := h.Err(); err != nil {
			b.Error = err.Error()
		}
		return b
	}

	b.State = output.StateLoaded
	b.Size = a.Size
	b.Digest = a.Digest
	b.Signature = a.Header.Signature
	b.EngineVersion = a.Header.EngineVersion
	b.Error = a.ManifestErr
	if m := a.Manifest; m != nil {
		b.CRC = m.CRC
		b.Assets = len(m.Assets)
		b.Dependencies = m.Dependencies
	}
	return b
}
