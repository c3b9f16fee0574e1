// Package reconcile merges per-document link indexes into a global view and
// reports every reference that no landmark satisfies.
package reconcile

import (
	"context"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/doclinks/internal/fsprobe"
	"git.home.luguber.info/inful/doclinks/internal/linkindex"
	"git.home.luguber.info/inful/doclinks/internal/logfields"
	"git.home.luguber.info/inful/doclinks/internal/suggest"
	"git.home.luguber.info/inful/doclinks/internal/util/sets"
)

const defaultProbeConcurrency = 16

// Reconciler computes diagnostics from a closed set of file indexes. It never
// modifies the indexes, so running it twice yields the same diagnostics.
type Reconciler struct {
	Prober      fsprobe.Prober
	Threshold   float64
	Ignore      []string // target paths containing any of these are skipped
	Concurrency int
	Logger      *slog.Logger
}

// fileMarks are the known anchors of one file.
type fileMarks struct {
	anchors sets.Ordered[string]
	opaque  bool
}

func (m *fileMarks) exists() bool { return m.anchors.Has("") }

// global is the merged landmark view, owned by a single Run.
type global struct {
	files map[string]*fileMarks
	order sets.Ordered[string]
}

func (g *global) add(k linkindex.Key) *fileMarks {
	m, ok := g.files[k.File]
	if !ok {
		m = &fileMarks{}
		g.files[k.File] = m
		g.order.Add(k.File)
	}
	m.anchors.Add(k.Anchor)
	return m
}

func (g *global) has(k linkindex.Key) bool {
	m, ok := g.files[k.File]
	if !ok {
		return false
	}
	return m.anchors.Has(k.Anchor) || (m.opaque && m.exists())
}

// Run reconciles indexes, given in reporting order.
func (r *Reconciler) Run(ctx context.Context, indexes []*linkindex.FileIndex) ([]Diagnostic, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	g := r.mergeLandmarks(indexes)
	refs := r.references(indexes, logger)

	if err := r.probe(ctx, g, refs); err != nil {
		return nil, err
	}

	var out []Diagnostic
	for _, rec := range refs {
		if g.has(rec.Key) {
			continue
		}
		out = append(out, r.diagnose(g, rec)...)
	}

	rank := make(map[string]int, len(indexes))
	for i, idx := range indexes {
		if _, ok := rank[idx.Path()]; !ok {
			rank[idx.Path()] = i
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if ri, rj := rank[out[i].File], rank[out[j].File]; ri != rj {
			return ri < rj
		}
		a, b := out[i].Position, out[j].Position
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
	return out, nil
}

// mergeLandmarks unions all landmarks; later documents augment earlier ones.
func (r *Reconciler) mergeLandmarks(indexes []*linkindex.FileIndex) *global {
	g := &global{files: make(map[string]*fileMarks)}
	for _, idx := range indexes {
		for _, k := range idx.Landmarks() {
			g.add(k)
		}
		if idx.Opaque() {
			g.add(linkindex.FileKey(idx.Path())).opaque = true
		}
	}
	return g
}

// record is one document's references to one key.
type record struct {
	Origin string
	linkindex.Reference
}

// references flattens per-document references into origin records, dropping
// ignored targets.
func (r *Reconciler) references(indexes []*linkindex.FileIndex, logger *slog.Logger) []record {
	var out []record
	for _, idx := range indexes {
		for _, ref := range idx.References() {
			if pattern, ok := r.ignored(ref.Key.File); ok {
				logger.Info("Ignoring link to ignored path",
					logfields.File(idx.Path()),
					logfields.Target(ref.Key.File),
					slog.String("pattern", pattern))
				continue
			}
			out = append(out, record{Origin: idx.Path(), Reference: ref})
		}
	}
	return out
}

func (r *Reconciler) ignored(path string) (string, bool) {
	for _, pattern := range r.Ignore {
		if pattern != "" && strings.Contains(filepath.ToSlash(path), pattern) {
			return pattern, true
		}
	}
	return "", false
}

// probe checks existence of referenced files that no document defined and
// records the found ones as file landmarks.
func (r *Reconciler) probe(ctx context.Context, g *global, refs []record) error {
	var pending sets.Ordered[string]
	for _, rec := range refs {
		if _, ok := g.files[rec.Key.File]; !ok {
			pending.Add(rec.Key.File)
		}
	}
	if pending.Len() == 0 || r.Prober == nil {
		return nil
	}

	limit := r.Concurrency
	if limit <= 0 {
		limit = defaultProbeConcurrency
	}

	var mu sync.Mutex
	found := sets.New[string]()
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)
	for _, path := range pending.Items() {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if r.Prober.Exists(path) {
				mu.Lock()
				found.Add(path)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	for _, path := range pending.Items() {
		if found.Has(path) {
			g.add(linkindex.FileKey(path))
		}
	}
	return nil
}

func (r *Reconciler) diagnose(g *global, rec record) []Diagnostic {
	base := ""
	if rec.Origin != "" {
		base = filepath.Dir(rec.Origin)
	}
	rel := relative(base, rec.Key.File)

	var message string
	var rule Rule
	var target string
	var candidates []string

	if rec.Key.Anchor == "" {
		rule = RuleMissingFile
		message = "Link to unknown file: `" + rel + "`"
		target = rel
		for _, file := range g.order.Items() {
			if g.files[file].exists() {
				candidates = append(candidates, relative(base, file))
			}
		}
	} else {
		rule = RuleMissingHeading
		message = "Link to unknown heading"
		if rec.Key.File != rec.Origin {
			rule = RuleMissingHeadingInFile
			message += " in `" + rel + "`"
		}
		message += ": `" + rec.Key.Anchor + "`"
		target = rec.Key.Anchor
		if m, ok := g.files[rec.Key.File]; ok && m.exists() {
			for _, anchor := range m.anchors.Items() {
				if anchor != "" {
					candidates = append(candidates, anchor)
				}
			}
		}
	}

	threshold := r.Threshold
	if threshold <= 0 {
		threshold = suggest.DefaultThreshold
	}
	suggestion, ok := suggest.Propose(target, candidates, threshold)
	if ok {
		message += ". Did you mean `" + suggestion + "`"
	}

	out := make([]Diagnostic, 0, len(rec.Nodes))
	for _, node := range rec.Nodes {
		out = append(out, Diagnostic{
			Message:    message,
			Rule:       rule,
			File:       rec.Origin,
			Position:   node.Position,
			URL:        node.URL,
			Target:     rec.Key,
			Suggestion: suggestion,
		})
	}
	return out
}

// relative renders path as seen from dir, with forward slashes.
func relative(dir, path string) string {
	if dir == "" {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
