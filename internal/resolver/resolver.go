// Package resolver expands requested item references into the transitive
// closure of their catalog dependencies: an ordered, deduplicated list with
// theme items first, tolerant of individual fetch failures.
package resolver

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/forgeui/forgeui/internal/catalog"
	"github.com/forgeui/forgeui/internal/logger"
	"github.com/forgeui/forgeui/internal/refname"
)

// IndexSentinel is the pseudo-item that stands for a style's entry point.
// Requesting it with a configured base color pulls the matching color theme
// in ahead of everything else.
const IndexSentinel = "index"

// CatalogClient is the fetch surface the resolver depends on.
type CatalogClient interface {
	FetchItem(ctx context.Context, ref string) (*catalog.Item, error)
	FetchBaseColor(ctx context.Context, name string) (*catalog.BaseColor, error)
}

// Options carries the project-configuration signals resolution depends on.
type Options struct {
	BaseColor string
}

// Tree is the resolved output: a flat, deduplicated item list in merge order.
type Tree struct {
	Items []*catalog.Item
}

// Names returns the item names in resolution order.
func (t *Tree) Names() []string {
	names := make([]string, 0, len(t.Items))
	for _, item := range t.Items {
		names = append(names, item.Name)
	}
	return names
}

// Resolver computes dependency closures through a catalog client.
type Resolver struct {
	client CatalogClient
	log    *logger.Logger
}

// New creates a Resolver.
func New(client CatalogClient, log *logger.Logger) *Resolver {
	return &Resolver{client: client, log: log.WithComponent("resolver")}
}

// Resolve expands refs into the full dependency closure.
//
// Direct references (URLs and local manifests) are fetched concurrently;
// everything else drains through an explicit worklist with a visited set
// keyed by name, so cyclic dependency graphs terminate and every name is
// fetched at most once. A failed fetch becomes an unresolved placeholder
// rather than aborting the request; resolution fails only when nothing at
// all could be resolved.
func (r *Resolver) Resolve(ctx context.Context, refs []string, opts Options) (*Tree, error) {
	type classified struct {
		ref  string
		kind refname.Kind
	}

	direct := make([]classified, 0, len(refs))
	names := make([]string, 0, len(refs))
	sentinel := false

	for _, ref := range refs {
		kind, err := refname.Classify(ref)
		if err != nil {
			return nil, err
		}
		switch kind {
		case refname.KindURL, refname.KindLocalFile:
			direct = append(direct, classified{ref: ref, kind: kind})
		default:
			if ref == IndexSentinel {
				sentinel = true
			}
			names = append(names, ref)
		}
	}

	// Direct references are read-only and independent; fetch them together.
	directItems := make([]*catalog.Item, len(direct))
	var g errgroup.Group
	for i, c := range direct {
		g.Go(func() error {
			item, err := r.client.FetchItem(ctx, c.ref)
			if err != nil {
				r.log.WithFields(map[string]any{"ref": c.ref}).Error(err, "direct fetch failed; using placeholder")
				item = catalog.Placeholder(c.ref)
			}
			directItems[i] = item
			return nil
		})
	}
	_ = g.Wait()

	visited := make(map[string]bool)
	var ordered []*catalog.Item
	var worklist []string

	enqueue := func(dep string) {
		if !visited[dep] {
			visited[dep] = true
			worklist = append(worklist, dep)
		}
	}

	for _, item := range directItems {
		if visited[item.Name] {
			continue
		}
		visited[item.Name] = true
		ordered = append(ordered, item)
		for _, dep := range item.RegistryDependencies {
			enqueue(dep)
		}
	}
	for _, name := range names {
		enqueue(name)
	}

	for len(worklist) > 0 {
		ref := worklist[0]
		worklist = worklist[1:]

		item, err := r.client.FetchItem(ctx, ref)
		if err != nil {
			r.log.WithFields(map[string]any{"ref": ref}).Error(err, "fetch failed; using placeholder")
			item = catalog.Placeholder(ref)
		}
		ordered = append(ordered, item)

		for _, dep := range item.RegistryDependencies {
			enqueue(dep)
		}
	}

	if sentinel && opts.BaseColor != "" {
		color, err := r.client.FetchBaseColor(ctx, opts.BaseColor)
		if err != nil {
			r.log.WithFields(map[string]any{"color": opts.BaseColor}).Error(err, "base color fetch failed; continuing without theme seed")
		} else {
			ordered = append([]*catalog.Item{color.ThemeItem()}, ordered...)
		}
	}

	// Themes sort ahead of everything else so later, more specific items can
	// override base tokens during the merge. The sort is stable: discovery
	// order breaks ties.
	sort.SliceStable(ordered, func(i, j int) bool {
		return themeRank(ordered[i]) < themeRank(ordered[j])
	})

	deduped := make([]*catalog.Item, 0, len(ordered))
	seen := make(map[string]bool, len(ordered))
	resolvedAny := false
	for _, item := range ordered {
		if seen[item.Name] {
			continue
		}
		seen[item.Name] = true
		deduped = append(deduped, item)
		if !item.Unresolved {
			resolvedAny = true
		}
	}

	if len(deduped) == 0 || !resolvedAny {
		return nil, fmt.Errorf("unable to resolve any of the requested references: %v", refs)
	}

	return &Tree{Items: deduped}, nil
}

func themeRank(item *catalog.Item) int {
	if item.Kind == catalog.KindTheme {
		return 0
	}
	return 1
}
