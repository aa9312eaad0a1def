package twin

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Gate validates a draft before anything is written.
type Gate interface {
	Validate(draft any) error
}

// Relation is a part of a twin stored separately from its base record.
type Relation[D, T any] struct {
	Name string
	// Present reports whether the draft carries the relation. Nil means always.
	Present func(draft D) bool
	// Attach stores the relation for an already saved twin.
	Attach func(ctx context.Context, twin T, draft D) error
	// Bind copies the relation onto the twin returned to the caller.
	Bind func(twin *T, draft D)
}

func (r Relation[D, T]) present(draft D) bool {
	return r.Present == nil || r.Present(draft)
}

// Kind creates twins of D drafts. The algorithm is the same for every
// entity; a Kind only supplies the storage operations and relations.
type Kind[D, T any] struct {
	Name string
	// Save writes the base record and returns it with its new identity.
	Save func(ctx context.Context, draft D) (T, error)
	// Read reads a twin back into a draft, relations included.
	Read      func(ctx context.Context, twin T) (D, error)
	Relations []Relation[D, T]
}

// Create validates draft, saves it and attaches its relations concurrently.
//
// Attach runs after the base record is saved and nothing is rolled back:
// when an attach fails the base twin stays in the store and the error is
// returned. Every attach is waited for before Create returns.
func (k Kind[D, T]) Create(ctx context.Context, gate Gate, draft D) (T, error) {
	var zero T

	if gate != nil {
		if err := gate.Validate(draft); err != nil {
			return zero, &ValidationError{Kind: k.Name, Err: err}
		}
	}

	twin, err := k.Save(ctx, draft)
	if err != nil {
		return zero, err
	}

	// A plain group: one failed attach must not cancel its siblings.
	var g errgroup.Group
	for _, rel := range k.Relations {
		rel := rel
		if !rel.present(draft) {
			continue
		}
		g.Go(func() error {
			return rel.Attach(ctx, twin, draft)
		})
	}
	if err := g.Wait(); err != nil {
		return zero, err
	}

	for _, rel := range k.Relations {
		if rel.Bind != nil && rel.present(draft) {
			rel.Bind(&twin, draft)
		}
	}
	return twin, nil
}

// Clone creates a new twin with the current values of from.
func (k Kind[D, T]) Clone(ctx context.Context, gate Gate, from T) (T, error) {
	draft, err := k.Read(ctx, from)
	if err != nil {
		var zero T
		return zero, err
	}
	return k.Create(ctx, gate, draft)
}
