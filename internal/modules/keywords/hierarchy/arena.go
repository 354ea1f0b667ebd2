package hierarchy

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/seoplanner-backend/internal/domain/seo"
)

// MaxDepth bounds every parent walk so corrupted data cannot loop forever.
const MaxDepth = 64

var ErrTooDeep = errors.New("cluster hierarchy too deep")

// Arena indexes the parent pointer of every known cluster.
type Arena struct {
	parents map[uuid.UUID]*uuid.UUID
}

func NewArena(clusters []*seo.Cluster) *Arena {
	a := &Arena{parents: make(map[uuid.UUID]*uuid.UUID, len(clusters))}
	for _, c := range clusters {
		if c == nil {
			continue
		}
		a.Put(c.ID, c.ParentClusterID)
	}
	return a
}

func (a *Arena) Put(id uuid.UUID, parent *uuid.UUID) {
	if parent != nil {
		p := *parent
		parent = &p
	}
	a.parents[id] = parent
}

func (a *Arena) Has(id uuid.UUID) bool {
	_, ok := a.parents[id]
	return ok
}

// IsDescendantOf reports whether ancestor appears on candidate's parent chain.
func (a *Arena) IsDescendantOf(candidate, ancestor uuid.UUID) (bool, error) {
	cur := candidate
	for depth := 0; depth < MaxDepth; depth++ {
		parent := a.parents[cur]
		if parent == nil {
			return false, nil
		}
		if *parent == ancestor {
			return true, nil
		}
		cur = *parent
	}
	return false, fmt.Errorf("walk from %s: %w", candidate, ErrTooDeep)
}

// ValidateParent checks that setting child's parent to parent keeps the hierarchy acyclic.
// A nil parent always passes.
func (a *Arena) ValidateParent(child uuid.UUID, parent *uuid.UUID) error {
	if parent == nil {
		return nil
	}
	if *parent == child {
		return fmt.Errorf("cluster %s cannot be its own parent: %w", child, seo.ErrCycle)
	}
	if !a.Has(*parent) {
		return fmt.Errorf("parent cluster %s: %w", *parent, seo.ErrNotFound)
	}
	under, err := a.IsDescendantOf(*parent, child)
	if err != nil {
		return err
	}
	if under {
		return fmt.Errorf("cluster %s is an ancestor of %s: %w", child, *parent, seo.ErrCycle)
	}
	if a.depth(*parent)+1 >= MaxDepth {
		return fmt.Errorf("parent %s: %w", *parent, ErrTooDeep)
	}
	return nil
}

func (a *Arena) depth(id uuid.UUID) int {
	d := 0
	cur := id
	for d < MaxDepth {
		p := a.parents[cur]
		if p == nil {
			break
		}
		cur = *p
		d++
	}
	return d
}
