package views

import (
	"fmt"
	"strings"

	"github.com/dd0wney/cluso-seqnet/pkg/attributes"
	"github.com/dd0wney/cluso-seqnet/pkg/validation"
)

// Registry holds views in definition order.
type Registry struct {
	categories *attributes.Categories
	views      []*View
	byID       map[string]*View
}

// NewRegistry creates an empty registry for the given categories.
func NewRegistry(cats *attributes.Categories) *Registry {
	return &Registry{categories: cats, byID: make(map[string]*View)}
}

// Categories returns the categories views are validated against.
func (r *Registry) Categories() *attributes.Categories { return r.categories }

// Add validates req and appends the view. An existing ID is rejected and left untouched.
func (r *Registry) Add(req Request) (*View, error) {
	v, err := build(r.categories, req)
	if err != nil {
		return nil, err
	}
	if _, exists := r.byID[v.ID]; exists {
		return nil, fmt.Errorf("%w: %s", ErrViewExists, v.ID)
	}
	r.views = append(r.views, v)
	r.byID[v.ID] = v
	return v, nil
}

// AddAll adds every request or none of them.
func (r *Registry) AddAll(reqs []Request) ([]*View, error) {
	built := make([]*View, 0, len(reqs))
	pending := make(map[string]struct{}, len(reqs))
	for _, req := range reqs {
		v, err := build(r.categories, req)
		if err != nil {
			return nil, err
		}
		_, exists := r.byID[v.ID]
		if _, dup := pending[v.ID]; exists || dup {
			return nil, fmt.Errorf("%w: %s", ErrViewExists, v.ID)
		}
		pending[v.ID] = struct{}{}
		built = append(built, v)
	}
	for _, v := range built {
		r.views = append(r.views, v)
		r.byID[v.ID] = v
	}
	return built, nil
}

// Delete removes a view.
func (r *Registry) Delete(id string) error {
	if _, ok := r.byID[id]; !ok {
		return fmt.Errorf("%w: %s", ErrViewNotFound, id)
	}
	delete(r.byID, id)
	for i, v := range r.views {
		if v.ID == id {
			r.views = append(r.views[:i], r.views[i+1:]...)
			break
		}
	}
	return nil
}

// Get returns a view by ID.
func (r *Registry) Get(id string) (*View, bool) {
	v, ok := r.byID[id]
	return v, ok
}

// List returns copies of the views in definition order. Later classifications and
// recolours do not show through them.
func (r *Registry) List() []*View {
	out := make([]*View, len(r.views))
	for i, v := range r.views {
		out[i] = v.Clone()
	}
	return out
}

// Len returns the number of views.
func (r *Registry) Len() int { return len(r.views) }

// SetColor recolours a view without reclassifying.
func (r *Registry) SetColor(id, color string) error {
	v, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrViewNotFound, id)
	}
	if err := validation.Var("color", color, "required,hexcolor"); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSelector, err)
	}
	v.Color = strings.ToLower(color)
	return nil
}

// Reset drops every view and rebinds the registry to new categories.
func (r *Registry) Reset(cats *attributes.Categories) {
	r.categories = cats
	r.views = nil
	r.byID = make(map[string]*View)
}

// Permutations builds one request per combination of the options of the selected
// categories; unselected categories are All. Colours are taken from the palette in
// order, so at most len(Palette) views can be generated at once.
func Permutations(cats *attributes.Categories, selected []string) ([]Request, error) {
	want := make(map[string]bool, len(selected))
	for _, name := range selected {
		if _, ok := cats.Get(name); !ok {
			return nil, fmt.Errorf("%w: %q", attributes.ErrUnknownCategory, name)
		}
		want[name] = true
	}

	combos := [][]string{{}}
	for _, c := range cats.All() {
		options := []string{All}
		if want[c.Name] {
			if err := c.Err(); err != nil {
				return nil, err
			}
			options = c.Options()
		}
		next := make([][]string, 0, len(combos)*len(options))
		for _, opt := range options {
			for _, prefix := range combos {
				combo := append(append(make([]string, 0, len(prefix)+1), prefix...), opt)
				next = append(next, combo)
			}
		}
		combos = next
		if len(combos) > len(Palette) {
			return nil, fmt.Errorf("%w: selection yields more than %d views", ErrTooManyViews, len(Palette))
		}
	}

	reqs := make([]Request, len(combos))
	for i, combo := range combos {
		reqs[i] = Request{Color: Palette[i], Selectors: combo}
	}
	return reqs, nil
}
