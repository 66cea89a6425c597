package session

import (
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-seqnet/pkg/attributes"
	"github.com/dd0wney/cluso-seqnet/pkg/logging"
	"github.com/dd0wney/cluso-seqnet/pkg/views"
)

// ErrNoAttributes is returned by view and category operations before an attribute
// table is uploaded.
var ErrNoAttributes = errors.New("no attribute data loaded")

// AddView creates a view and reclassifies the current result. The returned view is a
// snapshot; Views returns fresh counts.
func (s *Session) AddView(req views.Request) (*views.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.table == nil {
		return nil, ErrNoAttributes
	}
	v, err := s.views.Add(req)
	if err != nil {
		return nil, err
	}
	s.log.Info("view created", logging.View(v.ID), logging.String("name", v.Name))
	s.reclassify()
	return v.Clone(), nil
}

// AddViews creates all of reqs or none of them.
func (s *Session) AddViews(reqs []views.Request) ([]*views.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.table == nil {
		return nil, ErrNoAttributes
	}
	created, err := s.views.AddAll(reqs)
	if err != nil {
		return nil, err
	}
	s.log.Info("views created", logging.Int("count", len(created)))
	s.reclassify()
	out := make([]*views.View, len(created))
	for i, v := range created {
		out[i] = v.Clone()
	}
	return out, nil
}

// AddCategoryViews creates one view per combination of the selected categories' values.
func (s *Session) AddCategoryViews(selected []string) ([]*views.View, error) {
	cats := s.Categories()
	if cats == nil {
		return nil, ErrNoAttributes
	}
	reqs, err := views.Permutations(cats, selected)
	if err != nil {
		return nil, err
	}
	return s.AddViews(reqs)
}

// DeleteView removes a view and reclassifies.
func (s *Session) DeleteView(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.views.Delete(id); err != nil {
		return err
	}
	s.log.Info("view deleted", logging.View(id))
	s.reclassify()
	return nil
}

// SetViewColor recolours a view; node colours are refreshed without re-matching.
func (s *Session) SetViewColor(id, color string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.views.SetColor(id, color); err != nil {
		return err
	}
	if s.current != nil && s.current.Classification != nil {
		next := *s.current
		cl := *s.current.Classification
		cl.Colors = make(map[string]string, len(s.current.Classification.Colors))
		cl.Recolor(s.views)
		next.Classification = &cl
		s.current = &next
	}
	return nil
}

// EditCategory applies fn to a category, for interval edits. Views already created
// keep the ranges they were created with.
func (s *Session) EditCategory(name string, fn func(*attributes.Category) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.table == nil {
		return ErrNoAttributes
	}
	c, ok := s.table.Categories.Get(name)
	if !ok {
		return fmt.Errorf("%w: %q", attributes.ErrUnknownCategory, name)
	}
	err := fn(c)
	if c.Invalid() {
		s.log.Warn("category intervals invalid", logging.String("category", name), logging.String("reason", c.Reason()))
	}
	return err
}

// SetKind changes a category's kind. Existing views are dropped since their selectors
// were bound to the old kind.
func (s *Session) SetKind(name string, k attributes.Kind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.table == nil {
		return ErrNoAttributes
	}
	if err := s.table.Categories.SetKind(name, k); err != nil {
		return err
	}
	s.dropViews()
	return nil
}

// MarkZip flags the zip category and refreshes the zip roll-up.
func (s *Session) MarkZip(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.table == nil {
		return ErrNoAttributes
	}
	c, ok := s.table.Categories.Get(name)
	if !ok {
		return fmt.Errorf("%w: %q", attributes.ErrUnknownCategory, name)
	}
	kindChanged := c.Kind != attributes.KindCategorical
	if err := s.table.Categories.MarkZip(name); err != nil {
		return err
	}
	if kindChanged {
		s.dropViews()
		return nil
	}
	s.reclassify()
	return nil
}

func (s *Session) dropViews() {
	if n := s.views.Len(); n > 0 {
		s.log.Warn("category kind changed, views dropped", logging.Int("views", n))
	}
	s.views.Reset(s.table.Categories)
	s.reclassify()
}
