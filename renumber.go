package pdfink

// Page renumbering. When pages are deleted or reordered in the backing
// document, annotation page numbers must be remapped in the same logical
// transaction, or not at all. The session controller mutates the document
// bytes first and calls these methods only on success.

// RemovePage removes every annotation on the 1-based page and decrements
// the page number of annotations on later pages. One history entry is
// pushed. numPages is the page count before removal.
func (s *Store) RemovePage(page, numPages int) error {
	if page < 1 || page > numPages {
		return ErrPageOutOfRange
	}
	kept := s.annotations[:0]
	for _, a := range s.annotations {
		c := a.GetCommon()
		switch {
		case c.Page == page:
			if s.selected == c.ID {
				s.selected = ""
			}
			continue
		case c.Page > page:
			c.Page--
		}
		kept = append(kept, a)
	}
	s.annotations = kept
	s.push()
	return nil
}

// MovePage remaps annotation page numbers for a page move from 0-based
// index old to index new, mirroring the document mutator's
// remove-then-insert semantics:
//
//   - annotations on page old+1 move to page new+1;
//   - moving forward, annotations on pages (old+1, new+1] shift down 1;
//   - moving backward, annotations on pages [new+1, old+1) shift up 1.
//
// One history entry is pushed. numPages is the current page count.
func (s *Store) MovePage(old, new, numPages int) error {
	if old < 0 || old >= numPages || new < 0 || new >= numPages {
		return ErrPageOutOfRange
	}
	if old == new {
		return nil
	}
	from, to := old+1, new+1
	for _, a := range s.annotations {
		c := a.GetCommon()
		switch {
		case c.Page == from:
			c.Page = to
		case old < new && c.Page > from && c.Page <= to:
			c.Page--
		case old > new && c.Page >= to && c.Page < from:
			c.Page++
		}
	}
	s.push()
	return nil
}
