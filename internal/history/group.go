package history

// BeginGroup starts a group. Edits pushed until EndGroup undo as one step.
// Nested calls are ignored.
func (h *History) BeginGroup(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.grouping {
		return
	}
	h.grouping = true
	h.groupName = name
	h.groupFirst = nil
}

// EndGroup closes the group and records it if anything was pushed.
func (h *History) EndGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.grouping {
		return
	}
	h.grouping = false
	if h.groupFirst == nil {
		return
	}

	s := *h.groupFirst
	if h.groupName != "" {
		s.Label = h.groupName
	}
	h.groupFirst = nil
	h.pushLocked(s)
}

// CancelGroup drops the group without recording it.
// Note: edits already applied stay applied.
func (h *History) CancelGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.grouping = false
	h.groupFirst = nil
}

// IsGrouping returns true if a group is open.
func (h *History) IsGrouping() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.grouping
}

// Transaction runs fn inside a group. If fn fails the group is cancelled.
func (h *History) Transaction(name string, fn func() error) error {
	h.BeginGroup(name)
	if err := fn(); err != nil {
		h.CancelGroup()
		return err
	}
	h.EndGroup()
	return nil
}
