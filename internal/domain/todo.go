package domain

// Todo is owned by exactly one user; OwnerID never changes after creation.
// CompletedAt is unix milliseconds and non-nil only while Completed is true.
type Todo struct {
	ID          string
	Text        string
	Completed   bool
	CompletedAt *int64
	OwnerID     string
}

// TodoPatch is a partial update. Nil fields are left untouched.
type TodoPatch struct {
	Text        *string
	Completed   *bool
	CompletedAt *int64
}

// Empty reports whether the patch changes nothing.
func (p TodoPatch) Empty() bool {
	return p.Text == nil && p.Completed == nil
}

// Apply writes the patch onto t.
func (p TodoPatch) Apply(t *Todo) {
	if p.Text != nil {
		t.Text = *p.Text
	}
	if p.Completed == nil {
		return
	}
	t.Completed = *p.Completed
	if t.Completed && p.CompletedAt != nil {
		at := *p.CompletedAt
		t.CompletedAt = &at
	} else if !t.Completed {
		t.CompletedAt = nil
	}
}
