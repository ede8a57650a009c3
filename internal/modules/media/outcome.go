package media

// Outcome is the result of duplicating one media file. It is one of Copied,
// Skipped or Reused.
type Outcome interface {
	// Source is the URL found on the source course.
	Source() string
	// Target is the URL the copied course ends up referencing.
	Target() string
	isOutcome()
}

// Copied means a new object was written for the target tenant.
type Copied struct {
	SourceURL string
	NewURL    string
}

// Skipped means the target object already existed and was reused as is.
type Skipped struct {
	SourceURL   string
	ExistingURL string
}

// Reused means the file could not be copied and the copy keeps pointing at
// the source tenant's object.
type Reused struct {
	SourceURL string
	Err       error
}

func (o Copied) Source() string { return o.SourceURL }
func (o Copied) Target() string { return o.NewURL }
func (Copied) isOutcome()       {}

func (o Skipped) Source() string { return o.SourceURL }
func (o Skipped) Target() string { return o.ExistingURL }
func (Skipped) isOutcome()       {}

func (o Reused) Source() string { return o.SourceURL }
func (o Reused) Target() string { return o.SourceURL }
func (Reused) isOutcome()       {}

// Summary aggregates the outcomes of one course's media duplication.
type Summary struct {
	Outcomes []Outcome
	Copied   int
	Skipped  int
	Reused   int
	// Rewritten counts rows whose URL fields were updated.
	Rewritten int
}

// Assets is the number of files now owned by the target tenant.
func (s Summary) Assets() int { return s.Copied + s.Skipped }

func (s *Summary) add(o Outcome) {
	s.Outcomes = append(s.Outcomes, o)
	switch o.(type) {
	case Copied:
		s.Copied++
	case Skipped:
		s.Skipped++
	case Reused:
		s.Reused++
	}
}
