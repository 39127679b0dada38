package analysis

import (
	"github.com/conduit-lang/propkit/internal/compiler/errors"
)

// duplicateDetector tracks canonical keys for one scan pass.
// Symbolic ids are compared by spelled text, so two spellings of the same
// constant are not detected.
type duplicateDetector struct {
	first map[string]ScannedMember
}

func newDuplicateDetector() *duplicateDetector {
	return &duplicateDetector{first: make(map[string]ScannedMember)}
}

// admit records s and returns true on the first sighting of its key. A repeat
// raises an error on s and a note on the first occurrence, and returns false.
// When one annotation covers both members, as in `X, Y float64`, the pair is
// reported on the member names instead of the shared comment.
func (d *duplicateDetector) admit(s ScannedMember, r *errors.Reporter) bool {
	prev, seen := d.first[s.ID.Key]
	if !seen {
		d.first[s.ID.Key] = s
		return true
	}

	if s.Annotation == prev.Annotation {
		r.Report(errors.NewSharedMemberAnnotation(s.Member, s.ID.Key, s.Member.Name, prev.Member.Name))
		r.Report(errors.NewDuplicateMemberIDOrigin(prev.Member, s.ID.Key, prev.Member.Name))
		return false
	}

	r.Report(errors.NewDuplicateMemberID(s.Annotation, s.ID.Key, s.Member.Name, prev.Member.Name))
	r.Report(errors.NewDuplicateMemberIDOrigin(prev.Annotation, s.ID.Key, prev.Member.Name))
	return false
}
