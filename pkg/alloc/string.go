package alloc

import (
	"unicode/utf8"

	vaulterrors "github.com/memparanoid/redoubt-go/internal/errors"
)

// RedoubtString is a RedoubtVec[byte] carrying a UTF-8 invariant.
type RedoubtString struct {
	vec RedoubtVec[byte]
}

// NewRedoubtString returns an empty string.
func NewRedoubtString() *RedoubtString {
	return &RedoubtString{}
}

// String returns the current contents.
func (s *RedoubtString) String() string { return string(s.vec.Slice()) }

// Len returns the byte length of the current contents.
func (s *RedoubtString) Len() int { return s.vec.Len() }

// Replace validates src as UTF-8, installs it as the string's content, and
// zeroizes src afterward. The previous content is zeroized as part of the
// replacement.
func (s *RedoubtString) Replace(src *[]byte) error {
	if !utf8.Valid(*src) {
		return vaulterrors.NewOpError("alloc.RedoubtString.Replace", vaulterrors.ErrPreconditionViolated)
	}
	s.vec.Release()
	s.vec.ExtendFromMutSlice(*src)
	return nil
}

// Release zeroizes the string's backing storage.
func (s *RedoubtString) Release() {
	s.vec.Release()
}
