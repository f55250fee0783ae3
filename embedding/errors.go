package embedding

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized is returned when a query is issued against an index
	// that has not been built.
	ErrNotInitialized = errors.New("embedding: index not initialized")

	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("embedding: k must be positive")
)

// ErrIntegrity indicates that the binary vector payload disagrees with the
// vocabulary it is paired with. No partial load is accepted.
type ErrIntegrity struct {
	VocabularyWords int // words in the vocabulary list
	DeclaredVectors int // vector rows declared by the payload
}

func (e *ErrIntegrity) Error() string {
	return fmt.Sprintf("embedding: dataset integrity: vocabulary has %d words but payload declares %d vectors",
		e.VocabularyWords, e.DeclaredVectors)
}

// ErrInvalidDimension indicates an invalid configured dimension.
type ErrInvalidDimension struct {
	Dimension int
}

func (e *ErrInvalidDimension) Error() string {
	return fmt.Sprintf("embedding: invalid dimension: %d", e.Dimension)
}
