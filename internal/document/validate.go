package document

import (
	"errors"
	"fmt"
)

// ErrInvalidDocument is wrapped by every ValidationError.
var ErrInvalidDocument = errors.New("invalid document")

// ValidationError reports the block that violates a document invariant.
type ValidationError struct {
	Path   Path
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid document at %s: %s", e.Path, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidDocument
}

// Validate checks the document invariants and returns the first violation.
func (d Document) Validate() error {
	if len(d.Blocks) == 0 {
		return &ValidationError{Path: Path{}, Reason: "document has no blocks"}
	}
	for i, b := range d.Blocks {
		path := Path{i}
		switch {
		case !b.Type.Valid():
			return &ValidationError{Path: path, Reason: fmt.Sprintf("unknown block type %q", b.Type)}
		case b.Type == ListItem:
			return &ValidationError{Path: path, Reason: "list item outside a list"}
		case b.IsList():
			if err := validateList(path, b); err != nil {
				return err
			}
		default:
			if err := validateText(path, b); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateList(path Path, b Block) error {
	if len(b.Runs) != 0 {
		return &ValidationError{Path: path, Reason: "list holds text runs"}
	}
	if len(b.Items) == 0 {
		return &ValidationError{Path: path, Reason: "list has no items"}
	}
	for j, item := range b.Items {
		ipath := Path{path[0], j}
		if item.Type != ListItem {
			return &ValidationError{Path: ipath, Reason: fmt.Sprintf("list child has type %q", item.Type)}
		}
		if err := validateText(ipath, item); err != nil {
			return err
		}
	}
	return nil
}

func validateText(path Path, b Block) error {
	if len(b.Items) != 0 {
		return &ValidationError{Path: path, Reason: fmt.Sprintf("%s holds child blocks", b.Type)}
	}
	if len(b.Runs) == 0 {
		return &ValidationError{Path: path, Reason: fmt.Sprintf("%s has no text runs", b.Type)}
	}
	return nil
}
