package kinetics

import "fmt"

// UnknownSpeciesError reports a reaction mapping that references a species
// missing from the declared species list.
type UnknownSpeciesError struct {
	Species  string
	Reaction int
}

func (e *UnknownSpeciesError) Error() string {
	return fmt.Sprintf("kinetics: reaction %d references undeclared species %q", e.Reaction, e.Species)
}

// DuplicateSpeciesError reports a repeated name in the species list.
type DuplicateSpeciesError struct {
	Species string
}

func (e *DuplicateSpeciesError) Error() string {
	return fmt.Sprintf("kinetics: species %q declared more than once", e.Species)
}

// InvalidReactionError reports a structurally invalid reaction, such as a
// non-positive reactant multiplicity or an empty rate-constant name.
type InvalidReactionError struct {
	Reaction int
	Reason   string
}

func (e *InvalidReactionError) Error() string {
	return fmt.Sprintf("kinetics: reaction %d invalid: %s", e.Reaction, e.Reason)
}
