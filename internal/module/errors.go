package module

import "fmt"

// InvalidModuleAstError is returned when a module's tree is missing or holds
// content that cannot be placed in a module function body.
type InvalidModuleAstError struct {
	ModuleID ID
	Reason   string
}

func (e *InvalidModuleAstError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid module ast for %s: %s", e.ModuleID, e.Reason)
	}
	return fmt.Sprintf("invalid module ast for %s", e.ModuleID)
}
