package model

import "fmt"

// DefaultDetails is stored when an item is added without details.
const DefaultDetails = "No details provided."

// Item is the domain model for a todo entry.
type Item struct {
	ID        int64
	Name      string
	Details   string
	Completed bool
}

// String renders the single-line listing form: "name: details | Finished[false]".
func (it Item) String() string {
	return fmt.Sprintf("%s: %s | Finished[%t]", it.Name, it.Details, it.Completed)
}
