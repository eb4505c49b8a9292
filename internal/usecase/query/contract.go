package query

import "github.com/kailas-cloud/topiclens/internal/domain/record"

// Inventory is the record store contract the query engine reads from.
type Inventory interface {
	Joined() []record.Joined
	Owners() []string
	Topics(owner string) []string
	Consumers() []string
}
