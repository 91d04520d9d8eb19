package node

import "fmt"

// ViolationError reports a syntactically valid message whose payload kind
// this node must never receive. Every reply kind is illegal as input here:
// this node never sends the requests those replies would answer.
type ViolationError struct {
	Kind string
}

func (e *ViolationError) Error() string {
	return fmt.Sprintf("received unexpected %s message", e.Kind)
}
