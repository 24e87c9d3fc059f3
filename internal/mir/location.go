package mir

import (
	"fmt"
)

// Location identifies one program point: a statement index inside a block.
// Statement == len(block.Stmts) addresses the terminator. Locations are
// totally ordered within a block only.
type Location struct {
	Block     BlockID
	Statement uint32
}

func (l Location) String() string {
	return fmt.Sprintf("bb%d[%d]", l.Block, l.Statement)
}
