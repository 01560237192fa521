// Package token carries source positions through the semantic pipeline.
//
// Tokenization itself happens upstream of this module; every AST node
// produced by that stage is expected to carry a Pos so that diagnostics
// and generated code can be traced back to source.
package token

import "fmt"

// Pos identifies a single point in a source file.
type Pos struct {
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid reports whether p carries a real source location.
func (p Pos) IsValid() bool {
	return p.Line > 0
}
