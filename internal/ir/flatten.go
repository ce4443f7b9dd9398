package ir

// FlattenSequence merges sequences nested directly inside a sequence into a
// single flat sequence. Other node types pass through unchanged. Flattening
// is pure canonicalization and never crosses a Branch boundary.
func FlattenSequence(n Node) Node {
	seq, ok := n.(*Sequence)
	if !ok {
		return n
	}

	var flattened []Node
	for _, child := range seq.Children {
		if nested, ok := child.(*Sequence); ok {
			inner := FlattenSequence(nested).(*Sequence)
			flattened = append(flattened, inner.Children...)
			continue
		}
		flattened = append(flattened, child)
	}

	return &Sequence{Children: flattened}
}

// FlattenConcurrent merges concurrent groups nested directly inside a
// concurrent group into a single flat group, mirroring FlattenSequence.
func FlattenConcurrent(n Node) Node {
	con, ok := n.(*Concurrent)
	if !ok {
		return n
	}

	var flattened []Node
	for _, child := range con.Children {
		if nested, ok := child.(*Concurrent); ok {
			inner := FlattenConcurrent(nested).(*Concurrent)
			flattened = append(flattened, inner.Children...)
			continue
		}
		flattened = append(flattened, child)
	}

	return &Concurrent{Children: flattened}
}
