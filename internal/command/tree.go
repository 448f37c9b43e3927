package command

// Flatten emits every node of the tree in pre-order: each parent followed by
// its children in their declared order. The traversal is iterative with an
// explicit stack so pathologically deep trees cannot overflow the call stack.
func Flatten(tree []*Command) []*Command {
	flat := make([]*Command, 0, len(tree))
	stack := make([]*Command, 0, len(tree))
	for i := len(tree) - 1; i >= 0; i-- {
		stack = append(stack, tree[i])
	}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == nil {
			continue
		}
		flat = append(flat, node)
		for i := len(node.Children) - 1; i >= 0; i-- {
			stack = append(stack, node.Children[i])
		}
	}
	return flat
}

// FindByID returns the first node with the given id in pre-order. A miss is a
// routine outcome, reported through the boolean rather than an error.
func FindByID(tree []*Command, id string) (*Command, bool) {
	if id == "" {
		return nil, false
	}
	return find(tree, func(c *Command) bool { return c.ID == id })
}

// FindByPrefix returns the first action or portal whose prefix list contains
// an exact match for the supplied token.
func FindByPrefix(tree []*Command, token string) (*Command, bool) {
	if token == "" {
		return nil, false
	}
	return find(tree, func(c *Command) bool {
		if c.Kind != KindAction && c.Kind != KindPortal {
			return false
		}
		for _, p := range c.Prefixes {
			if p == token {
				return true
			}
		}
		return false
	})
}

func find(tree []*Command, match func(*Command) bool) (*Command, bool) {
	stack := make([]*Command, 0, len(tree))
	for i := len(tree) - 1; i >= 0; i-- {
		stack = append(stack, tree[i])
	}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == nil {
			continue
		}
		if match(node) {
			return node, true
		}
		for i := len(node.Children) - 1; i >= 0; i-- {
			stack = append(stack, node.Children[i])
		}
	}
	return nil, false
}
