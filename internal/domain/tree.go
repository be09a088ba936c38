package domain

// CraftingNode is one node of a resolved recipe tree. Leaves (no children)
// are either genuine base materials (CanBeCrafted false), currency-style
// ingredients (IsCurrency true), or craftable items the expansion stopped
// at because of the depth or cycle guard (CanBeCrafted true, no children).
type CraftingNode struct {
	ItemID       int             `json:"item_id"`
	ItemName     string          `json:"item_name,omitempty"`
	Quantity     int64           `json:"quantity"`
	Recipe       *Recipe         `json:"recipe,omitempty"`
	Children     []*CraftingNode `json:"children,omitempty"`
	CanBeCrafted bool            `json:"can_be_crafted"`
	IsCurrency   bool            `json:"is_currency,omitempty"`
}

// IsLeaf reports whether this node was not decomposed further.
func (n *CraftingNode) IsLeaf() bool {
	return len(n.Children) == 0
}

// Walk visits the node and every descendant depth-first, children in
// ingredient order.
func (n *CraftingNode) Walk(visit func(*CraftingNode)) {
	visit(n)
	for _, child := range n.Children {
		child.Walk(visit)
	}
}

// MaterialRequirement is a flattened leaf-level need: the total Quantity of
// one item across every branch of the tree.
type MaterialRequirement struct {
	ItemID       int    `json:"item_id"`
	Name         string `json:"name,omitempty"`
	Quantity     int64  `json:"quantity"`
	CanBeCrafted bool   `json:"can_be_crafted"`
	IsCurrency   bool   `json:"is_currency,omitempty"`
}

// CraftingTree is a fully resolved recipe tree with its aggregated
// material lists. CraftableIntermediates holds leaves the expansion
// truncated (a recipe exists but was not followed); BaseMaterials holds
// leaves with no recipe at all.
type CraftingTree struct {
	Root                   *CraftingNode         `json:"root"`
	TotalMaterials         []MaterialRequirement `json:"total_materials"`
	CraftableIntermediates []MaterialRequirement `json:"craftable_intermediates"`
	BaseMaterials          []MaterialRequirement `json:"base_materials"`
}
