package engine

import (
	"gw2/crafter/internal/domain"
)

// AccumulateMaterials flattens a tree into per-item totals. Only leaves
// contribute: an internal node is fully replaced by its decomposition.
// Leaves sharing an item id across branches are merged by summing their
// quantities, so diamond dependencies count once.
func AccumulateMaterials(root *domain.CraftingNode) map[int]*domain.MaterialRequirement {
	acc := make(map[int]*domain.MaterialRequirement)

	root.Walk(func(n *domain.CraftingNode) {
		if !n.IsLeaf() {
			return
		}

		if req, ok := acc[n.ItemID]; ok {
			req.Quantity += n.Quantity
			return
		}

		acc[n.ItemID] = &domain.MaterialRequirement{
			ItemID:       n.ItemID,
			Name:         n.ItemName,
			Quantity:     n.Quantity,
			CanBeCrafted: n.CanBeCrafted,
			IsCurrency:   n.IsCurrency,
		}
	})

	return acc
}
