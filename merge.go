package atrium

// Merge prepends the blocks of base to the blocks of the same name in
// overlay and returns overlay. Names only in base are appended to overlay.
// Blocks sharing a name are concatenated, never merged field by field.
func Merge(base, overlay *Table) *Table {
	if overlay == nil {
		overlay = NewTable()
	}
	if base == nil {
		return overlay
	}

	base.Range(func(name string, blocks []*Block) bool {
		existing := overlay.Get(name)
		combined := make([]*Block, 0, len(blocks)+len(existing))
		combined = append(combined, blocks...)
		combined = append(combined, existing...)
		overlay.Set(name, combined)
		return true
	})

	return overlay
}
