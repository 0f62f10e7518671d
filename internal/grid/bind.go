package grid

// Persist writes pager moves back into the controller's store so page and
// size survive alongside the filters.
func (v *View) Persist(defaultSize int) {
	v.Pager.OnChange(func(int, int) {
		v.Controller.SetPaging(v.Pager.Params(defaultSize))
	})
}

// Sync re-reads page and size from the store. Filter changes clear the
// persisted page, and Sync carries that back into the pager.
func (v *View) Sync(defaultSize int) {
	v.Pager.Restore(v.Controller.Snapshot(), defaultSize)
}
