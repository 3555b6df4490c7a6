package directory

// Derivations exposes the stage-1 recomputation count to tests.
func (v *View) Derivations() int { return v.derivations }
