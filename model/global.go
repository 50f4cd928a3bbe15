package model

// Global declares scope-wide default attributes. Every attribute listed
// in a global is mandatory for each trace or event of the target scope;
// instances omitting such a key inherit the global's value.
type Global struct {
	Scope      Scope
	Attributes Attributes
}

// Fill merges the global's defaults into attrs: every key declared by
// the global but absent from attrs is inserted with its default value.
// Declaration order of attrs is preserved; defaults append after the
// instance's own attributes.
func (g Global) Fill(attrs *Attributes) error {
	for _, def := range g.Attributes.All() {
		if attrs.Has(def.Key) {
			continue
		}
		if err := attrs.Insert(def); err != nil {
			return err
		}
	}
	return nil
}

// Declares reports whether the global declares key as mandatory.
func (g Global) Declares(key string) bool {
	return g.Attributes.Has(key)
}
