package mbean

// Attribute is a single named value describing part of a bean's state.
// A nil Value models an attribute the bean reported as absent.
type Attribute struct {
	Name  string
	Value any
}

// AttributeList is an ordered sequence of attributes. Order matters: when
// the list is flattened, later entries overwrite earlier ones that map to
// the same key.
type AttributeList []Attribute

// Get returns the first attribute with the given name.
func (l AttributeList) Get(name string) (Attribute, bool) {
	for _, a := range l {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// ObjectInstance pairs a bean identity with the class of the component it
// identifies.
type ObjectInstance struct {
	Name  ObjectName
	Class string
}
