package collection

import "fmt"

// Descriptor is the server's canonical view of a collection: its name and options.
type Descriptor struct {
	Name    string
	Options Options
}

// DescriptorFromMap parses a findCollections entry: {"name": ..., "options": {...}}.
// A bare string entry (findCollections without explain) yields empty options.
func DescriptorFromMap(raw any) (Descriptor, error) {
	switch v := raw.(type) {
	case string:
		return Descriptor{Name: v, Options: Options{}}, nil
	case map[string]any:
		name, _ := v["name"].(string)
		if name == "" {
			return Descriptor{}, fmt.Errorf("collection descriptor without name")
		}
		var opts Options
		if rawOpts, ok := v["options"].(map[string]any); ok {
			parsed, err := FromMap(rawOpts)
			if err != nil {
				return Descriptor{}, fmt.Errorf("collection %q options: %w", name, err)
			}
			opts = parsed
		}
		return Descriptor{Name: name, Options: opts}, nil
	default:
		return Descriptor{}, fmt.Errorf("collection descriptor must be an object or a string, got %T", raw)
	}
}

// ToMap renders {"name": ..., "options": {...}}.
func (d Descriptor) ToMap() map[string]any {
	return map[string]any{
		"name":    d.Name,
		"options": d.Options.ToMap(),
	}
}

// Equal compares name and normalized options.
func (d Descriptor) Equal(o Descriptor) bool {
	return d.Name == o.Name && d.Options.Equal(o.Options)
}

// ContainsDescriptor reports whether list holds a descriptor equal to d.
// List order carries no meaning.
func ContainsDescriptor(list []Descriptor, d Descriptor) bool {
	for _, item := range list {
		if item.Equal(d) {
			return true
		}
	}
	return false
}

// Names projects descriptor names, keeping list order.
func Names(list []Descriptor) []string {
	out := make([]string, len(list))
	for i, d := range list {
		out[i] = d.Name
	}
	return out
}
