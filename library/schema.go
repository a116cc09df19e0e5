package library

import "github.com/invopop/jsonschema"

// DocumentSchema describes the catalog document: an array of book objects.
func DocumentSchema() *jsonschema.Schema {
	r := jsonschema.Reflector{Anonymous: true, DoNotReference: true}
	item := r.Reflect(&Book{})
	item.Version = ""
	return &jsonschema.Schema{
		Version:     jsonschema.Version,
		Title:       "Book catalog",
		Description: "Books in insertion order",
		Type:        "array",
		Items:       item,
	}
}
