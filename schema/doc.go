/*
Package schema holds the named descriptors that describe the shape of each
entity type.

Built-in descriptors for person, organization and account are embedded as
YAML and loaded into the Default registry on first use:

	name: person
	fields:
	  name:
	    type: string
	    required: true
	    rules: "min=1,max=200"   # go-playground/validator tags
	  email:
	    type: string
	    format: email            # go-openapi/strfmt format name

Lookups never fail for unknown names; they return an empty descriptor:

	d, err := schema.Get("person")     // registered descriptor
	d, err = schema.Get("spaceship")   // d.IsEmpty() == true, err == nil
	_, err = schema.Get("")            // PreconditionError

Registered descriptors are immutable; Get hands out copies.
*/
package schema
