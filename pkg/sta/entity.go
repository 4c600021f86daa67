package sta

// Entity is one element of a paginated response's value array. The schema
// is opaque; accessors cover the annotations and fields this tool reads.
type Entity map[string]any

// ID returns the @iot.id annotation, or nil when absent. SensorThings
// servers may use numeric or string ids.
func (e Entity) ID() any {
	return e["@iot.id"]
}

// SelfLink returns the @iot.selfLink annotation.
func (e Entity) SelfLink() string {
	return e.stringField("@iot.selfLink")
}

// Name returns the entity name field.
func (e Entity) Name() string {
	return e.stringField("name")
}

// Description returns the entity description field.
func (e Entity) Description() string {
	return e.stringField("description")
}

// Properties returns the free-form properties object, or nil.
func (e Entity) Properties() map[string]any {
	props, _ := e["properties"].(map[string]any)
	return props
}

// Expanded returns the entities inlined for a navigation property by a
// $expand request, e.g. Expanded("Locations").
func (e Entity) Expanded(name string) []Entity {
	raw, ok := e[name].([]any)
	if !ok {
		return nil
	}
	entities := make([]Entity, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			entities = append(entities, Entity(m))
		}
	}
	return entities
}

func (e Entity) stringField(key string) string {
	s, _ := e[key].(string)
	return s
}
