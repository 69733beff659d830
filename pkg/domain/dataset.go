package domain

// DatasetDescription summarises a parsed dataset.
// The session treats it as opaque: it is only handed to views as preview context.
type DatasetDescription struct {
	Format        string     `json:"format"`
	Name          string     `json:"name"`
	Properties    []Property `json:"properties"`
	GeometryTypes []string   `json:"geometryTypes,omitempty"`
	FeatureCount  int        `json:"featureCount"`
	Bounds        *Bounds    `json:"bounds,omitempty"`
}

// Property is one attribute of the dataset schema.
type Property struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Bounds is a bounding box in dataset coordinates.
type Bounds struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// HasProperty reports whether the schema contains an attribute named name.
func (d *DatasetDescription) HasProperty(name string) bool {
	if d == nil {
		return false
	}
	for _, p := range d.Properties {
		if p.Name == name {
			return true
		}
	}
	return false
}
