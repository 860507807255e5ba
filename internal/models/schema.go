package models

const (
	IndexPrimary = "primary"
	IndexUnique  = "unique"
	IndexPlain   = "index"
)

type SchemaColumn struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	IsPrimary    bool   `json:"isPrimary"`
	IsUnique     bool   `json:"isUnique"`
	IsNullable   bool   `json:"isNullable"`
	IsForeignKey bool   `json:"isForeignKey"`
	References   string `json:"references,omitempty"`
}

type SchemaIndex struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Type    string   `json:"type"`
}

type SchemaTable struct {
	Name    string         `json:"name"`
	Schema  string         `json:"schema,omitempty"`
	Type    string         `json:"type"`
	System  bool           `json:"system"`
	Columns []SchemaColumn `json:"columns"`
	Indexes []SchemaIndex  `json:"indexes"`
}

// QualifiedName is schema.name, or just name when the table has no schema.
func (t SchemaTable) QualifiedName() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

// Column returns the named column and whether it exists.
func (t SchemaTable) Column(name string) (SchemaColumn, bool) {
	for _, column := range t.Columns {
		if column.Name == name {
			return column, true
		}
	}
	return SchemaColumn{}, false
}
