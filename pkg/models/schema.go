package models

// FieldType is the primitive type of a schema field.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeInteger FieldType = "integer"
	FieldTypeFloat   FieldType = "float"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeList    FieldType = "list"
	FieldTypeDict    FieldType = "dict"
	FieldTypeDate    FieldType = "date"
)

// FieldTypes lists every supported field type.
var FieldTypes = []FieldType{
	FieldTypeString,
	FieldTypeInteger,
	FieldTypeFloat,
	FieldTypeBoolean,
	FieldTypeList,
	FieldTypeDict,
	FieldTypeDate,
}

// Valid reports whether t is a supported field type.
func (t FieldType) Valid() bool {
	for _, ft := range FieldTypes {
		if ft == t {
			return true
		}
	}
	return false
}

// SchemaField describes one field of the desired extraction output.
type SchemaField struct {
	Name         string     `json:"name" validate:"required"`
	FieldType    FieldType  `json:"field_type" validate:"required"`
	Description  *string    `json:"description,omitempty"`
	Required     bool       `json:"required"`
	ListItemType *FieldType `json:"list_item_type,omitempty"`
	DefaultValue any        `json:"default_value,omitempty"`
}

// Schema is a named, ordered list of typed fields.
type Schema struct {
	Name   string        `json:"name" validate:"required"`
	Fields []SchemaField `json:"fields" validate:"dive"`
}
