package datasource

// FieldKind is the native type of a vector attribute.
type FieldKind int

// Field kinds reported by drivers.
const (
	FieldUnknown FieldKind = iota
	FieldInteger
	FieldIntegerList
	FieldReal
	FieldRealList
	FieldString
	FieldStringList
	FieldBinary
	FieldDate
	FieldTime
	FieldDateTime
	FieldInteger64
	FieldInteger64List
)

// Field labels used in vector layer schemas.
const (
	LabelString  = "String"
	LabelNumber  = "Number"
	LabelBoolean = "Boolean"
	LabelDate    = "Date"
	LabelBinary  = "Binary"
)

var fieldLabels = map[FieldKind]string{
	FieldInteger:       LabelNumber,
	FieldIntegerList:   LabelString,
	FieldReal:          LabelNumber,
	FieldRealList:      LabelString,
	FieldString:        LabelString,
	FieldStringList:    LabelString,
	FieldBinary:        LabelBinary,
	FieldDate:          LabelDate,
	FieldTime:          LabelDate,
	FieldDateTime:      LabelDate,
	FieldInteger64:     LabelNumber,
	FieldInteger64List: LabelString,
}

// Label returns the schema label of the kind. ok is false for kinds
// without a label.
func (k FieldKind) Label() (label string, ok bool) {
	label, ok = fieldLabels[k]
	return label, ok
}

// Field is one attribute of a vector layer.
type Field struct {
	Name string
	Kind FieldKind
}
