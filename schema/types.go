package schema

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Primitive type names
const (
	TypeBoolean     = "boolean"
	TypeInt32       = "int32"
	TypeInt64       = "int64"
	TypeFloat32     = "float32"
	TypeFloat64     = "float64"
	TypeDecimal     = "decimal"
	TypeString      = "string"
	TypeBinary      = "binary"
	TypeDate        = "date"
	TypeTime        = "time"
	TypeTimestamp   = "timestamp"
	TypeTimestampTz = "timestamptz"
	TypeUUID        = "uuid"
	// Complex types
	TypeList   = "list"
	TypeMap    = "map"
	TypeStruct = "struct"
)

// Type represents a parsed column type with validation capabilities
type Type interface {
	String() string
	IsComplex() bool
	GetNestedTypes() []Type
	Validate() error
}

// PrimitiveType represents a simple column type
type PrimitiveType struct {
	TypeName  string
	Precision int // For decimal types
	Scale     int // For decimal types
}

func (pt *PrimitiveType) String() string {
	if pt.TypeName == TypeDecimal && pt.Precision > 0 && pt.Scale >= 0 {
		return fmt.Sprintf("decimal(%d,%d)", pt.Precision, pt.Scale)
	}
	return pt.TypeName
}

func (pt *PrimitiveType) IsComplex() bool {
	return false
}

func (pt *PrimitiveType) GetNestedTypes() []Type {
	return nil
}

func (pt *PrimitiveType) Validate() error {
	if !isValidPrimitiveName(pt.TypeName) {
		return fmt.Errorf("invalid primitive type: %s", pt.TypeName)
	}

	if pt.TypeName == TypeDecimal {
		if pt.Precision <= 0 {
			return fmt.Errorf("decimal precision must be positive, got: %d", pt.Precision)
		}
		if pt.Scale < 0 {
			return fmt.Errorf("decimal scale must be non-negative, got: %d", pt.Scale)
		}
		if pt.Scale > pt.Precision {
			return fmt.Errorf("decimal scale (%d) cannot exceed precision (%d)", pt.Scale, pt.Precision)
		}
	}

	return nil
}

// ListType represents a list column type
type ListType struct {
	ElementType Type
}

func (lt *ListType) String() string {
	return fmt.Sprintf("list<%s>", lt.ElementType.String())
}

func (lt *ListType) IsComplex() bool {
	return true
}

func (lt *ListType) GetNestedTypes() []Type {
	return []Type{lt.ElementType}
}

func (lt *ListType) Validate() error {
	if lt.ElementType == nil {
		return fmt.Errorf("list element type cannot be nil")
	}
	return lt.ElementType.Validate()
}

// MapType represents a map column type
type MapType struct {
	KeyType   Type
	ValueType Type
}

func (mt *MapType) String() string {
	return fmt.Sprintf("map<%s,%s>", mt.KeyType.String(), mt.ValueType.String())
}

func (mt *MapType) IsComplex() bool {
	return true
}

func (mt *MapType) GetNestedTypes() []Type {
	return []Type{mt.KeyType, mt.ValueType}
}

func (mt *MapType) Validate() error {
	if mt.KeyType == nil {
		return fmt.Errorf("map key type cannot be nil")
	}
	if mt.ValueType == nil {
		return fmt.Errorf("map value type cannot be nil")
	}

	if err := mt.KeyType.Validate(); err != nil {
		return fmt.Errorf("invalid map key type: %w", err)
	}

	return mt.ValueType.Validate()
}

// StructField represents a field in a struct type. The ID is the field's
// stable identity across schema evolution; zero means "not assigned yet"
// (types parsed from strings carry no IDs until AssignFreshIDs runs).
type StructField struct {
	ID       int
	Name     string
	Type     Type
	Required bool
}

// StructType represents a nested record column type
type StructType struct {
	Fields []StructField
}

func (st *StructType) String() string {
	var fieldStrs []string
	for _, field := range st.Fields {
		fieldStrs = append(fieldStrs, fmt.Sprintf("%s:%s", field.Name, field.Type.String()))
	}
	return fmt.Sprintf("struct<%s>", strings.Join(fieldStrs, ","))
}

func (st *StructType) IsComplex() bool {
	return true
}

func (st *StructType) GetNestedTypes() []Type {
	var types []Type
	for _, field := range st.Fields {
		types = append(types, field.Type)
	}
	return types
}

func (st *StructType) Validate() error {
	if len(st.Fields) == 0 {
		return fmt.Errorf("struct must have at least one field")
	}

	fieldNames := make(map[string]bool)
	for i, field := range st.Fields {
		if field.Name == "" {
			return fmt.Errorf("struct field %d: name cannot be empty", i)
		}

		if fieldNames[field.Name] {
			return fmt.Errorf("duplicate struct field name: %s", field.Name)
		}
		fieldNames[field.Name] = true

		if field.Type == nil {
			return fmt.Errorf("struct field '%s': type cannot be nil", field.Name)
		}

		if err := field.Type.Validate(); err != nil {
			return fmt.Errorf("struct field '%s': %w", field.Name, err)
		}
	}

	return nil
}

// ParseType parses a type string such as "int64", "decimal(10,2)",
// "list<string>" or "struct<id:int64,data:string>". Failures come back as
// *TypeParseError.
func ParseType(typeStr string) (Type, error) {
	t, err := parseType(typeStr)
	if err != nil {
		return nil, &TypeParseError{TypeStr: strings.TrimSpace(typeStr), Cause: err}
	}
	return t, nil
}

// IsValidType reports whether the type string parses
func IsValidType(typeStr string) bool {
	_, err := parseType(typeStr)
	return err == nil
}

// IsVariableLength reports whether values of t have no fixed byte width.
// Bound truncation only applies to these types.
func IsVariableLength(t Type) bool {
	pt, ok := t.(*PrimitiveType)
	if !ok {
		return false
	}
	return pt.TypeName == TypeString || pt.TypeName == TypeBinary
}

func parseType(typeStr string) (Type, error) {
	typeStr = strings.TrimSpace(typeStr)

	if isValidPrimitiveName(typeStr) {
		return &PrimitiveType{TypeName: typeStr}, nil
	}

	if strings.HasPrefix(typeStr, "decimal(") {
		return parseDecimalType(typeStr)
	}

	if strings.HasPrefix(typeStr, "list<") {
		return parseListType(typeStr)
	}

	if strings.HasPrefix(typeStr, "map<") {
		return parseMapType(typeStr)
	}

	if strings.HasPrefix(typeStr, "struct<") {
		return parseStructType(typeStr)
	}

	return nil, fmt.Errorf("unsupported type: %s", typeStr)
}

var decimalRegex = regexp.MustCompile(`^decimal\((\d+),(\d+)\)$`)

func parseDecimalType(typeStr string) (*PrimitiveType, error) {
	matches := decimalRegex.FindStringSubmatch(typeStr)
	if len(matches) != 3 {
		return nil, fmt.Errorf("invalid decimal format: %s (expected: decimal(precision,scale))", typeStr)
	}

	precision, err := strconv.Atoi(matches[1])
	if err != nil {
		return nil, fmt.Errorf("invalid decimal precision: %s", matches[1])
	}

	scale, err := strconv.Atoi(matches[2])
	if err != nil {
		return nil, fmt.Errorf("invalid decimal scale: %s", matches[2])
	}

	decimalType := &PrimitiveType{
		TypeName:  TypeDecimal,
		Precision: precision,
		Scale:     scale,
	}

	if err := decimalType.Validate(); err != nil {
		return nil, err
	}

	return decimalType, nil
}

func parseListType(typeStr string) (*ListType, error) {
	if !strings.HasSuffix(typeStr, ">") {
		return nil, fmt.Errorf("invalid list format: %s", typeStr)
	}

	elementTypeStr := strings.TrimSpace(typeStr[5 : len(typeStr)-1])
	if elementTypeStr == "" {
		return nil, fmt.Errorf("list element type cannot be empty")
	}

	elementType, err := parseType(elementTypeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid list element type: %w", err)
	}

	return &ListType{ElementType: elementType}, nil
}

func parseMapType(typeStr string) (*MapType, error) {
	if !strings.HasSuffix(typeStr, ">") {
		return nil, fmt.Errorf("invalid map format: %s", typeStr)
	}

	content := strings.TrimSpace(typeStr[4 : len(typeStr)-1])

	commaIndex := findTopLevelComma(content)
	if commaIndex == -1 {
		return nil, fmt.Errorf("map must have key and value types separated by comma: %s", typeStr)
	}

	keyTypeStr := strings.TrimSpace(content[:commaIndex])
	valueTypeStr := strings.TrimSpace(content[commaIndex+1:])

	if keyTypeStr == "" {
		return nil, fmt.Errorf("map key type cannot be empty")
	}
	if valueTypeStr == "" {
		return nil, fmt.Errorf("map value type cannot be empty")
	}

	keyType, err := parseType(keyTypeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid map key type: %w", err)
	}

	valueType, err := parseType(valueTypeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid map value type: %w", err)
	}

	return &MapType{KeyType: keyType, ValueType: valueType}, nil
}

func parseStructType(typeStr string) (*StructType, error) {
	if !strings.HasSuffix(typeStr, ">") {
		return nil, fmt.Errorf("invalid struct format: %s", typeStr)
	}

	content := strings.TrimSpace(typeStr[7 : len(typeStr)-1])
	if content == "" {
		return nil, fmt.Errorf("struct must have at least one field")
	}

	fieldStrs := splitTopLevelCommas(content)
	var fields []StructField

	for i, fieldStr := range fieldStrs {
		fieldStr = strings.TrimSpace(fieldStr)

		colonIndex := strings.Index(fieldStr, ":")
		if colonIndex == -1 {
			return nil, fmt.Errorf("struct field %d: missing colon separator (expected format: name:type)", i+1)
		}

		fieldName := strings.TrimSpace(fieldStr[:colonIndex])
		fieldTypeStr := strings.TrimSpace(fieldStr[colonIndex+1:])

		if fieldName == "" {
			return nil, fmt.Errorf("struct field %d: name cannot be empty", i+1)
		}
		if fieldTypeStr == "" {
			return nil, fmt.Errorf("struct field %d (%s): type cannot be empty", i+1, fieldName)
		}

		fieldType, err := parseType(fieldTypeStr)
		if err != nil {
			return nil, fmt.Errorf("struct field %d (%s): invalid type: %w", i+1, fieldName, err)
		}

		fields = append(fields, StructField{
			Name: fieldName,
			Type: fieldType,
		})
	}

	return &StructType{Fields: fields}, nil
}

// findTopLevelComma finds the first comma not inside nested angle brackets
func findTopLevelComma(s string) int {
	depth := 0
	for i, char := range s {
		switch char {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splitTopLevelCommas splits by commas not inside nested angle brackets
func splitTopLevelCommas(s string) []string {
	var result []string
	var current strings.Builder
	depth := 0

	for _, char := range s {
		switch char {
		case '<':
			depth++
			current.WriteRune(char)
		case '>':
			depth--
			current.WriteRune(char)
		case ',':
			if depth == 0 {
				result = append(result, current.String())
				current.Reset()
			} else {
				current.WriteRune(char)
			}
		default:
			current.WriteRune(char)
		}
	}

	if current.Len() > 0 {
		result = append(result, current.String())
	}

	return result
}

func isValidPrimitiveName(typeName string) bool {
	switch typeName {
	case TypeBoolean, TypeInt32, TypeInt64, TypeFloat32, TypeFloat64,
		TypeString, TypeBinary, TypeDate, TypeTime, TypeTimestamp,
		TypeTimestampTz, TypeUUID:
		return true
	}
	return false
}
