package atrium

import (
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"strings"
)

var (
	blockType    = reflect.TypeOf(Block{})
	blockPtrType = reflect.TypeOf(&Block{})
)

// Decoder reads a block document from an input stream and decodes it.
type Decoder struct {
	r    io.Reader
	opts []Option
}

// NewDecoder returns a new decoder that reads from r. The whole stream is
// read before parsing starts.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	return &Decoder{r: r, opts: opts}
}

// Decode reads the document and stores it in the value pointed to by v.
func (dec *Decoder) Decode(v any) error {
	data, err := io.ReadAll(dec.r)
	if err != nil {
		return fmt.Errorf("atrium: read: %w", err)
	}
	return unmarshal(data, v, dec.opts)
}

// Unmarshal parses a strict block document and stores the result in the
// value pointed to by v.
//
// v may point to:
//   - a struct, whose fields are matched to block names through the
//     `atrium:"name"` tag (or the field name). A struct field receives the
//     first block of that name, a slice field every block, and *Block or
//     []*Block fields the raw blocks.
//   - a map[string]any, which receives every name mapped to a []any of
//     property maps.
//   - a Table or Config.
//
// Inside a block, struct fields are matched to property keys. The tag
// option `,attributes` binds the header attributes and `,name` the block
// name. A key with one value decodes as that value, a repeated key as a
// slice, and a nested block as a map or struct.
func Unmarshal(data []byte, v any) error {
	return unmarshal(data, v, nil)
}

func unmarshal(data []byte, v any, opts []Option) error {
	cfg, err := ParseConfig(string(data), opts...)
	if err != nil {
		return err
	}

	d, err := derefTarget(v)
	if err != nil {
		return err
	}
	return decodeTable(d, cfg.Table())
}

// Decode stores the contents of b in the value pointed to by v.
func (b *Block) Decode(v any) error {
	d, err := derefTarget(v)
	if err != nil {
		return err
	}
	return decodeBlock(d, b)
}

// derefTarget validates that v is a non-nil pointer and returns its element.
func derefTarget(v any) (reflect.Value, error) {
	if v == nil {
		return reflect.Value{}, errors.New("atrium: cannot unmarshal into a nil value")
	}

	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Ptr {
		return reflect.Value{}, errors.New("atrium: destination is not a pointer")
	}
	if val.IsNil() {
		return reflect.Value{}, errors.New("atrium: destination pointer is nil")
	}
	return val.Elem(), nil
}

func decodeTable(dst reflect.Value, t *Table) error {
	switch dst.Type() {
	case reflect.TypeOf(Table{}):
		dst.Set(reflect.ValueOf(*t.Clone()))
		return nil
	case reflect.TypeOf(Config{}):
		dst.Set(reflect.ValueOf(*NewConfig(t.Clone())))
		return nil
	}

	if dst.Kind() != reflect.Struct {
		out := make(map[string]any, t.Len())
		t.Range(func(name string, blocks []*Block) bool {
			list := make([]any, len(blocks))
			for i, b := range blocks {
				list[i] = b.Map()
			}
			out[name] = list
			return true
		})
		return setValueReflect(dst, out)
	}

	structType := dst.Type()
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		fieldValue := dst.Field(i)
		if !fieldValue.CanSet() {
			continue
		}

		name := getFieldName(field)
		if name == "-" {
			continue
		}

		blocks := t.Get(name)
		if len(blocks) == 0 {
			continue
		}

		if err := decodeBlocks(fieldValue, blocks); err != nil {
			return fmt.Errorf("error setting field %s: %w", field.Name, err)
		}
	}

	return nil
}

// decodeBlocks stores all blocks into a slice destination, or the first one
// into anything else.
func decodeBlocks(dst reflect.Value, blocks []*Block) error {
	if dst.Kind() != reflect.Slice || dst.Type().Elem() == reflect.TypeOf(Value{}) {
		return decodeBlock(dst, blocks[0])
	}

	newSlice := reflect.MakeSlice(dst.Type(), len(blocks), len(blocks))
	for i, b := range blocks {
		if err := decodeBlock(newSlice.Index(i), b); err != nil {
			return fmt.Errorf("error setting block %d: %w", i, err)
		}
	}
	dst.Set(newSlice)
	return nil
}

func decodeBlock(dst reflect.Value, b *Block) error {
	switch dst.Type() {
	case blockType:
		dst.Set(reflect.ValueOf(*b.Clone()))
		return nil
	case blockPtrType:
		dst.Set(reflect.ValueOf(b.Clone()))
		return nil
	}

	switch dst.Kind() {
	case reflect.Ptr:
		newPtr := reflect.New(dst.Type().Elem())
		if err := decodeBlock(newPtr.Elem(), b); err != nil {
			return err
		}
		dst.Set(newPtr)
		return nil
	case reflect.Struct:
	default:
		return setValueReflect(dst, b.Map())
	}

	props := b.Map()
	structType := dst.Type()
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		fieldValue := dst.Field(i)
		if !fieldValue.CanSet() {
			continue
		}

		name, opts := parseStructTag(field.Tag)
		if name == "-" {
			continue
		}

		var err error
		switch {
		case hasTagOption(opts, "attributes"):
			attrs := make([]any, len(b.Attributes))
			for i, a := range b.Attributes {
				attrs[i] = a.Interface()
			}
			err = setValueReflect(fieldValue, attrs)
		case hasTagOption(opts, "name"):
			err = setValueReflect(fieldValue, b.Name)
		default:
			if name == "" {
				name = field.Name
			}
			if nested, ok := nestedBlock(b, name); ok && (fieldValue.Kind() == reflect.Struct || fieldValue.Kind() == reflect.Ptr) {
				err = decodeBlock(fieldValue, nested)
				break
			}
			if v, ok := props[name]; ok {
				err = setValueReflect(fieldValue, v)
			}
		}
		if err != nil {
			return fmt.Errorf("error setting field %s: %w", field.Name, err)
		}
	}

	return nil
}

// nestedBlock returns the block held by key when it is the key's only value.
func nestedBlock(b *Block, key string) (*Block, bool) {
	values, ok := b.Properties.Get(key)
	if !ok || len(values) != 1 {
		return nil, false
	}
	return values[0].AsBlock()
}

// parseStructTag splits an `atrium:"name,opt,opt"` tag.
func parseStructTag(tag reflect.StructTag) (string, string) {
	t := tag.Get("atrium")
	if t == "" {
		return "", ""
	}
	name, opts, _ := strings.Cut(t, ",")
	return name, opts
}

func hasTagOption(opts, opt string) bool {
	for opts != "" {
		var o string
		o, opts, _ = strings.Cut(opts, ",")
		if o == opt {
			return true
		}
	}
	return false
}

// getFieldName returns the field name to use for mapping, checking for struct tags.
func getFieldName(field reflect.StructField) string {
	name, _ := parseStructTag(field.Tag)
	if name == "" {
		return field.Name
	}
	return name
}

// setValueReflect recursively sets values to dst from src using reflection.
func setValueReflect(dst reflect.Value, src any) error {
	if src == nil {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}

	s := reflect.ValueOf(src)

	// If the destination is an interface, set it directly.
	if dst.Kind() == reflect.Interface {
		dst.Set(s)
		return nil
	}

	// Assign directly if types are compatible.
	if s.Type().AssignableTo(dst.Type()) {
		dst.Set(s)
		return nil
	}

	switch dst.Kind() {
	case reflect.Struct:
		return setStruct(dst, src)
	case reflect.Slice:
		return setSlice(dst, src)
	case reflect.Map:
		return setMap(dst, src)
	case reflect.Ptr:
		return setPtr(dst, src)
	case reflect.String:
		return setString(dst, src)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return setInt(dst, src)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return setUint(dst, src)
	case reflect.Float32, reflect.Float64:
		return setFloat(dst, src)
	case reflect.Bool:
		return setBool(dst, src)
	default:
		return fmt.Errorf("cannot unmarshal %T into %s", src, dst.Type())
	}
}

// setStruct unmarshals a property map into a struct.
func setStruct(dst reflect.Value, src any) error {
	srcMap, ok := src.(map[string]any)
	if !ok {
		return fmt.Errorf("cannot unmarshal %T into struct", src)
	}

	structType := dst.Type()
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		fieldValue := dst.Field(i)
		if !fieldValue.CanSet() {
			continue
		}

		fieldName := getFieldName(field)
		if fieldName == "-" {
			continue
		}

		if srcValue, exists := srcMap[fieldName]; exists {
			if err := setValueReflect(fieldValue, srcValue); err != nil {
				return fmt.Errorf("error setting field %s: %w", field.Name, err)
			}
		}
	}

	return nil
}

// setSlice unmarshals an array into a slice. A single value decodes as a
// one-element slice, since a key that appears once holds a scalar.
func setSlice(dst reflect.Value, src any) error {
	srcSlice, ok := src.([]any)
	if !ok {
		srcSlice = []any{src}
	}

	newSlice := reflect.MakeSlice(dst.Type(), len(srcSlice), len(srcSlice))
	for i, srcElem := range srcSlice {
		if err := setValueReflect(newSlice.Index(i), srcElem); err != nil {
			return fmt.Errorf("error setting slice element %d: %w", i, err)
		}
	}

	dst.Set(newSlice)
	return nil
}

// setMap unmarshals a src map into a dest map.
func setMap(dst reflect.Value, src any) error {
	srcMap, ok := src.(map[string]any)
	if !ok {
		return fmt.Errorf("cannot unmarshal %T into map", src)
	}

	mapType := dst.Type()
	if mapType.Key().Kind() != reflect.String {
		return fmt.Errorf("maps with non-string keys are not supported")
	}

	newMap := reflect.MakeMap(mapType)
	for key, srcValue := range srcMap {
		valueValue := reflect.New(mapType.Elem()).Elem()
		if err := setValueReflect(valueValue, srcValue); err != nil {
			return fmt.Errorf("error setting map value for key %s: %w", key, err)
		}
		newMap.SetMapIndex(reflect.ValueOf(key).Convert(mapType.Key()), valueValue)
	}

	dst.Set(newMap)
	return nil
}

// setPtr unmarshals into a pointer.
func setPtr(dst reflect.Value, src any) error {
	newPtr := reflect.New(dst.Type().Elem())
	if err := setValueReflect(newPtr.Elem(), src); err != nil {
		return err
	}

	dst.Set(newPtr)
	return nil
}

func setString(dst reflect.Value, src any) error {
	v, ok := src.(string)
	if !ok {
		return fmt.Errorf("cannot unmarshal %T into string", src)
	}
	dst.SetString(v)
	return nil
}

// setInt converts a whole number to an integer field.
func setInt(dst reflect.Value, src any) error {
	v, ok := src.(float64)
	if !ok {
		return fmt.Errorf("cannot unmarshal %T into integer", src)
	}
	if v != math.Trunc(v) {
		return fmt.Errorf("cannot unmarshal float %g into integer type", v)
	}

	intVal := int64(v)
	if dst.OverflowInt(intVal) {
		return fmt.Errorf("value %g overflows %s", v, dst.Type())
	}
	dst.SetInt(intVal)
	return nil
}

func setUint(dst reflect.Value, src any) error {
	v, ok := src.(float64)
	if !ok {
		return fmt.Errorf("cannot unmarshal %T into unsigned integer", src)
	}
	if v < 0 {
		return fmt.Errorf("cannot unmarshal negative value %g into unsigned integer", v)
	}
	if v != math.Trunc(v) {
		return fmt.Errorf("cannot unmarshal float %g into integer type", v)
	}

	uintVal := uint64(v)
	if dst.OverflowUint(uintVal) {
		return fmt.Errorf("value %g overflows %s", v, dst.Type())
	}
	dst.SetUint(uintVal)
	return nil
}

func setFloat(dst reflect.Value, src any) error {
	v, ok := src.(float64)
	if !ok {
		return fmt.Errorf("cannot unmarshal %T into float", src)
	}
	if dst.OverflowFloat(v) {
		return fmt.Errorf("value %g overflows %s", v, dst.Type())
	}
	dst.SetFloat(v)
	return nil
}

func setBool(dst reflect.Value, src any) error {
	v, ok := src.(bool)
	if !ok {
		return fmt.Errorf("cannot unmarshal %T into bool", src)
	}
	dst.SetBool(v)
	return nil
}
