package postgres

import (
	"reflect"
	"sync"
)

var columnCache sync.Map // reflect.Type -> []string

// DBColumns returns the "db" tag names of T's fields in declaration order,
// descending into embedded structs. Results are cached per type.
func DBColumns[T any]() []string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if cols, ok := columnCache.Load(t); ok {
		return cols.([]string)
	}
	cols := collectColumns(t)
	columnCache.Store(t, cols)
	return cols
}

func collectColumns(t reflect.Type) []string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	var cols []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous {
			cols = append(cols, collectColumns(f.Type)...)
			continue
		}
		if tag := f.Tag.Get("db"); tag != "" && tag != "-" {
			cols = append(cols, tag)
		}
	}
	return cols
}
