package config

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	modellib "github.com/ygrebnov/model"
)

const settingTagName = "setting"

// ModelInit is a constructor hook that binds a model.Model[T] to the struct
// produced by Bind. It allows Bind to call SetDefaults() before settings are
// copied in and Validate() after. Return the constructed model.Model[T] or
// an error.
type ModelInit[T any] func(*T) (*modellib.Model[T], error)

// Bind builds a typed, read-once view of a registry: a fresh *T whose fields
// carrying a `setting:"name"` tag are populated from the resolved settings.
// Fields without the tag (or tagged "-") are left alone, as are fields whose
// setting resolves to ErrNotSet, so struct-level defaults survive.
//
// When init is non-nil it integrates github.com/ygrebnov/model the same way
// the resolver's registration step stays declarative: SetDefaults() runs
// before population (filling zero values from `default` tags) and
// Validate() runs after.
//
// The view is a snapshot. Later Set calls on the registry do not propagate
// to a previously bound struct.
func Bind[T any](r *Registry, init ModelInit[T]) (*T, error) {
	cfg := new(T)

	var mdl *modellib.Model[T]
	if init != nil {
		m, err := init(cfg)
		if err != nil {
			return nil, err
		}
		mdl = m
		if mdl != nil {
			if err := mdl.SetDefaults(); err != nil {
				return nil, err
			}
		}
	}

	if err := r.populate(cfg); err != nil {
		return nil, err
	}

	if mdl != nil {
		if err := mdl.Validate(context.Background()); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (r *Registry) populate(target any) error {
	rv := reflect.ValueOf(target).Elem()
	if rv.Kind() != reflect.Struct {
		return fmt.Errorf("bind target must be a struct, got %s", rv.Kind())
	}
	rt := rv.Type()
	for i := 0; i < rv.NumField(); i++ {
		sf := rt.Field(i)
		if sf.PkgPath != "" {
			continue
		}
		tag := sf.Tag.Get(settingTagName)
		if tag == "" || tag == "-" {
			continue
		}
		v, err := r.Get(tag)
		if errors.Is(err, ErrNotSet) {
			continue
		}
		if err != nil {
			return err
		}
		if v == nil {
			continue
		}
		field := rv.Field(i)
		if !field.CanSet() {
			continue
		}
		val := reflect.ValueOf(v)
		switch {
		case val.Type().AssignableTo(field.Type()):
			field.Set(val)
		case val.Type().ConvertibleTo(field.Type()):
			field.Set(val.Convert(field.Type()))
		default:
			return fmt.Errorf("%w %q: cannot assign %T to field %s (%s)",
				ErrCoerce, tag, v, sf.Name, field.Type())
		}
	}
	return nil
}
