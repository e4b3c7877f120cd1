package config

import (
	"fmt"
	"slices"
	"strings"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// UnknownKeyError is returned for a key that is not registered.
type UnknownKeyError struct {
	Key     string
	Closest string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("unknown key %s, did you mean %s?", e.Key, e.Closest)
}

// Lookup returns the field registered under k.
func Lookup(k string) (Field, error) {
	if f, ok := Default[k]; ok {
		return f, nil
	}
	closest := lo.MinBy(lo.Keys(Default), func(a, b string) bool {
		return levenshtein.Distance(k, a) < levenshtein.Distance(k, b)
	})
	return Field{}, &UnknownKeyError{Key: k, Closest: closest}
}

// Section is the leading component of a key, such as "probe" for
// "probe.ffprobe".
func Section(k string) string {
	section, _, _ := strings.Cut(k, ".")
	return section
}

// Sections lists every section in order.
func Sections() []string {
	sections := lo.Uniq(lo.Map(lo.Keys(Default), func(k string, _ int) string { return Section(k) }))
	slices.Sort(sections)
	return sections
}

// Select returns the fields named by keys, or every field of the given
// sections, sorted by key. Both empty selects everything.
func Select(sections, keys []string) ([]Field, error) {
	var fields []Field
	for _, k := range keys {
		f, err := Lookup(k)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}

	known := Sections()
	for _, s := range sections {
		if !slices.Contains(known, s) {
			return nil, fmt.Errorf("unknown section %s, expected one of %s", s, strings.Join(known, ", "))
		}
	}
	if len(sections) > 0 || len(keys) == 0 {
		fields = append(fields, lo.Filter(lo.Values(Default), func(f Field, _ int) bool {
			return len(sections) == 0 || slices.Contains(sections, Section(f.Key))
		})...)
	}

	fields = lo.UniqBy(fields, func(f Field) string { return f.Key })
	slices.SortFunc(fields, func(a, b Field) int { return strings.Compare(a.Key, b.Key) })
	return fields, nil
}

// Problems validates the effective value of every field.
func Problems() []error {
	fields, _ := Select(nil, nil)
	var problems []error
	for _, f := range fields {
		if err := f.Validate(viper.Get(f.Key)); err != nil {
			problems = append(problems, err)
		}
	}
	return problems
}
