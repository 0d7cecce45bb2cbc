// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/apex/log"
)

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// envOverrides maps environment variables to dot-notation keys.
var envOverrides = map[string]string{
	"CODERHELPER_BASE_URL":         "client.base_url",
	"CODERHELPER_ENDPOINT":         "client.endpoint",
	"CODERHELPER_MAX_INPUT_LENGTH": "client.max_input_length",
	"CODERHELPER_THEME":            "ui.theme",
	"CODERHELPER_LANGUAGE":         "ui.natural_language",
	"CODERHELPER_MODE":             "ui.mode",
	"CODERHELPER_COPY":             "ui.copy_on_complete",
	"CODERHELPER_ADDR":             "server.addr",
	"CODERHELPER_PROVIDER":         "upstream.provider",
	"CODERHELPER_MODEL":            "upstream.model",
	"CODERHELPER_API_KEY":          "upstream.api_key",
	"CODERHELPER_UPSTREAM_URL":     "upstream.base_url",
	"CODERHELPER_LOG_LEVEL":        "log.level",
	"CODERHELPER_LOG_FILE":         "log.file",
}

// EnvVars returns the supported environment variables, sorted.
func EnvVars() []string {
	names := make([]string, 0, len(envOverrides))
	for name := range envOverrides {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyEnvOverrides applies CODERHELPER_* variables on top of c. A value
// that cannot be converted to the field's type leaves the field unchanged,
// is logged as a warning and is reported in the returned error.
func (c *Config) ApplyEnvOverrides() error {
	var errs []error
	for _, name := range EnvVars() {
		value, ok := os.LookupEnv(name)
		if !ok || value == "" {
			continue
		}
		if err := c.Set(envOverrides[name], value); err != nil {
			log.WithField("env", name).WithError(err).Warn("ignoring invalid environment override")
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	c.Upstream.Provider = strings.ToLower(c.Upstream.Provider)
	return errors.Join(errs...)
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a value by its TOML key path, e.g. "client.base_url".
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set assigns a value by its TOML key path. String values are converted to
// the field's type.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if strings.TrimSpace(key) == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")
	v := reflect.ValueOf(c).Elem()

	for i, part := range parts {
		field, ok := fieldByTag(v, part)
		if !ok {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			if field.Kind() == reflect.Struct {
				return reflect.Value{}, fmt.Errorf("'%s' is a section, not a value", key)
			}
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a section", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

func fieldByTag(v reflect.Value, name string) (reflect.Value, bool) {
	name = strings.ToLower(strings.ReplaceAll(name, "-", "_"))
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		tag := strings.Split(t.Field(i).Tag.Get("toml"), ",")[0]
		if tag == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strings.TrimSpace(strVal), 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strings.TrimSpace(strVal), 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			switch strings.ToLower(strings.TrimSpace(strVal)) {
			case "1", "true", "yes", "on":
				field.SetBool(true)
			case "0", "false", "no", "off":
				field.SetBool(false)
			default:
				return fmt.Errorf("invalid boolean value: %q", strVal)
			}
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return errors.New("cannot assign nil")
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) && val.Kind() != reflect.String {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// Keys returns every settable key in dot notation, in declaration order.
func Keys() []string {
	var keys []string
	var walk func(t reflect.Type, prefix string)
	walk = func(t reflect.Type, prefix string) {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			tag := strings.Split(f.Tag.Get("toml"), ",")[0]
			if tag == "" || tag == "-" {
				continue
			}
			if f.Type.Kind() == reflect.Struct {
				walk(f.Type, prefix+tag+".")
				continue
			}
			keys = append(keys, prefix+tag)
		}
	}
	walk(reflect.TypeOf(Config{}), "")
	return keys
}
