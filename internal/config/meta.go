package config

import (
	"reflect"
	"strings"
)

// GetSettingsExample uses reflection to generate example settings
// This automatically stays in sync when new fields are added to Settings
func GetSettingsExample() map[string]any {
	var s Settings
	t := reflect.TypeOf(s)
	example := make(map[string]any)

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		jsonTag := field.Tag.Get("json")
		if jsonTag == "" {
			continue
		}

		jsonName := strings.Split(jsonTag, ",")[0]
		example[jsonName] = generateExampleValue(field.Type, jsonName)
	}

	return example
}

// generateExampleValue creates appropriate example values based on type and field name
func generateExampleValue(t reflect.Type, fieldName string) any {
	if t.Kind() == reflect.Ptr {
		switch t.Elem().Kind() {
		case reflect.Bool:
			return fieldName == "debug"
		case reflect.Int:
			switch fieldName {
			case "error_clear_delay":
				return DefaultErrorClearDelay
			case "max_log_files":
				return 200
			case "request_timeout_seconds":
				return DefaultRequestTimeoutSeconds
			}
			return 10
		case reflect.Float64:
			return DefaultRequestsPerSecond
		}
	}

	switch t.Kind() {
	case reflect.String:
		switch fieldName {
		case "reclassify_policy":
			return "all"
		case "server_url":
			return DefaultServerURL
		case "username":
			return "13800000000"
		default:
			return "example"
		}
	case reflect.Map:
		if t.Name() == "KeyBindingsConfig" {
			return map[string]any{
				"upload": "u",
				"help":   []string{"H", "?"},
			}
		}
	}

	return nil
}
