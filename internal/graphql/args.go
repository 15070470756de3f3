package graphql

import (
	"github.com/diewo77/go-users/internal/services"
)

// Argument maps come from graphql-go with Int args as int and optional
// keys absent. These helpers translate them into service inputs,
// preserving the supplied-vs-missing distinction with pointers.

func argMap(args map[string]interface{}, key string) map[string]interface{} {
	if m, ok := args[key].(map[string]interface{}); ok {
		return m
	}
	return map[string]interface{}{}
}

func uintArg(m map[string]interface{}, key string) uint {
	if n, ok := m[key].(int); ok && n > 0 {
		return uint(n)
	}
	return 0
}

func stringArg(m map[string]interface{}, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

func optString(m map[string]interface{}, key string) *string {
	if s, ok := m[key].(string); ok {
		return &s
	}
	return nil
}

func optBool(m map[string]interface{}, key string) *bool {
	if b, ok := m[key].(bool); ok {
		return &b
	}
	return nil
}

func profileFilter(m map[string]interface{}) services.ProfileFilter {
	return services.ProfileFilter{
		ID:          uintArg(m, "id"),
		Name:        stringArg(m, "nome"),
		Description: stringArg(m, "descricao"),
	}
}

// profileRefs decodes a perfis argument. Returns nil when the argument
// was not supplied, so services can tell "absent" from "empty".
func profileRefs(m map[string]interface{}, key string) []services.ProfileFilter {
	raw, ok := m[key].([]interface{})
	if !ok {
		return nil
	}
	refs := make([]services.ProfileFilter, 0, len(raw))
	for _, item := range raw {
		if ref, ok := item.(map[string]interface{}); ok {
			refs = append(refs, profileFilter(ref))
		}
	}
	return refs
}

func userFilter(m map[string]interface{}) services.UserFilter {
	return services.UserFilter{
		ID:    uintArg(m, "id"),
		Name:  stringArg(m, "nome"),
		Email: stringArg(m, "email"),
	}
}
