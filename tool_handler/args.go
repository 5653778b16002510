package toolhandler

// Keyword-payload accessors. Model output is duck typed; these never
// panic on a wrong shape.

func StringArg(args map[string]any, key string) string {
	return StringArgOr(args, key, "")
}

func StringArgOr(args map[string]any, key, fallback string) string {
	if v, ok := args[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return fallback
}

func IntArgOr(args map[string]any, key string, fallback int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return fallback
}

func BoolArgOr(args map[string]any, key string, fallback bool) bool {
	if v, ok := args[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return fallback
}
