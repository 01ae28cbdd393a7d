package logger

import "strings"

// RedactID masks a customer or order identifier for safe logging.
// "9ef432eb6251297304e76186b10a928d" → "9ef4***928d"
// Short identifiers (≤8 chars) are fully masked.
func RedactID(id string) string {
	id = strings.TrimSpace(id)
	if len(id) <= 8 {
		return "***"
	}
	return id[:4] + "***" + id[len(id)-4:]
}

// idFieldSuffixes are log field names whose values carry record identifiers.
var idFieldSuffixes = []string{"customer_id", "customer", "order_id"}

func redactIDValue(key, val string) string {
	key = strings.ToLower(key)
	for _, s := range idFieldSuffixes {
		if strings.HasSuffix(key, s) {
			return RedactID(val)
		}
	}
	return val
}
