package queue

import (
	"cmp"
	"encoding/json"
	"slices"
	"strconv"
	"strings"

	"github.com/yvasiyarov/php_session_decoder/php_serialize"
)

// UnserializeCommand parses the PHP serialized command from the job payload.
// Payloads without a "command" string are returned as a plain map.
func UnserializeCommand(data json.RawMessage) (any, error) {
	var dataMap map[string]any
	if err := json.Unmarshal(data, &dataMap); err != nil {
		return nil, err
	}

	commandStr, ok := dataMap["command"].(string)
	if !ok {
		return dataMap, nil
	}

	return php_serialize.UnSerialize(commandStr)
}

// GetPHPProperty extracts a property from a PHP object (public, protected, or private)
// or from an array / map
func GetPHPProperty(obj any, propName string) any {
	switch v := obj.(type) {
	case *php_serialize.PhpObject:
		if val, ok := v.GetPublic(propName); ok {
			return val
		}
		if val, ok := v.GetProtected(propName); ok {
			return val
		}
		if val, ok := v.GetPrivate(propName); ok {
			return val
		}

		// Protected: \0*\0propName, Private: \0ClassName\0propName
		for k, val := range v.GetMembers() {
			kStr, ok := k.(string)
			if !ok {
				continue
			}
			if kStr == propName || strings.HasSuffix(kStr, "\x00"+propName) {
				return val
			}
		}
	case php_serialize.PhpArray:
		if val, ok := v[propName]; ok {
			return val
		}
	case map[string]any:
		if val, ok := v[propName]; ok {
			return val
		}
	}

	return nil
}

// StringPairs builds a PHP list of [name, value] arrays, keeping the order of pairs
func StringPairs(pairs [][2]string) php_serialize.PhpArray {
	list := make(php_serialize.PhpArray, len(pairs))
	for i, p := range pairs {
		list[i] = php_serialize.PhpArray{0: p[0], 1: p[1]}
	}
	return list
}

// ParseStringPairs reads a PHP list written by StringPairs back in index order.
// Entries that are not two strings are skipped.
func ParseStringPairs(value any) [][2]string {
	list, ok := value.(php_serialize.PhpArray)
	if !ok {
		return nil
	}

	type entry struct {
		index int
		pair  [2]string
	}
	entries := make([]entry, 0, len(list))
	for k, v := range list {
		index, ok := phpIndex(k)
		if !ok {
			continue
		}
		item, ok := v.(php_serialize.PhpArray)
		if !ok {
			continue
		}
		name, nameOK := findIndex(item, 0).(string)
		body, bodyOK := findIndex(item, 1).(string)
		if !nameOK || !bodyOK {
			continue
		}
		entries = append(entries, entry{index, [2]string{name, body}})
	}

	slices.SortFunc(entries, func(a, b entry) int { return cmp.Compare(a.index, b.index) })

	pairs := make([][2]string, len(entries))
	for i, e := range entries {
		pairs[i] = e.pair
	}
	return pairs
}

// findIndex looks up a list element whatever integer type the decoder used for its key
func findIndex(arr php_serialize.PhpArray, index int) any {
	for k, v := range arr {
		if i, ok := phpIndex(k); ok && i == index {
			return v
		}
	}
	return nil
}

func phpIndex(key any) (int, bool) {
	switch k := key.(type) {
	case int:
		return k, true
	case int64:
		return int(k), true
	case int32:
		return int(k), true
	case float64:
		return int(k), true
	case string:
		i, err := strconv.Atoi(k)
		return i, err == nil
	default:
		return 0, false
	}
}
