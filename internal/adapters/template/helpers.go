package template

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	camelBoundary = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	wordSeparator = regexp.MustCompile(`[\s\-]+`)
)

// title upper-cases the first letter of each word and keeps the rest.
// A Caser is stateful, so each call builds its own.
func title(s string) string {
	return cases.Title(language.Und, cases.NoLower).String(s)
}

// helperFuncs returns the functions available to every contract template
func helperFuncs() template.FuncMap {
	return template.FuncMap{
		// casing
		"snakeCase":  snakeCase,
		"pascalCase": pascalCase,
		"camelCase":  camelCase,
		"lowercase":  func(v any) string { return strings.ToLower(str(v)) },
		"uppercase":  func(v any) string { return strings.ToUpper(str(v)) },
		"title":      func(v any) string { return title(str(v)) },

		// chain type mapping
		"rustType":          rustType,
		"anchorAccountType": anchorAccountType,
		"scryptoType":       scryptoType,
		"solidityType":      solidityType,
		"defaultValue":      defaultValue,
		"solParams":         solidityParams,

		// values
		"str":      str,
		"default":  defaultTo,
		"hasValue": truthy,
		"truthy":   truthy,
		"isEmpty":  func(v any) bool { return !truthy(v) },
		"equals":   func(a, b any) bool { return str(a) == str(b) },
		"length":   length,
		"join":     join,
		"concat":   concat,
		"replace":  func(v any, from, to string) string { return strings.ReplaceAll(str(v), from, to) },
		"trim":     func(v any) string { return strings.TrimSpace(str(v)) },
		"add":      func(a, b any) int64 { return toInt(a) + toInt(b) },
		"sub":      func(a, b any) int64 { return toInt(a) - toInt(b) },
	}
}

// str renders a model value; nil renders as the empty string
func str(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// truthy treats false, zero, "", "null", "undefined", nil and empty containers as false
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		s := strings.TrimSpace(t)
		return s != "" && s != "null" && s != "undefined" && s != "false" && s != "0"
	case int64:
		return t != 0
	case int:
		return t != 0
	case float64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

func defaultTo(def any, v any) any {
	if truthy(v) {
		return v
	}
	return def
}

func length(v any) int {
	switch t := v.(type) {
	case string:
		return len(t)
	case []any:
		return len(t)
	case map[string]any:
		return len(t)
	default:
		return 0
	}
}

// join accepts a list or a single value
func join(v any, sep string) string {
	list, ok := v.([]any)
	if !ok {
		return str(v)
	}
	parts := make([]string, 0, len(list))
	for _, item := range list {
		parts = append(parts, str(item))
	}
	return strings.Join(parts, sep)
}

func concat(values ...any) string {
	var b strings.Builder
	for _, v := range values {
		b.WriteString(str(v))
	}
	return b.String()
}

func toInt(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		n, _ := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		return n
	default:
		return 0
	}
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
}

func snakeCase(v any) string {
	s := camelBoundary.ReplaceAllString(strings.TrimSpace(str(v)), "${1}_${2}")
	return strings.ToLower(wordSeparator.ReplaceAllString(s, "_"))
}

func pascalCase(v any) string {
	var b strings.Builder
	for _, word := range splitWords(str(v)) {
		b.WriteString(title(word))
	}
	return b.String()
}

func camelCase(v any) string {
	words := splitWords(str(v))
	if len(words) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(strings.ToLower(words[0]))
	for _, word := range words[1:] {
		b.WriteString(title(strings.ToLower(word)))
	}
	return b.String()
}

var rustTypes = map[string]string{
	"string": "String",
	"int":    "i64",
	"uint":   "u64",
	"bool":   "bool",
	"pubkey": "Pubkey",
	"bytes":  "Vec<u8>",
	"float":  "f64",
}

func rustType(v any) string {
	t := str(v)
	if mapped, ok := rustTypes[t]; ok {
		return mapped
	}
	return t
}

var anchorAccountTypes = map[string]string{
	"token":            "Account<'info, TokenAccount>",
	"mint":             "Account<'info, Mint>",
	"system":           "Program<'info, System>",
	"associated_token": "Program<'info, AssociatedToken>",
	"signer":           "Signer<'info>",
}

func anchorAccountType(v any) string {
	t := str(v)
	if mapped, ok := anchorAccountTypes[t]; ok {
		return mapped
	}
	return t
}

var scryptoTypes = map[string]string{
	"string":              "String",
	"str":                 "&str",
	"int":                 "i64",
	"i32":                 "i32",
	"i64":                 "i64",
	"uint":                "u64",
	"u32":                 "u32",
	"u64":                 "u64",
	"u128":                "u128",
	"bool":                "bool",
	"boolean":             "bool",
	"decimal":             "Decimal",
	"precisedecimal":      "PreciseDecimal",
	"bytes":               "Vec<u8>",
	"float":               "Decimal",
	"f32":                 "f32",
	"f64":                 "f64",
	"address":             "ComponentAddress",
	"componentaddress":    "ComponentAddress",
	"globaladdress":       "GlobalAddress",
	"resource":            "ResourceAddress",
	"resourceaddress":     "ResourceAddress",
	"bucket":              "Bucket",
	"vault":               "Vault",
	"proof":               "Proof",
	"keyvaluestore":       "KeyValueStore",
	"owned":               "Owned",
	"global":              "Global",
	"fungibleresource":    "FungibleResource",
	"nonfungibleresource": "NonFungibleResource",
	"nonfungiblelocalid":  "NonFungibleLocalId",
	"accessrule":          "AccessRule",
	"role":                "Role",
	"badge":               "Badge",
}

// scryptoType maps a spec type to Scrypto. Generic forms such as Vec<...> pass through.
func scryptoType(v any) string {
	t := strings.TrimSpace(str(v))
	if strings.ContainsAny(t, "<>&") {
		return t
	}
	if mapped, ok := scryptoTypes[strings.ToLower(t)]; ok {
		return mapped
	}
	return pascalCase(t)
}

var scryptoDefaults = map[string]string{
	"string":             "String::new()",
	"str":                `""`,
	"i32":                "0i32",
	"i64":                "0i64",
	"int":                "0i64",
	"u32":                "0u32",
	"u64":                "0u64",
	"uint":               "0u64",
	"u128":               "0u128",
	"bool":               "false",
	"boolean":            "false",
	"decimal":            "Decimal::zero()",
	"precisedecimal":     "PreciseDecimal::zero()",
	"bytes":              "Vec::new()",
	"vault":              "Vault::new(XRD)",
	"keyvaluestore":      "KeyValueStore::new()",
	"globaladdress":      "GlobalAddress::default()",
	"nonfungiblelocalid": "NonFungibleLocalId::integer(0)",
}

func defaultValue(v any) string {
	t := strings.TrimSpace(str(v))
	if mapped, ok := scryptoDefaults[strings.ToLower(t)]; ok {
		return mapped
	}
	return scryptoType(t) + "::default()"
}

var solidityTypes = map[string]string{
	"uint":    "uint256",
	"int":     "int256",
	"integer": "uint256",
	"number":  "uint256",
	"text":    "string",
	"boolean": "bool",
}

func solidityType(v any) string {
	t := strings.TrimSpace(str(v))
	if mapped, ok := solidityTypes[strings.ToLower(t)]; ok {
		return mapped
	}
	return t
}

// solidityParams renders a parameter list. mode is "function", "event" or "error";
// function parameters of reference types get a memory location unless one is given.
func solidityParams(v any, mode string) string {
	list, _ := v.([]any)
	parts := make([]string, 0, len(list))
	for _, item := range list {
		param, ok := item.(map[string]any)
		if !ok {
			continue
		}
		typ := solidityType(param["type"])
		decl := []string{typ}

		switch mode {
		case "event":
			if truthy(param["indexed"]) {
				decl = append(decl, "indexed")
			}
		case "function":
			if loc := str(param["location"]); loc != "" {
				decl = append(decl, loc)
			} else if needsLocation(typ) {
				decl = append(decl, "memory")
			}
		}

		if name := str(param["name"]); name != "" {
			decl = append(decl, name)
		}
		parts = append(parts, strings.Join(decl, " "))
	}
	return strings.Join(parts, ", ")
}

func needsLocation(typ string) bool {
	return typ == "string" || typ == "bytes" || strings.HasSuffix(typ, "]")
}
