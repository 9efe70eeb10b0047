package extract

func stringField() map[string]any { return map[string]any{"type": "STRING"} }

var addressSchema = map[string]any{
	"type": "OBJECT",
	"properties": map[string]any{
		"street":  stringField(),
		"city":    stringField(),
		"state":   stringField(),
		"pincode": stringField(),
		"country": stringField(),
	},
}

var memberListSchema = map[string]any{
	"type": "ARRAY",
	"items": map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			"fullName":         stringField(),
			"nativeName":       stringField(),
			"gender":           stringField(),
			"dob":              stringField(),
			"maritalStatus":    stringField(),
			"bloodGroup":       stringField(),
			"education":        stringField(),
			"occupation":       stringField(),
			"gotra":            stringField(),
			"nativePlace":      stringField(),
			"mobile":           stringField(),
			"email":            stringField(),
			"relationToHead":   stringField(),
			"isHeadOfFamily":   map[string]any{"type": "BOOLEAN"},
			"familyGroupIndex": map[string]any{"type": "INTEGER"},
			"currentAddress":   addressSchema,
		},
		"required": []string{"fullName"},
	},
}

var nativeDetailsSchema = map[string]any{
	"type": "OBJECT",
	"properties": map[string]any{
		"fullName":       stringField(),
		"nativePlace":    stringField(),
		"occupation":     stringField(),
		"education":      stringField(),
		"currentAddress": stringField(),
		"gotra":          stringField(),
	},
}

var translationSchema = map[string]any{
	"type":       "OBJECT",
	"properties": map[string]any{"text": stringField()},
}
