package signal

// ActionDraft is one proposed action inside a GENERATE_ACTIONS payload.
type ActionDraft struct {
	Title       string `json:"title" jsonschema:"required,minLength=1"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority,omitempty" jsonschema:"enum=low,enum=medium,enum=high"`
	TaskType    string `json:"taskType,omitempty"`
}

// ActionsPayload is the body of a GENERATE_ACTIONS signal.
type ActionsPayload struct {
	Actions []ActionDraft `json:"actions" jsonschema:"required,minItems=1"`
}

// AssetPayload is the body of a GENERATE_ASSET signal.
type AssetPayload struct {
	Title    string `json:"title" jsonschema:"required,minLength=1"`
	Type     string `json:"type,omitempty" jsonschema:"enum=markdown,enum=code,enum=text"`
	Content  string `json:"content" jsonschema:"required,minLength=1"`
	ActionID string `json:"actionId,omitempty"`
}

// MeasurementDimension is one scored dimension of a measurement.
type MeasurementDimension struct {
	Name  string  `json:"name" jsonschema:"required,minLength=1"`
	Score float64 `json:"score" jsonschema:"required,minimum=1,maximum=10"`
	Notes string  `json:"notes,omitempty"`
}

// MeasurementPayload is the body of a STORE_MEASUREMENT signal.
type MeasurementPayload struct {
	Dimensions []MeasurementDimension `json:"dimensions" jsonschema:"required,minItems=1"`
	Notes      string                 `json:"notes,omitempty"`
}

// DefaultSchemas maps the built-in kinds to their payload shapes.
func DefaultSchemas() map[Kind]any {
	return map[Kind]any{
		KindGenerateActions:  &ActionsPayload{},
		KindGenerateAsset:    &AssetPayload{},
		KindStoreMeasurement: &MeasurementPayload{},
	}
}
