package schema

// ConfigurationRequestSchemaTextV1 describes a configuration evaluation
// request. Overrides travel as optional strings and are coerced by the
// configuration builder; voltage lists use the "12, 24" form.
const ConfigurationRequestSchemaTextV1 = `{
  "type": "record",
  "name": "ConfigurationRequestV1",
  "namespace": "solarcomp.evaluation",
  "fields": [
    {"name": "request_id", "type": "string"},
    {
      "name": "product",
      "type": {
        "type": "record",
        "name": "ProductChoiceV1",
        "fields": [
          {"name": "name", "type": "string"},
          {"name": "voltage_type", "type": ["null", "string"], "default": null},
          {"name": "voltage_rating", "type": ["null", "string"], "default": null},
          {"name": "power_watts", "type": ["null", "string"], "default": null},
          {"name": "price_adjustment", "type": ["null", "string"], "default": null},
          {"name": "weight", "type": ["null", "string"], "default": null}
        ]
      }
    },
    {
      "name": "components",
      "type": {
        "type": "array",
        "items": {
          "type": "record",
          "name": "ComponentChoiceV1",
          "fields": [
            {"name": "name", "type": "string"},
            {"name": "price", "type": ["null", "string"], "default": null},
            {"name": "rating", "type": ["null", "string"], "default": null},
            {"name": "capacity", "type": ["null", "string"], "default": null},
            {"name": "c_rating", "type": ["null", "string"], "default": null}
          ]
        }
      },
      "default": []
    }
  ]
}`

type ProductChoiceV1 struct {
	Name            string  `avro:"name"`
	VoltageType     *string `avro:"voltage_type"`
	VoltageRating   *string `avro:"voltage_rating"`
	PowerWatts      *string `avro:"power_watts"`
	PriceAdjustment *string `avro:"price_adjustment"`
	Weight          *string `avro:"weight"`
}

type ComponentChoiceV1 struct {
	Name     string  `avro:"name"`
	Price    *string `avro:"price"`
	Rating   *string `avro:"rating"`
	Capacity *string `avro:"capacity"`
	CRating  *string `avro:"c_rating"`
}

type ConfigurationRequestV1 struct {
	RequestID  string              `avro:"request_id"`
	Product    ProductChoiceV1     `avro:"product"`
	Components []ComponentChoiceV1 `avro:"components"`
}
