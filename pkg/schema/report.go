package schema

// EvaluationReportSchemaTextV1 describes the outcome of a configuration
// evaluation. A non-null error means the request was rejected and the
// remaining fields hold zero values.
const EvaluationReportSchemaTextV1 = `{
  "type": "record",
  "name": "EvaluationReportV1",
  "namespace": "solarcomp.evaluation",
  "fields": [
    {"name": "report_id", "type": "string"},
    {"name": "request_id", "type": "string"},
    {"name": "evaluated_at", "type": "string"},
    {"name": "error", "type": ["null", "string"], "default": null},
    {"name": "product", "type": "string"},
    {"name": "viable", "type": "boolean"},
    {
      "name": "violations",
      "type": {
        "type": "array",
        "items": {
          "type": "record",
          "name": "ViolationV1",
          "fields": [
            {"name": "rule", "type": "string"},
            {"name": "message", "type": "string"}
          ]
        }
      },
      "default": []
    },
    {"name": "notices", "type": {"type": "array", "items": "string"}, "default": []},
    {
      "name": "components",
      "type": {
        "type": "array",
        "items": {
          "type": "record",
          "name": "ComponentSummaryV1",
          "fields": [
            {"name": "name", "type": "string"},
            {"name": "category", "type": "string"},
            {"name": "price", "type": "string"},
            {"name": "summary", "type": "string"}
          ]
        }
      },
      "default": []
    },
    {
      "name": "metrics",
      "type": {
        "type": "record",
        "name": "MetricsV1",
        "fields": [
          {"name": "total_cost", "type": "string"},
          {"name": "total_weight", "type": "double"},
          {"name": "total_solar_power", "type": "double"},
          {"name": "total_controller_capacity", "type": "double"},
          {"name": "total_battery_capacity", "type": "double"},
          {"name": "max_system_power", "type": "double"},
          {"name": "total_appliance_power", "type": "double"},
          {"name": "controller_utilization", "type": ["null", "double"], "default": null},
          {"name": "estimated_runtime_hours", "type": ["null", "double"], "default": null}
        ]
      }
    },
    {"name": "recommendations", "type": {"type": "array", "items": "string"}, "default": []},
    {
      "name": "adjustments",
      "type": {
        "type": "array",
        "items": {
          "type": "record",
          "name": "AdjustmentV1",
          "fields": [
            {"name": "target", "type": "string"},
            {"name": "field", "type": "string"},
            {"name": "kind", "type": "string"},
            {"name": "message", "type": "string"}
          ]
        }
      },
      "default": []
    }
  ]
}`

type ViolationV1 struct {
	Rule    string `avro:"rule"`
	Message string `avro:"message"`
}

type ComponentSummaryV1 struct {
	Name     string `avro:"name"`
	Category string `avro:"category"`
	Price    string `avro:"price"`
	Summary  string `avro:"summary"`
}

type MetricsV1 struct {
	TotalCost               string   `avro:"total_cost"`
	TotalWeight             float64  `avro:"total_weight"`
	TotalSolarPower         float64  `avro:"total_solar_power"`
	TotalControllerCapacity float64  `avro:"total_controller_capacity"`
	TotalBatteryCapacity    float64  `avro:"total_battery_capacity"`
	MaxSystemPower          float64  `avro:"max_system_power"`
	TotalAppliancePower     float64  `avro:"total_appliance_power"`
	ControllerUtilization   *float64 `avro:"controller_utilization"`
	EstimatedRuntimeHours   *float64 `avro:"estimated_runtime_hours"`
}

type AdjustmentV1 struct {
	Target  string `avro:"target"`
	Field   string `avro:"field"`
	Kind    string `avro:"kind"`
	Message string `avro:"message"`
}

type EvaluationReportV1 struct {
	ReportID        string               `avro:"report_id"`
	RequestID       string               `avro:"request_id"`
	EvaluatedAt     string               `avro:"evaluated_at"`
	Error           *string              `avro:"error"`
	Product         string               `avro:"product"`
	Viable          bool                 `avro:"viable"`
	Violations      []ViolationV1        `avro:"violations"`
	Notices         []string             `avro:"notices"`
	Components      []ComponentSummaryV1 `avro:"components"`
	Metrics         MetricsV1            `avro:"metrics"`
	Recommendations []string             `avro:"recommendations"`
	Adjustments     []AdjustmentV1       `avro:"adjustments"`
}
