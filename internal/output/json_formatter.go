package output

import (
	"encoding/json"

	"github.com/finbrook/dscrgo/internal/service"
)

// JSONFormatter emits the evaluation as JSON for downstream tooling.
type JSONFormatter struct {
	Pretty bool
}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(eval *service.Evaluation) ([]byte, error) {
	return j.marshal(eval)
}

// FormatBatch emits one JSON array holding every evaluation.
func (j JSONFormatter) FormatBatch(evals []*service.Evaluation) ([]byte, error) {
	return j.marshal(evals)
}

func (j JSONFormatter) marshal(v any) ([]byte, error) {
	if j.Pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
