package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/djdv/go-vmsim"
)

// scenario is the import/export format of a simulation:
// everything needed to re-derive its timeline.
type scenario struct {
	Config          vmsim.Config    `json:"config"`
	Processes       []vmsim.Process `json:"processes"`
	ReferenceString string          `json:"referenceString"`
}

func loadScenario(path string) (scenario, error) {
	file, err := os.Open(path)
	if err != nil {
		return scenario{}, err
	}
	defer file.Close()
	return decodeScenario(file)
}

func decodeScenario(reader io.Reader) (scenario, error) {
	var s scenario
	decoder := json.NewDecoder(reader)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&s); err != nil {
		return scenario{}, fmt.Errorf("decoding scenario: %w", err)
	}
	return s, nil
}

func (s scenario) encode(writer io.Writer) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "\t")
	return encoder.Encode(s)
}

func (s scenario) trace() ([]vmsim.Reference, error) {
	return vmsim.ParseTrace(s.ReferenceString)
}

func (s scenario) run(options ...vmsim.Option) (vmsim.Timeline, error) {
	trace, err := s.trace()
	if err != nil {
		return nil, err
	}
	return vmsim.Run(s.Config, s.Processes, trace, options...)
}

// exampleScenario is written by `vmsim init`.
func exampleScenario() scenario {
	return scenario{
		Config: vmsim.DefaultConfig(),
		Processes: []vmsim.Process{
			{ID: 1, Name: "P1", PageCount: 6},
		},
		ReferenceString: "1 2 3 4 1 2 5 1 2 3 4 5",
	}
}
