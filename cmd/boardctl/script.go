package main

import (
	"fmt"
	"os"

	"github.com/wricardo/mcp-training/tileboard/game/engine"
	"gopkg.in/yaml.v3"
)

// Step is one scripted request. Exactly one field is set.
type Step struct {
	Place   *engine.PlacementRequest `yaml:"place,omitempty"`
	Remove  *engine.RemoveRequest    `yaml:"remove,omitempty"`
	Action  *engine.ActionRequest    `yaml:"action,omitempty"`
	Toggle  *engine.ToggleRequest    `yaml:"toggle,omitempty"`
	Observe *engine.ObserverSpec     `yaml:"observe,omitempty"`
}

// StepResult is the outcome of applying one Step.
type StepResult struct {
	Index   int
	Summary string
	Err     error
}

func (s Step) validate() error {
	set := 0
	for _, present := range []bool{s.Place != nil, s.Remove != nil, s.Action != nil, s.Toggle != nil, s.Observe != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("expected exactly one of place, remove, action, toggle or observe, got %d", set)
	}
	return nil
}

// LoadScript reads a YAML list of steps.
func LoadScript(path string) ([]Step, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var steps []Step
	if err := yaml.Unmarshal(data, &steps); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}

	for i, step := range steps {
		if err := step.validate(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return steps, nil
}

// ApplySteps runs every step against eng. A failed step is reported and the
// script continues, since the engine leaves its state unchanged on error.
func ApplySteps(eng *engine.GameEngine, steps []Step) []StepResult {
	results := make([]StepResult, 0, len(steps))
	for i, step := range steps {
		summary, err := applyStep(eng, step)
		results = append(results, StepResult{Index: i + 1, Summary: summary, Err: err})
	}
	return results
}

func applyStep(eng *engine.GameEngine, step Step) (string, error) {
	switch {
	case step.Place != nil:
		p := step.Place
		return fmt.Sprintf("place %s at (%d,%d)", p.ComponentID, p.Row, p.Col), eng.Place(p.ComponentID, p.Row, p.Col)

	case step.Remove != nil:
		return fmt.Sprintf("remove %s", step.Remove.ComponentID), eng.Remove(step.Remove.ComponentID)

	case step.Action != nil:
		a := step.Action
		result, err := eng.Dispatch(a.ComponentID, a.Action)
		if err != nil {
			return fmt.Sprintf("%s %s", a.Action, a.ComponentID), err
		}
		summary := fmt.Sprintf("%s %s: %s -> %s", a.Action, a.ComponentID, result.Transition.From, result.Transition.To)
		for _, n := range result.Notifications {
			summary += fmt.Sprintf("; %s notified %s", n.From, n.To)
		}
		return summary, nil

	case step.Toggle != nil:
		rs, err := eng.Toggle(step.Toggle.ComponentID)
		if err != nil {
			return fmt.Sprintf("toggle %s", step.Toggle.ComponentID), err
		}
		return fmt.Sprintf("toggle %s: now %s", rs.ID, rs.State), nil

	case step.Observe != nil:
		o := step.Observe
		_, err := eng.Observe(o.Subject, o.Observer)
		return fmt.Sprintf("%s observes %s", o.Observer, o.Subject), err
	}
	return "", fmt.Errorf("empty step")
}
