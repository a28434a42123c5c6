package domain

import (
	"github.com/pkg/errors"
)

// AR data contracts shared with the WebXR front-end. The server validates
// and serves them; tracking and rendering happen in the browser.

// ARSessionState AR session lifecycle state
type ARSessionState string

const (
	ARSessionInactive ARSessionState = "inactive"
	ARSessionStarting ARSessionState = "starting"
	ARSessionActive   ARSessionState = "active"
	ARSessionEnding   ARSessionState = "ending"
	ARSessionError    ARSessionState = "error"
)

var arSessionTransitions = map[ARSessionState][]ARSessionState{
	ARSessionInactive: {ARSessionStarting},
	ARSessionStarting: {ARSessionActive, ARSessionEnding},
	ARSessionActive:   {ARSessionEnding},
	ARSessionEnding:   {ARSessionInactive},
	ARSessionError:    {ARSessionInactive},
}

func ParseARSessionState(s string) (ARSessionState, error) {
	state := ARSessionState(s)
	if _, ok := arSessionTransitions[state]; !ok {
		return "", errors.Errorf("unknown AR session state %q", s)
	}
	return state, nil
}

// CanTransitionTo reports whether the session may move to next. Any state
// may fail into error.
func (s ARSessionState) CanTransitionTo(next ARSessionState) bool {
	if next == ARSessionError {
		_, known := arSessionTransitions[s]
		return known && s != ARSessionError
	}
	for _, allowed := range arSessionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PlacementState object placement state during an AR session
type PlacementState string

const (
	PlacementSearching PlacementState = "searching" // looking for a surface
	PlacementReady     PlacementState = "ready"     // surface found
	PlacementPlaced    PlacementState = "placed"
	PlacementMoving    PlacementState = "moving" // being repositioned
)

var placementTransitions = map[PlacementState][]PlacementState{
	PlacementSearching: {PlacementReady},
	PlacementReady:     {PlacementPlaced, PlacementSearching},
	PlacementPlaced:    {PlacementMoving, PlacementSearching},
	PlacementMoving:    {PlacementPlaced, PlacementSearching},
}

func ParsePlacementState(s string) (PlacementState, error) {
	state := PlacementState(s)
	if _, ok := placementTransitions[state]; !ok {
		return "", errors.Errorf("unknown placement state %q", s)
	}
	return state, nil
}

func (s PlacementState) CanTransitionTo(next PlacementState) bool {
	for _, allowed := range placementTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type Quaternion struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// ARPlacement transform of a placed model
type ARPlacement struct {
	Position  Vector3    `json:"position"`
	Rotation  Quaternion `json:"rotation"`
	Scale     Vector3    `json:"scale"`
	Timestamp int64      `json:"timestamp"` // unix millis
}

// WebXRSupport browser capability report
type WebXRSupport struct {
	IsSupported   bool   `json:"isSupported"`
	IsARSupported bool   `json:"isARSupported"`
	ErrorMessage  string `json:"errorMessage,omitempty"`
}

// ARSessionConfig features requested when the front-end starts a session.
// DOMOverlay is the id of the overlay root element.
type ARSessionConfig struct {
	RequiredFeatures []string `json:"requiredFeatures"`
	OptionalFeatures []string `json:"optionalFeatures"`
	DOMOverlay       string   `json:"domOverlay,omitempty"`
}

func DefaultARSessionConfig() ARSessionConfig {
	return ARSessionConfig{
		RequiredFeatures: []string{"hit-test"},
		OptionalFeatures: []string{"dom-overlay", "local-floor"},
		DOMOverlay:       "ar-overlay",
	}
}

type GestureType string

const (
	GestureTap   GestureType = "tap"
	GestureDrag  GestureType = "drag"
	GesturePinch GestureType = "pinch"
)

type TouchPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TouchGestureData gesture reported by the front-end
type TouchGestureData struct {
	Type    GestureType  `json:"type"`
	DeltaX  *float64     `json:"deltaX,omitempty"`
	DeltaY  *float64     `json:"deltaY,omitempty"`
	Scale   *float64     `json:"scale,omitempty"` // pinch only
	Touches []TouchPoint `json:"touches"`
}

func (g TouchGestureData) Validate() error {
	switch g.Type {
	case GestureTap, GestureDrag:
		if len(g.Touches) == 0 {
			return errors.Errorf("%s gesture needs at least one touch", g.Type)
		}
	case GesturePinch:
		if len(g.Touches) < 2 {
			return errors.New("pinch gesture needs two touches")
		}
		if g.Scale == nil || *g.Scale <= 0 {
			return errors.New("pinch gesture needs a positive scale")
		}
	default:
		return errors.Errorf("unknown gesture type %q", g.Type)
	}
	return nil
}

// ModelLoadProgress loading state of a 3D model
type ModelLoadProgress struct {
	Loading  bool    `json:"loading"`
	Progress float64 `json:"progress"` // 0-100
	Error    string  `json:"error,omitempty"`
}

func (m ModelLoadProgress) Validate() error {
	if m.Progress < 0 || m.Progress > 100 {
		return errors.Errorf("progress %v out of range 0-100", m.Progress)
	}
	return nil
}
