package realtime

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// Websocket task actions.
const (
	actionRunTask    = "run-task"
	actionFinishTask = "finish-task"
)

// Session directives carried inside the payload input.
const (
	directiveStart = "start"
	directiveStop  = "stop"
)

// Server events carried in the frame header.
const (
	eventTaskStarted  = "task-started"
	eventTaskFinished = "task-finished"
	eventTaskFailed   = "task-failed"
)

// frame is the JSON envelope exchanged over the websocket. Requests carry
// Action, responses carry Event.
type frame struct {
	Header  frameHeader   `json:"header"`
	Payload *framePayload `json:"payload,omitempty"`
}

type frameHeader struct {
	Action       string `json:"action,omitempty"`
	TaskID       string `json:"task_id,omitempty"`
	Streaming    string `json:"streaming,omitempty"`
	Event        string `json:"event,omitempty"`
	ErrorCode    string `json:"error_code,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

type framePayload struct {
	Model      string         `json:"model,omitempty"`
	Input      *payloadInput  `json:"input,omitempty"`
	Parameters map[string]any `json:"parameters,omitempty"`
	// Output carries server-side event data; its shape varies per event.
	Output json.RawMessage `json:"output,omitempty"`
}

type payloadInput struct {
	WorkspaceID string `json:"workspace_id,omitempty"`
	AppID       string `json:"app_id,omitempty"`
	Directive   string `json:"directive,omitempty"`
	DataID      string `json:"data_id,omitempty"`
}

// newTaskID returns a fresh 32-character hex task identifier.
func newTaskID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// startFrame builds the session-opening request.
func (session *Session) startFrame() frame {
	parameters := map[string]any{
		"format":     session.audioFormat,
		"sampleRate": session.sampleRate,
	}
	if session.maxEndSilence > 0 {
		parameters["maxEndSilence"] = session.maxEndSilence
	}
	for key, value := range session.extraParameters {
		parameters[key] = value
	}
	return frame{
		Header: frameHeader{
			Action:    actionRunTask,
			TaskID:    session.TaskID(),
			Streaming: "duplex",
		},
		Payload: &framePayload{
			Model: session.model,
			Input: &payloadInput{
				WorkspaceID: session.workspace,
				AppID:       session.appID,
				Directive:   directiveStart,
				DataID:      session.dataID,
			},
			Parameters: parameters,
		},
	}
}

// stopFrame builds the session-finalizing request.
func (session *Session) stopFrame() frame {
	return frame{
		Header: frameHeader{
			Action:    actionFinishTask,
			TaskID:    session.TaskID(),
			Streaming: "duplex",
		},
		Payload: &framePayload{
			Input: &payloadInput{
				AppID:     session.appID,
				Directive: directiveStop,
			},
		},
	}
}
