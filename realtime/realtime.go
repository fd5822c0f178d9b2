package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/altoai/alto-go"
	"github.com/altoai/alto-go/observability"
)

// Event is a server-side session event. Action names the event kind (for
// example a recognition result or an agent reply) and Data holds its
// payload, whose shape varies per action.
type Event struct {
	Action string
	Data   json.RawMessage
}

// Callback receives session lifecycle notifications and events. Methods are
// invoked from the session's read goroutine; implementations must not block
// for long or the socket read stalls.
type Callback interface {
	// OnOpen fires once the websocket connection is established.
	OnOpen()
	// OnStarted fires when the service acknowledges the session, carrying
	// the server-assigned task ID.
	OnStarted(taskID string)
	// OnEvent delivers every in-session server event.
	OnEvent(event Event)
	// OnStopped fires when the service has finalized the session.
	OnStopped()
	// OnError reports a service-side failure.
	OnError(code string, message string)
	// OnClose fires when the connection goes away, with the websocket close
	// code and message.
	OnClose(code int, message string)
}

// Session is one live audio conversation over a websocket.
type Session struct {
	model           string
	callback        Callback
	apiKey          string
	websocketURL    string
	workspace       string
	appID           string
	dataID          string
	audioFormat     string
	sampleRate      int
	maxEndSilence   int
	extraParameters map[string]any

	taskIDMu sync.Mutex
	taskID   string
	conn     *websocket.Conn
	writeMu  sync.Mutex
	running  atomic.Bool
}

// NewSession creates a session for the given model with defaults from the
// environment. The session is inert until Start is called.
func NewSession(model string, callback Callback) *Session {
	return &Session{
		model:        model,
		callback:     callback,
		apiKey:       alto.APIKey(),
		websocketURL: alto.WebsocketURL(),
		workspace:    alto.Workspace(),
		audioFormat:  "pcm",
		sampleRate:   16000,
		taskID:       newTaskID(),
	}
}

// WithAPIKey sets the API key used for authenticating the connection.
func (session *Session) WithAPIKey(apiKey string) *Session {
	session.apiKey = apiKey
	return session
}

// WithWebsocketURL overrides the default websocket endpoint.
func (session *Session) WithWebsocketURL(websocketURL string) *Session {
	session.websocketURL = websocketURL
	return session
}

// WithWorkspace scopes the session to the given workspace.
func (session *Session) WithWorkspace(workspaceID string) *Session {
	session.workspace = workspaceID
	return session
}

// WithAppID targets a configured application.
func (session *Session) WithAppID(appID string) *Session {
	session.appID = appID
	return session
}

// WithDataID tags the session's uploaded audio for later retrieval.
func (session *Session) WithDataID(dataID string) *Session {
	session.dataID = dataID
	return session
}

// WithAudioFormat sets the uploaded audio encoding (default "pcm").
func (session *Session) WithAudioFormat(format string) *Session {
	session.audioFormat = format
	return session
}

// WithSampleRate sets the uploaded audio sample rate in Hz (default 16000).
func (session *Session) WithSampleRate(sampleRate int) *Session {
	session.sampleRate = sampleRate
	return session
}

// WithMaxEndSilence sets the trailing silence, in milliseconds, after which
// the service considers an utterance finished.
func (session *Session) WithMaxEndSilence(milliseconds int) *Session {
	session.maxEndSilence = milliseconds
	return session
}

// WithParameter attaches an extra session parameter passed through to the
// service unchanged.
func (session *Session) WithParameter(key string, value any) *Session {
	if session.extraParameters == nil {
		session.extraParameters = map[string]any{}
	}
	session.extraParameters[key] = value
	return session
}

// TaskID returns the session's task identifier. The service may replace the
// client-generated ID in its start acknowledgment, so the value is guarded
// against the read goroutine.
func (session *Session) TaskID() string {
	session.taskIDMu.Lock()
	defer session.taskIDMu.Unlock()
	return session.taskID
}

func (session *Session) setTaskID(taskID string) {
	session.taskIDMu.Lock()
	defer session.taskIDMu.Unlock()
	session.taskID = taskID
}

// Start dials the websocket endpoint, spawns the read loop, and sends the
// session-opening directive. It returns once the directive is on the wire;
// the service acknowledgment arrives via Callback.OnStarted.
func (session *Session) Start(ctx context.Context) error {
	if session.callback == nil {
		return fmt.Errorf("callback is required")
	}
	if session.model == "" {
		return fmt.Errorf("model is required")
	}
	if session.apiKey == "" {
		return fmt.Errorf("API key is not set")
	}
	if session.running.Load() {
		return fmt.Errorf("session already started")
	}

	requestHeader := http.Header{}
	requestHeader.Set("Authorization", "Bearer "+session.apiKey)
	requestHeader.Set("User-Agent", "alto-go/"+alto.Version)
	if session.workspace != "" {
		requestHeader.Set("X-Alto-Workspace", session.workspace)
	}

	conn, httpResponse, err := websocket.DefaultDialer.DialContext(ctx, session.websocketURL, requestHeader)
	if err != nil {
		if httpResponse != nil {
			return fmt.Errorf("websocket dial failed (status %d): %w", httpResponse.StatusCode, err)
		}
		return fmt.Errorf("websocket dial failed: %w", err)
	}
	session.conn = conn
	session.running.Store(true)
	session.callback.OnOpen()

	if span := observability.SpanFromContext(ctx); span != nil {
		span.AddEvent(observability.EventStreamStart,
			observability.String(observability.AttrService, "realtime"),
			observability.String(observability.AttrModel, session.model),
			observability.String(observability.AttrTaskID, session.TaskID()),
		)
	}

	go session.readLoop(ctx)

	if err := session.sendFrame(session.startFrame()); err != nil {
		session.Close()
		return fmt.Errorf("failed to send start directive: %w", err)
	}
	return nil
}

// SendAudio pushes one chunk of encoded audio to the service.
func (session *Session) SendAudio(audio []byte) error {
	if !session.running.Load() {
		return fmt.Errorf("session is not running")
	}
	session.writeMu.Lock()
	defer session.writeMu.Unlock()
	return session.conn.WriteMessage(websocket.BinaryMessage, audio)
}

// Stop asks the service to finalize the session. Remaining events, then
// OnStopped, arrive via the callback; the connection stays open until the
// service closes it or Close is called.
func (session *Session) Stop() error {
	if !session.running.Load() {
		session.callback.OnClose(websocket.CloseGoingAway, "websocket is not connected")
		return fmt.Errorf("session is not running")
	}
	return session.sendFrame(session.stopFrame())
}

// Close tears down the websocket connection. Safe to call more than once.
func (session *Session) Close() error {
	if !session.running.Swap(false) {
		return nil
	}
	return session.conn.Close()
}

func (session *Session) sendFrame(request frame) error {
	encoded, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}
	session.writeMu.Lock()
	defer session.writeMu.Unlock()
	return session.conn.WriteMessage(websocket.TextMessage, encoded)
}

// readLoop dispatches incoming frames to the callback until the connection
// closes.
func (session *Session) readLoop(ctx context.Context) {
	observer := observability.ObserverFromContext(ctx)
	for {
		messageType, message, err := session.conn.ReadMessage()
		if err != nil {
			session.running.Store(false)
			closeCode := websocket.CloseNormalClosure
			closeMessage := "websocket is closed"
			if closeErr, ok := err.(*websocket.CloseError); ok {
				closeCode = closeErr.Code
				closeMessage = closeErr.Text
			}
			session.callback.OnClose(closeCode, closeMessage)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var incoming frame
		if err := json.Unmarshal(message, &incoming); err != nil {
			if observer != nil {
				observer.Warn(ctx, "discarding unparseable frame", observability.Error(err))
			}
			session.callback.OnError("DecodeError", fmt.Sprintf("unparseable frame: %v", err))
			continue
		}
		session.dispatch(incoming)
	}
}

func (session *Session) dispatch(incoming frame) {
	switch incoming.Header.Event {
	case eventTaskStarted:
		if incoming.Header.TaskID != "" {
			session.setTaskID(incoming.Header.TaskID)
		}
		session.callback.OnStarted(session.TaskID())
		return
	case eventTaskFailed:
		session.callback.OnError(incoming.Header.ErrorCode, incoming.Header.ErrorMessage)
		return
	case eventTaskFinished:
		session.callback.OnStopped()
		return
	}

	if incoming.Payload == nil || len(incoming.Payload.Output) == 0 {
		return
	}
	var output struct {
		Action string `json:"action"`
	}
	if err := json.Unmarshal(incoming.Payload.Output, &output); err != nil {
		return
	}
	session.callback.OnEvent(Event{Action: output.Action, Data: incoming.Payload.Output})
}
