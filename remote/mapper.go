package remote

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/agentboard/backend/domain"
)

// The orchestrator's data model is a flat message stream per session:
// no run concept, no per-run status. These mappers translate its
// shapes into the canonical model, and SynthesizeRun invents the one
// enclosing run the canonical model requires. Any multi-run or status
// semantics the orchestrator may have internally are discarded.

// MapSession maps a raw orchestrator session object to the canonical
// session shape. The identifier is read from session_id with id as a
// fallback; the display name from metadata.name falling back to a
// top-level name.
func MapSession(raw map[string]interface{}) domain.Session {
	id := stringValue(raw["session_id"])
	if id == "" {
		id = stringValue(raw["id"])
	}

	var name string
	if metadata, ok := raw["metadata"].(map[string]interface{}); ok {
		name, _ = metadata["name"].(string)
	}
	if name == "" {
		name, _ = raw["name"].(string)
	}

	return domain.Session{
		ID:        id,
		Name:      name,
		CreatedAt: parseTime(raw["created_at"]),
		UpdatedAt: parseTime(raw["updated_at"]),
	}
}

// MapMessage maps a raw orchestrator message to the canonical message
// shape. Messages with no run_id are attached to the session itself,
// matching the run SynthesizeRun invents for that session.
func MapMessage(raw map[string]interface{}, sessionID string) domain.Message {
	id := stringValue(raw["id"])
	if id == "" {
		id = stringValue(raw["message_id"])
	}

	var content string
	if v, ok := raw["content"]; ok {
		if s, ok := v.(string); ok {
			content = s
		} else {
			data, _ := json.Marshal(v)
			content = string(data)
		}
	}

	source := stringValue(raw["role"])
	if source == "" {
		source = stringValue(raw["sender"])
	}
	if source == "" {
		source = "assistant"
	}

	runID := stringValue(raw["run_id"])
	if runID == "" {
		runID = sessionID
	}

	return domain.Message{
		ID:        id,
		SessionID: sessionID,
		RunID:     runID,
		Config:    domain.MessageConfig{Source: source, Content: content},
		CreatedAt: parseTime(raw["created_at"]),
		UpdatedAt: parseTime(raw["updated_at"]),
	}
}

// SynthesizeRun wraps a session's mapped messages in a single run:
// created_at and task content come from the first message, status is
// always COMPLETE regardless of actual execution state.
func SynthesizeRun(sessionID string, messages []domain.Message) domain.RunEntry {
	createdAt := time.Now().UTC()
	var taskContent string
	if len(messages) > 0 {
		if !messages[0].CreatedAt.IsZero() {
			createdAt = messages[0].CreatedAt
		}
		taskContent = messages[0].Config.Content
	}
	if messages == nil {
		messages = []domain.Message{}
	}

	return domain.RunEntry{
		ID:         sessionID,
		CreatedAt:  createdAt,
		Status:     domain.RunStatusComplete,
		Task:       &domain.TaskMessage{Source: "user", Content: taskContent},
		TeamResult: nil,
		Messages:   messages,
	}
}

// SessionsFromResponse extracts and maps the session list from a list
// response, which nests it under data.sessions or a top-level sessions.
func SessionsFromResponse(data map[string]interface{}) []domain.Session {
	raw := listField(data, "sessions")
	sessions := make([]domain.Session, 0, len(raw))
	for _, item := range raw {
		if obj, ok := item.(map[string]interface{}); ok {
			sessions = append(sessions, MapSession(obj))
		}
	}
	return sessions
}

// SessionFromResponse extracts and maps a single session from a get or
// update response: data.session, a top-level session, or the body itself.
func SessionFromResponse(data map[string]interface{}) domain.Session {
	if obj := objectField(data, "session"); obj != nil {
		return MapSession(obj)
	}
	return MapSession(data)
}

// CreatedSession builds the canonical session from a create response.
// The issued identifier is read from session_id, then id, then
// data.session_id; the name falls back to the response metadata when
// the request carried none.
func CreatedSession(data map[string]interface{}, requestedName string) domain.Session {
	id := stringValue(data["session_id"])
	if id == "" {
		id = stringValue(data["id"])
	}
	if id == "" {
		if nested, ok := data["data"].(map[string]interface{}); ok {
			id = stringValue(nested["session_id"])
		}
	}

	name := requestedName
	if name == "" {
		if metadata, ok := data["metadata"].(map[string]interface{}); ok {
			name, _ = metadata["name"].(string)
		}
	}

	return domain.Session{
		ID:        id,
		Name:      name,
		CreatedAt: parseTime(data["created_at"]),
	}
}

// MessagesFromResponse extracts and maps a session's message stream,
// nested under messages or data.messages.
func MessagesFromResponse(data map[string]interface{}, sessionID string) []domain.Message {
	raw := listField(data, "messages")
	messages := make([]domain.Message, 0, len(raw))
	for _, item := range raw {
		if obj, ok := item.(map[string]interface{}); ok {
			messages = append(messages, MapMessage(obj, sessionID))
		}
	}
	return messages
}

// listField reads key as a JSON array from the body, looking at the
// top level first and then under a data wrapper.
func listField(data map[string]interface{}, key string) []interface{} {
	if list, ok := data[key].([]interface{}); ok {
		return list
	}
	if nested, ok := data["data"].(map[string]interface{}); ok {
		if list, ok := nested[key].([]interface{}); ok {
			return list
		}
	}
	return nil
}

// objectField reads key as a JSON object, preferring the data wrapper
// to match the envelope the orchestrator emits on single-item reads.
func objectField(data map[string]interface{}, key string) map[string]interface{} {
	if nested, ok := data["data"].(map[string]interface{}); ok {
		if obj, ok := nested[key].(map[string]interface{}); ok {
			return obj
		}
	}
	if obj, ok := data[key].(map[string]interface{}); ok {
		return obj
	}
	return nil
}

// stringValue renders a JSON scalar as a string. Numeric identifiers
// from the orchestrator arrive as float64 and are rendered without a
// fractional part when integral.
func stringValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case nil:
		return ""
	default:
		data, _ := json.Marshal(val)
		return string(data)
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// parseTime parses an orchestrator timestamp leniently, returning the
// zero time when the value is absent or unparseable.
func parseTime(v interface{}) time.Time {
	s, ok := v.(string)
	if !ok || s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
