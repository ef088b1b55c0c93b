package client

// TaskRequest is the body of every chat-style endpoint.
type TaskRequest struct {
	Task string `json:"task"`
}

// TaskResponse is the success body of a chat-style endpoint:
//
//	{"response": {"kwargs": {"content": "..."}}}
//
// Every level is optional; Content reports whether the path was present.
type TaskResponse struct {
	Response *AIMessage `json:"response,omitempty"`
}

// AIMessage is a serialized chat message as produced by the backend.
type AIMessage struct {
	LC     int      `json:"lc,omitempty"`
	Type   string   `json:"type,omitempty"`
	ID     []string `json:"id,omitempty"`
	Kwargs *Kwargs  `json:"kwargs,omitempty"`
}

// Kwargs holds the message fields.
type Kwargs struct {
	Content *string `json:"content,omitempty"`
}

// Content returns response.kwargs.content. It reports false when any level
// of the path is missing or the content is empty.
func (r *TaskResponse) Content() (string, bool) {
	if r == nil || r.Response == nil || r.Response.Kwargs == nil || r.Response.Kwargs.Content == nil {
		return "", false
	}
	c := *r.Response.Kwargs.Content
	return c, c != ""
}

// NewTaskResponse builds a response carrying content, in the serialized
// AIMessage shape.
func NewTaskResponse(content string) TaskResponse {
	return TaskResponse{Response: &AIMessage{
		LC:     1,
		Type:   "constructor",
		ID:     []string{"langchain_core", "messages", "AIMessage"},
		Kwargs: &Kwargs{Content: &content},
	}}
}

// UploadResponse is the body returned by the upload endpoint. The client only
// checks that a body exists.
type UploadResponse struct {
	Filename string `json:"filename,omitempty"`
	Size     int64  `json:"size,omitempty"`
	Message  string `json:"message,omitempty"`
}
