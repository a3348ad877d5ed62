package llm

import "context"

// MockClient returns a canned structured reply, useful for local development
// without an API key and for tests.
type MockClient struct {
	// Reply overrides the canned output when non-empty.
	Reply string
	// Err, when set, makes every call fail.
	Err error

	// Calls records the message lists passed to Complete.
	Calls [][]Message
}

func NewMockClient() *MockClient {
	return &MockClient{}
}

const mockReply = `{"message":"I'm running in offline mode, so here's some general advice: most vegetables want full sun, steady water, and well-drained soil.","knowledgeCards":[{"title":"Getting Started","content":["Check your frost dates","Test your soil","Start small"],"type":"list","icon":"fa-seedling"}]}`

func (m *MockClient) Complete(_ context.Context, messages []Message) (string, error) {
	m.Calls = append(m.Calls, messages)

	if m.Err != nil {
		return "", m.Err
	}
	if m.Reply != "" {
		return m.Reply, nil
	}
	return mockReply, nil
}
