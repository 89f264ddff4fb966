package models

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Conversation struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Messages []Message `json:"messages"`
}

type ConversationSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ChatBucket holds every conversation of one client. Order lists conversation
// ids in creation order.
type ChatBucket struct {
	ClientID      string                   `json:"client_id"`
	Conversations map[string]*Conversation `json:"conversations"`
	Order         []string                 `json:"order"`
}

// NewChatBucket returns an empty bucket for clientID.
func NewChatBucket(clientID string) *ChatBucket {
	return &ChatBucket{
		ClientID:      clientID,
		Conversations: make(map[string]*Conversation),
	}
}

// Summaries returns the conversations in creation order, skipping ids that no
// longer resolve.
func (b *ChatBucket) Summaries() []ConversationSummary {
	out := make([]ConversationSummary, 0, len(b.Order))
	for _, id := range b.Order {
		c, ok := b.Conversations[id]
		if !ok {
			continue
		}
		out = append(out, ConversationSummary{ID: c.ID, Title: c.Title})
	}
	return out
}

// FindByTitle returns the first conversation, in creation order, titled title.
func (b *ChatBucket) FindByTitle(title string) *Conversation {
	for _, id := range b.Order {
		if c, ok := b.Conversations[id]; ok && c.Title == title {
			return c
		}
	}
	return nil
}

// Add appends c to the bucket.
func (b *ChatBucket) Add(c *Conversation) {
	if b.Conversations == nil {
		b.Conversations = make(map[string]*Conversation)
	}
	b.Conversations[c.ID] = c
	b.Order = append(b.Order, c.ID)
}

// Remove deletes the conversation id. It reports whether it existed.
func (b *ChatBucket) Remove(id string) bool {
	if _, ok := b.Conversations[id]; !ok {
		return false
	}
	delete(b.Conversations, id)
	order := b.Order[:0]
	for _, o := range b.Order {
		if o != id {
			order = append(order, o)
		}
	}
	b.Order = order
	return true
}
