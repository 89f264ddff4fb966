package api

import (
	"net/http"

	"github.com/vytor/studycoach/internal/services"
)

type newSessionRequest struct {
	ClientID string `json:"clientId" validate:"required"`
	Title    string `json:"title" validate:"required,max=200"`
}

type renameChatRequest struct {
	ClientID string `json:"clientId" validate:"required"`
	ChatID   string `json:"chatId" validate:"required"`
	NewTitle string `json:"newTitle" validate:"required,max=200"`
}

type deleteChatRequest struct {
	ClientID string `json:"clientId" validate:"required"`
	ChatID   string `json:"chatId" validate:"required"`
}

type appendMessageRequest struct {
	ClientID string `json:"clientId" validate:"required"`
	ChatID   string `json:"chatId"`
	Title    string `json:"title" validate:"max=200"`
	Role     string `json:"role" validate:"omitempty,oneof=user assistant"`
	Message  string `json:"message" validate:"required"`
}

func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	var req newSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	session, err := s.ConversationService.NewSession(r.Context(), req.ClientID, req.Title)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Session ready",
		"chatId":  session.ID,
		"title":   session.Title,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	clientID, err := requiredQuery(r, "clientId")
	if err != nil {
		handleError(w, r, err)
		return
	}
	conversations, err := s.ConversationService.History(r.Context(), clientID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"conversations": conversations})
}

func (s *Server) handleConversation(w http.ResponseWriter, r *http.Request) {
	clientID, err := requiredQuery(r, "clientId")
	if err != nil {
		handleError(w, r, err)
		return
	}
	chatID, err := requiredQuery(r, "chatId")
	if err != nil {
		handleError(w, r, err)
		return
	}
	conv, err := s.ConversationService.Conversation(r.Context(), clientID, chatID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

func (s *Server) handleRenameChat(w http.ResponseWriter, r *http.Request) {
	var req renameChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.ConversationService.Rename(r.Context(), req.ClientID, req.ChatID, req.NewTitle); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleDeleteChat(w http.ResponseWriter, r *http.Request) {
	var req deleteChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.ConversationService.Delete(r.Context(), req.ClientID, req.ChatID); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleAppendMessage(w http.ResponseWriter, r *http.Request) {
	var req appendMessageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	conv, err := s.ConversationService.AppendMessage(r.Context(), req.ClientID, services.AppendMessageInput{
		ChatID:  req.ChatID,
		Title:   req.Title,
		Role:    req.Role,
		Content: req.Message,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"chatId":   conv.ID,
		"title":    conv.Title,
		"messages": conv.Messages,
	})
}
