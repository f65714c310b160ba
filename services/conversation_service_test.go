package services

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/techagentng/messaging/models"
)

func TestCreateConversationAddsCreator(t *testing.T) {
	f := newFakeData()
	creator := f.addUser(models.RoleGuest)
	friend := f.addUser(models.RoleHost)

	svc := NewConversationService(f.store(), NewAccessPolicy())
	conv, apiErr := svc.CreateConversation(creator, &models.CreateConversationRequest{
		ParticipantIDs: []uuid.UUID{friend.ID},
	})
	if apiErr != nil {
		t.Fatalf("unexpected error: %v", apiErr)
	}

	if !conv.HasParticipant(creator.ID) {
		t.Error("creator must be a participant even when omitted from the request")
	}
	if !conv.HasParticipant(friend.ID) {
		t.Error("requested participant missing")
	}
	if len(conv.Participants) != 2 {
		t.Fatalf("expected 2 participants, got %d", len(conv.Participants))
	}
}

func TestCreateConversationRejectsUnknownParticipant(t *testing.T) {
	f := newFakeData()
	creator := f.addUser(models.RoleGuest)

	svc := NewConversationService(f.store(), NewAccessPolicy())
	_, apiErr := svc.CreateConversation(creator, &models.CreateConversationRequest{
		ParticipantIDs: []uuid.UUID{uuid.New()},
	})
	if apiErr == nil || apiErr.Status != http.StatusBadRequest {
		t.Fatalf("expected validation failure, got %v", apiErr)
	}
}

func TestGetConversationEnforcesParticipation(t *testing.T) {
	f := newFakeData()
	member := f.addUser(models.RoleGuest)
	outsider := f.addUser(models.RoleGuest)
	conv := f.addConversation(member)

	svc := NewConversationService(f.store(), NewAccessPolicy())
	if _, apiErr := svc.GetConversation(member, conv.ID); apiErr != nil {
		t.Fatalf("participant should read their conversation, got %v", apiErr)
	}
	if _, apiErr := svc.GetConversation(outsider, conv.ID); apiErr == nil || apiErr.Status != http.StatusForbidden {
		t.Fatalf("outsider should be forbidden, got %v", apiErr)
	}
	if _, apiErr := svc.GetConversation(member, uuid.New()); apiErr == nil || apiErr.Status != http.StatusNotFound {
		t.Fatalf("unknown conversation should be not found, got %v", apiErr)
	}
}
